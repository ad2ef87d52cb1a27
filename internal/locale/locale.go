// Package locale manages the UI language preference and the localized
// order status messages.
package locale

import (
	"gofresh/internal/model"

	"golang.org/x/text/language"
)

// Supported language codes.
const (
	Korean   = "ko"
	English  = "en"
	Chinese  = "zh"
	Japanese = "ja"

	Default = Korean
)

// Language describes a selectable UI language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var languages = []Language{
	{Code: Korean, Name: "한국어"},
	{Code: English, Name: "English"},
	{Code: Chinese, Name: "中文"},
	{Code: Japanese, Name: "日本語"},
}

// The first tag is the matcher's fallback.
var matcher = language.NewMatcher([]language.Tag{
	language.Korean,
	language.English,
	language.Chinese,
	language.Japanese,
})

// Languages returns the selectable languages, default first.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Match resolves a BCP 47 code such as "en-US" or "ja" to a supported code.
func Match(code string) (string, error) {
	if code == "" {
		return "", model.ErrUnsupportedLanguage
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", model.ErrUnsupportedLanguage
	}

	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", model.ErrUnsupportedLanguage
	}
	return languages[idx].Code, nil
}
