package locale

import (
	"context"
	"sync"

	"gofresh/internal/metrics"
	"gofresh/internal/store"

	"github.com/rs/zerolog"
)

// Preferences holds the selected UI language, persisted under the language key.
type Preferences struct {
	mu     sync.RWMutex
	lang   string
	store  *store.BestEffort
	logger zerolog.Logger
}

// NewPreferences creates preferences set to the default language.
func NewPreferences(s store.Store, m *metrics.Metrics, logger zerolog.Logger) *Preferences {
	logger = logger.With().Str("component", "locale").Logger()
	return &Preferences{
		lang:   Default,
		store:  store.NewBestEffort(s, m, logger),
		logger: logger,
	}
}

// Load restores the persisted language. Unknown codes fall back to the default.
func (p *Preferences) Load(ctx context.Context) {
	var code string
	if !p.store.Load(ctx, store.KeyLanguage, &code) {
		return
	}

	lang, err := Match(code)
	if err != nil {
		p.logger.Warn().Str("language", code).Msg("ignoring unsupported persisted language")
		return
	}

	p.mu.Lock()
	p.lang = lang
	p.mu.Unlock()
}

// Get returns the selected language code.
func (p *Preferences) Get() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lang
}

// Set selects a language and returns the supported code it resolved to.
func (p *Preferences) Set(ctx context.Context, code string) (string, error) {
	lang, err := Match(code)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lang = lang
	p.store.Save(ctx, store.KeyLanguage, lang)

	p.logger.Info().Str("language", lang).Msg("language changed")
	return lang, nil
}
