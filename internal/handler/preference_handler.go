package handler

import (
	"context"
	"net/http"

	"gofresh/internal/locale"
	"gofresh/internal/model"
	"gofresh/internal/service"

	"github.com/rs/zerolog"
)

// Language is the language preference as seen by the HTTP layer.
type Language interface {
	Get() string
	Set(ctx context.Context, code string) (string, error)
}

// LanguageResponse is the selected language and the choices.
type LanguageResponse struct {
	Language  string            `json:"language"`
	Languages []locale.Language `json:"languages"`
}

// SetLanguageRequest is the body of PUT /api/language.
type SetLanguageRequest struct {
	Language string `json:"language"`
}

// NotificationsResponse is the notification list with its unread count.
type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
}

// UnreadCountResponse is the body of GET /api/notifications/unread.
type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// PreferenceHandler handles language and notification HTTP requests.
type PreferenceHandler struct {
	language      Language
	notifications service.NotificationService
	logger        zerolog.Logger
}

// NewPreferenceHandler creates a new preference handler.
func NewPreferenceHandler(language Language, notifications service.NotificationService, logger zerolog.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		language:      language,
		notifications: notifications,
		logger:        logger.With().Str("handler", "preference").Logger(),
	}
}

// GetLanguage handles GET /api/language requests.
func (h *PreferenceHandler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LanguageResponse{
		Language:  h.language.Get(),
		Languages: locale.Languages(),
	})
}

// SetLanguage handles PUT /api/language requests.
func (h *PreferenceHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req SetLanguageRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	lang, err := h.language.Set(r.Context(), req.Language)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, LanguageResponse{
		Language:  lang,
		Languages: locale.Languages(),
	})
}

// ListNotifications handles GET /api/notifications requests.
func (h *PreferenceHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	h.writeNotifications(w, r)
}

// UnreadCount handles GET /api/notifications/unread requests.
func (h *PreferenceHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UnreadCountResponse{UnreadCount: h.notifications.UnreadCount(r.Context())})
}

// MarkNotificationRead handles POST /api/notifications/{id}/read requests.
func (h *PreferenceHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkRead(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	h.writeNotifications(w, r)
}

// MarkAllNotificationsRead handles POST /api/notifications/read requests.
func (h *PreferenceHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	h.notifications.MarkAllRead(r.Context())
	h.writeNotifications(w, r)
}

func (h *PreferenceHandler) writeNotifications(w http.ResponseWriter, r *http.Request) {
	list := h.notifications.List(r.Context())
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, NotificationsResponse{Notifications: list, UnreadCount: unread})
}
