package handler

import (
	"context"
	"net/http"

	"gofresh/internal/auth"
	"gofresh/internal/model"

	"github.com/rs/zerolog"
)

// Auth is the authentication service as seen by the HTTP layer.
type Auth interface {
	SendOTP(ctx context.Context, phone string) (auth.OTPRequest, error)
	VerifyOTP(ctx context.Context, requestID, phone, code string) (*model.User, bool, error)
	Register(ctx context.Context, req auth.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, phone, password string) (*model.User, error)
	Logout(ctx context.Context)
	CurrentUser() (*model.User, bool)
	UpdateProfile(ctx context.Context, update auth.ProfileUpdate) (*model.User, error)
}

// SendOTPRequest is the body of POST /api/auth/otp.
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest is the body of POST /api/auth/otp/verify.
type VerifyOTPRequest struct {
	RequestID string `json:"requestId"`
	Phone     string `json:"phone"`
	Code      string `json:"code"`
}

// VerifyOTPResponse tells the client whether to log in or sign up.
type VerifyOTPResponse struct {
	Registered bool        `json:"registered"`
	User       *model.User `json:"user,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	auth   Auth
	logger zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(a Auth, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   a,
		logger: logger.With().Str("handler", "auth").Logger(),
	}
}

// SendOTP handles POST /api/auth/otp requests.
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	otp, err := h.auth.SendOTP(r.Context(), req.Phone)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, otp)
}

// VerifyOTP handles POST /api/auth/otp/verify requests.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, registered, err := h.auth.VerifyOTP(r.Context(), req.RequestID, req.Phone, req.Code)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, VerifyOTPResponse{Registered: registered, User: user})
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.auth.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout requests.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.auth.CurrentUser()
	if !ok {
		writeDomainError(w, model.ErrUserNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT /api/auth/me requests.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req auth.ProfileUpdate
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
