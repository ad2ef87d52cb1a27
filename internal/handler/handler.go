package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"gofresh/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// errorStatus maps domain error codes to HTTP status codes.
var errorStatus = map[string]int{
	model.ErrCodeInvalidJSON:           http.StatusBadRequest,
	model.ErrCodeInvalidParameter:      http.StatusBadRequest,
	model.ErrCodeMissingField:          http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:       http.StatusBadRequest,
	model.ErrCodeEmptyCart:             http.StatusBadRequest,
	model.ErrCodeInvalidPaymentMethod:  http.StatusBadRequest,
	model.ErrCodeInvalidOTP:            http.StatusBadRequest,
	model.ErrCodeOTPExpired:            http.StatusBadRequest,
	model.ErrCodeInvalidPhoneFormat:    http.StatusBadRequest,
	model.ErrCodeInvalidPasswordLength: http.StatusBadRequest,
	model.ErrCodeUnsupportedLanguage:   http.StatusBadRequest,
	model.ErrCodeInvalidCredentials:    http.StatusUnauthorized,
	model.ErrCodeUserNotFound:          http.StatusUnauthorized,
	model.ErrCodeUnauthorised:          http.StatusUnauthorized,
	model.ErrCodePhoneNotVerified:      http.StatusForbidden,
	model.ErrCodeNotFound:              http.StatusNotFound,
	model.ErrCodeProductNotFound:       http.StatusNotFound,
	model.ErrCodeNotificationNotFound:  http.StatusNotFound,
	model.ErrCodeOTPSuperseded:         http.StatusConflict,
	model.ErrCodePhoneTaken:            http.StatusConflict,
	model.ErrCodeOrderNotCancellable:   http.StatusConflict,
	model.ErrCodeCheckoutInProgress:    http.StatusConflict,
	model.ErrCodeStorageUnavailable:    http.StatusServiceUnavailable,
	model.ErrCodeDuplicateIdentifier:   http.StatusInternalServerError,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful can be reported.
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps err to a status code. Errors that wrap a
// DomainError keep their full message; anything else becomes a 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := errorStatus[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		writeError(w, status, domainErr.Code, err.Error(), logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// decodeJSON reads a JSON request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, logger zerolog.Logger) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}
