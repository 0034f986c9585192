// Package respond writes the API's JSON responses and its uniform error
// envelope. Handlers and middleware share it so every failure, including
// auth rejections, carries the same body shape.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/amine/notehub/internal/domain"
	"github.com/amine/notehub/internal/service"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Envelope is the uniform error body for every failed request.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, status, Envelope{
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	})
}

// ServiceError maps the error taxonomy to HTTP statuses. Unknown errors
// become a generic 500 and are logged for operators.
func ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.Is(err, domain.ErrEmailExists):
		Error(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		Error(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAccessDenied),
		errors.Is(err, domain.ErrRefreshTokenInvalid),
		errors.Is(err, domain.ErrNotNoteOwner):
		Error(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNoteNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrCategoryNotFound):
		Error(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidPriority):
		Error(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrs):
		Error(w, r, http.StatusBadRequest, validationErrs.Error())
	default:
		slog.Error("unhandled error", "path", r.URL.Path, "error", err)
		Error(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
