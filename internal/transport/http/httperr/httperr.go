// Package httperr maps domain errors to HTTP statuses and a stable error code
// the UI can branch on.
package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-questionnaire-nosql/internal/domain"
)

// Body is the JSON error envelope.
type Body struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Status returns the HTTP status and error code for err. Order matters: the
// credential errors all wrap domain.ErrUnauthorized.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusUnauthorized, "missing_credential"
	case errors.Is(err, domain.ErrExpiredCredential):
		return http.StatusUnauthorized, "expired_credential"
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized, "invalid_credential"
	case errors.Is(err, domain.ErrUnknownSubject):
		return http.StatusNotFound, "unknown_subject"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

// Write renders err. Messages of 5xx errors are replaced so storage details
// never reach the client.
func Write(w http.ResponseWriter, err error) {
	status, code := Status(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		msg = "storage temporarily unavailable, retry later"
		slog.Warn("store unavailable", "err", err)
	case http.StatusInternalServerError:
		msg = "internal server error"
		slog.Error("unhandled error", "err", err)
	}
	WriteMessage(w, status, code, msg)
}

// WriteMessage renders an error body with an explicit status and code.
func WriteMessage(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{Error: msg, Code: code})
}
