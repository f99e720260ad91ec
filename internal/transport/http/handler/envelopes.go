package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-questionnaire-nosql/internal/domain"
)

// maxBodyBytes caps request bodies; a full batch of 50 answers is well under it.
const maxBodyBytes = 1 << 20

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// AuthEnvelope wraps register/login responses. The token is also set as a cookie.
type AuthEnvelope struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type UserEnvelope struct {
	User *domain.User `json:"user"`
}

type VerifyEnvelope struct {
	Valid bool         `json:"valid"`
	User  *domain.User `json:"user,omitempty"`
}

// ResponseEnvelope wraps a questionnaire aggregate. Response is null after a
// reset of a user that never started.
type ResponseEnvelope struct {
	Message  string           `json:"message,omitempty"`
	Response *domain.Response `json:"response"`
}

type StatsEnvelope struct {
	Stats domain.Stats `json:"stats"`
}

type QuestionsEnvelope struct {
	Questions []string `json:"questions"`
	Total     int      `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into dst. Malformed bodies wrap domain.ErrInvalidInput.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", domain.ErrInvalidInput)
	}
	return nil
}
