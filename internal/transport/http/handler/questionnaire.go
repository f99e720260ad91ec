package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-questionnaire-nosql/internal/application/questionnaire"
	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/go-questionnaire-nosql/internal/pkg/validate"
	"github.com/go-questionnaire-nosql/internal/transport/http/httperr"
	"github.com/go-questionnaire-nosql/internal/transport/http/middleware"
)

type AnswerRequest struct {
	QuestionIndex *int   `json:"questionIndex" validate:"required,min=0,max=49"`
	Answer        string `json:"answer" validate:"required,answer"`
}

type BatchRequest struct {
	Answers              map[string]string `json:"answers" validate:"required"`
	CurrentQuestionIndex *int              `json:"currentQuestionIndex" validate:"omitempty,min=0,max=50"`
}

// QuestionnaireHandler exposes the caller's response aggregate. Every route
// expects middleware.Auth in front of it.
type QuestionnaireHandler struct {
	svc questionnaire.Service
}

func NewQuestionnaireHandler(svc questionnaire.Service) *QuestionnaireHandler {
	return &QuestionnaireHandler{svc: svc}
}

func (h *QuestionnaireHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, domain.ErrMissingCredential)
		return
	}
	resp, err := h.svc.GetOrCreate(r.Context(), u.UserID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResponseEnvelope{Response: resp})
}

func (h *QuestionnaireHandler) Answer(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, domain.ErrMissingCredential)
		return
	}
	var req AnswerRequest
	if err := decode(w, r, &req); err != nil {
		httperr.Write(w, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httperr.Write(w, err)
		return
	}
	resp, err := h.svc.SetAnswer(r.Context(), u.UserID, *req.QuestionIndex, domain.Answer(req.Answer))
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResponseEnvelope{Message: "Answer saved successfully", Response: resp})
}

func (h *QuestionnaireHandler) Answers(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, domain.ErrMissingCredential)
		return
	}
	var req BatchRequest
	if err := decode(w, r, &req); err != nil {
		httperr.Write(w, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		httperr.Write(w, err)
		return
	}
	answers, err := parseAnswers(req.Answers)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	resp, err := h.svc.SetAnswersBatch(r.Context(), u.UserID, answers, req.CurrentQuestionIndex)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResponseEnvelope{Message: "Answers saved successfully", Response: resp})
}

func (h *QuestionnaireHandler) Reset(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, domain.ErrMissingCredential)
		return
	}
	resp, err := h.svc.Reset(r.Context(), u.UserID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResponseEnvelope{Message: "Questionnaire reset successfully", Response: resp})
}

func (h *QuestionnaireHandler) Stats(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httperr.Write(w, domain.ErrMissingCredential)
		return
	}
	st, err := h.svc.Stats(r.Context(), u.UserID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsEnvelope{Stats: st})
}

// parseAnswers converts JSON object keys to question indexes. Range and value
// checks happen in the service so the whole batch is judged in one place.
func parseAnswers(in map[string]string) (map[int]domain.Answer, error) {
	out := make(map[int]domain.Answer, len(in))
	for k, v := range in {
		// Only the canonical decimal spelling is accepted, so "05" or "+5"
		// cannot alias "5" within one batch.
		idx, err := strconv.Atoi(k)
		if err != nil || strconv.Itoa(idx) != k {
			return nil, fmt.Errorf("invalid question index %q: %w", k, domain.ErrInvalidInput)
		}
		out[idx] = domain.Answer(v)
	}
	return out, nil
}
