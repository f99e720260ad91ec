package handler

import "net/http"

// QuestionHandler serves the fixed question catalogue.
type QuestionHandler struct {
	questions []string
}

func NewQuestionHandler(questions []string) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) List(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, QuestionsEnvelope{Questions: h.questions, Total: len(h.questions)})
}
