package domain

import (
	"fmt"
	"math"
	"time"
)

// QuestionCount is the fixed length of the questionnaire.
const QuestionCount = 50

// Answer is one of the four ordinal answer categories.
type Answer string

const (
	AnswerStrongYes Answer = "strong_yes"
	AnswerYes       Answer = "yes"
	AnswerNo        Answer = "no"
	AnswerStrongNo  Answer = "strong_no"
)

// Answers lists every valid category in display order.
var Answers = []Answer{AnswerStrongYes, AnswerYes, AnswerNo, AnswerStrongNo}

func (a Answer) Valid() bool {
	switch a {
	case AnswerStrongYes, AnswerYes, AnswerNo, AnswerStrongNo:
		return true
	}
	return false
}

// ValidateAnswer checks a single (questionIndex, answer) pair.
func ValidateAnswer(questionIndex int, answer Answer) error {
	if questionIndex < 0 || questionIndex >= QuestionCount {
		return fmt.Errorf("question index must be between 0 and %d, got %d: %w", QuestionCount-1, questionIndex, ErrInvalidInput)
	}
	if !answer.Valid() {
		return fmt.Errorf("answer for question %d must be one of strong_yes, yes, no, strong_no, got %q: %w", questionIndex, answer, ErrInvalidInput)
	}
	return nil
}

// ValidateCursor checks an explicit cursor value.
func ValidateCursor(cursor int) error {
	if cursor < 0 || cursor > QuestionCount {
		return fmt.Errorf("current question index must be between 0 and %d, got %d: %w", QuestionCount, cursor, ErrInvalidInput)
	}
	return nil
}

// Response is the per-user questionnaire aggregate. Exactly one exists per owner.
//
// Mutations go through SetAnswer, Merge and Reset so that IsCompleted and
// CompletedAt are always derived from the size of Answers.
type Response struct {
	ResponseID           string         `json:"id"`
	OwnerID              string         `json:"-"`
	Answers              map[int]Answer `json:"answers"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	IsCompleted          bool           `json:"isCompleted"`
	CompletedAt          *time.Time     `json:"completedAt"`
	LastUpdated          time.Time      `json:"lastUpdated"`
	CreatedAt            time.Time      `json:"createdAt"`
	// Version is bumped on every persisted write and used for compare-and-swap.
	Version int64 `json:"-"`
}

// NewResponse returns an empty aggregate for ownerID.
func NewResponse(responseID, ownerID string, now time.Time) *Response {
	return &Response{
		ResponseID:  responseID,
		OwnerID:     ownerID,
		Answers:     map[int]Answer{},
		LastUpdated: now,
		CreatedAt:   now,
	}
}

// Clone returns a deep copy so a failed write never leaks partial state.
func (r *Response) Clone() *Response {
	c := *r
	c.Answers = make(map[int]Answer, len(r.Answers))
	for k, v := range r.Answers {
		c.Answers[k] = v
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// SetAnswer upserts one answer and advances the cursor past it. The pair must
// already be validated.
func (r *Response) SetAnswer(questionIndex int, answer Answer, now time.Time) {
	if r.Answers == nil {
		r.Answers = map[int]Answer{}
	}
	r.Answers[questionIndex] = answer
	if questionIndex+1 > r.CurrentQuestionIndex {
		r.CurrentQuestionIndex = questionIndex + 1
	}
	r.touch(now)
}

// Merge applies a validated batch. A non-nil cursor moves the watermark to
// max(current, *cursor).
func (r *Response) Merge(answers map[int]Answer, cursor *int, now time.Time) {
	if r.Answers == nil {
		r.Answers = map[int]Answer{}
	}
	for idx, a := range answers {
		r.Answers[idx] = a
	}
	if cursor != nil && *cursor > r.CurrentQuestionIndex {
		r.CurrentQuestionIndex = *cursor
	}
	r.touch(now)
}

// Reset clears progress in place, keeping the aggregate identity.
func (r *Response) Reset(now time.Time) {
	r.Answers = map[int]Answer{}
	r.CurrentQuestionIndex = 0
	r.IsCompleted = false
	r.CompletedAt = nil
	r.LastUpdated = now
}

// touch recomputes the completion state and refreshes LastUpdated.
func (r *Response) touch(now time.Time) {
	if len(r.Answers) == QuestionCount {
		if r.CompletedAt == nil {
			t := now
			r.CompletedAt = &t
		}
		r.IsCompleted = true
	} else {
		r.IsCompleted = false
		r.CompletedAt = nil
	}
	r.LastUpdated = now
}

// Stats is the read-only projection over a Response.
type Stats struct {
	TotalQuestions       int            `json:"totalQuestions"`
	AnsweredQuestions    int            `json:"answeredQuestions"`
	CompletionPercentage int            `json:"completionPercentage"`
	AnswerBreakdown      map[Answer]int `json:"answerBreakdown"`
	IsCompleted          bool           `json:"isCompleted"`
	CompletedAt          *time.Time     `json:"completedAt,omitempty"`
	LastUpdated          *time.Time     `json:"lastUpdated,omitempty"`
}

// EmptyStats is the projection for a user without an aggregate.
func EmptyStats() Stats {
	return Stats{
		TotalQuestions:  QuestionCount,
		AnswerBreakdown: emptyBreakdown(),
	}
}

func (r *Response) Stats() Stats {
	s := EmptyStats()
	s.AnsweredQuestions = len(r.Answers)
	s.CompletionPercentage = int(math.Round(100 * float64(s.AnsweredQuestions) / float64(QuestionCount)))
	for _, a := range r.Answers {
		s.AnswerBreakdown[a]++
	}
	s.IsCompleted = r.IsCompleted
	s.CompletedAt = r.CompletedAt
	lu := r.LastUpdated
	s.LastUpdated = &lu
	return s
}

func emptyBreakdown() map[Answer]int {
	m := make(map[Answer]int, len(Answers))
	for _, a := range Answers {
		m[a] = 0
	}
	return m
}
