package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/go-questionnaire-nosql/internal/pkg/id"
)

// maxAttempts bounds the read-modify-write loop when concurrent writers for the
// same owner keep winning the version race.
const maxAttempts = 5

type Service interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Response, error)
	SetAnswer(ctx context.Context, userID string, questionIndex int, answer domain.Answer) (*domain.Response, error)
	// SetAnswersBatch applies every pair or none. A non-nil cursor raises the
	// watermark to at least *cursor.
	SetAnswersBatch(ctx context.Context, userID string, answers map[int]domain.Answer, cursor *int) (*domain.Response, error)
	// Reset returns (nil, nil) when the user has no aggregate.
	Reset(ctx context.Context, userID string) (*domain.Response, error)
	Stats(ctx context.Context, userID string) (domain.Stats, error)
}

type responseStore interface {
	Get(ctx context.Context, ownerID string) (*domain.Response, error)
	Create(ctx context.Context, r *domain.Response) error
	Replace(ctx context.Context, r *domain.Response, expected int64) error
}

type recorder interface {
	AnswerWrite(kind string)
	Completed()
	Reset()
	CASRetry()
}

type noopRecorder struct{}

func (noopRecorder) AnswerWrite(string) {}
func (noopRecorder) Completed()         {}
func (noopRecorder) Reset()             {}
func (noopRecorder) CASRetry()          {}

type service struct {
	repo    responseStore
	metrics recorder
	now     func() time.Time
	newID   func() string
}

type ServiceDeps struct {
	ResponseRepo responseStore
	Metrics      recorder         // optional
	Now          func() time.Time // optional, defaults to time.Now
}

func NewService(deps ServiceDeps) Service {
	s := &service{repo: deps.ResponseRepo, metrics: deps.Metrics, now: deps.Now, newID: id.New}
	if s.metrics == nil {
		s.metrics = noopRecorder{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) GetOrCreate(ctx context.Context, userID string) (*domain.Response, error) {
	r, err := s.repo.Get(ctx, userID)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	r = domain.NewResponse(s.newID(), userID, s.now().UTC())
	err = s.repo.Create(ctx, r)
	if errors.Is(err, domain.ErrConflict) {
		// Lost the creation race; the winner's aggregate is the one.
		return s.repo.Get(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) SetAnswer(ctx context.Context, userID string, questionIndex int, answer domain.Answer) (*domain.Response, error) {
	if err := domain.ValidateAnswer(questionIndex, answer); err != nil {
		return nil, err
	}
	r, err := s.mutate(ctx, userID, true, func(r *domain.Response, now time.Time) {
		r.SetAnswer(questionIndex, answer, now)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AnswerWrite("single")
	return r, nil
}

func (s *service) SetAnswersBatch(ctx context.Context, userID string, answers map[int]domain.Answer, cursor *int) (*domain.Response, error) {
	for idx, a := range answers {
		if err := domain.ValidateAnswer(idx, a); err != nil {
			return nil, err
		}
	}
	if cursor != nil {
		if err := domain.ValidateCursor(*cursor); err != nil {
			return nil, err
		}
	}
	r, err := s.mutate(ctx, userID, true, func(r *domain.Response, now time.Time) {
		r.Merge(answers, cursor, now)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AnswerWrite("batch")
	return r, nil
}

func (s *service) Reset(ctx context.Context, userID string) (*domain.Response, error) {
	r, err := s.mutate(ctx, userID, false, func(r *domain.Response, now time.Time) {
		r.Reset(now)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.metrics.Reset()
	return r, nil
}

func (s *service) Stats(ctx context.Context, userID string) (domain.Stats, error) {
	r, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.EmptyStats(), nil
	}
	if err != nil {
		return domain.Stats{}, err
	}
	return r.Stats(), nil
}

// mutate applies fn to a fresh copy of the owner's aggregate and persists it
// with a version check, retrying from a new read when another writer got there
// first. When create is false an absent aggregate yields domain.ErrNotFound.
func (s *service) mutate(ctx context.Context, userID string, create bool, fn func(*domain.Response, time.Time)) (*domain.Response, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			s.metrics.CASRetry()
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next *domain.Response
		wasCompleted := false
		cur, err := s.repo.Get(ctx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if !create {
				return nil, err
			}
			now := s.now().UTC()
			next = domain.NewResponse(s.newID(), userID, now)
			fn(next, now)
			err = s.repo.Create(ctx, next)
		case err != nil:
			return nil, err
		default:
			wasCompleted = cur.IsCompleted
			next = cur.Clone()
			fn(next, s.now().UTC())
			err = s.repo.Replace(ctx, next, cur.Version)
		}

		if err == nil {
			if next.IsCompleted && !wasCompleted {
				s.metrics.Completed()
			}
			return next, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("response for %s still contended after %d attempts: %w", userID, maxAttempts, domain.ErrStoreUnavailable)
}
