package handler

import (
	"context"
	"net/http"

	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/go-questionnaire-nosql/internal/transport/http/middleware"
	"github.com/stretchr/testify/mock"
)

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *mockUserSvc) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

type mockQuestionnaireSvc struct{ mock.Mock }

func (m *mockQuestionnaireSvc) GetOrCreate(ctx context.Context, userID string) (*domain.Response, error) {
	args := m.Called(ctx, userID)
	if r, _ := args.Get(0).(*domain.Response); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuestionnaireSvc) SetAnswer(ctx context.Context, userID string, idx int, a domain.Answer) (*domain.Response, error) {
	args := m.Called(ctx, userID, idx, a)
	if r, _ := args.Get(0).(*domain.Response); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuestionnaireSvc) SetAnswersBatch(ctx context.Context, userID string, answers map[int]domain.Answer, cursor *int) (*domain.Response, error) {
	args := m.Called(ctx, userID, answers, cursor)
	if r, _ := args.Get(0).(*domain.Response); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuestionnaireSvc) Reset(ctx context.Context, userID string) (*domain.Response, error) {
	args := m.Called(ctx, userID)
	if r, _ := args.Get(0).(*domain.Response); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuestionnaireSvc) Stats(ctx context.Context, userID string) (domain.Stats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Stats), args.Error(1)
}

// withUser injects an authenticated user as middleware.Auth would.
func withUser(r *http.Request, u *domain.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, u))
}
