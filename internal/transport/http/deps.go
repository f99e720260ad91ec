package http

import (
	"context"
	"time"

	"github.com/go-questionnaire-nosql/internal/domain"
	jwtinfra "github.com/go-questionnaire-nosql/internal/infrastructure/jwt"
	"github.com/go-questionnaire-nosql/internal/infrastructure/metrics"
)

// UserRepository is the minimal interface the router requires from a user store.
// Both dynamo.UserRepo and cache.UserCache satisfy it.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}

// ResponseRepository is the minimal interface the router requires from a
// response store. Create and Replace are conditional writes that report a lost
// race as domain.ErrConflict.
type ResponseRepository interface {
	Get(ctx context.Context, ownerID string) (*domain.Response, error)
	Create(ctx context.Context, r *domain.Response) error
	Replace(ctx context.Context, r *domain.Response, expected int64) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     UserRepository
	ResponseRepo ResponseRepository
	JWTProvider  *jwtinfra.Provider
	Metrics      *metrics.Metrics
	Questions    []string
}
