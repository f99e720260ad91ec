package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-questionnaire-nosql/internal/domain"
	jwtinfra "github.com/go-questionnaire-nosql/internal/infrastructure/jwt"
	"github.com/go-questionnaire-nosql/internal/pkg/id"
	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Presented is the raw credential material carried by a request.
type Presented struct {
	Cookie        string
	Authorization string
}

// Resolution is the outcome of one credential check: exactly one of User and
// Failure is set.
type Resolution struct {
	User    *domain.User
	Failure error
}

type Service interface {
	// Issue mints a token for userID.
	Issue(userID string) (string, error)
	// Authenticate resolves the presented credential or fails with one of the
	// domain credential errors, or domain.ErrStoreUnavailable.
	Authenticate(ctx context.Context, p Presented) (*domain.User, error)
	// AuthenticateOptional returns nil for every failure.
	AuthenticateOptional(ctx context.Context, p Presented) *domain.User
}

type tokenCodec interface {
	Sign(userID string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type subjectStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type outcomeRecorder interface {
	AuthOutcome(outcome string)
}

type service struct {
	tokens  tokenCodec
	users   subjectStore
	metrics outcomeRecorder
}

type ServiceDeps struct {
	Tokens   tokenCodec
	UserRepo subjectStore
	Metrics  outcomeRecorder // optional
}

func NewService(deps ServiceDeps) Service {
	return &service{tokens: deps.Tokens, users: deps.UserRepo, metrics: deps.Metrics}
}

func (s *service) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("issue token: empty user id")
	}
	return s.tokens.Sign(userID)
}

func (s *service) Authenticate(ctx context.Context, p Presented) (*domain.User, error) {
	res := s.resolve(ctx, p)
	if res.Failure != nil {
		return nil, res.Failure
	}
	return res.User, nil
}

func (s *service) AuthenticateOptional(ctx context.Context, p Presented) *domain.User {
	return s.resolve(ctx, p).User
}

func (s *service) resolve(ctx context.Context, p Presented) Resolution {
	res := s.check(ctx, p)
	s.record(res)
	return res
}

func (s *service) check(ctx context.Context, p Presented) Resolution {
	raw, err := extract(p)
	if err != nil {
		return Resolution{Failure: err}
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Resolution{Failure: domain.ErrExpiredCredential}
		}
		return Resolution{Failure: domain.ErrInvalidCredential}
	}
	if !id.Valid(claims.UserID) {
		return Resolution{Failure: domain.ErrInvalidCredential}
	}
	u, err := s.users.Get(ctx, claims.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return Resolution{Failure: domain.ErrUnknownSubject}
	case err != nil:
		slog.Warn("subject lookup failed", "user_id", claims.UserID, "err", err)
		return Resolution{Failure: fmt.Errorf("resolve subject: %w", domain.ErrStoreUnavailable)}
	}
	return Resolution{User: u}
}

// extract picks the raw token. The cookie wins over the header.
func extract(p Presented) (string, error) {
	if p.Cookie != "" {
		return p.Cookie, nil
	}
	if p.Authorization == "" {
		return "", domain.ErrMissingCredential
	}
	if !strings.HasPrefix(p.Authorization, bearerPrefix) {
		return "", domain.ErrInvalidCredential
	}
	tok := strings.TrimSpace(strings.TrimPrefix(p.Authorization, bearerPrefix))
	if tok == "" {
		return "", domain.ErrMissingCredential
	}
	return tok, nil
}

func (s *service) record(res Resolution) {
	if s.metrics == nil {
		return
	}
	s.metrics.AuthOutcome(Outcome(res.Failure))
}

// Outcome names a resolution failure for logs, metrics and error bodies.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, domain.ErrExpiredCredential):
		return "expired_credential"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, domain.ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	}
	return "internal_error"
}
