package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/go-questionnaire-nosql/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}

type tokenIssuer interface {
	Issue(userID string) (string, error)
}

type service struct {
	repo   userStore
	issuer tokenIssuer
	now    func() time.Time
}

type ServiceDeps struct {
	UserRepo userStore
	Issuer   tokenIssuer
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo, issuer: deps.Issuer, now: time.Now}
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	username := normalize(req.Username)
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return nil, "", fmt.Errorf("username already taken: %w", domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, "", err
	}
	token, err := s.issuer.Issue(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	u, err := s.repo.GetByUsername(ctx, normalize(req.Username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err := s.issuer.Issue(u.UserID)
	if err != nil {
		return nil, "", err
	}
	now := s.now().UTC()
	if err := s.repo.TouchLogin(ctx, u.UserID, now); err != nil {
		slog.Warn("failed to record login time", "user_id", u.UserID, "err", err)
	} else {
		u.LastLoginAt = &now
	}
	return u, token, nil
}
