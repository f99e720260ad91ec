package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "questionnaire:user:"

// UserStore is the backing store the cache sits in front of.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	TouchLogin(ctx context.Context, userID string, at time.Time) error
}

// UserCache is a read-through Redis cache for subject lookups by id. Entries
// never carry the password hash. Redis failures are logged and the call falls
// through to the backing store, so an outage only costs latency.
type UserCache struct {
	client *redis.Client
	next   UserStore
	ttl    time.Duration
}

func NewUserCache(client *redis.Client, next UserStore, ttl time.Duration) *UserCache {
	return &UserCache{client: client, next: next, ttl: ttl}
}

type cachedUser struct {
	UserID      string     `json:"id"`
	Username    string     `json:"username"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func key(userID string) string { return userKeyPrefix + userID }

func (c *UserCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jerr := json.Unmarshal(data, &cu); jerr == nil {
			return &domain.User{
				UserID:      cu.UserID,
				Username:    cu.Username,
				LastLoginAt: cu.LastLoginAt,
				CreatedAt:   cu.CreatedAt,
				UpdatedAt:   cu.UpdatedAt,
			}, nil
		}
		slog.Warn("discarding corrupt user cache entry", "user_id", userID)
	case !errors.Is(err, redis.Nil):
		slog.Warn("user cache read failed", "user_id", userID, "err", err)
	}

	u, err := c.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, u)
	return u, nil
}

func (c *UserCache) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return c.next.GetByUsername(ctx, username)
}

func (c *UserCache) Put(ctx context.Context, u *domain.User) error {
	return c.next.Put(ctx, u)
}

// TouchLogin writes through and drops the cached entry.
func (c *UserCache) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	if err := c.next.TouchLogin(ctx, userID, at); err != nil {
		return err
	}
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		slog.Warn("user cache invalidate failed", "user_id", userID, "err", err)
	}
	return nil
}

func (c *UserCache) set(ctx context.Context, u *domain.User) {
	data, err := json.Marshal(cachedUser{
		UserID:      u.UserID,
		Username:    u.Username,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(u.UserID), data, c.ttl).Err(); err != nil {
		slog.Warn("user cache write failed", "user_id", u.UserID, "err", err)
	}
}
