package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	return m.Called(ctx, userID, at).Error(0)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestGet_ReadThrough(t *testing.T) {
	mr, client := newTestRedis(t)
	store := &mockUserStore{}
	store.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Username: "alice", PasswordHash: "secret"}, nil).Once()

	c := NewUserCache(client, store, time.Minute)

	u, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, mr.Exists("questionnaire:user:u1"))

	raw, err := mr.Get("questionnaire:user:u1")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")

	// Second call is served from Redis.
	u, err = c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	store.AssertNumberOfCalls(t, "Get", 1)
}

func TestGet_TTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := &mockUserStore{}
	store.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	c := NewUserCache(client, store, time.Minute)
	_, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(context.Background(), "u1")
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "Get", 2)
}

func TestGet_NotFoundNotCached(t *testing.T) {
	mr, client := newTestRedis(t)
	store := &mockUserStore{}
	store.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	c := NewUserCache(client, store, time.Minute)
	_, err := c.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists("questionnaire:user:ghost"))
}

func TestGet_RedisDownFallsThrough(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()
	store := &mockUserStore{}
	store.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Username: "alice"}, nil)

	c := NewUserCache(client, store, time.Minute)
	u, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestGet_CorruptEntry(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("questionnaire:user:u1", "{not json"))
	store := &mockUserStore{}
	store.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Username: "alice"}, nil)

	c := NewUserCache(client, store, time.Minute)
	u, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestTouchLogin_Invalidates(t *testing.T) {
	mr, client := newTestRedis(t)
	store := &mockUserStore{}
	store.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	store.On("TouchLogin", mock.Anything, "u1", mock.Anything).Return(nil)

	c := NewUserCache(client, store, time.Minute)
	_, err := c.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, mr.Exists("questionnaire:user:u1"))

	require.NoError(t, c.TouchLogin(context.Background(), "u1", time.Now()))
	assert.False(t, mr.Exists("questionnaire:user:u1"))
}
