package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-questionnaire-nosql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseRepo() (*ResponseRepo, *fakeAPI) {
	api := newFakeAPI()
	return NewResponseRepo(api, "responses"), api
}

func TestResponseRepo_GetMissing(t *testing.T) {
	repo, _ := newResponseRepo()
	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResponseRepo_CreateAndGet_RoundTrip(t *testing.T) {
	repo, _ := newResponseRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := domain.NewResponse("r1", "u1", now)
	r.SetAnswer(7, domain.AnswerStrongNo, now)
	require.NoError(t, repo.Create(context.Background(), r))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ResponseID)
	assert.Equal(t, map[int]domain.Answer{7: domain.AnswerStrongNo}, got.Answers)
	assert.Equal(t, 8, got.CurrentQuestionIndex)
	assert.True(t, now.Equal(got.LastUpdated))
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, int64(0), got.Version)
}

func TestResponseRepo_CreateEmpty_ReadsBackEmptyMap(t *testing.T) {
	repo, _ := newResponseRepo()
	require.NoError(t, repo.Create(context.Background(), domain.NewResponse("r1", "u1", time.Now())))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got.Answers)
	assert.Empty(t, got.Answers)
}

func TestResponseRepo_CreateTwice_Conflict(t *testing.T) {
	repo, _ := newResponseRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, domain.NewResponse("r1", "u1", time.Now())))

	err := repo.Create(ctx, domain.NewResponse("r2", "u1", time.Now()))
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ResponseID)
}

func TestResponseRepo_Replace_BumpsVersion(t *testing.T) {
	repo, _ := newResponseRepo()
	ctx := context.Background()
	r := domain.NewResponse("r1", "u1", time.Now())
	require.NoError(t, repo.Create(ctx, r))

	r.SetAnswer(0, domain.AnswerYes, time.Now())
	require.NoError(t, repo.Replace(ctx, r, 0))
	assert.Equal(t, int64(1), r.Version)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, domain.AnswerYes, got.Answers[0])
}

func TestResponseRepo_Replace_StaleVersion(t *testing.T) {
	repo, _ := newResponseRepo()
	ctx := context.Background()
	r := domain.NewResponse("r1", "u1", time.Now())
	require.NoError(t, repo.Create(ctx, r))
	require.NoError(t, repo.Replace(ctx, r.Clone(), 0))

	stale := r.Clone()
	stale.SetAnswer(3, domain.AnswerNo, time.Now())
	err := repo.Replace(ctx, stale, 0)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(0), stale.Version)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
}

func TestResponseRepo_Replace_Missing(t *testing.T) {
	repo, _ := newResponseRepo()
	err := repo.Replace(context.Background(), domain.NewResponse("r1", "ghost", time.Now()), 0)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResponseRepo_CompletedAtRoundTrip(t *testing.T) {
	repo, _ := newResponseRepo()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := domain.NewResponse("r1", "u1", now)
	for i := 0; i < domain.QuestionCount; i++ {
		r.SetAnswer(i, domain.AnswerYes, now)
	}
	require.NoError(t, repo.Create(ctx, r))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, now.Equal(*got.CompletedAt))
	assert.Len(t, got.Answers, domain.QuestionCount)
}

func TestResponseRepo_StoreFailure(t *testing.T) {
	repo, api := newResponseRepo()
	api.err = errors.New("dial tcp: connection refused")

	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = repo.Create(context.Background(), domain.NewResponse("r1", "u1", time.Now()))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	err = repo.Replace(context.Background(), domain.NewResponse("r1", "u1", time.Now()), 0)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
