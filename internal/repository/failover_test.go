package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"naayee/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStateRepository struct {
	calls int
}

func (r *failingStateRepository) GetDraft(ctx context.Context, owner string) (*models.BookingDraft, error) {
	r.calls++
	return nil, errors.New("primary down")
}

func (r *failingStateRepository) SetDraft(ctx context.Context, owner string, draft *models.BookingDraft) error {
	r.calls++
	return errors.New("primary down")
}

func (r *failingStateRepository) ClearDraft(ctx context.Context, owner string) error {
	r.calls++
	return errors.New("primary down")
}

func TestFailoverStateRepository(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("UsesPrimaryWhenHealthy", func(t *testing.T) {
		primary := NewMemoryStateRepository(time.Hour)
		fallback := NewMemoryStateRepository(time.Hour)
		repo := NewFailoverStateRepository(primary, fallback, &logger)

		draft := &models.BookingDraft{SalonID: 7}
		require.NoError(t, repo.SetDraft(ctx, "a@b.c", draft))

		got, err := primary.GetDraft(ctx, "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, draft, got)
	})

	t.Run("FallsBackWhenPrimaryFails", func(t *testing.T) {
		primary := &failingStateRepository{}
		fallback := NewMemoryStateRepository(time.Hour)
		repo := NewFailoverStateRepository(primary, fallback, &logger)

		draft := &models.BookingDraft{SalonID: 7, ServiceID: 1}
		require.NoError(t, repo.SetDraft(ctx, "a@b.c", draft))

		got, err := repo.GetDraft(ctx, "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, draft, got)
	})

	t.Run("StopsHittingDownPrimary", func(t *testing.T) {
		primary := &failingStateRepository{}
		fallback := NewMemoryStateRepository(time.Hour)
		repo := NewFailoverStateRepository(primary, fallback, &logger)

		require.NoError(t, repo.SetDraft(ctx, "a@b.c", &models.BookingDraft{SalonID: 1}))
		callsAfterFirstFailure := primary.calls

		require.NoError(t, repo.SetDraft(ctx, "a@b.c", &models.BookingDraft{SalonID: 2}))
		require.NoError(t, repo.ClearDraft(ctx, "a@b.c"))

		// down primary is skipped until the recovery window elapses
		assert.Equal(t, callsAfterFirstFailure, primary.calls)
	})
}

type flakyStateRepository struct {
	*MemoryStateRepository
	failures int
	calls    int
}

func (r *flakyStateRepository) GetDraft(ctx context.Context, owner string) (*models.BookingDraft, error) {
	r.calls++
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("primary down")
	}
	return r.MemoryStateRepository.GetDraft(ctx, owner)
}

func TestFailoverRecoversAfterBackoff(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	primary := &flakyStateRepository{
		MemoryStateRepository: NewMemoryStateRepository(time.Hour),
		failures:              1,
	}
	fallback := NewMemoryStateRepository(time.Hour)
	repo := NewFailoverStateRepository(primary, fallback, &logger)
	repo.backoff = BackoffPolicy{Initial: time.Millisecond, Max: time.Millisecond, Factor: 2}

	_, err := repo.GetDraft(ctx, "a@b.c")
	require.NoError(t, err)
	require.True(t, repo.isDown.Load())

	time.Sleep(5 * time.Millisecond)

	// the probe window has elapsed and the primary is healthy again
	_, err = repo.GetDraft(ctx, "a@b.c")
	require.NoError(t, err)
	assert.False(t, repo.isDown.Load())
	assert.Equal(t, 2, primary.calls)
}

func TestBackoffPolicyDelay(t *testing.T) {
	policy := BackoffPolicy{Initial: 15 * time.Second, Max: 5 * time.Minute, Factor: 2}

	assert.Equal(t, 15*time.Second, policy.Delay(1))
	assert.Equal(t, 30*time.Second, policy.Delay(2))
	assert.Equal(t, 2*time.Minute, policy.Delay(4))
	assert.Equal(t, 5*time.Minute, policy.Delay(10), "clamped to Max")
	assert.Equal(t, 15*time.Second, policy.Delay(0), "attempts below one use the initial delay")

	var zero BackoffPolicy
	assert.Equal(t, time.Second, zero.Delay(1))
	assert.Equal(t, 2*time.Second, zero.Delay(2))
}
