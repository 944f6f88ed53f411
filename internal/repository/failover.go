package repository

import (
	"context"
	"sync/atomic"
	"time"

	"naayee/internal/domain"
	"naayee/internal/models"

	"github.com/rs/zerolog"
)

// FailoverStateRepository serves drafts from the primary store and degrades
// to the fallback when the primary errors. Recovery probes against the
// primary are spaced by an exponential backoff so a dead store is not
// hammered on every read.
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	backoff   BackoffPolicy
	isDown    atomic.Bool
	probes    int
	lastCheck time.Time
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		backoff:  DefaultBackoff,
	}
}

func (r *FailoverStateRepository) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary draft store failed, falling back to memory")
	r.isDown.Store(true)
	r.probes = 1
	r.lastCheck = time.Now()
}

func (r *FailoverStateRepository) GetDraft(ctx context.Context, owner string) (*models.BookingDraft, error) {
	if !r.isDown.Load() {
		draft, err := r.primary.GetDraft(ctx, owner)
		if err == nil {
			return draft, nil
		}
		r.markDown(err)
	}

	if r.isDown.Load() && time.Since(r.lastCheck) > r.backoff.Delay(r.probes) {
		draft, err := r.primary.GetDraft(ctx, owner)
		if err == nil {
			r.isDown.Store(false)
			r.probes = 0
			return draft, nil
		}
		r.probes++
		r.lastCheck = time.Now()
	}

	return r.fallback.GetDraft(ctx, owner)
}

func (r *FailoverStateRepository) SetDraft(ctx context.Context, owner string, draft *models.BookingDraft) error {
	if !r.isDown.Load() {
		err := r.primary.SetDraft(ctx, owner, draft)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.SetDraft(ctx, owner, draft)
}

func (r *FailoverStateRepository) ClearDraft(ctx context.Context, owner string) error {
	if !r.isDown.Load() {
		err := r.primary.ClearDraft(ctx, owner)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.ClearDraft(ctx, owner)
}
