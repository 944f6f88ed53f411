package repository

import (
	"context"
	"sync"
	"time"

	"naayee/internal/models"
)

type draftEntry struct {
	draft     *models.BookingDraft
	expiresAt time.Time
}

// MemoryStateRepository is the in-process fallback draft store. Drafts held
// here do not survive a restart.
type MemoryStateRepository struct {
	mu     sync.Mutex
	drafts map[string]draftEntry
	ttl    time.Duration
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		drafts: make(map[string]draftEntry),
		ttl:    ttl,
	}
}

func (r *MemoryStateRepository) GetDraft(ctx context.Context, owner string) (*models.BookingDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.drafts[owner]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(r.drafts, owner)
		return nil, nil
	}
	return entry.draft, nil
}

func (r *MemoryStateRepository) SetDraft(ctx context.Context, owner string, draft *models.BookingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := draftEntry{draft: draft}
	if r.ttl > 0 {
		entry.expiresAt = time.Now().Add(r.ttl)
	}
	r.drafts[owner] = entry
	return nil
}

func (r *MemoryStateRepository) ClearDraft(ctx context.Context, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, owner)
	return nil
}
