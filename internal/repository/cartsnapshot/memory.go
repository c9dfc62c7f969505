package cartsnapshot

import (
	"context"
	"sync"
	"time"

	"ataka-storefront/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	snaps map[string]domain.CartSnapshot
	now   func() time.Time
}

// NewMemory keeps snapshots in process memory; used when no database is configured.
func NewMemory() Repository {
	return &memoryRepo{snaps: make(map[string]domain.CartSnapshot), now: time.Now}
}

func (r *memoryRepo) Get(_ context.Context, userID string) (*domain.CartSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.snaps[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	snap.Items = append([]domain.SyncItem{}, snap.Items...)
	return &snap, nil
}

func (r *memoryRepo) Save(_ context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	snap := domain.CartSnapshot{
		UserID:    userID,
		Items:     append([]domain.SyncItem{}, items...),
		UpdatedAt: r.now().UTC(),
	}
	r.mu.Lock()
	r.snaps[userID] = snap
	r.mu.Unlock()
	out := snap
	out.Items = append([]domain.SyncItem{}, snap.Items...)
	return &out, nil
}
