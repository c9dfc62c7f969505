package book

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ataka-storefront/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	books map[string]domain.Book
	now   func() time.Time
}

// NewMemory is an in-process catalog for running without Postgres.
func NewMemory() Repository {
	return &memoryRepo{books: make(map[string]domain.Book), now: time.Now}
}

func (r *memoryRepo) List(_ context.Context, category string) ([]domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Book
	for _, b := range r.books {
		if category == "" || b.Category == category {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *memoryRepo) Upsert(_ context.Context, b domain.Book) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if prev, ok := r.books[b.ID]; ok {
		b.CreatedAt = prev.CreatedAt
	} else {
		b.CreatedAt = r.now().UTC()
	}
	r.books[b.ID] = b
	return &b, nil
}
