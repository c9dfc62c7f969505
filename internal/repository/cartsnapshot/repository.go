package cartsnapshot

import (
	"context"

	"ataka-storefront/internal/domain"
)

// Repository keeps one cart snapshot per user. Save replaces whatever was
// stored before.
type Repository interface {
	Get(ctx context.Context, userID string) (*domain.CartSnapshot, error)
	Save(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error)
}
