package book

import (
	"context"

	"ataka-storefront/internal/domain"
)

type Repository interface {
	// List returns books newest first; an empty category matches every book.
	List(ctx context.Context, category string) ([]domain.Book, error)
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)
}
