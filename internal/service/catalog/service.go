package catalog

import (
	"context"
	"strings"

	"ataka-storefront/internal/domain"
	bookrepo "ataka-storefront/internal/repository/book"
)

type Service struct {
	repo bookrepo.Repository
}

func New(repo bookrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, category string) ([]domain.Book, error) {
	return s.repo.List(ctx, strings.TrimSpace(category))
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Book, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Ref resolves id into the projection stored in cart and wishlist entries.
func (s *Service) Ref(ctx context.Context, id string) (domain.BookRef, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return domain.BookRef{}, err
	}
	return b.Ref(), nil
}

func (s *Service) Upsert(ctx context.Context, b domain.Book) (*domain.Book, error) {
	return s.repo.Upsert(ctx, b)
}
