package cartsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
	snaprepo "ataka-storefront/internal/repository/cartsnapshot"
)

// Service is the server side of the remote cart API. Each user has one
// snapshot and the latest write wins.
type Service struct {
	repo   snaprepo.Repository
	logger *zap.Logger
}

func New(repo snaprepo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// ValidationError is returned for malformed cart lines.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Reason)
}

func validate(userID string, items []domain.SyncItem) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUserRequired
	}
	for i, it := range items {
		switch {
		case strings.TrimSpace(it.BookID) == "":
			return &ValidationError{Index: i, Reason: "bookId required"}
		case it.Quantity <= 0:
			return &ValidationError{Index: i, Reason: "quantity must be positive"}
		case it.Price.IsNegative():
			return &ValidationError{Index: i, Reason: "price must not be negative"}
		}
	}
	return nil
}

// Save replaces the user's snapshot with items.
func (s *Service) Save(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	if err := validate(userID, items); err != nil {
		return nil, err
	}
	snap, err := s.repo.Save(ctx, userID, items)
	if err != nil {
		return nil, err
	}
	s.logger.Info("cart saved", zap.String("user_id", userID), zap.Int("items", len(items)))
	return snap, nil
}

// Sync overwrites the snapshot when items is non-empty. An empty list leaves
// the stored snapshot alone and returns it, so a fresh session signing in does
// not wipe the account's cart.
func (s *Service) Sync(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	if err := validate(userID, items); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return s.Save(ctx, userID, items)
	}
	snap, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.CartSnapshot{UserID: userID, Items: []domain.SyncItem{}}, nil
	}
	return snap, err
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserRequired
	}
	return s.repo.Get(ctx, userID)
}

// SyncCart lets a Store publish to this service in-process.
func (s *Service) SyncCart(ctx context.Context, userID string, items []domain.SyncItem) error {
	_, err := s.Sync(ctx, userID, items)
	return err
}
