package cartsync

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"ataka-storefront/internal/domain"
	snaprepo "ataka-storefront/internal/repository/cartsnapshot"
)

type stubRepo struct {
	saved     []domain.SyncItem
	saveCalls int
	saveErr   error
	stored    *domain.CartSnapshot
	getErr    error
}

func (s *stubRepo) Get(_ context.Context, _ string) (*domain.CartSnapshot, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.stored == nil {
		return nil, domain.ErrNotFound
	}
	return s.stored, nil
}

func (s *stubRepo) Save(_ context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	s.saveCalls++
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.saved = items
	return &domain.CartSnapshot{UserID: userID, Items: items}, nil
}

var line = domain.SyncItem{BookID: "b1", Quantity: 2, Price: decimal.NewFromInt(150), Title: "Amuktamalyada"}

func TestService_SaveValidates(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	if _, err := svc.Save(context.Background(), " ", []domain.SyncItem{line}); !errors.Is(err, domain.ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}

	bad := line
	bad.Quantity = 0
	_, err := svc.Save(context.Background(), "u1", []domain.SyncItem{line, bad})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Index != 1 {
		t.Fatalf("expected validation error on item 1, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("expected no save on invalid input")
	}

	snap, err := svc.Save(context.Background(), "u1", []domain.SyncItem{line})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(snap.Items) != 1 || repo.saveCalls != 1 {
		t.Fatalf("unexpected save result %+v", snap)
	}
}

func TestService_SyncNonEmptyOverwrites(t *testing.T) {
	repo := &stubRepo{stored: &domain.CartSnapshot{UserID: "u1"}}
	svc := New(repo, nil)

	if _, err := svc.Sync(context.Background(), "u1", []domain.SyncItem{line}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if repo.saveCalls != 1 || len(repo.saved) != 1 {
		t.Fatalf("expected overwrite, got %d saves", repo.saveCalls)
	}
}

func TestService_SyncEmptyReturnsStored(t *testing.T) {
	repo := &stubRepo{stored: &domain.CartSnapshot{UserID: "u1", Items: []domain.SyncItem{line}}}
	svc := New(repo, nil)

	snap, err := svc.Sync(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("empty sync must not save")
	}
	if len(snap.Items) != 1 || snap.Items[0].BookID != "b1" {
		t.Fatalf("expected stored snapshot, got %+v", snap)
	}

	fresh := New(&stubRepo{}, nil)
	snap, err = fresh.Sync(context.Background(), "u2", []domain.SyncItem{})
	if err != nil {
		t.Fatalf("sync unknown user: %v", err)
	}
	if snap.UserID != "u2" || snap.Items == nil || len(snap.Items) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestService_SyncCartPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := New(&stubRepo{saveErr: boom}, nil)
	if err := svc.SyncCart(context.Background(), "u1", []domain.SyncItem{line}); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestService_WithMemoryRepo(t *testing.T) {
	svc := New(snaprepo.NewMemory(), nil)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.SyncCart(ctx, "u1", []domain.SyncItem{line}); err != nil {
		t.Fatalf("sync cart: %v", err)
	}
	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}
