package store

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/storage"
)

// Store owns one session's AppState. Dispatch applies Reduce under a lock and
// then writes the collections through to storage and, for a signed-in user,
// publishes the cart to the sync outbox. Local state is always authoritative.
type Store struct {
	mu     sync.Mutex
	state  domain.AppState
	kv     storage.KV
	outbox *Outbox
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutbox enables remote cart sync through o. The store closes o on Close.
func WithOutbox(o *Outbox) Option {
	return func(s *Store) { s.outbox = o }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New restores persisted collections from kv. It never fails: unreadable
// state is discarded and the store starts empty.
func New(ctx context.Context, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	cart, wishlist := loadCollections(ctx, kv, s.logger)
	s.state = Reduce(domain.AppState{}, LoadState{Cart: cart, Wishlist: wishlist})
	return s
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(ctx context.Context, a Action) domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next := Reduce(prev, a)
	s.state = next

	cartChanged := !reflect.DeepEqual(prev.Cart, next.Cart)
	wishlistChanged := !reflect.DeepEqual(prev.Wishlist, next.Wishlist)
	if cartChanged || wishlistChanged {
		persist(ctx, s.kv, next, s.logger)
	}

	signedIn := next.User != nil && (prev.User == nil || prev.User.ID != next.User.ID)
	if next.User != nil && (cartChanged || signedIn) && s.outbox != nil {
		s.outbox.Publish(next.User.ID, domain.SyncItems(next.Cart))
	}
	return next
}

// State returns the current state. The returned slices must not be modified.
func (s *Store) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) AddToCart(ctx context.Context, book domain.BookRef) domain.AppState {
	return s.Dispatch(ctx, AddToCart{Book: book, At: s.now().UTC()})
}

func (s *Store) RemoveFromCart(ctx context.Context, bookID string) domain.AppState {
	return s.Dispatch(ctx, RemoveFromCart{BookID: bookID})
}

func (s *Store) UpdateQuantity(ctx context.Context, bookID string, quantity int) domain.AppState {
	return s.Dispatch(ctx, UpdateQuantity{BookID: bookID, Quantity: quantity})
}

func (s *Store) ClearCart(ctx context.Context) domain.AppState {
	return s.Dispatch(ctx, ClearCart{})
}

func (s *Store) AddToWishlist(ctx context.Context, book domain.BookRef) domain.AppState {
	return s.Dispatch(ctx, AddToWishlist{Book: book, At: s.now().UTC()})
}

func (s *Store) RemoveFromWishlist(ctx context.Context, bookID string) domain.AppState {
	return s.Dispatch(ctx, RemoveFromWishlist{BookID: bookID})
}

func (s *Store) ToggleCart(ctx context.Context) domain.AppState {
	return s.Dispatch(ctx, ToggleCart{})
}

func (s *Store) ToggleWishlist(ctx context.Context) domain.AppState {
	return s.Dispatch(ctx, ToggleWishlist{})
}

func (s *Store) SetUser(ctx context.Context, user domain.UserRef) domain.AppState {
	return s.Dispatch(ctx, SetUser{User: user})
}

func (s *Store) ClearUser(ctx context.Context) domain.AppState {
	return s.Dispatch(ctx, ClearUser{})
}

func (s *Store) CartTotal() decimal.Decimal {
	return CartTotal(s.State().Cart)
}

func (s *Store) ItemCount() int {
	return ItemCount(s.State().Cart)
}

func (s *Store) IsInCart(bookID string) bool {
	return cartIndex(s.State().Cart, bookID) >= 0
}

func (s *Store) IsInWishlist(bookID string) bool {
	return wishlistIndex(s.State().Wishlist, bookID) >= 0
}

// CartQuantity returns the quantity of bookID in the cart, or 0.
func (s *Store) CartQuantity(bookID string) int {
	cart := s.State().Cart
	if i := cartIndex(cart, bookID); i >= 0 {
		return cart[i].Quantity
	}
	return 0
}

// SyncFailures returns the outbox failure log, or nil when sync is disabled.
func (s *Store) SyncFailures() []SyncFailure {
	if s.outbox == nil {
		return nil
	}
	return s.outbox.Failures()
}

// Close flushes pending sync work.
func (s *Store) Close() {
	if s.outbox != nil {
		s.outbox.Close()
	}
}
