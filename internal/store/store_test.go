package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/storage"
)

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncCart(ctx context.Context, userID string, items []domain.SyncItem) error {
	args := m.Called(userID, items)
	return args.Error(0)
}

type failingKV struct {
	storage.KV
	failKey string
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.KV.Set(ctx, key, value)
}

func fixedClock() func() time.Time {
	return func() time.Time { return t0 }
}

func TestStoreRestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	s := New(ctx, kv, WithClock(fixedClock()))
	s.AddToCart(ctx, book("b1", "199.50"))
	s.AddToCart(ctx, book("b1", "199.50"))
	s.AddToCart(ctx, book("b2", "75"))
	s.AddToWishlist(ctx, book("w1", "300"))

	restored := New(ctx, kv)
	got := restored.State()
	want := s.State()

	require.Len(t, got.Cart, len(want.Cart))
	for i := range want.Cart {
		assert.Equal(t, want.Cart[i].Book.ID, got.Cart[i].Book.ID)
		assert.Equal(t, want.Cart[i].Quantity, got.Cart[i].Quantity)
		assert.True(t, want.Cart[i].AddedAt.Equal(got.Cart[i].AddedAt))
		assert.True(t, want.Cart[i].Book.Price.Equal(got.Cart[i].Book.Price))
	}
	require.Len(t, got.Wishlist, 1)
	assert.Equal(t, "w1", got.Wishlist[0].Book.ID)
	assert.True(t, restored.CartTotal().Equal(s.CartTotal()))
	assert.Equal(t, 3, restored.ItemCount())
}

func TestStoreIgnoresCorruptStorage(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, CartKey, "{not json"))
	require.NoError(t, kv.Set(ctx, WishlistKey, `{"book":"not an array"}`))

	s := New(ctx, kv)
	assert.Empty(t, s.State().Cart)
	assert.Empty(t, s.State().Wishlist)

	s.AddToCart(ctx, book("b1", "10"))
	raw, ok, err := kv.Get(ctx, CartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"b1"`)
}

func TestStoreDiscardsPartiallyDecodableStorage(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, CartKey,
		`[{"book":{"id":"b1","price":"10"},"quantity":2},{"book":{"id":"b2"},"quantity":"three"}]`))
	require.NoError(t, kv.Set(ctx, WishlistKey, `[{"book":{"id":"w1"}},{"book":"oops"}]`))

	s := New(ctx, kv)
	assert.Empty(t, s.State().Cart)
	assert.Empty(t, s.State().Wishlist)

	s.AddToCart(ctx, book("b3", "10"))
	raw, _, err := kv.Get(ctx, CartKey)
	require.NoError(t, err)
	assert.NotContains(t, raw, `"b1"`)
	wl, _, err := kv.Get(ctx, WishlistKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", wl)
}

func TestStoreWritesBothKeysOnEveryChange(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := New(ctx, kv)

	s.AddToWishlist(ctx, book("w1", "10"))
	cart, ok, _ := kv.Get(ctx, CartKey)
	require.True(t, ok)
	assert.Equal(t, "[]", cart)
	wl, ok, _ := kv.Get(ctx, WishlistKey)
	require.True(t, ok)
	assert.Contains(t, wl, `"w1"`)
}

func TestStoreStorageFailureKeepsLocalState(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{KV: storage.NewMemory(), failKey: CartKey}
	s := New(ctx, kv)

	state := s.AddToCart(ctx, book("b1", "10"))
	require.Len(t, state.Cart, 1)
	assert.True(t, s.IsInCart("b1"))

	s.AddToWishlist(ctx, book("w1", "10"))
	wl, ok, _ := kv.Get(ctx, WishlistKey)
	require.True(t, ok)
	assert.Contains(t, wl, `"w1"`)
}

func TestStoreQueries(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, storage.NewMemory())
	s.AddToCart(ctx, book("b1", "10"))
	s.UpdateQuantity(ctx, "b1", 4)
	s.AddToWishlist(ctx, book("w1", "10"))

	assert.Equal(t, 4, s.CartQuantity("b1"))
	assert.Equal(t, 0, s.CartQuantity("missing"))
	assert.True(t, s.IsInWishlist("w1"))
	assert.False(t, s.IsInWishlist("b1"))
	assert.Equal(t, "40", s.CartTotal().String())

	s.RemoveFromWishlist(ctx, "w1")
	s.ClearCart(ctx)
	assert.False(t, s.IsInWishlist("w1"))
	assert.Equal(t, 0, s.ItemCount())
	assert.Nil(t, s.SyncFailures())
}

func TestStoreSyncsOnlyForSignedInUser(t *testing.T) {
	ctx := context.Background()
	syncer := &mockSyncer{}
	syncer.On("SyncCart", "u1", mock.Anything).Return(nil)

	s := New(ctx, storage.NewMemory(), WithOutbox(NewOutbox(syncer, 8, time.Second, nil)))
	s.AddToCart(ctx, book("b1", "10"))
	s.SetUser(ctx, domain.UserRef{ID: "u1"})
	s.AddToCart(ctx, book("b1", "10"))
	s.ToggleCart(ctx)
	s.ClearUser(ctx)
	s.AddToCart(ctx, book("b2", "10"))
	s.Close()

	syncer.AssertNumberOfCalls(t, "SyncCart", 2)
	last := syncer.Calls[1].Arguments.Get(1).([]domain.SyncItem)
	require.Len(t, last, 1)
	assert.Equal(t, "b1", last[0].BookID)
	assert.Equal(t, 2, last[0].Quantity)
	assert.Empty(t, s.SyncFailures())
}

func TestStoreSyncFailureIsLoggedNotRolledBack(t *testing.T) {
	ctx := context.Background()
	syncer := &mockSyncer{}
	syncer.On("SyncCart", "u1", mock.Anything).Return(errors.New("503 from remote"))

	s := New(ctx, storage.NewMemory(), WithOutbox(NewOutbox(syncer, 8, time.Second, nil)))
	s.SetUser(ctx, domain.UserRef{ID: "u1"})
	state := s.AddToCart(ctx, book("b1", "10"))
	s.Close()

	require.Len(t, state.Cart, 1)
	assert.True(t, s.IsInCart("b1"))
	failures := s.SyncFailures()
	require.Len(t, failures, 2)
	assert.Equal(t, "u1", failures[1].UserID)
	assert.Equal(t, "503 from remote", failures[1].Err)
	syncer.AssertNumberOfCalls(t, "SyncCart", 2)
}

type blockingSyncer struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingSyncer) SyncCart(ctx context.Context, _ string, _ []domain.SyncItem) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return nil
}

func TestOutboxFullQueueRecordsFailure(t *testing.T) {
	syncer := &blockingSyncer{release: make(chan struct{})}
	o := NewOutbox(syncer, 1, time.Second, nil)

	o.Publish("u1", nil)
	require.Eventually(t, func() bool {
		syncer.mu.Lock()
		defer syncer.mu.Unlock()
		return syncer.calls == 1
	}, time.Second, 5*time.Millisecond)

	o.Publish("u1", nil) // queued
	o.Publish("u1", nil) // dropped
	close(syncer.release)
	o.Close()

	failures := o.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, ErrQueueFull.Error(), failures[0].Err)

	o.Publish("u1", nil)
	failures = o.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, ErrOutboxClosed.Error(), failures[1].Err)
	o.Close()
}
