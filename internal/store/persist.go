package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/storage"
)

// Storage keys shared with the storefront client.
const (
	CartKey     = "ataka-cart"
	WishlistKey = "ataka-wishlist"
	PincodeKey  = "userPincode"
)

// loadCollections reads both persisted collections. Anything missing,
// unreadable or not a JSON array is treated as empty.
func loadCollections(ctx context.Context, kv storage.KV, logger *zap.Logger) ([]domain.CartItem, []domain.WishlistItem) {
	cart := loadJSON[[]domain.CartItem](ctx, kv, CartKey, logger)
	wishlist := loadJSON[[]domain.WishlistItem](ctx, kv, WishlistKey, logger)
	return cart, wishlist
}

// loadJSON decodes key into a fresh T. Any error, including a type error on
// a single element, discards the whole value.
func loadJSON[T any](ctx context.Context, kv storage.KV, key string, logger *zap.Logger) T {
	var zero T
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		logger.Warn("read persisted state failed, starting empty", zap.String("key", key), zap.Error(err))
		return zero
	}
	if !ok || raw == "" {
		return zero
	}
	var decoded T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		logger.Warn("discarding unparseable persisted state", zap.String("key", key), zap.Error(err))
		return zero
	}
	return decoded
}

// persist writes both collections. The two keys are written independently;
// a failure on one does not prevent the other.
func persist(ctx context.Context, kv storage.KV, s domain.AppState, logger *zap.Logger) {
	writeJSON(ctx, kv, CartKey, nonNilCart(s.Cart), logger)
	writeJSON(ctx, kv, WishlistKey, nonNilWishlist(s.Wishlist), logger)
}

func writeJSON(ctx context.Context, kv storage.KV, key string, v interface{}, logger *zap.Logger) {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Error("encode state failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := kv.Set(ctx, key, string(raw)); err != nil {
		logger.Warn("persist state failed", zap.String("key", key), zap.Error(err))
	}
}

func nonNilCart(c []domain.CartItem) []domain.CartItem {
	if c == nil {
		return []domain.CartItem{}
	}
	return c
}

func nonNilWishlist(w []domain.WishlistItem) []domain.WishlistItem {
	if w == nil {
		return []domain.WishlistItem{}
	}
	return w
}
