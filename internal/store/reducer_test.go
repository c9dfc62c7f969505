package store

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ataka-storefront/internal/domain"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func book(id string, price string) domain.BookRef {
	return domain.BookRef{ID: id, Title: "Book " + id, Price: decimal.RequireFromString(price)}
}

func TestReduceAddToCartMergesByID(t *testing.T) {
	b := book("b1", "250")
	s := Reduce(domain.AppState{}, AddToCart{Book: b, At: t0})
	s = Reduce(s, AddToCart{Book: b, At: t0.Add(time.Minute)})

	require.Len(t, s.Cart, 1)
	assert.Equal(t, 2, s.Cart[0].Quantity)
	assert.True(t, s.Cart[0].AddedAt.Equal(t0), "first add timestamp kept")
}

func TestReduceUpdateQuantityZeroRemoves(t *testing.T) {
	s := Reduce(domain.AppState{}, AddToCart{Book: book("b1", "100"), At: t0})
	s = Reduce(s, AddToCart{Book: book("b2", "100"), At: t0})

	viaUpdate := Reduce(s, UpdateQuantity{BookID: "b1", Quantity: 0})
	viaRemove := Reduce(s, RemoveFromCart{BookID: "b1"})
	assert.Equal(t, viaRemove.Cart, viaUpdate.Cart)
	require.Len(t, viaUpdate.Cart, 1)
	assert.Equal(t, "b2", viaUpdate.Cart[0].Book.ID)

	negative := Reduce(s, UpdateQuantity{BookID: "b2", Quantity: -3})
	require.Len(t, negative.Cart, 1)
	assert.Equal(t, "b1", negative.Cart[0].Book.ID)
}

func TestReduceMissingIDsAreNoOps(t *testing.T) {
	s := Reduce(domain.AppState{}, AddToCart{Book: book("b1", "100"), At: t0})
	assert.Equal(t, s, Reduce(s, RemoveFromCart{BookID: "nope"}))
	assert.Equal(t, s, Reduce(s, UpdateQuantity{BookID: "nope", Quantity: 4}))
	assert.Equal(t, s, Reduce(s, RemoveFromWishlist{BookID: "nope"}))
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := Reduce(domain.AppState{}, AddToCart{Book: book("b1", "100"), At: t0})
	before := s.Cart[0].Quantity

	_ = Reduce(s, AddToCart{Book: book("b1", "100"), At: t0})
	_ = Reduce(s, UpdateQuantity{BookID: "b1", Quantity: 9})
	assert.Equal(t, before, s.Cart[0].Quantity)
}

func TestReduceWishlistDuplicateIsNoOp(t *testing.T) {
	b := book("b1", "100")
	s := Reduce(domain.AppState{}, AddToWishlist{Book: b, At: t0})
	s = Reduce(s, AddToWishlist{Book: b, At: t0.Add(time.Hour)})
	require.Len(t, s.Wishlist, 1)
	assert.True(t, s.Wishlist[0].AddedAt.Equal(t0))

	s = Reduce(s, RemoveFromWishlist{BookID: "b1"})
	assert.Empty(t, s.Wishlist)
}

func TestReduceClearCart(t *testing.T) {
	s := Reduce(domain.AppState{}, AddToCart{Book: book("b1", "100"), At: t0})
	s = Reduce(s, ClearCart{})
	assert.Empty(t, s.Cart)
	assert.Equal(t, 0, ItemCount(s.Cart))
	assert.True(t, CartTotal(s.Cart).IsZero())
}

func TestReduceTogglesAreMutuallyExclusive(t *testing.T) {
	s := Reduce(domain.AppState{}, ToggleWishlist{})
	require.True(t, s.IsWishlistOpen)

	s = Reduce(s, ToggleCart{})
	assert.True(t, s.IsCartOpen)
	assert.False(t, s.IsWishlistOpen)

	s = Reduce(s, ToggleCart{})
	assert.False(t, s.IsCartOpen)
	assert.False(t, s.IsWishlistOpen)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			s = Reduce(s, ToggleCart{})
		} else {
			s = Reduce(s, ToggleWishlist{})
		}
		require.False(t, s.IsCartOpen && s.IsWishlistOpen, "both panels open after step %d", i)
	}
}

func TestReduceUserLifecycle(t *testing.T) {
	s := Reduce(domain.AppState{}, SetUser{User: domain.UserRef{ID: "u1", Name: "Ravi"}})
	require.NotNil(t, s.User)
	assert.Equal(t, "u1", s.User.ID)
	s = Reduce(s, ClearUser{})
	assert.Nil(t, s.User)
}

func TestReduceLoadStateSanitizes(t *testing.T) {
	s := Reduce(domain.AppState{}, LoadState{
		Cart: []domain.CartItem{
			{Book: book("b1", "10"), Quantity: 2, AddedAt: t0},
			{Book: book("", "10"), Quantity: 1},
			{Book: book("b2", "10"), Quantity: 0},
			{Book: book("b1", "10"), Quantity: 3},
		},
		Wishlist: []domain.WishlistItem{
			{Book: book("w1", "10")},
			{Book: book("w1", "10")},
		},
	})
	require.Len(t, s.Cart, 1)
	assert.Equal(t, 5, s.Cart[0].Quantity)
	assert.Len(t, s.Wishlist, 1)
}

// Random action sequences keep the cart free of duplicates and non-positive
// quantities, and the derived totals agree with an independent model.
func TestReduceRandomSequencesKeepInvariants(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	prices := map[string]decimal.Decimal{
		"a": decimal.RequireFromString("199.50"),
		"b": decimal.RequireFromString("250"),
		"c": decimal.RequireFromString("0.99"),
		"d": decimal.RequireFromString("1200"),
	}

	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		s := domain.AppState{}
		model := map[string]int{}

		for step := 0; step < 200; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(4) {
			case 0, 1:
				s = Reduce(s, AddToCart{Book: domain.BookRef{ID: id, Price: prices[id]}, At: t0})
				model[id]++
			case 2:
				s = Reduce(s, RemoveFromCart{BookID: id})
				delete(model, id)
			case 3:
				q := rng.Intn(6) - 1
				s = Reduce(s, UpdateQuantity{BookID: id, Quantity: q})
				if _, ok := model[id]; ok {
					if q <= 0 {
						delete(model, id)
					} else {
						model[id] = q
					}
				}
			}

			seen := map[string]bool{}
			for _, item := range s.Cart {
				require.Greater(t, item.Quantity, 0, "seed %d step %d", seed, step)
				require.False(t, seen[item.Book.ID], "duplicate %s seed %d step %d", item.Book.ID, seed, step)
				seen[item.Book.ID] = true
			}
			require.Len(t, s.Cart, len(model))

			wantTotal := decimal.Zero
			wantCount := 0
			for id, q := range model {
				wantTotal = wantTotal.Add(prices[id].Mul(decimal.NewFromInt(int64(q))))
				wantCount += q
			}
			require.True(t, wantTotal.Equal(CartTotal(s.Cart)), "total %s want %s", CartTotal(s.Cart), wantTotal)
			require.Equal(t, wantCount, ItemCount(s.Cart))
		}
	}
}
