package store

import (
	"github.com/shopspring/decimal"

	"ataka-storefront/internal/domain"
)

// Reduce returns the state that results from applying a to s. It never
// mutates s: changed collections are copied before they are modified.
func Reduce(s domain.AppState, a Action) domain.AppState {
	switch a := a.(type) {
	case AddToCart:
		if i := cartIndex(s.Cart, a.Book.ID); i >= 0 {
			cart := cloneCart(s.Cart, 0)
			cart[i].Quantity++
			s.Cart = cart
			return s
		}
		s.Cart = append(cloneCart(s.Cart, 1), domain.CartItem{Book: a.Book, Quantity: 1, AddedAt: a.At})
	case RemoveFromCart:
		s.Cart = removeCart(s.Cart, a.BookID)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			s.Cart = removeCart(s.Cart, a.BookID)
			return s
		}
		i := cartIndex(s.Cart, a.BookID)
		if i < 0 || s.Cart[i].Quantity == a.Quantity {
			return s
		}
		cart := cloneCart(s.Cart, 0)
		cart[i].Quantity = a.Quantity
		s.Cart = cart
	case ClearCart:
		if len(s.Cart) > 0 {
			s.Cart = []domain.CartItem{}
		}
	case AddToWishlist:
		if wishlistIndex(s.Wishlist, a.Book.ID) >= 0 {
			return s
		}
		wl := make([]domain.WishlistItem, len(s.Wishlist), len(s.Wishlist)+1)
		copy(wl, s.Wishlist)
		s.Wishlist = append(wl, domain.WishlistItem{Book: a.Book, AddedAt: a.At})
	case RemoveFromWishlist:
		i := wishlistIndex(s.Wishlist, a.BookID)
		if i < 0 {
			return s
		}
		wl := make([]domain.WishlistItem, 0, len(s.Wishlist)-1)
		wl = append(wl, s.Wishlist[:i]...)
		s.Wishlist = append(wl, s.Wishlist[i+1:]...)
	case ToggleCart:
		s.IsCartOpen = !s.IsCartOpen
		s.IsWishlistOpen = false
	case ToggleWishlist:
		s.IsWishlistOpen = !s.IsWishlistOpen
		s.IsCartOpen = false
	case SetUser:
		u := a.User
		s.User = &u
	case ClearUser:
		s.User = nil
	case LoadState:
		s.Cart = sanitizeCart(a.Cart)
		s.Wishlist = sanitizeWishlist(a.Wishlist)
	}
	return s
}

// CartTotal is the sum of price × quantity over the cart.
func CartTotal(cart []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart {
		total = total.Add(item.Book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ItemCount is the sum of quantities over the cart.
func ItemCount(cart []domain.CartItem) int {
	n := 0
	for _, item := range cart {
		n += item.Quantity
	}
	return n
}

func cartIndex(cart []domain.CartItem, bookID string) int {
	for i := range cart {
		if cart[i].Book.ID == bookID {
			return i
		}
	}
	return -1
}

func wishlistIndex(wl []domain.WishlistItem, bookID string) int {
	for i := range wl {
		if wl[i].Book.ID == bookID {
			return i
		}
	}
	return -1
}

func cloneCart(cart []domain.CartItem, extra int) []domain.CartItem {
	out := make([]domain.CartItem, len(cart), len(cart)+extra)
	copy(out, cart)
	return out
}

func removeCart(cart []domain.CartItem, bookID string) []domain.CartItem {
	i := cartIndex(cart, bookID)
	if i < 0 {
		return cart
	}
	out := make([]domain.CartItem, 0, len(cart)-1)
	out = append(out, cart[:i]...)
	return append(out, cart[i+1:]...)
}

// sanitizeCart drops entries without an id or with a non-positive quantity and
// merges duplicate ids, keeping the first entry's position and timestamp.
func sanitizeCart(in []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(in))
	for _, item := range in {
		if item.Book.ID == "" || item.Quantity < 1 {
			continue
		}
		if i := cartIndex(out, item.Book.ID); i >= 0 {
			out[i].Quantity += item.Quantity
			continue
		}
		out = append(out, item)
	}
	return out
}

func sanitizeWishlist(in []domain.WishlistItem) []domain.WishlistItem {
	out := make([]domain.WishlistItem, 0, len(in))
	for _, item := range in {
		if item.Book.ID == "" || wishlistIndex(out, item.Book.ID) >= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}
