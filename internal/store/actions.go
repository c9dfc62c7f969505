package store

import (
	"time"

	"ataka-storefront/internal/domain"
)

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

type AddToCart struct {
	Book domain.BookRef
	At   time.Time
}

type RemoveFromCart struct {
	BookID string
}

// UpdateQuantity with Quantity <= 0 removes the entry.
type UpdateQuantity struct {
	BookID   string
	Quantity int
}

type ClearCart struct{}

type AddToWishlist struct {
	Book domain.BookRef
	At   time.Time
}

type RemoveFromWishlist struct {
	BookID string
}

type ToggleCart struct{}

type ToggleWishlist struct{}

type SetUser struct {
	User domain.UserRef
}

type ClearUser struct{}

// LoadState replaces both collections, as on session restore.
type LoadState struct {
	Cart     []domain.CartItem
	Wishlist []domain.WishlistItem
}

func (AddToCart) isAction()          {}
func (RemoveFromCart) isAction()     {}
func (UpdateQuantity) isAction()     {}
func (ClearCart) isAction()          {}
func (AddToWishlist) isAction()      {}
func (RemoveFromWishlist) isAction() {}
func (ToggleCart) isAction()         {}
func (ToggleWishlist) isAction()     {}
func (SetUser) isAction()            {}
func (ClearUser) isAction()          {}
func (LoadState) isAction()          {}
