package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	Book     BookRef   `json:"book"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

type WishlistItem struct {
	Book    BookRef   `json:"book"`
	AddedAt time.Time `json:"addedAt"`
}

// AppState is the whole client session state. At most one of IsCartOpen and
// IsWishlistOpen is true.
type AppState struct {
	Cart           []CartItem     `json:"cart"`
	Wishlist       []WishlistItem `json:"wishlist"`
	User           *UserRef       `json:"user,omitempty"`
	IsCartOpen     bool           `json:"isCartOpen"`
	IsWishlistOpen bool           `json:"isWishlistOpen"`
}

// SyncItem is one line of a cart snapshot exchanged with the remote cart API.
type SyncItem struct {
	BookID   string          `json:"bookId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Title    string          `json:"title"`
	Image    string          `json:"image,omitempty"`
}

// CartSnapshot is the server-side copy of a user's cart.
type CartSnapshot struct {
	UserID    string     `json:"userId"`
	Items     []SyncItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SyncItems projects cart entries into the remote cart wire shape.
func SyncItems(cart []CartItem) []SyncItem {
	out := make([]SyncItem, 0, len(cart))
	for _, item := range cart {
		out = append(out, SyncItem{
			BookID:   item.Book.ID,
			Quantity: item.Quantity,
			Price:    item.Book.Price,
			Title:    item.Book.Title,
			Image:    item.Book.Image,
		})
	}
	return out
}
