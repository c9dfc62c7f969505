package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a catalog entry as stored by the catalog repository.
type Book struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	TitleTe   string          `json:"titleTe,omitempty"`
	Author    string          `json:"author,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Category  string          `json:"category,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// BookRef is the projection of a catalog entry carried by value in cart and wishlist entries.
type BookRef struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	TitleTe  string          `json:"titleTe,omitempty"`
	Author   string          `json:"author,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
}

// Ref projects a Book into a BookRef.
func (b Book) Ref() BookRef {
	return BookRef{
		ID:       b.ID,
		Title:    b.Title,
		TitleTe:  b.TitleTe,
		Author:   b.Author,
		Price:    b.Price,
		Image:    b.Image,
		Category: b.Category,
	}
}
