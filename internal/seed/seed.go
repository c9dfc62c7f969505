package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/importer"
)

type bookSeed struct {
	Key      string
	Title    string
	TitleTe  string
	Author   string
	Price    string
	Category string
}

var books = []bookSeed{
	{Key: "maha-prasthanam", Title: "Maha Prasthanam", TitleTe: "మహాప్రస్థానం", Author: "Sri Sri", Price: "150", Category: "poetry"},
	{Key: "kanyasulkam", Title: "Kanyasulkam", TitleTe: "కన్యాశుల్కం", Author: "Gurajada Apparao", Price: "250", Category: "plays"},
	{Key: "veyi-padagalu", Title: "Veyi Padagalu", TitleTe: "వేయి పడగలు", Author: "Viswanatha Satyanarayana", Price: "650", Category: "novels"},
	{Key: "amaravati-kathalu", Title: "Amaravati Kathalu", TitleTe: "అమరావతి కథలు", Author: "Satyam Sankaramanchi", Price: "299.50", Category: "stories"},
	{Key: "chivaraku-migiledi", Title: "Chivaraku Migiledi", TitleTe: "చివరకు మిగిలేది", Author: "Buchi Babu", Price: "220", Category: "novels"},
	{Key: "godan-english", Title: "The Gift of a Cow", Author: "Premchand", Price: "399", Category: "translations"},
}

// Apply upserts the demo catalog. Ids derive from the seed keys, so running
// it twice leaves one copy of each book.
func Apply(ctx context.Context, repo importer.BookWriter) (int, error) {
	for i, s := range books {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return i, fmt.Errorf("seed %s: %w", s.Key, err)
		}
		b := domain.Book{
			ID:       importer.BookID(s.Key),
			Title:    s.Title,
			TitleTe:  s.TitleTe,
			Author:   s.Author,
			Price:    price,
			Category: s.Category,
		}
		if _, err := repo.Upsert(ctx, b); err != nil {
			return i, fmt.Errorf("upsert book %s: %w", s.Key, err)
		}
	}
	return len(books), nil
}
