package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ataka-storefront/internal/domain"
)

// BookNamespace derives stable book ids from non-UUID catalog ids, so the
// same export imported twice updates rather than duplicates.
var BookNamespace = uuid.MustParse("6f1d4a52-3c1e-4b8e-9a57-1f0c2d7e8b90")

type BookWriter interface {
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)
}

// CSVImporter reads a catalog export with the columns
// id,title,title_te,author,price,image,category and upserts every row.
type CSVImporter struct {
	reader *csv.Reader
	repo   BookWriter
}

func NewCSVImporter(r io.Reader, repo BookWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr, repo: repo}
}

var requiredColumns = []string{"title", "price"}

// Run upserts rows in file order and returns how many were written. Blank
// lines are skipped; the first invalid row stops the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		b, skip, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if skip {
			continue
		}
		if _, err := i.repo.Upsert(ctx, b); err != nil {
			return imported, fmt.Errorf("upsert book %q: %w", b.Title, err)
		}
		imported++
	}
	return imported, nil
}

func parseRow(record []string, index map[string]int) (domain.Book, bool, error) {
	b := domain.Book{
		ID:       pick(record, index, "id"),
		Title:    pick(record, index, "title"),
		TitleTe:  pick(record, index, "title_te"),
		Author:   pick(record, index, "author"),
		Image:    pick(record, index, "image"),
		Category: strings.ToLower(pick(record, index, "category")),
	}
	priceStr := pick(record, index, "price")
	if b.ID == "" && b.Title == "" && priceStr == "" {
		return b, true, nil
	}
	if b.Title == "" {
		return b, false, errors.New("title required")
	}
	price, err := decimal.NewFromString(strings.TrimPrefix(priceStr, "₹"))
	if err != nil {
		return b, false, fmt.Errorf("invalid price %q for %q", priceStr, b.Title)
	}
	if price.IsNegative() {
		return b, false, fmt.Errorf("negative price for %q", b.Title)
	}
	b.Price = price.Round(2)
	b.ID = BookID(b.ID)
	return b, false, nil
}

// BookID returns id unchanged when it is a UUID, a name-based UUID for any
// other non-empty id, and "" (let the database assign one) otherwise.
func BookID(id string) string {
	if id == "" {
		return ""
	}
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return uuid.NewSHA1(BookNamespace, []byte(id)).String()
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
