package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ataka-storefront/internal/domain"
)

type stubBookRepo struct {
	items []domain.Book
}

func (s *stubBookRepo) Upsert(_ context.Context, b domain.Book) (*domain.Book, error) {
	s.items = append(s.items, b)
	return &b, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,title,title_te,author,price,image,category
00000000-0000-0000-0000-000000000001,Kanyasulkam,కన్యాశుల్కం,Gurajada Apparao,250,https://example.com/k.jpg,Plays
bk-002,Veyi Padagalu,వేయి పడగలు,Viswanatha Satyanarayana,₹499.999,,novels
,,,,,,
,Maro Prapancham,,,120.5,,`

	repo := &stubBookRepo{}
	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 books imported, got %d", count)
	}

	first := repo.items[0]
	if first.ID != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("expected uuid id to be preserved, got %s", first.ID)
	}
	if first.TitleTe != "కన్యాశుల్కం" || first.Category != "plays" || !first.Price.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected first book %+v", first)
	}

	second := repo.items[1]
	if second.ID != uuid.NewSHA1(BookNamespace, []byte("bk-002")).String() {
		t.Fatalf("expected derived id, got %s", second.ID)
	}
	if !second.Price.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected rounded price 500, got %s", second.Price)
	}

	if repo.items[2].ID != "" {
		t.Fatalf("expected empty id for database assignment, got %s", repo.items[2].ID)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing column": "id,title\n1,Book",
		"bad price":      "title,price\nBook,abc",
		"negative price": "title,price\nBook,-1",
		"no title":       "title,price\n,10",
	}
	for name, data := range cases {
		if _, err := NewCSVImporter(strings.NewReader(data), &stubBookRepo{}).Run(context.Background()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestBookIDIsStable(t *testing.T) {
	if BookID("abc") != BookID("abc") {
		t.Fatalf("expected deterministic id")
	}
	if BookID("abc") == BookID("abd") {
		t.Fatalf("expected distinct ids")
	}
}
