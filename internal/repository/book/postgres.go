package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const selectColumns = `id::text, title, COALESCE(title_te, ''), COALESCE(author, ''), price::text, COALESCE(image, ''), COALESCE(category, ''), created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (domain.Book, error) {
	var b domain.Book
	var price string
	if err := row.Scan(&b.ID, &b.Title, &b.TitleTe, &b.Author, &price, &b.Image, &b.Category, &b.CreatedAt); err != nil {
		return b, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return b, fmt.Errorf("book %s: parse price %q: %w", b.ID, price, err)
	}
	b.Price = p
	return b, nil
}

func (r *postgresRepo) List(ctx context.Context, category string) ([]domain.Book, error) {
	q := `
SELECT ` + selectColumns + `
FROM books
WHERE ($1 = '' OR category = $1)
ORDER BY created_at DESC, title
`
	rows, err := r.pool.Query(ctx, q, category)
	if err != nil {
		r.logger.Error("book repo: list failed", zap.String("category", category), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("book repo: list rows failed", zap.String("category", category), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("book repo: list", zap.String("category", category), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	q := `
SELECT ` + selectColumns + `
FROM books
WHERE id = $1
`
	b, err := scanBook(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("book repo: get not found", zap.String("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("book repo: get failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, b domain.Book) (*domain.Book, error) {
	const q = `
INSERT INTO books (id, title, title_te, author, price, image, category)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, NULLIF($3, ''), NULLIF($4, ''), $5::numeric, NULLIF($6, ''), NULLIF($7, ''))
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    title_te = EXCLUDED.title_te,
    author = EXCLUDED.author,
    price = EXCLUDED.price,
    image = EXCLUDED.image,
    category = EXCLUDED.category
RETURNING id::text, created_at
`
	res := b
	err := r.pool.QueryRow(ctx, q,
		b.ID,
		b.Title,
		b.TitleTe,
		b.Author,
		b.Price.String(),
		b.Image,
		b.Category,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Error("book repo: upsert failed", zap.String("id", b.ID), zap.String("title", b.Title), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("book repo: upserted", zap.String("id", res.ID), zap.String("title", res.Title))
	return &res, nil
}
