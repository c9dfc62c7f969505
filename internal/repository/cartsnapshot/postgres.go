package cartsnapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	const q = `
SELECT user_id, items, updated_at
FROM cart_snapshots
WHERE user_id = $1
`
	var snap domain.CartSnapshot
	var raw []byte
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&snap.UserID, &raw, &snap.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("cart snapshot repo: get failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if err := json.Unmarshal(raw, &snap.Items); err != nil {
		return nil, fmt.Errorf("cart snapshot %s: decode items: %w", userID, err)
	}
	if snap.Items == nil {
		snap.Items = []domain.SyncItem{}
	}
	return &snap, nil
}

func (r *postgresRepo) Save(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error) {
	const q = `
INSERT INTO cart_snapshots (user_id, items, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (user_id) DO UPDATE
SET items = EXCLUDED.items,
    updated_at = EXCLUDED.updated_at
RETURNING updated_at
`
	if items == nil {
		items = []domain.SyncItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart items: %w", err)
	}
	snap := domain.CartSnapshot{UserID: userID, Items: items}
	if err := r.pool.QueryRow(ctx, q, userID, string(raw)).Scan(&snap.UpdatedAt); err != nil {
		r.logger.Error("cart snapshot repo: save failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("cart snapshot repo: saved", zap.String("user_id", userID), zap.Int("items", len(items)))
	return &snap, nil
}
