package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresKV struct {
	pool      *pgxpool.Pool
	namespace string
	logger    *zap.Logger
}

// NewPostgres stores keys in the kv_entries table under namespace.
func NewPostgres(pool *pgxpool.Pool, namespace string, logger *zap.Logger) KV {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresKV{pool: pool, namespace: namespace, logger: logger}
}

func (r *postgresKV) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `
SELECT value
FROM kv_entries
WHERE namespace = $1 AND key = $2
`
	var value string
	err := r.pool.QueryRow(ctx, q, r.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		r.logger.Warn("kv get failed", zap.String("namespace", r.namespace), zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	return value, true, nil
}

func (r *postgresKV) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv_entries (namespace, key, value)
VALUES ($1, $2, $3)
ON CONFLICT (namespace, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, r.namespace, key, value); err != nil {
		r.logger.Warn("kv set failed", zap.String("namespace", r.namespace), zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
