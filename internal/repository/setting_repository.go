package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingsSchema = `
	CREATE TABLE IF NOT EXISTS plugin_settings (
		namespace  TEXT        NOT NULL,
		field      TEXT        NOT NULL,
		value      TEXT        NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (namespace, field)
	)
`

// SettingRepository is the key-value settings store. Fields are grouped by
// namespace; a field that was never written reads as absent.
type SettingRepository struct {
	pool *pgxpool.Pool
}

func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

// EnsureSchema creates the settings table if needed.
func (r *SettingRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, settingsSchema); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}
	return nil
}

// GetFields returns the stored values for keys under namespace. Keys with no
// row are omitted from the result.
func (r *SettingRepository) GetFields(ctx context.Context, namespace string, keys []string) (map[string]string, error) {
	query := `
		SELECT field, value
		FROM plugin_settings
		WHERE namespace = $1 AND field = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, namespace, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	defer rows.Close()

	fields := make(map[string]string, len(keys))
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		fields[field] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return fields, nil
}

// SetFields upserts every entry of values under namespace in one transaction.
func (r *SettingRepository) SetFields(ctx context.Context, namespace string, values map[string]string) error {
	query := `
		INSERT INTO plugin_settings (namespace, field, value, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, field)
		DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for field, value := range values {
			batch.Queue(query, namespace, field, value)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		return nil
	})
}
