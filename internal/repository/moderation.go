package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type moderationRepository struct {
	*base
}

func (r *moderationRepository) GetAll(ctx context.Context) (map[string]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT key, value FROM moderation_settings`); err != nil {
		return nil, translate(err, "moderation settings", nil)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (r *moderationRepository) SetAll(ctx context.Context, values map[string]string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		q := tx.Rebind(`
			INSERT INTO moderation_settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`)
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, q, key, value); err != nil {
				return translate(err, "moderation setting", key)
			}
		}
		return nil
	})
}
