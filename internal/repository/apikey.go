package repository

import (
	"context"
	"time"

	"github.com/alexivanou/cityshare-api/internal/model"
)

const apiKeyColumns = `k.id, k.user_id, k.name, k.key_prefix, k.key_hash, k.is_active, k.last_used_at, k.created_at`

type apiKeyRepository struct {
	*base
}

func (r *apiKeyRepository) Create(ctx context.Context, k *model.APIKey) (*model.APIKey, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int64
	q := r.db.Rebind(`INSERT INTO api_keys (user_id, name, key_prefix, key_hash, is_active) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	if err := r.db.GetContext(ctx, &id, q, k.UserID, k.Name, k.KeyPrefix, k.KeyHash, k.IsActive); err != nil {
		return nil, translate(err, "api key", k.Name)
	}

	var created model.APIKey
	if err := r.db.GetContext(ctx, &created, r.db.Rebind(`SELECT `+apiKeyColumns+` FROM api_keys k WHERE k.id = ?`), id); err != nil {
		return nil, translate(err, "api key", id)
	}
	return &created, nil
}

// GetByHash is never cached: deactivation must take effect on the next request
func (r *apiKeyRepository) GetByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var k model.APIKey
	if err := r.db.GetContext(ctx, &k, r.db.Rebind(`SELECT `+apiKeyColumns+` FROM api_keys k WHERE k.key_hash = ?`), hash); err != nil {
		return nil, translate(err, "api key", "hash")
	}
	return &k, nil
}

func (r *apiKeyRepository) List(ctx context.Context) ([]model.APIKeyView, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	keys := []model.APIKeyView{}
	q := `SELECT ` + apiKeyColumns + `, u.username
		FROM api_keys k
		JOIN users u ON u.id = k.user_id
		ORDER BY k.created_at DESC, k.id DESC`
	if err := r.db.SelectContext(ctx, &keys, q); err != nil {
		return nil, translate(err, "api keys", nil)
	}
	return keys, nil
}

func (r *apiKeyRepository) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE api_keys SET is_active = ? WHERE id = ?`), active, id)
	if err != nil {
		return translate(err, "api key", id)
	}
	return requireRows(res, "api key", id)
}

func (r *apiKeyRepository) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE api_keys SET last_used_at = ? WHERE id = ?`), at.UTC(), id); err != nil {
		return translate(err, "api key", id)
	}
	return nil
}

func (r *apiKeyRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM api_keys WHERE id = ?`), id)
	if err != nil {
		return translate(err, "api key", id)
	}
	return requireRows(res, "api key", id)
}
