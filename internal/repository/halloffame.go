package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/jmoiron/sqlx"
)

type hallOfFameRepository struct {
	*base
}

// Upsert inserts or refreshes images keyed by their external id. The link to a city and the
// primary flag are left untouched on refresh.
func (r *hallOfFameRepository) Upsert(ctx context.Context, images []model.HallOfFameImage) error {
	if len(images) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PrepareNamedContext(ctx, `
			INSERT INTO hall_of_fame_cache (hof_image_id, city_name, creator_name, image_url_thumbnail,
				image_url_medium, image_url_large, image_url_original, views, favorites)
			VALUES (:hof_image_id, :city_name, :creator_name, :image_url_thumbnail,
				:image_url_medium, :image_url_large, :image_url_original, :views, :favorites)
			ON CONFLICT (hof_image_id) DO UPDATE SET
				city_name = excluded.city_name,
				creator_name = excluded.creator_name,
				image_url_thumbnail = excluded.image_url_thumbnail,
				image_url_medium = excluded.image_url_medium,
				image_url_large = excluded.image_url_large,
				image_url_original = excluded.image_url_original,
				views = excluded.views,
				favorites = excluded.favorites,
				synced_at = CURRENT_TIMESTAMP`)
		if err != nil {
			return fmt.Errorf("failed to prepare hall of fame upsert: %w", err)
		}
		defer stmt.Close()

		for i := range images {
			if _, err := stmt.ExecContext(ctx, &images[i]); err != nil {
				return translate(err, "hall of fame image", images[i].HofImageID)
			}
		}
		return nil
	})
}

// LinkByName attaches unlinked images to the first city whose name matches case-insensitively.
// Linked images arrive non-primary; only EnsurePrimary and SetPrimary assign primaries.
func (r *hallOfFameRepository) LinkByName(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE hall_of_fame_cache
		SET city_id = (
			SELECT c.id FROM cities c
			WHERE LOWER(c.name) = LOWER(hall_of_fame_cache.city_name)
			ORDER BY c.id
			LIMIT 1
		),
		is_primary = FALSE
		WHERE city_id IS NULL
		  AND EXISTS (SELECT 1 FROM cities c WHERE LOWER(c.name) = LOWER(hall_of_fame_cache.city_name))`)
	if err != nil {
		return 0, translate(err, "hall of fame images", nil)
	}
	return res.RowsAffected()
}

// EnsurePrimary gives every linked city without a primary image one: its first upload when it
// has uploads, otherwise its most favorited Hall of Fame image.
func (r *hallOfFameRepository) EnsurePrimary(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var assigned int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var cityIDs []int64
		err := tx.SelectContext(ctx, &cityIDs, `
			SELECT DISTINCT h.city_id FROM hall_of_fame_cache h
			WHERE h.city_id IS NOT NULL
			  AND NOT EXISTS (SELECT 1 FROM hall_of_fame_cache p WHERE p.city_id = h.city_id AND p.is_primary = TRUE)
			  AND NOT EXISTS (SELECT 1 FROM city_images ci WHERE ci.city_id = h.city_id AND ci.is_primary = TRUE)`)
		if err != nil {
			return translate(err, "hall of fame images", nil)
		}

		for _, cityID := range cityIDs {
			promoted, err := promoteFirstUpload(ctx, tx, cityID)
			if err != nil {
				return err
			}
			if !promoted {
				_, err := tx.ExecContext(ctx, tx.Rebind(`
					UPDATE hall_of_fame_cache SET is_primary = TRUE
					WHERE id = (SELECT id FROM hall_of_fame_cache WHERE city_id = ? ORDER BY favorites DESC, id LIMIT 1)`), cityID)
				if err != nil {
					return translate(err, "hall of fame images", cityID)
				}
			}
			assigned++
		}
		return nil
	})
	return assigned, err
}
