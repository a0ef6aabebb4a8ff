package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const imageColumns = `id, city_id, original_url, large_url, medium_url, thumbnail_url, file_size,
	mime_type, is_primary, sort_order, created_at`

const hallOfFameColumns = `id, hof_image_id, city_id, city_name, creator_name, image_url_thumbnail,
	image_url_medium, image_url_large, image_url_original, is_primary, views, favorites, created_at, synced_at`

type imageRepository struct {
	*base
}

// Add appends an image after the city's existing ones. The first image of a city without any
// primary image becomes primary.
func (r *imageRepository) Add(ctx context.Context, img *model.CityImage) (*model.CityImage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var created model.CityImage
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.lockCity(ctx, tx, img.CityID); err != nil {
			return err
		}

		hasPrimary, err := cityHasPrimary(ctx, tx, img.CityID)
		if err != nil {
			return err
		}

		var id int64
		q := tx.Rebind(`
			INSERT INTO city_images (city_id, original_url, large_url, medium_url, thumbnail_url, file_size, mime_type, is_primary, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?,
				(SELECT COALESCE(MAX(sort_order) + 1, 0) FROM city_images WHERE city_id = ?))
			RETURNING id`)
		if err := tx.GetContext(ctx, &id, q,
			img.CityID, img.OriginalURL, img.LargeURL, img.MediumURL, img.ThumbnailURL, img.FileSize, img.MimeType,
			!hasPrimary, img.CityID,
		); err != nil {
			return translate(err, "image", img.OriginalURL)
		}

		return tx.GetContext(ctx, &created, tx.Rebind(`SELECT `+imageColumns+` FROM city_images WHERE id = ?`), id)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *imageRepository) ListByCity(ctx context.Context, cityID int64) ([]model.CityImage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	images := []model.CityImage{}
	q := r.db.Rebind(`SELECT ` + imageColumns + ` FROM city_images WHERE city_id = ? ORDER BY sort_order, id`)
	if err := r.db.SelectContext(ctx, &images, q, cityID); err != nil {
		return nil, translate(err, "images", cityID)
	}
	return images, nil
}

func (r *imageRepository) ListHallOfFameByCity(ctx context.Context, cityID int64) ([]model.HallOfFameImage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	images := []model.HallOfFameImage{}
	q := r.db.Rebind(`SELECT ` + hallOfFameColumns + ` FROM hall_of_fame_cache WHERE city_id = ? ORDER BY favorites DESC, id`)
	if err := r.db.SelectContext(ctx, &images, q, cityID); err != nil {
		return nil, translate(err, "hall of fame images", cityID)
	}
	return images, nil
}

// SetPrimary makes imageID the only primary image of the city across both image tables.
// Clearing and setting happen in one transaction with the city row locked.
func (r *imageRepository) SetPrimary(ctx context.Context, cityID, imageID int64, source model.ImageSource) error {
	table, err := imageTable(source)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.lockCity(ctx, tx, cityID); err != nil {
			return err
		}

		var n int
		q := tx.Rebind(`SELECT COUNT(*) FROM ` + table + ` WHERE id = ? AND city_id = ?`)
		if err := tx.GetContext(ctx, &n, q, imageID, cityID); err != nil {
			return translate(err, "image", imageID)
		}
		if n == 0 {
			return apperror.NotFound("image", imageID)
		}

		if err := clearPrimaries(ctx, tx, cityID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE `+table+` SET is_primary = TRUE WHERE id = ?`), imageID); err != nil {
			return translate(err, "image", imageID)
		}
		return nil
	})
}

// Delete removes an uploaded image. When it was primary the remaining upload with the lowest
// sort order is promoted.
func (r *imageRepository) Delete(ctx context.Context, cityID, imageID int64) (*model.CityImage, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var img model.CityImage
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.lockCity(ctx, tx, cityID); err != nil {
			return err
		}

		q := tx.Rebind(`SELECT ` + imageColumns + ` FROM city_images WHERE id = ? AND city_id = ?`)
		if err := tx.GetContext(ctx, &img, q, imageID, cityID); err != nil {
			return translate(err, "image", imageID)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM city_images WHERE id = ?`), imageID); err != nil {
			return translate(err, "image", imageID)
		}

		if img.IsPrimary {
			if _, err := promoteFirstUpload(ctx, tx, cityID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// FixDuplicatePrimaries repairs cities with more than one primary image, keeping the most recent
// upload (else the most recent Hall of Fame image), and gives a primary to cities that have
// uploads but none.
func (r *imageRepository) FixDuplicatePrimaries(ctx context.Context) (model.PrimaryImageFixResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var result model.PrimaryImageFixResult
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var duplicated []int64
		err := tx.SelectContext(ctx, &duplicated, `
			SELECT p.city_id FROM (
				SELECT city_id FROM city_images WHERE is_primary = TRUE
				UNION ALL
				SELECT city_id FROM hall_of_fame_cache WHERE is_primary = TRUE AND city_id IS NOT NULL
			) p
			GROUP BY p.city_id
			HAVING COUNT(*) > 1`)
		if err != nil {
			return translate(err, "primary images", nil)
		}

		for _, cityID := range duplicated {
			n, err := keepNewestPrimary(ctx, tx, cityID)
			if err != nil {
				return err
			}
			result.DuplicatesCleared += n
		}

		var missing []int64
		err = tx.SelectContext(ctx, &missing, `
			SELECT c.id FROM cities c
			WHERE EXISTS (SELECT 1 FROM city_images ci WHERE ci.city_id = c.id)
			  AND NOT EXISTS (SELECT 1 FROM city_images ci WHERE ci.city_id = c.id AND ci.is_primary = TRUE)
			  AND NOT EXISTS (SELECT 1 FROM hall_of_fame_cache h WHERE h.city_id = c.id AND h.is_primary = TRUE)`)
		if err != nil {
			return translate(err, "primary images", nil)
		}

		for _, cityID := range missing {
			promoted, err := promoteFirstUpload(ctx, tx, cityID)
			if err != nil {
				return err
			}
			if promoted {
				result.PrimariesAssigned++
			}
		}
		return nil
	})
	return result, err
}

func keepNewestPrimary(ctx context.Context, tx *sqlx.Tx, cityID int64) (int64, error) {
	var keepUpload, keepHoF *int64
	if err := tx.GetContext(ctx, &keepUpload,
		tx.Rebind(`SELECT MAX(id) FROM city_images WHERE city_id = ? AND is_primary = TRUE`), cityID); err != nil {
		return 0, translate(err, "primary images", cityID)
	}
	if keepUpload == nil {
		if err := tx.GetContext(ctx, &keepHoF,
			tx.Rebind(`SELECT MAX(id) FROM hall_of_fame_cache WHERE city_id = ? AND is_primary = TRUE`), cityID); err != nil {
			return 0, translate(err, "primary images", cityID)
		}
	}

	var cleared int64
	clear := func(q string, keep *int64) error {
		var keepID int64 = -1
		if keep != nil {
			keepID = *keep
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(q), cityID, keepID)
		if err != nil {
			return translate(err, "primary images", cityID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		cleared += n
		return nil
	}

	if err := clear(`UPDATE city_images SET is_primary = FALSE WHERE city_id = ? AND is_primary = TRUE AND id <> ?`, keepUpload); err != nil {
		return 0, err
	}
	if err := clear(`UPDATE hall_of_fame_cache SET is_primary = FALSE WHERE city_id = ? AND is_primary = TRUE AND id <> ?`, keepHoF); err != nil {
		return 0, err
	}
	return cleared, nil
}

func imageTable(source model.ImageSource) (string, error) {
	switch source {
	case model.ImageSourceUpload, "":
		return "city_images", nil
	case model.ImageSourceHallOfFame:
		return "hall_of_fame_cache", nil
	}
	return "", apperror.ValidationFailed("source", fmt.Sprintf("unknown image source %q", source))
}

func cityHasPrimary(ctx context.Context, tx *sqlx.Tx, cityID int64) (bool, error) {
	var n int
	q := tx.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM city_images WHERE city_id = ? AND is_primary = TRUE) +
			(SELECT COUNT(*) FROM hall_of_fame_cache WHERE city_id = ? AND is_primary = TRUE)`)
	if err := tx.GetContext(ctx, &n, q, cityID, cityID); err != nil {
		return false, translate(err, "primary images", cityID)
	}
	return n > 0, nil
}

func clearPrimaries(ctx context.Context, tx *sqlx.Tx, cityID int64) error {
	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE city_images SET is_primary = FALSE WHERE city_id = ? AND is_primary = TRUE`), cityID); err != nil {
		return translate(err, "primary images", cityID)
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE hall_of_fame_cache SET is_primary = FALSE WHERE city_id = ? AND is_primary = TRUE`), cityID); err != nil {
		return translate(err, "primary images", cityID)
	}
	return nil
}

// promoteFirstUpload marks the upload with the lowest sort order primary, if the city has any
func promoteFirstUpload(ctx context.Context, tx *sqlx.Tx, cityID int64) (bool, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE city_images SET is_primary = TRUE
		WHERE id = (SELECT id FROM city_images WHERE city_id = ? ORDER BY sort_order, id LIMIT 1)`), cityID)
	if err != nil {
		return false, translate(err, "primary images", cityID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
