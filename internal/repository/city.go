package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const cityColumns = `id, user_id, name, map_name, theme, game_mode, population, money, xp,
	unlimited_money, unlimited_xp, file_path, file_size, description, downloadable, download_count,
	uploaded_at, updated_at`

type cityRepository struct {
	*base
}

// Create inserts the city and notifies the owner's followers in the same transaction
func (r *cityRepository) Create(ctx context.Context, c *model.City) (*model.City, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var username string
		if err := tx.GetContext(ctx, &username, tx.Rebind(`SELECT username FROM users WHERE id = ?`), c.UserID); err != nil {
			return translate(err, "user", c.UserID)
		}

		q := tx.Rebind(`
			INSERT INTO cities (user_id, name, map_name, theme, game_mode, population, money, xp,
				unlimited_money, unlimited_xp, file_path, file_size, description, downloadable)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`)
		if err := tx.GetContext(ctx, &id, q,
			c.UserID, c.Name, c.MapName, c.Theme, c.GameMode, c.Population, c.Money, c.XP,
			c.UnlimitedMoney, c.UnlimitedXP, c.FilePath, c.FileSize, c.Description, c.Downloadable,
		); err != nil {
			return translate(err, "city", c.Name)
		}

		msg := fmt.Sprintf("%s uploaded a new city: %s", username, c.Name)
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO notifications (user_id, type, actor_id, city_id, message)
			SELECT follower_id, ?, CAST(? AS BIGINT), CAST(? AS BIGINT), ? FROM follows WHERE following_id = ?`),
			model.NotificationNewCity, c.UserID, id, msg, c.UserID)
		if err != nil {
			return fmt.Errorf("failed to notify followers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *cityRepository) GetByID(ctx context.Context, id int64) (*model.City, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c model.City
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT `+cityColumns+` FROM cities WHERE id = ?`), id); err != nil {
		return nil, translate(err, "city", id)
	}
	return &c, nil
}

func (r *cityRepository) GetSummary(ctx context.Context, id int64) (*model.CitySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c model.CitySummary
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(summarySelect+` WHERE c.id = ?`), id); err != nil {
		return nil, translate(err, "city", id)
	}
	return &c, nil
}

func (r *cityRepository) Update(ctx context.Context, c *model.City) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.NamedExecContext(ctx, `
		UPDATE cities SET
			name = :name, map_name = :map_name, theme = :theme, game_mode = :game_mode,
			population = :population, money = :money, xp = :xp,
			unlimited_money = :unlimited_money, unlimited_xp = :unlimited_xp,
			file_path = :file_path, file_size = :file_size, description = :description,
			downloadable = :downloadable, updated_at = CURRENT_TIMESTAMP
		WHERE id = :id`, c)
	if err != nil {
		return translate(err, "city", c.ID)
	}
	return requireRows(res, "city", c.ID)
}

// Delete removes the city. Its Hall of Fame images survive unlinked, so their primary flag is
// cleared first: an unlinked image is never primary.
func (r *cityRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE hall_of_fame_cache SET is_primary = FALSE WHERE city_id = ?`), id); err != nil {
			return translate(err, "hall of fame images", id)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cities WHERE id = ?`), id)
		if err != nil {
			return translate(err, "city", id)
		}
		return requireRows(res, "city", id)
	})
}

func (r *cityRepository) ListByUser(ctx context.Context, userID int64) ([]model.CitySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := r.db.Rebind(summarySelect + ` WHERE c.user_id = ?` + buildOrderBy(model.SortNewest, ""))
	cities := []model.CitySummary{}
	if err := r.db.SelectContext(ctx, &cities, q, userID); err != nil {
		return nil, translate(err, "cities", nil)
	}
	return cities, nil
}

// Search returns one page of matching cities; limit <= 0 returns every match
func (r *cityRepository) Search(ctx context.Context, filters model.CitySearchFilters, limit, offset int) ([]model.CitySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	where, args := buildCityFilter(filters)
	q := summarySelect + where + buildOrderBy(filters.SortBy, filters.SortOrder)
	switch {
	case limit > 0:
		q += " LIMIT ? OFFSET ?"
		args = append(args, limit, max(offset, 0))
	case offset > 0:
		q += " LIMIT " + r.unbounded() + " OFFSET ?"
		args = append(args, offset)
	}

	cities := []model.CitySummary{}
	if err := r.db.SelectContext(ctx, &cities, r.db.Rebind(q), args...); err != nil {
		return nil, translate(err, "cities", nil)
	}
	return cities, nil
}

func (r *cityRepository) CountSearch(ctx context.Context, filters model.CitySearchFilters) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	where, args := buildCityFilter(filters)
	q := `SELECT COUNT(*) FROM cities c JOIN users u ON u.id = c.user_id` + where

	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(q), args...); err != nil {
		return 0, translate(err, "cities", nil)
	}
	return n, nil
}

func (r *cityRepository) Stats(ctx context.Context, id int64) (model.CityStats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var s model.CityStats
	q := r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM likes WHERE city_id = c.id) AS likes,
			(SELECT COUNT(*) FROM favorites WHERE city_id = c.id) AS favorites,
			(SELECT COUNT(*) FROM comments WHERE city_id = c.id) AS comments,
			c.download_count AS downloads
		FROM cities c WHERE c.id = ?`)
	row := r.db.QueryRowxContext(ctx, q, id)
	if err := row.Scan(&s.Likes, &s.Favorites, &s.Comments, &s.Downloads); err != nil {
		return s, translate(err, "city", id)
	}
	return s, nil
}

func (r *cityRepository) CommunityStats(ctx context.Context) (*model.CommunityStats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var s model.CommunityStats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			(SELECT COUNT(*) FROM cities) AS total_cities,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM likes) AS total_likes,
			(SELECT COUNT(*) FROM comments) AS total_comments,
			(SELECT CAST(COALESCE(SUM(download_count), 0) AS BIGINT) FROM cities) AS total_downloads,
			(SELECT COUNT(*) FROM city_images) AS total_images`)
	if err != nil {
		return nil, translate(err, "community stats", nil)
	}
	return &s, nil
}
