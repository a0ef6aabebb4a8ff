package repository

import (
	"context"
	"time"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const userColumns = `u.id, u.email, u.username, u.password_hash, u.google_id, u.github_id, u.name,
	u.avatar_url, u.bio, u.website_url, u.twitter_url, u.youtube_url, u.twitch_url, u.is_admin,
	u.is_content_creator, u.cookie_consent, u.cookie_consent_at, u.created_at, u.updated_at`

type userRepository struct {
	*base
}

func (r *userRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := r.db.Rebind(`
		INSERT INTO users (email, username, password_hash, google_id, github_id, name, avatar_url, is_admin, is_content_creator)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	var id int64
	err := r.db.GetContext(ctx, &id, q,
		u.Email, u.Username, u.PasswordHash, u.GoogleID, u.GithubID, u.Name, u.AvatarURL, u.IsAdmin, u.IsContentCreator)
	if err != nil {
		if isConflict(err) {
			return nil, apperror.Conflict("user", "email or username is taken")
		}
		return nil, translate(err, "user", u.Username)
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u model.User
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users u WHERE u.id = ?`)
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		return nil, translate(err, "user", id)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u model.User
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.username) = LOWER(?)`)
	if err := r.db.GetContext(ctx, &u, q, username); err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFoundMessage("user not found: " + username)
		}
		return nil, translate(err, "user", username)
	}
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u model.User
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users u
		WHERE LOWER(u.email) = LOWER(?) OR LOWER(u.username) = LOWER(?)
		ORDER BY u.id
		LIMIT 1`)
	if err := r.db.GetContext(ctx, &u, q, login, login); err != nil {
		if isNoRows(err) {
			return nil, apperror.NotFoundMessage("user not found: " + login)
		}
		return nil, translate(err, "user", login)
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]model.AdminUser, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := `SELECT ` + userColumns + `,
			(SELECT COUNT(*) FROM cities c WHERE c.user_id = u.id) AS city_count
		FROM users u
		ORDER BY u.created_at DESC, u.id DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	users := []model.AdminUser{}
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(q), args...); err != nil {
		return nil, translate(err, "users", nil)
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, translate(err, "users", nil)
	}
	return n, nil
}

func (r *userRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return r.setFlag(ctx, id, "is_admin", isAdmin)
}

func (r *userRepository) SetContentCreator(ctx context.Context, id int64, isContentCreator bool) error {
	return r.setFlag(ctx, id, "is_content_creator", isContentCreator)
}

// setFlag updates one boolean role column; column is never user input
func (r *userRepository) setFlag(ctx context.Context, id int64, column string, value bool) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := r.db.Rebind(`UPDATE users SET ` + column + ` = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, value, id)
	if err != nil {
		return translate(err, "user", id)
	}
	return requireRows(res, "user", id)
}

func (r *userRepository) SetCookieConsent(ctx context.Context, id int64, consent string, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := r.db.Rebind(`UPDATE users SET cookie_consent = ?, cookie_consent_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q, consent, at.UTC(), id)
	if err != nil {
		return translate(err, "user", id)
	}
	return requireRows(res, "user", id)
}

// Delete removes the account with its cities, follows, notifications and API keys.
// Comments, likes and favorites the user left on other cities keep the dangling user id.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE hall_of_fame_cache SET is_primary = FALSE
			WHERE city_id IN (SELECT id FROM cities WHERE user_id = ?)`), id)
		if err != nil {
			return translate(err, "hall of fame images", id)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM users WHERE id = ?`), id)
		if err != nil {
			return translate(err, "user", id)
		}
		return requireRows(res, "user", id)
	})
}
