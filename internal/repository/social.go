package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/jmoiron/sqlx"
)

type socialRepository struct {
	*base
}

// ToggleLike adds or removes a like. A new like on someone else's city notifies the owner.
func (r *socialRepository) ToggleLike(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	return r.toggleCityMark(ctx, "likes", userID, cityID, true)
}

func (r *socialRepository) ToggleFavorite(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	return r.toggleCityMark(ctx, "favorites", userID, cityID, false)
}

// toggleCityMark flips a (user, city) row in likes or favorites; table is never user input
func (r *socialRepository) toggleCityMark(ctx context.Context, table string, userID, cityID int64, notify bool) (model.ToggleResult, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var result model.ToggleResult
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var city struct {
			UserID int64  `db:"user_id"`
			Name   string `db:"name"`
		}
		if err := tx.GetContext(ctx, &city, tx.Rebind(`SELECT user_id, name FROM cities WHERE id = ?`), cityID); err != nil {
			return translate(err, "city", cityID)
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM `+table+` WHERE user_id = ? AND city_id = ?`), userID, cityID)
		if err != nil {
			return translate(err, table, cityID)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}

		if removed == 0 {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO `+table+` (user_id, city_id) VALUES (?, ?)`), userID, cityID); err != nil {
				return translate(err, table, cityID)
			}
			result.Active = true

			if notify && city.UserID != userID {
				actor, err := usernameTx(ctx, tx, userID)
				if err != nil {
					return err
				}
				msg := fmt.Sprintf("%s liked your city %s", actor, city.Name)
				if err := insertNotification(ctx, tx, city.UserID, model.NotificationLike, userID, &cityID, msg); err != nil {
					return err
				}
			}
		}

		if err := tx.GetContext(ctx, &result.Count, tx.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE city_id = ?`), cityID); err != nil {
			return translate(err, table, cityID)
		}
		return nil
	})
	return result, err
}

// ToggleFollow follows or unfollows a user. A new follow notifies the followed user.
// Count is the followed user's follower count afterwards.
func (r *socialRepository) ToggleFollow(ctx context.Context, followerID, followingID int64) (model.ToggleResult, error) {
	if followerID == followingID {
		return model.ToggleResult{}, apperror.ValidationFailed("userId", "you cannot follow yourself")
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var result model.ToggleResult
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := usernameTx(ctx, tx, followingID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`), followerID, followingID)
		if err != nil {
			return translate(err, "follow", followingID)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}

		if removed == 0 {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO follows (follower_id, following_id) VALUES (?, ?)`), followerID, followingID); err != nil {
				return translate(err, "follow", followingID)
			}
			result.Active = true

			actor, err := usernameTx(ctx, tx, followerID)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("%s started following you", actor)
			if err := insertNotification(ctx, tx, followingID, model.NotificationFollow, followerID, nil, msg); err != nil {
				return err
			}
		}

		if err := tx.GetContext(ctx, &result.Count, tx.Rebind(`SELECT COUNT(*) FROM follows WHERE following_id = ?`), followingID); err != nil {
			return translate(err, "follows", followingID)
		}
		return nil
	})
	return result, err
}

func usernameTx(ctx context.Context, tx *sqlx.Tx, userID int64) (string, error) {
	var username string
	if err := tx.GetContext(ctx, &username, tx.Rebind(`SELECT username FROM users WHERE id = ?`), userID); err != nil {
		return "", translate(err, "user", userID)
	}
	return username, nil
}

func insertNotification(ctx context.Context, tx *sqlx.Tx, userID int64, kind string, actorID int64, cityID *int64, msg string) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO notifications (user_id, type, actor_id, city_id, message) VALUES (?, ?, ?, ?, ?)`),
		userID, kind, actorID, cityID, msg)
	if err != nil {
		return fmt.Errorf("failed to create %s notification: %w", kind, err)
	}
	return nil
}
