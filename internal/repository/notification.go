package repository

import (
	"context"

	"github.com/alexivanou/cityshare-api/internal/model"
)

type notificationRepository struct {
	*base
}

func (r *notificationRepository) List(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := `SELECT id, user_id, type, actor_id, city_id, message, is_read, created_at
		FROM notifications WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	notifications := []model.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, r.db.Rebind(q), args...); err != nil {
		return nil, translate(err, "notifications", userID)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int64
	q := r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`)
	if err := r.db.GetContext(ctx, &n, q, userID); err != nil {
		return 0, translate(err, "notifications", userID)
	}
	return n, nil
}

// MarkRead flags one of the user's notifications; another user's notification is NotFound
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return translate(err, "notification", id)
	}
	return requireRows(res, "notification", id)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE`), userID)
	if err != nil {
		return 0, translate(err, "notifications", userID)
	}
	return res.RowsAffected()
}
