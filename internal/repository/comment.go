package repository

import (
	"context"
	"fmt"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/jmoiron/sqlx"
)

const commentViewSelect = `
	SELECT cm.id, cm.city_id, cm.user_id, cm.content, cm.created_at,
		u.username, u.avatar_url, c.name AS city_name
	FROM comments cm
	JOIN cities c ON c.id = cm.city_id
	LEFT JOIN users u ON u.id = cm.user_id`

type commentRepository struct {
	*base
}

// Create stores a comment and notifies the city owner when someone else wrote it
func (r *commentRepository) Create(ctx context.Context, cityID, userID int64, content string) (*model.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c model.Comment
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var city struct {
			UserID int64  `db:"user_id"`
			Name   string `db:"name"`
		}
		if err := tx.GetContext(ctx, &city, tx.Rebind(`SELECT user_id, name FROM cities WHERE id = ?`), cityID); err != nil {
			return translate(err, "city", cityID)
		}

		var id int64
		q := tx.Rebind(`INSERT INTO comments (city_id, user_id, content) VALUES (?, ?, ?) RETURNING id`)
		if err := tx.GetContext(ctx, &id, q, cityID, userID, content); err != nil {
			return translate(err, "comment", cityID)
		}

		if city.UserID != userID {
			actor, err := usernameTx(ctx, tx, userID)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("%s commented on your city %s", actor, city.Name)
			if err := insertNotification(ctx, tx, city.UserID, model.NotificationComment, userID, &cityID, msg); err != nil {
				return err
			}
		}

		q = tx.Rebind(`SELECT id, city_id, user_id, content, created_at FROM comments WHERE id = ?`)
		return tx.GetContext(ctx, &c, q, id)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var c model.Comment
	q := r.db.Rebind(`SELECT id, city_id, user_id, content, created_at FROM comments WHERE id = ?`)
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, translate(err, "comment", id)
	}
	return &c, nil
}

func (r *commentRepository) ListByCity(ctx context.Context, cityID int64) ([]model.CommentView, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	comments := []model.CommentView{}
	q := r.db.Rebind(commentViewSelect + ` WHERE cm.city_id = ? ORDER BY cm.created_at DESC, cm.id DESC`)
	if err := r.db.SelectContext(ctx, &comments, q, cityID); err != nil {
		return nil, translate(err, "comments", cityID)
	}
	return comments, nil
}

func (r *commentRepository) ListAll(ctx context.Context, limit, offset int) ([]model.CommentView, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := commentViewSelect + ` ORDER BY cm.created_at DESC, cm.id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	comments := []model.CommentView{}
	if err := r.db.SelectContext(ctx, &comments, r.db.Rebind(q), args...); err != nil {
		return nil, translate(err, "comments", nil)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return translate(err, "comment", id)
	}
	return requireRows(res, "comment", id)
}
