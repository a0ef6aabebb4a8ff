package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/database"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/jmoiron/sqlx"
)

// UserRepository defines operations for user accounts
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.AdminUser, error)
	Count(ctx context.Context) (int64, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	SetContentCreator(ctx context.Context, id int64, isContentCreator bool) error
	SetCookieConsent(ctx context.Context, id int64, consent string, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// CityRepository defines operations for cities
type CityRepository interface {
	Create(ctx context.Context, c *model.City) (*model.City, error)
	GetByID(ctx context.Context, id int64) (*model.City, error)
	GetSummary(ctx context.Context, id int64) (*model.CitySummary, error)
	Update(ctx context.Context, c *model.City) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.CitySummary, error)
	Search(ctx context.Context, filters model.CitySearchFilters, limit, offset int) ([]model.CitySummary, error)
	CountSearch(ctx context.Context, filters model.CitySearchFilters) (int64, error)
	Stats(ctx context.Context, id int64) (model.CityStats, error)
	CommunityStats(ctx context.Context) (*model.CommunityStats, error)
}

// ImageRepository defines operations for city images and primary image selection
type ImageRepository interface {
	Add(ctx context.Context, img *model.CityImage) (*model.CityImage, error)
	ListByCity(ctx context.Context, cityID int64) ([]model.CityImage, error)
	ListHallOfFameByCity(ctx context.Context, cityID int64) ([]model.HallOfFameImage, error)
	SetPrimary(ctx context.Context, cityID, imageID int64, source model.ImageSource) error
	Delete(ctx context.Context, cityID, imageID int64) (*model.CityImage, error)
	FixDuplicatePrimaries(ctx context.Context) (model.PrimaryImageFixResult, error)
}

// HallOfFameRepository defines operations for the external image cache
type HallOfFameRepository interface {
	Upsert(ctx context.Context, images []model.HallOfFameImage) error
	LinkByName(ctx context.Context) (int64, error)
	EnsurePrimary(ctx context.Context) (int64, error)
}

// SocialRepository defines the like, favorite and follow toggles
type SocialRepository interface {
	ToggleLike(ctx context.Context, userID, cityID int64) (model.ToggleResult, error)
	ToggleFavorite(ctx context.Context, userID, cityID int64) (model.ToggleResult, error)
	ToggleFollow(ctx context.Context, followerID, followingID int64) (model.ToggleResult, error)
}

// CommentRepository defines operations for comments
type CommentRepository interface {
	Create(ctx context.Context, cityID, userID int64, content string) (*model.Comment, error)
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	ListByCity(ctx context.Context, cityID int64) ([]model.CommentView, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.CommentView, error)
	Delete(ctx context.Context, id int64) error
}

// NotificationRepository defines operations for notifications
type NotificationRepository interface {
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// APIKeyRepository defines operations for API keys
type APIKeyRepository interface {
	Create(ctx context.Context, k *model.APIKey) (*model.APIKey, error)
	GetByHash(ctx context.Context, hash string) (*model.APIKey, error)
	List(ctx context.Context) ([]model.APIKeyView, error)
	SetActive(ctx context.Context, id int64, active bool) error
	TouchLastUsed(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// ModerationRepository stores moderation settings as JSON text per key
type ModerationRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
}

// Container holds all repositories
type Container struct {
	User         UserRepository
	City         CityRepository
	Image        ImageRepository
	HallOfFame   HallOfFameRepository
	Social       SocialRepository
	Comment      CommentRepository
	Notification NotificationRepository
	APIKey       APIKeyRepository
	Moderation   ModerationRepository
}

// NewRepositories creates repository implementations. Queries are written with ? placeholders
// and rebound for the connected driver.
func NewRepositories(db *sqlx.DB, cfg config.DBConfig) *Container {
	b := &base{db: db, dbType: cfg.Type, timeout: cfg.QueryTimeout}
	return &Container{
		User:         &userRepository{b},
		City:         &cityRepository{b},
		Image:        &imageRepository{b},
		HallOfFame:   &hallOfFameRepository{b},
		Social:       &socialRepository{b},
		Comment:      &commentRepository{b},
		Notification: &notificationRepository{b},
		APIKey:       &apiKeyRepository{b},
		Moderation:   &moderationRepository{b},
	}
}

// base carries what every repository shares
type base struct {
	db      *sqlx.DB
	dbType  config.DBType
	timeout time.Duration
}

func (b *base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return database.WithQueryTimeout(ctx, b.timeout)
}

// inTx runs fn in a transaction, committing when it returns nil.
// Inside fn every statement must go through tx: the in-memory database has one connection.
func (b *base) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockCity serializes writers touching one city's rows and fails with NotFound for unknown ids.
// SQLite already serializes writers, so it only checks existence there.
func (b *base) lockCity(ctx context.Context, tx *sqlx.Tx, cityID int64) (ownerID int64, err error) {
	q := "SELECT user_id FROM cities WHERE id = ?"
	if b.dbType == config.DBTypePostgreSQL {
		q += " FOR UPDATE"
	}
	if err := tx.GetContext(ctx, &ownerID, tx.Rebind(q), cityID); err != nil {
		return 0, translate(err, "city", cityID)
	}
	return ownerID, nil
}

// unbounded is the LIMIT value meaning "no limit" for the dialect
func (b *base) unbounded() string {
	if b.dbType == config.DBTypePostgreSQL {
		return "ALL"
	}
	return "-1"
}

// translate maps driver errors onto the application error taxonomy
func translate(err error, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperror.NotFound(resource, id)
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Timeout(resource + " query")
	case database.IsUniqueViolation(err):
		return apperror.Conflict(resource, "a record with the same unique value")
	case database.IsForeignKeyViolation(err):
		return apperror.NotFoundMessage(resource + " references a record that does not exist")
	case database.IsCheckViolation(err):
		return apperror.ValidationFailed(resource, resource+" violates a data constraint")
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s query failed: %w", resource, err)
}

// requireRows turns a zero-row UPDATE or DELETE into NotFound
func requireRows(res sql.Result, resource string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isConflict(err error) bool {
	return database.IsUniqueViolation(err)
}
