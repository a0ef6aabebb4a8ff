package service

import (
	"context"
	"strings"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/auth"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"go.uber.org/zap"
)

// ListUsers returns a page of users with their city counts
func (s *Service) ListUsers(ctx context.Context, limit, offset int) (*model.AdminUsersResponse, error) {
	limit, offset = page(limit, offset)
	type args struct{ Limit, Offset int }
	return querycache.Load(ctx, s.cache, "adminUsers", args{limit, offset}, s.ttl.ListingTTL, []string{querycache.TagUsers},
		func(ctx context.Context) (*model.AdminUsersResponse, error) {
			users, err := s.repos.User.List(ctx, limit, offset)
			if err != nil {
				return nil, err
			}
			total, err := s.repos.User.Count(ctx)
			if err != nil {
				return nil, err
			}
			if users == nil {
				users = []model.AdminUser{}
			}
			return &model.AdminUsersResponse{Users: users, Total: total, Limit: limit, Offset: offset}, nil
		})
}

// ToggleAdmin grants or revokes the admin role. Admins cannot revoke their own role.
func (s *Service) ToggleAdmin(ctx context.Context, actorID, userID int64, isAdmin bool) error {
	if actorID == userID && !isAdmin {
		return apperror.ValidationFailed("isAdmin", "you cannot remove your own admin role")
	}
	if err := s.repos.User.SetAdmin(ctx, userID, isAdmin); err != nil {
		return err
	}
	s.invalidate(ctx, querycache.TagUsers, querycache.UserTag(userID))
	s.logger.Info("admin role changed", zap.Int64("actor_id", actorID), zap.Int64("user_id", userID), zap.Bool("is_admin", isAdmin))
	return nil
}

// ToggleContentCreator sets the content creator badge of a user
func (s *Service) ToggleContentCreator(ctx context.Context, userID int64, isContentCreator bool) error {
	if err := s.repos.User.SetContentCreator(ctx, userID, isContentCreator); err != nil {
		return err
	}
	s.invalidate(ctx, querycache.TagUsers, querycache.UserTag(userID), querycache.TagCities)
	return nil
}

// DeleteUser removes an account with its cities. Comments and likes the user left elsewhere remain.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return apperror.ValidationFailed("userId", "you cannot delete your own account here")
	}
	if err := s.repos.User.Delete(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, querycache.TagUsers, querycache.UserTag(userID), querycache.TagCities, querycache.TagStats)
	s.logger.Info("user deleted", zap.Int64("actor_id", actorID), zap.Int64("user_id", userID))
	return nil
}

// CreateAPIKey issues a key for userID. The plaintext key is only returned here.
func (s *Service) CreateAPIKey(ctx context.Context, userID int64, name string) (*model.CreatedAPIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if userID <= 0 {
		return nil, apperror.ValidationFailed("userId", "userId is required")
	}
	if _, err := s.repos.User.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	key, prefix, hash := auth.GenerateAPIKey()
	created, err := s.repos.APIKey.Create(ctx, &model.APIKey{
		UserID:    userID,
		Name:      name,
		KeyPrefix: prefix,
		KeyHash:   hash,
		IsActive:  true,
	})
	if err != nil {
		return nil, err
	}
	return &model.CreatedAPIKey{APIKey: *created, Key: key}, nil
}

// ListAPIKeys returns every key with its owner
func (s *Service) ListAPIKeys(ctx context.Context) ([]model.APIKeyView, error) {
	keys, err := s.repos.APIKey.List(ctx)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []model.APIKeyView{}
	}
	return keys, nil
}

// ToggleAPIKey activates or deactivates a key
func (s *Service) ToggleAPIKey(ctx context.Context, id int64, active bool) error {
	return s.repos.APIKey.SetActive(ctx, id, active)
}

// DeleteAPIKey removes a key
func (s *Service) DeleteAPIKey(ctx context.Context, id int64) error {
	return s.repos.APIKey.Delete(ctx, id)
}

// ListAllComments returns the newest comments across all cities
func (s *Service) ListAllComments(ctx context.Context, limit, offset int) ([]model.CommentView, error) {
	limit, offset = page(limit, offset)
	comments, err := s.repos.Comment.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.CommentView{}
	}
	return comments, nil
}

// DeleteComment removes any comment
func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	c, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteComment(ctx, c)
}

// FixDuplicatePrimaryImages repairs primary image flags across all cities
func (s *Service) FixDuplicatePrimaryImages(ctx context.Context) (model.PrimaryImageFixResult, error) {
	res, err := s.repos.Image.FixDuplicatePrimaries(ctx)
	if err != nil {
		return res, err
	}
	if res.DuplicatesCleared > 0 || res.PrimariesAssigned > 0 {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear query cache", zap.Error(err))
		}
	}
	s.logger.Info("primary images repaired",
		zap.Int64("duplicates_cleared", res.DuplicatesCleared),
		zap.Int64("primaries_assigned", res.PrimariesAssigned))
	return res, nil
}
