package service

import (
	"context"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/alexivanou/cityshare-api/internal/querycache"
)

const defaultNotificationLimit = 50

// ToggleLike likes or unlikes a city
func (s *Service) ToggleLike(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	res, err := s.repos.Social.ToggleLike(ctx, userID, cityID)
	if err != nil {
		return res, err
	}
	s.invalidate(ctx, querycache.CityTag(cityID), querycache.TagStats, querycache.TagCities)
	return res, nil
}

// ToggleFavorite favorites or unfavorites a city
func (s *Service) ToggleFavorite(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	res, err := s.repos.Social.ToggleFavorite(ctx, userID, cityID)
	if err != nil {
		return res, err
	}
	s.invalidate(ctx, querycache.CityTag(cityID), querycache.TagStats, querycache.TagCities)
	return res, nil
}

// ToggleFollow follows or unfollows a user
func (s *Service) ToggleFollow(ctx context.Context, followerID, followingID int64) (model.ToggleResult, error) {
	if followerID == followingID {
		return model.ToggleResult{}, apperror.ValidationFailed("userId", "you cannot follow yourself")
	}
	res, err := s.repos.Social.ToggleFollow(ctx, followerID, followingID)
	if err != nil {
		return res, err
	}
	s.invalidate(ctx, querycache.UserTag(followingID))
	return res, nil
}

// AddComment validates content against the moderation settings and posts it
func (s *Service) AddComment(ctx context.Context, userID, cityID int64, content string) (*model.Comment, error) {
	settings, err := s.GetModerationSettings(ctx)
	if err != nil {
		return nil, err
	}
	content, err = ValidateComment(content, settings)
	if err != nil {
		return nil, err
	}

	c, err := s.repos.Comment.Create(ctx, cityID, userID, content)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, querycache.CommentsTag(cityID), querycache.CityTag(cityID), querycache.TagStats)
	return c, nil
}

// ListComments returns the comments of a city, oldest first
func (s *Service) ListComments(ctx context.Context, cityID int64) ([]model.CommentView, error) {
	tags := []string{querycache.CommentsTag(cityID), querycache.CityTag(cityID)}
	return querycache.Load(ctx, s.cache, "cityComments", cityID, s.ttl.ListingTTL, tags,
		func(ctx context.Context) ([]model.CommentView, error) {
			if _, err := s.repos.City.GetByID(ctx, cityID); err != nil {
				return nil, err
			}
			comments, err := s.repos.Comment.ListByCity(ctx, cityID)
			if err != nil {
				return nil, err
			}
			if comments == nil {
				comments = []model.CommentView{}
			}
			return comments, nil
		})
}

// DeleteOwnComment removes a comment written by userID
func (s *Service) DeleteOwnComment(ctx context.Context, userID, commentID int64) error {
	c, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return apperror.Forbidden("you can only delete your own comments")
	}
	return s.deleteComment(ctx, c)
}

func (s *Service) deleteComment(ctx context.Context, c *model.Comment) error {
	if err := s.repos.Comment.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.invalidate(ctx, querycache.CommentsTag(c.CityID), querycache.CityTag(c.CityID), querycache.TagStats)
	return nil
}

// ListNotifications returns the newest notifications of a user and the unread count
func (s *Service) ListNotifications(ctx context.Context, userID int64, limit int) (*model.NotificationsResponse, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultNotificationLimit
	}
	list, err := s.repos.Notification.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repos.Notification.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Notification{}
	}
	return &model.NotificationsResponse{Notifications: list, Unread: unread}, nil
}

// MarkNotificationRead marks one notification of userID as read
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	return s.repos.Notification.MarkRead(ctx, userID, id)
}

// MarkAllNotificationsRead marks every notification of userID as read
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repos.Notification.MarkAllRead(ctx, userID)
}

// UnreadNotificationCount counts unread notifications of userID
func (s *Service) UnreadNotificationCount(ctx context.Context, userID int64) (int64, error) {
	return s.repos.Notification.CountUnread(ctx, userID)
}
