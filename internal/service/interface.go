package service

import (
	"context"
	"time"

	"github.com/alexivanou/cityshare-api/internal/model"
)

// CityService covers browsing and editing cities
type CityService interface {
	SearchCities(ctx context.Context, filters model.CitySearchFilters, limit, offset int) (*model.SearchResponse, error)
	CountSearchCities(ctx context.Context, filters model.CitySearchFilters) (int64, error)
	GetRecentCities(ctx context.Context, limit int) ([]model.CitySummary, error)
	GetCityDetail(ctx context.Context, id int64) (*model.CityDetail, error)
	GetUserCities(ctx context.Context, username string) (*model.UserCitiesResponse, error)
	GetCreatorProfile(ctx context.Context, userID int64) (*model.UserCitiesResponse, error)
	CreateCity(ctx context.Context, userID int64, in model.CityInput) (*model.City, error)
	UpdateCity(ctx context.Context, userID, cityID int64, in model.CityInput) (*model.City, error)
	DeleteCity(ctx context.Context, userID, cityID int64) error
	AddCityImage(ctx context.Context, userID, cityID int64, in model.ImageInput) (*model.CityImage, error)
	SetPrimaryImage(ctx context.Context, userID, cityID, imageID int64, source model.ImageSource) error
	DeleteImage(ctx context.Context, userID, cityID, imageID int64) error
	GetCommunityStats(ctx context.Context) (*model.CommunityStats, error)
	WarmCache(ctx context.Context) error
}

// SocialService covers likes, favorites, follows, comments and notifications
type SocialService interface {
	ToggleLike(ctx context.Context, userID, cityID int64) (model.ToggleResult, error)
	ToggleFavorite(ctx context.Context, userID, cityID int64) (model.ToggleResult, error)
	ToggleFollow(ctx context.Context, followerID, followingID int64) (model.ToggleResult, error)
	AddComment(ctx context.Context, userID, cityID int64, content string) (*model.Comment, error)
	ListComments(ctx context.Context, cityID int64) ([]model.CommentView, error)
	DeleteOwnComment(ctx context.Context, userID, commentID int64) error
	ListNotifications(ctx context.Context, userID int64, limit int) (*model.NotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, userID, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	UnreadNotificationCount(ctx context.Context, userID int64) (int64, error)
}

// AdminService covers administrator operations
type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int) (*model.AdminUsersResponse, error)
	ToggleAdmin(ctx context.Context, actorID, userID int64, isAdmin bool) error
	ToggleContentCreator(ctx context.Context, userID int64, isContentCreator bool) error
	DeleteUser(ctx context.Context, actorID, userID int64) error
	CreateAPIKey(ctx context.Context, userID int64, name string) (*model.CreatedAPIKey, error)
	ListAPIKeys(ctx context.Context) ([]model.APIKeyView, error)
	ToggleAPIKey(ctx context.Context, id int64, active bool) error
	DeleteAPIKey(ctx context.Context, id int64) error
	ListAllComments(ctx context.Context, limit, offset int) ([]model.CommentView, error)
	DeleteComment(ctx context.Context, id int64) error
	GetModerationSettings(ctx context.Context) (model.ModerationSettings, error)
	UpdateModerationSettings(ctx context.Context, settings model.ModerationSettings) (model.ModerationSettings, error)
	FixDuplicatePrimaryImages(ctx context.Context) (model.PrimaryImageFixResult, error)
}

// AuthService covers accounts, sessions and API keys
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	AuthenticateAPIKey(ctx context.Context, key string) (*model.APIKey, error)
	UpdateCookieConsent(ctx context.Context, userID int64, consent string) (*model.User, error)
	SessionTTL() time.Duration
}

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	CityService
	SocialService
	AdminService
	AuthService
}

var _ ServiceInterface = (*Service)(nil)
