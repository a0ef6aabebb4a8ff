package api

import (
	"context"
	"time"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/alexivanou/cityshare-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of ServiceInterface
type MockService struct {
	mock.Mock
}

var _ service.ServiceInterface = (*MockService)(nil)

func (m *MockService) SearchCities(ctx context.Context, filters model.CitySearchFilters, limit, offset int) (*model.SearchResponse, error) {
	args := m.Called(ctx, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResponse), args.Error(1)
}

func (m *MockService) CountSearchCities(ctx context.Context, filters model.CitySearchFilters) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) GetRecentCities(ctx context.Context, limit int) ([]model.CitySummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CitySummary), args.Error(1)
}

func (m *MockService) GetCityDetail(ctx context.Context, id int64) (*model.CityDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CityDetail), args.Error(1)
}

func (m *MockService) GetUserCities(ctx context.Context, username string) (*model.UserCitiesResponse, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserCitiesResponse), args.Error(1)
}

func (m *MockService) GetCreatorProfile(ctx context.Context, userID int64) (*model.UserCitiesResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserCitiesResponse), args.Error(1)
}

func (m *MockService) CreateCity(ctx context.Context, userID int64, in model.CityInput) (*model.City, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockService) UpdateCity(ctx context.Context, userID, cityID int64, in model.CityInput) (*model.City, error) {
	args := m.Called(ctx, userID, cityID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockService) DeleteCity(ctx context.Context, userID, cityID int64) error {
	return m.Called(ctx, userID, cityID).Error(0)
}

func (m *MockService) AddCityImage(ctx context.Context, userID, cityID int64, in model.ImageInput) (*model.CityImage, error) {
	args := m.Called(ctx, userID, cityID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CityImage), args.Error(1)
}

func (m *MockService) SetPrimaryImage(ctx context.Context, userID, cityID, imageID int64, source model.ImageSource) error {
	return m.Called(ctx, userID, cityID, imageID, source).Error(0)
}

func (m *MockService) DeleteImage(ctx context.Context, userID, cityID, imageID int64) error {
	return m.Called(ctx, userID, cityID, imageID).Error(0)
}

func (m *MockService) GetCommunityStats(ctx context.Context) (*model.CommunityStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CommunityStats), args.Error(1)
}

func (m *MockService) WarmCache(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockService) ToggleLike(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	args := m.Called(ctx, userID, cityID)
	return args.Get(0).(model.ToggleResult), args.Error(1)
}

func (m *MockService) ToggleFavorite(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	args := m.Called(ctx, userID, cityID)
	return args.Get(0).(model.ToggleResult), args.Error(1)
}

func (m *MockService) ToggleFollow(ctx context.Context, followerID, followingID int64) (model.ToggleResult, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Get(0).(model.ToggleResult), args.Error(1)
}

func (m *MockService) AddComment(ctx context.Context, userID, cityID int64, content string) (*model.Comment, error) {
	args := m.Called(ctx, userID, cityID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockService) ListComments(ctx context.Context, cityID int64) ([]model.CommentView, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CommentView), args.Error(1)
}

func (m *MockService) DeleteOwnComment(ctx context.Context, userID, commentID int64) error {
	return m.Called(ctx, userID, commentID).Error(0)
}

func (m *MockService) ListNotifications(ctx context.Context, userID int64, limit int) (*model.NotificationsResponse, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NotificationsResponse), args.Error(1)
}

func (m *MockService) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockService) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) UnreadNotificationCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockService) ListUsers(ctx context.Context, limit, offset int) (*model.AdminUsersResponse, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminUsersResponse), args.Error(1)
}

func (m *MockService) ToggleAdmin(ctx context.Context, actorID, userID int64, isAdmin bool) error {
	return m.Called(ctx, actorID, userID, isAdmin).Error(0)
}

func (m *MockService) ToggleContentCreator(ctx context.Context, userID int64, isContentCreator bool) error {
	return m.Called(ctx, userID, isContentCreator).Error(0)
}

func (m *MockService) DeleteUser(ctx context.Context, actorID, userID int64) error {
	return m.Called(ctx, actorID, userID).Error(0)
}

func (m *MockService) CreateAPIKey(ctx context.Context, userID int64, name string) (*model.CreatedAPIKey, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreatedAPIKey), args.Error(1)
}

func (m *MockService) ListAPIKeys(ctx context.Context) ([]model.APIKeyView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.APIKeyView), args.Error(1)
}

func (m *MockService) ToggleAPIKey(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockService) DeleteAPIKey(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) ListAllComments(ctx context.Context, limit, offset int) ([]model.CommentView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CommentView), args.Error(1)
}

func (m *MockService) DeleteComment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) GetModerationSettings(ctx context.Context) (model.ModerationSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.ModerationSettings), args.Error(1)
}

func (m *MockService) UpdateModerationSettings(ctx context.Context, settings model.ModerationSettings) (model.ModerationSettings, error) {
	args := m.Called(ctx, settings)
	return args.Get(0).(model.ModerationSettings), args.Error(1)
}

func (m *MockService) FixDuplicatePrimaryImages(ctx context.Context) (model.PrimaryImageFixResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PrimaryImageFixResult), args.Error(1)
}

func (m *MockService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockService) AuthenticateAPIKey(ctx context.Context, key string) (*model.APIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIKey), args.Error(1)
}

func (m *MockService) UpdateCookieConsent(ctx context.Context, userID int64, consent string) (*model.User, error) {
	args := m.Called(ctx, userID, consent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockService) SessionTTL() time.Duration {
	return time.Hour
}
