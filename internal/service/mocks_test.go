package service

import (
	"context"
	"time"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository implements repository.UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]model.AdminUser, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AdminUser), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return m.Called(ctx, id, isAdmin).Error(0)
}

func (m *MockUserRepository) SetContentCreator(ctx context.Context, id int64, isContentCreator bool) error {
	return m.Called(ctx, id, isContentCreator).Error(0)
}

func (m *MockUserRepository) SetCookieConsent(ctx context.Context, id int64, consent string, at time.Time) error {
	return m.Called(ctx, id, consent, at).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockCityRepository implements repository.CityRepository interface
type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) Create(ctx context.Context, c *model.City) (*model.City, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityRepository) GetByID(ctx context.Context, id int64) (*model.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.City), args.Error(1)
}

func (m *MockCityRepository) GetSummary(ctx context.Context, id int64) (*model.CitySummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CitySummary), args.Error(1)
}

func (m *MockCityRepository) Update(ctx context.Context, c *model.City) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCityRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCityRepository) ListByUser(ctx context.Context, userID int64) ([]model.CitySummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CitySummary), args.Error(1)
}

func (m *MockCityRepository) Search(ctx context.Context, filters model.CitySearchFilters, limit, offset int) ([]model.CitySummary, error) {
	args := m.Called(ctx, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CitySummary), args.Error(1)
}

func (m *MockCityRepository) CountSearch(ctx context.Context, filters model.CitySearchFilters) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCityRepository) Stats(ctx context.Context, id int64) (model.CityStats, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.CityStats), args.Error(1)
}

func (m *MockCityRepository) CommunityStats(ctx context.Context) (*model.CommunityStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CommunityStats), args.Error(1)
}

// MockImageRepository implements repository.ImageRepository interface
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Add(ctx context.Context, img *model.CityImage) (*model.CityImage, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CityImage), args.Error(1)
}

func (m *MockImageRepository) ListByCity(ctx context.Context, cityID int64) ([]model.CityImage, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CityImage), args.Error(1)
}

func (m *MockImageRepository) ListHallOfFameByCity(ctx context.Context, cityID int64) ([]model.HallOfFameImage, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HallOfFameImage), args.Error(1)
}

func (m *MockImageRepository) SetPrimary(ctx context.Context, cityID, imageID int64, source model.ImageSource) error {
	return m.Called(ctx, cityID, imageID, source).Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, cityID, imageID int64) (*model.CityImage, error) {
	args := m.Called(ctx, cityID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CityImage), args.Error(1)
}

func (m *MockImageRepository) FixDuplicatePrimaries(ctx context.Context) (model.PrimaryImageFixResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PrimaryImageFixResult), args.Error(1)
}

// MockSocialRepository implements repository.SocialRepository interface
type MockSocialRepository struct {
	mock.Mock
}

func (m *MockSocialRepository) ToggleLike(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	args := m.Called(ctx, userID, cityID)
	return args.Get(0).(model.ToggleResult), args.Error(1)
}

func (m *MockSocialRepository) ToggleFavorite(ctx context.Context, userID, cityID int64) (model.ToggleResult, error) {
	args := m.Called(ctx, userID, cityID)
	return args.Get(0).(model.ToggleResult), args.Error(1)
}

func (m *MockSocialRepository) ToggleFollow(ctx context.Context, followerID, followingID int64) (model.ToggleResult, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Get(0).(model.ToggleResult), args.Error(1)
}

// MockCommentRepository implements repository.CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, cityID, userID int64, content string) (*model.Comment, error) {
	args := m.Called(ctx, cityID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByCity(ctx context.Context, cityID int64) ([]model.CommentView, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CommentView), args.Error(1)
}

func (m *MockCommentRepository) ListAll(ctx context.Context, limit, offset int) ([]model.CommentView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CommentView), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockAPIKeyRepository implements repository.APIKeyRepository interface
type MockAPIKeyRepository struct {
	mock.Mock
}

func (m *MockAPIKeyRepository) Create(ctx context.Context, k *model.APIKey) (*model.APIKey, error) {
	args := m.Called(ctx, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) GetByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.APIKey), args.Error(1)
}

func (m *MockAPIKeyRepository) List(ctx context.Context) ([]model.APIKeyView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.APIKeyView), args.Error(1)
}

func (m *MockAPIKeyRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockAPIKeyRepository) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockAPIKeyRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockModerationRepository implements repository.ModerationRepository interface
type MockModerationRepository struct {
	mock.Mock
}

func (m *MockModerationRepository) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockModerationRepository) SetAll(ctx context.Context, values map[string]string) error {
	return m.Called(ctx, values).Error(0)
}
