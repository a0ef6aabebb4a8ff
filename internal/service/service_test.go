package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexivanou/cityshare-api/internal/auth"
	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/alexivanou/cityshare-api/internal/repository"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testMocks struct {
	user       *MockUserRepository
	city       *MockCityRepository
	image      *MockImageRepository
	social     *MockSocialRepository
	comment    *MockCommentRepository
	apiKey     *MockAPIKeyRepository
	moderation *MockModerationRepository
	clock      *clockwork.FakeClock
}

func (m *testMocks) assertExpectations(t *testing.T) {
	m.user.AssertExpectations(t)
	m.city.AssertExpectations(t)
	m.image.AssertExpectations(t)
	m.social.AssertExpectations(t)
	m.comment.AssertExpectations(t)
	m.apiKey.AssertExpectations(t)
	m.moderation.AssertExpectations(t)
}

func newTestService(t *testing.T) (*Service, *testMocks) {
	t.Helper()

	m := &testMocks{
		user:       new(MockUserRepository),
		city:       new(MockCityRepository),
		image:      new(MockImageRepository),
		social:     new(MockSocialRepository),
		comment:    new(MockCommentRepository),
		apiKey:     new(MockAPIKeyRepository),
		moderation: new(MockModerationRepository),
		clock:      clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
	}

	tokens, err := auth.NewTokenService("service-test-secret-123", time.Hour, m.clock)
	require.NoError(t, err)

	logger := zap.NewNop()
	svc := NewService(Options{
		Repos: &repository.Container{
			User:       m.user,
			City:       m.city,
			Image:      m.image,
			Social:     m.social,
			Comment:    m.comment,
			APIKey:     m.apiKey,
			Moderation: m.moderation,
		},
		Cache: querycache.NewMemory(logger),
		CacheTTL: config.CacheConfig{
			ListingTTL: time.Minute,
			SearchTTL:  time.Minute,
			StatsTTL:   time.Minute,
			DetailTTL:  time.Minute,
		},
		Passwords: auth.NewPasswordService(bcrypt.MinCost),
		Tokens:    tokens,
		Clock:     m.clock,
		Logger:    logger,
	})
	return svc, m
}

func int64Ptr(v int64) *int64 { return &v }

var ctx = context.Background()
