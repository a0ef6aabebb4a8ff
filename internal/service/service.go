package service

import (
	"context"
	"time"

	"github.com/alexivanou/cityshare-api/internal/auth"
	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/alexivanou/cityshare-api/internal/repository"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service provides business logic for the API
type Service struct {
	repos     *repository.Container
	cache     *querycache.Cache
	ttl       config.CacheConfig
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	clock     clockwork.Clock
	logger    *zap.Logger
}

// Options carries the collaborators of a Service
type Options struct {
	Repos     *repository.Container
	Cache     *querycache.Cache
	CacheTTL  config.CacheConfig
	Passwords *auth.PasswordService
	Tokens    *auth.TokenService
	Clock     clockwork.Clock
	Logger    *zap.Logger
}

// NewService creates a new service instance
func NewService(opts Options) *Service {
	s := &Service{
		repos:     opts.Repos,
		cache:     opts.Cache,
		ttl:       opts.CacheTTL,
		passwords: opts.Passwords,
		tokens:    opts.Tokens,
		clock:     opts.Clock,
		logger:    opts.Logger,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.cache == nil {
		s.cache = querycache.NewMemory(s.logger)
	}
	return s
}

// SessionTTL is the lifetime of session tokens
func (s *Service) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *Service) invalidate(ctx context.Context, tags ...string) {
	s.cache.Invalidate(ctx, tags...)
}

// page normalizes pagination input
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
