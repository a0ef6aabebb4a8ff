package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/alexivanou/cityshare-api/internal/apperror"
	"github.com/alexivanou/cityshare-api/internal/auth"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"go.uber.org/zap"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

var errInvalidCredentials = apperror.Unauthorized("invalid login or password")

// Register creates a password account and opens a session for it
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperror.ValidationFailed("username", "username must be 3-30 letters, digits, '_' or '-'")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.ValidationFailed("password", "password must be at least 8 characters")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}
	user, err := s.repos.User.Create(ctx, &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: &hash,
		Name:         name,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, querycache.TagUsers)
	return s.session(user)
}

// Login checks a password against the account found by email or username
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, apperror.ValidationFailed("login", "login and password are required")
	}

	user, err := s.repos.User.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, errInvalidCredentials
	}
	if err := s.passwords.Verify(*user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidPassword) {
			s.logger.Warn("password verification failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return nil, errInvalidCredentials
	}
	return s.session(user)
}

func (s *Service) session(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: *user, Token: token}, nil
}

// Authenticate resolves a session token to its user
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperror.Unauthorized("authentication required")
	}
	userID, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperror.Unauthorized("session expired")
		}
		return nil, apperror.Unauthorized("invalid session")
	}
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid session")
		}
		return nil, err
	}
	return user, nil
}

// AuthenticateAPIKey resolves an active API key and stamps its last use
func (s *Service) AuthenticateAPIKey(ctx context.Context, key string) (*model.APIKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperror.Unauthorized("API key required")
	}
	k, err := s.repos.APIKey.GetByHash(ctx, auth.HashAPIKey(key))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid API key")
		}
		return nil, err
	}
	if !k.IsActive {
		return nil, apperror.Unauthorized("API key is inactive")
	}

	now := s.clock.Now()
	if err := s.repos.APIKey.TouchLastUsed(ctx, k.ID, now); err != nil {
		s.logger.Warn("failed to record API key use", zap.Int64("key_id", k.ID), zap.Error(err))
	} else {
		k.LastUsedAt = &now
	}
	return k, nil
}

// UpdateCookieConsent records the cookie banner choice of a user
func (s *Service) UpdateCookieConsent(ctx context.Context, userID int64, consent string) (*model.User, error) {
	if consent != model.CookieConsentAccepted && consent != model.CookieConsentRejected {
		return nil, apperror.ValidationFailed("consent", "consent must be 'accepted' or 'rejected'")
	}
	if err := s.repos.User.SetCookieConsent(ctx, userID, consent, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.repos.User.GetByID(ctx, userID)
}
