package auth

import (
	"context"

	"github.com/alexivanou/cityshare-api/internal/model"
)

type contextKey int

const (
	userKey contextKey = iota
	apiKeyKey
)

// WithUser stores the authenticated user in ctx
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the authenticated user, if any
func UserFrom(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// WithAPIKey stores the API key a request authenticated with
func WithAPIKey(ctx context.Context, k *model.APIKey) context.Context {
	return context.WithValue(ctx, apiKeyKey, k)
}

// APIKeyFrom returns the API key a request authenticated with, if any
func APIKeyFrom(ctx context.Context) (*model.APIKey, bool) {
	k, ok := ctx.Value(apiKeyKey).(*model.APIKey)
	return k, ok && k != nil
}
