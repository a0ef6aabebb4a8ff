package repository

import (
	"context"
	"testing"

	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/database"
	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Container, *sqlx.DB) {
	t.Helper()
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: "testdb_" + uuid.NewString()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, cfg))
	return NewRepositories(db, cfg), db
}

func createUser(t *testing.T, repos *Container, username string) *model.User {
	t.Helper()
	u, err := repos.User.Create(context.Background(), &model.User{
		Email:    username + "@example.com",
		Username: username,
		Name:     username,
	})
	require.NoError(t, err)
	return u
}

func createCity(t *testing.T, repos *Container, owner *model.User, c model.City) *model.City {
	t.Helper()
	c.UserID = owner.ID
	created, err := repos.City.Create(context.Background(), &c)
	require.NoError(t, err)
	return created
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
