package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenStore interface {
	GetToken(ctx context.Context, key string) (string, error)
	SaveToken(ctx context.Context, key, token string) error
	DeleteToken(ctx context.Context, key string) error
}

func newSQLiteRepository(t *testing.T, path string) *Repository {
	t.Helper()
	repo, err := New(context.Background(), Config{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestTokenStores(t *testing.T) {
	stores := map[string]tokenStore{
		"sqlite": newSQLiteRepository(t, ":memory:"),
		"memory": NewMemoryTokenStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.GetToken(ctx, "access_token")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.SaveToken(ctx, "access_token", "first"))
			require.NoError(t, store.SaveToken(ctx, "access_token", "second"))

			token, err := store.GetToken(ctx, "access_token")
			require.NoError(t, err)
			assert.Equal(t, "second", token)

			require.NoError(t, store.DeleteToken(ctx, "access_token"))
			require.NoError(t, store.DeleteToken(ctx, "access_token"))

			_, err = store.GetToken(ctx, "access_token")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRepository_TokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questpath.db")
	ctx := context.Background()

	repo, err := New(ctx, Config{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	require.NoError(t, repo.SaveToken(ctx, "access_token", "persisted"))
	require.NoError(t, repo.Close())

	reopened := newSQLiteRepository(t, path)
	token, err := reopened.GetToken(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "mysql"})
	assert.Error(t, err)
}

func TestConfig_GetDatabaseURL(t *testing.T) {
	pg := Config{Driver: DriverPostgres, Host: "db", Port: "5432", User: "quest", Password: "secret", Name: "questpath"}
	assert.Equal(t, "postgres://quest:secret@db:5432/questpath?sslmode=disable", pg.GetDatabaseURL())

	lite := Config{Driver: DriverSQLite}
	assert.Equal(t, ":memory:", lite.GetDatabaseURL())
}
