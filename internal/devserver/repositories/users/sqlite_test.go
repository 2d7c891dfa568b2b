package users

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/farmstand/internal/common"
	"github.com/dmitrijs2005/farmstand/internal/devserver/models"

	_ "modernc.org/sqlite"
)

var dbCounter int

func newTestRepo(t *testing.T) *SQLiteRepository {
	dbCounter++
	db, err := sql.Open("sqlite", fmt.Sprintf("file:users_test_%d?mode=memory&cache=shared", dbCounter))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		refresh_token TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	return NewSQLiteRepository(db)
}

func seedUser(t *testing.T, r *SQLiteRepository, id, email string) {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &models.User{
		ID: id, Email: email, PasswordHash: "hash",
	}))
}

func TestCreateAndGetByID(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	seedUser(t, r, "u1", "jane@x.com")

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	seedUser(t, r, "u1", "jane@x.com")

	err := r.Create(context.Background(), &models.User{ID: "u2", Email: "jane@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetByEmail(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	seedUser(t, r, "u1", "jane@x.com")

	got, err := r.GetByEmail(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = r.GetByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	seedUser(t, r, "u1", "jane@x.com")

	require.NoError(t, r.SetRefreshToken(ctx, "u1", "tok1"))
	got, err := r.GetByRefreshToken(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	// Rotating the token invalidates the old one.
	require.NoError(t, r.SetRefreshToken(ctx, "u1", "tok2"))
	_, err = r.GetByRefreshToken(ctx, "tok1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByRefreshToken_EmptyNeverMatches(t *testing.T) {
	r := newTestRepo(t)
	seedUser(t, r, "u1", "jane@x.com")

	_, err := r.GetByRefreshToken(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateIdentity(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	seedUser(t, r, "u1", "jane@x.com")

	require.NoError(t, r.UpdateIdentity(ctx, "u1", "Jane", "j.png"))
	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.DisplayName)
	assert.Equal(t, "j.png", got.PhotoURL)

	assert.ErrorIs(t, r.UpdateIdentity(ctx, "ghost", "x", ""), common.ErrorNotFound)
}

func TestUpdateContact(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	seedUser(t, r, "u1", "jane@x.com")

	require.NoError(t, r.UpdateContact(ctx, "u1", "Jane", "+100", "Valley", "Grows tomatoes"))
	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "+100", got.Phone)
	assert.Equal(t, "Valley", got.Location)
	assert.Equal(t, "Grows tomatoes", got.Bio)
}
