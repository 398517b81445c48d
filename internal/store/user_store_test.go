package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/memoryvault/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func testUserParams(username string) NewUserParams {
	return NewUserParams{
		Username:     username,
		PasswordHash: "$2a$10$digest",
		Firstname:    "Ada",
		Lastname:     "Lovelace",
		Birthday:     time.Date(1990, time.December, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserStoreCreate(t *testing.T) {
	s := NewUserStore(openTestDB(t))
	ctx := context.Background()

	user, err := s.Create(ctx, testUserParams("ada"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "Ada", user.Firstname)
	assert.Equal(t, time.Date(1990, time.December, 10, 0, 0, 0, 0, time.UTC), user.Birthday)
	assert.False(t, user.IsAdmin)
	assert.Nil(t, user.FamilyID)
}

func TestUserStoreCreateDuplicateUsername(t *testing.T) {
	s := NewUserStore(openTestDB(t))
	ctx := context.Background()

	_, err := s.Create(ctx, testUserParams("ada"))
	require.NoError(t, err)

	_, err = s.Create(ctx, testUserParams("ada"))
	assert.ErrorIs(t, err, ErrUniqueViolation)
}

func TestUserStoreGetByUsername(t *testing.T) {
	s := NewUserStore(openTestDB(t))
	ctx := context.Background()

	created, err := s.Create(ctx, testUserParams("grace"))
	require.NoError(t, err)

	found, err := s.GetByUsername(ctx, "grace")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := s.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserStoreUsernameTakenIsCaseInsensitive(t *testing.T) {
	s := NewUserStore(openTestDB(t))
	ctx := context.Background()

	_, err := s.Create(ctx, testUserParams("ada"))
	require.NoError(t, err)

	taken, err := s.UsernameTaken(ctx, "ADA")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.UsernameTaken(ctx, "grace")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserStoreSetFamily(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	families := NewFamilyStore(d)
	ctx := context.Background()

	user, err := users.Create(ctx, testUserParams("ada"))
	require.NoError(t, err)
	family, err := families.Create(ctx, "lovelace", "code123")
	require.NoError(t, err)

	require.NoError(t, users.SetFamily(ctx, user.ID, &family.ID))
	updated, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.FamilyID)
	assert.Equal(t, family.ID, *updated.FamilyID)

	require.NoError(t, users.SetFamily(ctx, user.ID, nil))
	updated, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.FamilyID)
}

func TestUserStoreSetFamilyMissingUser(t *testing.T) {
	s := NewUserStore(openTestDB(t))

	err := s.SetFamily(context.Background(), 9999, nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUserStoreListUsernamesByFamily(t *testing.T) {
	d := openTestDB(t)
	users := NewUserStore(d)
	families := NewFamilyStore(d)
	ctx := context.Background()

	family, err := families.Create(ctx, "lovelace", "code123")
	require.NoError(t, err)

	for _, name := range []string{"ada", "grace"} {
		u, err := users.Create(ctx, testUserParams(name))
		require.NoError(t, err)
		require.NoError(t, users.SetFamily(ctx, u.ID, &family.ID))
	}
	_, err = users.Create(ctx, testUserParams("loner"))
	require.NoError(t, err)

	names, err := users.ListUsernamesByFamily(ctx, family.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada", "grace"}, names)
}
