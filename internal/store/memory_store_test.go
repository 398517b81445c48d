package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/memoryvault/internal/domain"
)

func createTestVault(t *testing.T, d *sql.DB) int64 {
	t.Helper()
	ctx := context.Background()

	user, err := NewUserStore(d).Create(ctx, testUserParams("ada"))
	require.NoError(t, err)

	vault, err := NewVaultStore(d).Create(ctx, &user.ID, nil, domain.Monthly,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return vault.ID
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	s := NewMemoryStore(d)
	ctx := context.Background()
	vaultID := createTestVault(t, d)

	lat, lng := 48.1374, 11.5755
	uri := "abc123.jpg"
	created, err := s.Create(ctx, NewMemoryParams{
		VaultID:     vaultID,
		Description: "Picnic at the river",
		Date:        time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC),
		Latitude:    &lat,
		Longitude:   &lng,
		ImageURI:    &uri,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Picnic at the river", got.Description)
	assert.Equal(t, time.Date(2025, time.January, 14, 0, 0, 0, 0, time.UTC), got.Date)
	require.NotNil(t, got.Latitude)
	assert.Equal(t, lat, *got.Latitude)
	require.NotNil(t, got.Longitude)
	assert.Equal(t, lng, *got.Longitude)
	require.NotNil(t, got.ImageURI)
	assert.Equal(t, uri, *got.ImageURI)
}

func TestMemoryStoreOptionalFieldsNil(t *testing.T) {
	d := openTestDB(t)
	s := NewMemoryStore(d)
	ctx := context.Background()
	vaultID := createTestVault(t, d)

	created, err := s.Create(ctx, NewMemoryParams{
		VaultID:     vaultID,
		Description: "No photo, no place",
		Date:        time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Longitude)
	assert.Nil(t, got.ImageURI)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore(openTestDB(t))

	got, err := s.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreListIDsInRange(t *testing.T) {
	d := openTestDB(t)
	s := NewMemoryStore(d)
	ctx := context.Background()
	vaultID := createTestVault(t, d)

	var ids []int64
	for _, day := range []int{20, 5, 12} {
		m, err := s.Create(ctx, NewMemoryParams{
			VaultID:     vaultID,
			Description: "entry",
			Date:        time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	// Outside the range.
	_, err := s.Create(ctx, NewMemoryParams{
		VaultID:     vaultID,
		Description: "entry",
		Date:        time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := s.ListIDsInRange(ctx, vaultID,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	// Ascending by date: Jan 5, Jan 12, Jan 20.
	assert.Equal(t, []int64{ids[1], ids[2], ids[0]}, got)
}

func TestMemoryStoreCountInWindowBounds(t *testing.T) {
	d := openTestDB(t)
	s := NewMemoryStore(d)
	ctx := context.Background()
	vaultID := createTestVault(t, d)

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	for _, date := range []time.Time{start, start.AddDate(0, 0, 1), end} {
		_, err := s.Create(ctx, NewMemoryParams{VaultID: vaultID, Description: "entry", Date: date})
		require.NoError(t, err)
	}

	count, err := s.CountInWindow(ctx, vaultID, start, end)
	require.NoError(t, err)
	// The memory dated exactly on the window start is excluded; the one on
	// the window end is included.
	assert.Equal(t, 2, count)
}
