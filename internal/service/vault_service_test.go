package service

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/memoryvault/internal/clock"
	"github.com/vbonduro/memoryvault/internal/db"
	"github.com/vbonduro/memoryvault/internal/domain"
	"github.com/vbonduro/memoryvault/internal/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestVaultService(t *testing.T, today time.Time) (*VaultService, *sql.DB) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	svc := NewVaultService(
		store.NewVaultStore(d),
		store.NewMemoryStore(d),
		clock.Fixed{Date: today},
		slog.Default(),
	)
	return svc, d
}

func createTestUser(t *testing.T, d *sql.DB, username string) int64 {
	t.Helper()
	user, err := store.NewUserStore(d).Create(context.Background(), store.NewUserParams{
		Username:     username,
		PasswordHash: "digest",
		Firstname:    "Ada",
		Birthday:     date(1990, time.December, 10),
	})
	require.NoError(t, err)
	return user.ID
}

func TestVaultCreateNormalizesStart(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	// The selected month is July; the first period starts on August 1.
	vault, err := svc.Create(ctx, &userID, nil, 3, "7-2025")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.August, 1), vault.PeriodInitialStart)
	assert.Equal(t, domain.Quarterly, vault.PeriodDuration)
}

func TestVaultCreateStartRollsIntoNextYear(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.December, 1))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	vault, err := svc.Create(ctx, &userID, nil, 1, "12-2025")
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.January, 1), vault.PeriodInitialStart)
}

func TestVaultCreateOwnerValidation(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")
	familyID := int64(1)

	_, err := svc.Create(ctx, nil, nil, 3, "7-2025")
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Create(ctx, &userID, &familyID, 3, "7-2025")
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestVaultCreateInvalidDuration(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	for _, months := range []int{0, 2, 5, 24} {
		_, err := svc.Create(ctx, &userID, nil, months, "7-2025")
		assert.ErrorIs(t, err, ErrInvalidDuration, "months=%d", months)
	}
}

func TestVaultCreateBadStartSelector(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	for _, raw := range []string{"", "2025", "13-2025", "0-2025", "x-2025", "7-twenty"} {
		_, err := svc.Create(ctx, &userID, nil, 3, raw)
		assert.Equal(t, KindValidation, KindOf(err), "raw=%q", raw)
	}
}

func TestVaultCreateDuplicateOwner(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	_, err := svc.Create(ctx, &userID, nil, 3, "7-2025")
	require.NoError(t, err)

	_, err = svc.Create(ctx, &userID, nil, 1, "7-2025")
	assert.ErrorIs(t, err, ErrDuplicateVault)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestVaultInfo(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	// Initial start December 2024, quarterly periods. Current period on
	// 2025-08-12 runs June through August.
	created, err := svc.Create(ctx, &userID, nil, 3, "11-2024")
	require.NoError(t, err)

	info, err := svc.Info(ctx, Selector{UserID: &userID})
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, created.ID, info.VaultID)
	assert.Equal(t, 3, info.PeriodDuration)
	assert.Equal(t, date(2024, time.December, 1), info.PeriodInitialStart)
	assert.Equal(t, date(2025, time.June, 1), info.CurrentPeriodStart)
	assert.Equal(t, date(2025, time.August, 31), info.CurrentPeriodEnd)
	assert.Equal(t, 19, info.DaysLeft)
}

func TestVaultInfoNoVault(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	userID := createTestUser(t, d, "ada")

	info, err := svc.Info(context.Background(), Selector{UserID: &userID})
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestVaultInfoMissingSelector(t *testing.T) {
	svc, _ := newTestVaultService(t, date(2025, time.August, 12))

	_, err := svc.Info(context.Background(), Selector{})
	assert.ErrorIs(t, err, ErrMissingSelector)
}

func TestVaultInfoSelectorPrecedence(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()

	adaID := createTestUser(t, d, "ada")
	graceID := createTestUser(t, d, "grace")
	adaVault, err := svc.Create(ctx, &adaID, nil, 1, "7-2025")
	require.NoError(t, err)
	graceVault, err := svc.Create(ctx, &graceID, nil, 1, "7-2025")
	require.NoError(t, err)

	// With both a user and an explicit vault id set, the user wins.
	info, err := svc.Info(ctx, Selector{UserID: &adaID, VaultID: &graceVault.ID})
	require.NoError(t, err)
	assert.Equal(t, adaVault.ID, info.VaultID)
}

func TestVaultAllPeriods(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	_, err := svc.Create(ctx, &userID, nil, 6, "12-2023")
	require.NoError(t, err)

	periods, err := svc.AllPeriods(ctx, Selector{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, periods, 4)
	assert.Equal(t, date(2024, time.January, 1), periods[0].Start)
	assert.Equal(t, date(2024, time.June, 30), periods[0].End)
	assert.Equal(t, date(2025, time.July, 1), periods[3].Start)
	assert.Equal(t, date(2025, time.December, 31), periods[3].End)
}

func TestVaultAllPeriodsNoVault(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	userID := createTestUser(t, d, "ada")

	_, err := svc.AllPeriods(context.Background(), Selector{UserID: &userID})
	assert.ErrorIs(t, err, ErrVaultNotFound)
}

func TestMemoriesInCurrentPeriodBounds(t *testing.T) {
	svc, d := newTestVaultService(t, date(2025, time.August, 12))
	ctx := context.Background()
	userID := createTestUser(t, d, "ada")

	vault, err := svc.Create(ctx, &userID, nil, 1, "7-2025")
	require.NoError(t, err)

	memories := store.NewMemoryStore(d)
	for _, day := range []time.Time{
		date(2025, time.August, 1),  // exactly on the period start: not counted
		date(2025, time.August, 15), // inside: counted
		date(2025, time.August, 31), // exactly on the period end: counted
		date(2025, time.July, 20),   // previous period: not counted
	} {
		_, err := memories.Create(ctx, store.NewMemoryParams{VaultID: vault.ID, Description: "m", Date: day})
		require.NoError(t, err)
	}

	count, err := svc.MemoriesInCurrentPeriod(ctx, Selector{UserID: &userID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
