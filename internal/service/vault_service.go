package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/memoryvault/internal/clock"
	"github.com/vbonduro/memoryvault/internal/domain"
	"github.com/vbonduro/memoryvault/internal/period"
	"github.com/vbonduro/memoryvault/internal/store"
)

// vaultRepository is the subset of store.VaultStore that VaultService requires.
type vaultRepository interface {
	Create(ctx context.Context, userID, familyID *int64, duration domain.PeriodDuration, initialStart time.Time) (*domain.Vault, error)
	GetByID(ctx context.Context, id int64) (*domain.Vault, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Vault, error)
	GetByFamilyID(ctx context.Context, familyID int64) (*domain.Vault, error)
}

// memoryCounter is the subset of store.MemoryStore that VaultService requires.
type memoryCounter interface {
	CountInWindow(ctx context.Context, vaultID int64, afterStart, throughEnd time.Time) (int, error)
}

type VaultService struct {
	vaults   vaultRepository
	memories memoryCounter
	clock    clock.Clock
	logger   *slog.Logger
}

func NewVaultService(vaults vaultRepository, memories memoryCounter, clk clock.Clock, logger *slog.Logger) *VaultService {
	return &VaultService{vaults: vaults, memories: memories, clock: clk, logger: logger}
}

// Create creates a vault for exactly one owner. durationRaw must be one of
// the enumerated month counts. firstPeriodStartRaw is a "month-year"
// selector (e.g. "7-2025"); the first period starts on day 1 of the month
// FOLLOWING the selected one, rolling into the next year when the selected
// month is December.
func (s *VaultService) Create(ctx context.Context, userID, familyID *int64, durationRaw int, firstPeriodStartRaw string) (*domain.Vault, error) {
	if (userID == nil) == (familyID == nil) {
		return nil, ErrInvalidOwner
	}

	duration, err := domain.ParsePeriodDuration(durationRaw)
	if err != nil {
		return nil, ErrInvalidDuration
	}

	initialStart, err := parseFirstPeriodStart(firstPeriodStartRaw)
	if err != nil {
		return nil, err
	}

	vault, err := s.vaults.Create(ctx, userID, familyID, duration, initialStart)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, ErrDuplicateVault
		}
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}

	s.logger.Info("vault created",
		"vault_id", vault.ID,
		"duration", vault.PeriodDuration.String(),
		"initial_start", vault.PeriodInitialStart.Format(domain.DateLayout),
	)
	return vault, nil
}

// parseFirstPeriodStart normalizes a "M-YYYY" selector to the first day of
// the month after the selected one. time.Date folds month 13 into January
// of the following year.
func parseFirstPeriodStart(raw string) (time.Time, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, validationf("first period start must be in M-YYYY format")
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, validationf("first period start month must be between 1 and 12")
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, validationf("first period start year is not a number")
	}

	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC), nil
}

// Selector resolves a vault through its owner or its own id. When several
// fields are set, precedence is user, then vault id, then family.
type Selector struct {
	UserID   *int64
	VaultID  *int64
	FamilyID *int64
}

func (s *VaultService) resolve(ctx context.Context, sel Selector) (*domain.Vault, error) {
	switch {
	case sel.UserID != nil:
		return s.vaults.GetByUserID(ctx, *sel.UserID)
	case sel.VaultID != nil:
		return s.vaults.GetByID(ctx, *sel.VaultID)
	case sel.FamilyID != nil:
		return s.vaults.GetByFamilyID(ctx, *sel.FamilyID)
	default:
		return nil, ErrMissingSelector
	}
}

// VaultInfo is the presentation packet for a vault: static configuration
// plus the current collection period derived on demand.
type VaultInfo struct {
	VaultID            int64     `json:"vault_id"`
	UserID             *int64    `json:"user_id,omitempty"`
	FamilyID           *int64    `json:"family_id,omitempty"`
	PeriodDuration     int       `json:"period_duration"`
	PeriodInitialStart time.Time `json:"period_initial_start"`
	CurrentPeriodStart time.Time `json:"curr_period_start"`
	CurrentPeriodEnd   time.Time `json:"curr_period_end"`
	DaysLeft           int       `json:"days_left"`
}

// Info returns the vault's presentation packet, or (nil, nil) when the
// selected owner has no vault. DaysLeft counts from today to the current
// period's end and can be negative.
func (s *VaultService) Info(ctx context.Context, sel Selector) (*VaultInfo, error) {
	vault, err := s.resolve(ctx, sel)
	if err != nil {
		return nil, err
	}
	if vault == nil {
		return nil, nil
	}

	today := s.clock.Today()
	current := period.Current(vault.PeriodInitialStart, vault.PeriodDuration, today)

	return &VaultInfo{
		VaultID:            vault.ID,
		UserID:             vault.UserID,
		FamilyID:           vault.FamilyID,
		PeriodDuration:     vault.PeriodDuration.Months(),
		PeriodInitialStart: vault.PeriodInitialStart,
		CurrentPeriodStart: current.Start,
		CurrentPeriodEnd:   current.End,
		DaysLeft:           int(current.End.Sub(today).Hours() / 24),
	}, nil
}

// AllPeriods lists every collection period of the selected vault from its
// initial start through the one containing today.
func (s *VaultService) AllPeriods(ctx context.Context, sel Selector) ([]domain.CollectionPeriod, error) {
	vault, err := s.resolve(ctx, sel)
	if err != nil {
		return nil, err
	}
	if vault == nil {
		return nil, ErrVaultNotFound
	}
	return period.All(vault.PeriodInitialStart, vault.PeriodDuration, s.clock.Today()), nil
}

// MemoriesInCurrentPeriod counts the vault's memories dated inside the
// current period. The count excludes a memory dated exactly on the period
// start and includes one dated on the period end; this asymmetry is
// long-standing observed behavior and is kept as-is.
func (s *VaultService) MemoriesInCurrentPeriod(ctx context.Context, sel Selector) (int, error) {
	vault, err := s.resolve(ctx, sel)
	if err != nil {
		return 0, err
	}
	if vault == nil {
		return 0, ErrVaultNotFound
	}

	current := period.Current(vault.PeriodInitialStart, vault.PeriodDuration, s.clock.Today())
	return s.memories.CountInWindow(ctx, vault.ID, current.Start, current.End)
}
