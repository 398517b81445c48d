package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/memoryvault/internal/domain"
)

type VaultStore struct {
	db *sql.DB
}

func NewVaultStore(db *sql.DB) *VaultStore {
	return &VaultStore{db: db}
}

// Create inserts a vault owned by exactly one of userID/familyID. The
// UNIQUE owner columns make concurrent creates for the same owner race at
// the database; the loser receives ErrUniqueViolation.
func (s *VaultStore) Create(ctx context.Context, userID, familyID *int64, duration domain.PeriodDuration, initialStart time.Time) (*domain.Vault, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO vaults (user_id, family_id, period_duration, period_initial_start)
		VALUES (?, ?, ?, ?)
	`, userID, familyID, duration.Months(), formatDate(initialStart))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("owner already has a vault: %w", ErrUniqueViolation)
		}
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *VaultStore) GetByID(ctx context.Context, id int64) (*domain.Vault, error) {
	return s.getBy(ctx, "id = ?", id)
}

func (s *VaultStore) GetByUserID(ctx context.Context, userID int64) (*domain.Vault, error) {
	return s.getBy(ctx, "user_id = ?", userID)
}

func (s *VaultStore) GetByFamilyID(ctx context.Context, familyID int64) (*domain.Vault, error) {
	return s.getBy(ctx, "family_id = ?", familyID)
}

func (s *VaultStore) getBy(ctx context.Context, where string, arg any) (*domain.Vault, error) {
	vault := &domain.Vault{}
	var months int
	var initialStart string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, family_id, period_duration, period_initial_start, created_at
		FROM vaults WHERE `+where,
		arg,
	).Scan(&vault.ID, &vault.UserID, &vault.FamilyID, &months, &initialStart, &vault.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}

	if vault.PeriodDuration, err = domain.ParsePeriodDuration(months); err != nil {
		return nil, fmt.Errorf("corrupt vault %d: %w", vault.ID, err)
	}
	if vault.PeriodInitialStart, err = parseDate(initialStart); err != nil {
		return nil, fmt.Errorf("failed to parse period start: %w", err)
	}
	return vault, nil
}
