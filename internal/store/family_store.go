package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vbonduro/memoryvault/internal/domain"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func (s *FamilyStore) Create(ctx context.Context, name, inviteCode string) (*domain.Family, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO families (family_name, invite_code) VALUES (?, ?)
	`, name, inviteCode)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("invite code collision: %w", ErrUniqueViolation)
		}
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *FamilyStore) GetByID(ctx context.Context, id int64) (*domain.Family, error) {
	return s.getBy(ctx, "id = ?", id)
}

func (s *FamilyStore) GetByInviteCode(ctx context.Context, inviteCode string) (*domain.Family, error) {
	return s.getBy(ctx, "invite_code = ?", inviteCode)
}

func (s *FamilyStore) getBy(ctx context.Context, where string, arg any) (*domain.Family, error) {
	family := &domain.Family{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, family_name, invite_code, created_at FROM families WHERE `+where,
		arg,
	).Scan(&family.ID, &family.Name, &family.InviteCode, &family.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}
