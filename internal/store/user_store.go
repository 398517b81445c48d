package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/memoryvault/internal/domain"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// NewUserParams carries the column values for a user insert. The caller is
// responsible for lower-casing the username and hashing the password.
type NewUserParams struct {
	Username     string
	PasswordHash string
	Firstname    string
	Lastname     string
	Birthday     time.Time
	IsAdmin      bool
}

func (s *UserStore) Create(ctx context.Context, p NewUserParams) (*domain.User, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, firstname, lastname, birthday, is_admin)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Username, p.PasswordHash, p.Firstname, p.Lastname, formatDate(p.Birthday), p.IsAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username %q: %w", p.Username, ErrUniqueViolation)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getBy(ctx, "id = ?", id)
}

// GetByUsername matches the stored (lower-cased) username exactly.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getBy(ctx, "username = ?", username)
}

func (s *UserStore) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	var birthday string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, firstname, lastname, birthday, is_admin, family_id, registered_at
		FROM users WHERE `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Firstname, &user.Lastname,
		&birthday, &user.IsAdmin, &user.FamilyID, &user.RegisteredAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Birthday, err = parseDate(birthday); err != nil {
		return nil, fmt.Errorf("failed to parse birthday: %w", err)
	}
	return user, nil
}

// UsernameTaken reports whether any stored username matches,
// case-insensitively.
func (s *UserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE LOWER(username) = LOWER(?)
	`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// SetFamily updates the user's family membership; nil clears it.
func (s *UserStore) SetFamily(ctx context.Context, userID int64, familyID *int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET family_id = ? WHERE id = ?
	`, familyID, userID)
	if err != nil {
		return fmt.Errorf("failed to set family: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// ListUsernamesByFamily returns the usernames of all family members in
// insertion order.
func (s *UserStore) ListUsernamesByFamily(ctx context.Context, familyID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username FROM users WHERE family_id = ? ORDER BY id ASC
	`, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating family members: %w", err)
	}
	return usernames, nil
}
