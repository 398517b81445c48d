package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/memoryvault/internal/domain"
)

type MemoryStore struct {
	db *sql.DB
}

func NewMemoryStore(db *sql.DB) *MemoryStore {
	return &MemoryStore{db: db}
}

// NewMemoryParams carries the column values for a memory insert.
type NewMemoryParams struct {
	VaultID     int64
	Description string
	Date        time.Time
	Latitude    *float64
	Longitude   *float64
	ImageURI    *string
}

func (s *MemoryStore) Create(ctx context.Context, p NewMemoryParams) (*domain.Memory, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO memories (vault_id, description, date, latitude, longitude, image_uri)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.VaultID, p.Description, formatDate(p.Date), p.Latitude, p.Longitude, p.ImageURI)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Memory, error) {
	memory := &domain.Memory{}
	var date string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, vault_id, description, date, latitude, longitude, image_uri, created_at
		FROM memories WHERE id = ?
	`, id).Scan(&memory.ID, &memory.VaultID, &memory.Description, &date,
		&memory.Latitude, &memory.Longitude, &memory.ImageURI, &memory.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}

	if memory.Date, err = parseDate(date); err != nil {
		return nil, fmt.Errorf("failed to parse memory date: %w", err)
	}
	return memory, nil
}

// ListIDsInRange returns the ids of all memories in the vault dated inside
// [from, through], ascending by date with id as tie-break.
func (s *MemoryStore) ListIDsInRange(ctx context.Context, vaultID int64, from, through time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM memories
		WHERE vault_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`, vaultID, formatDate(from), formatDate(through))
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan memory id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memories: %w", err)
	}
	return ids, nil
}

// CountInWindow counts memories in the vault dated strictly after the
// window start and on or before its end. The asymmetric bounds mirror the
// long-standing period counting behavior; a memory dated exactly on the
// window start is not counted.
func (s *MemoryStore) CountInWindow(ctx context.Context, vaultID int64, afterStart, throughEnd time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM memories
		WHERE vault_id = ? AND date > ? AND date <= ?
	`, vaultID, formatDate(afterStart), formatDate(throughEnd)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memories: %w", err)
	}
	return count, nil
}
