// Package store implements sql-backed repositories for users, families,
// vaults and memories. Stores return (nil, nil) for lookup misses; typed
// failures that callers branch on are exposed as sentinel errors.
package store

import (
	"errors"
	"strings"
	"time"

	"github.com/vbonduro/memoryvault/internal/domain"
)

// ErrUniqueViolation is returned when an insert loses a race on a UNIQUE
// column (username, invite code, vault owner). The service layer maps it
// onto its conflict taxonomy.
var ErrUniqueViolation = errors.New("unique constraint violation")

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = errors.New("not found")

// isUniqueViolation sniffs the sqlite error text. The modernc driver does
// not export a stable error code type through database/sql, so the message
// is the contract.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Calendar dates are stored as YYYY-MM-DD text so that SQL string
// comparison orders them chronologically.

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}
