package domain

import "time"

// DateLayout is the canonical wire and storage format for calendar dates
// (memory dates, birthdays, period boundaries).
const DateLayout = "2006-01-02"

// User is a registered account. A user belongs to at most one family and
// owns at most one personal vault.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Firstname    string
	Lastname     string
	Birthday     time.Time
	IsAdmin      bool
	FamilyID     *int64
	RegisteredAt time.Time
}

// Family is a named group of users sharing one family vault. Members join
// via the invite code.
type Family struct {
	ID         int64
	Name       string
	InviteCode string
	CreatedAt  time.Time
}

// Vault is a container of memories with a periodic collection schedule.
// Exactly one of UserID/FamilyID is set; the store enforces uniqueness on
// both columns so an owner can never hold two vaults.
type Vault struct {
	ID                 int64
	UserID             *int64
	FamilyID           *int64
	PeriodDuration     PeriodDuration
	PeriodInitialStart time.Time
	CreatedAt          time.Time
}

// Memory is a single dated entry in a vault. Date is the remembered date,
// not the upload time. Coordinates and image are optional.
type Memory struct {
	ID          int64
	VaultID     int64
	Description string
	Date        time.Time
	Latitude    *float64
	Longitude   *float64
	ImageURI    *string
	CreatedAt   time.Time
}

// CollectionPeriod is a derived whole-month window [Start, End]. Periods
// tile the timeline from a vault's initial start with no gaps or overlaps.
type CollectionPeriod struct {
	Start time.Time
	End   time.Time
}
