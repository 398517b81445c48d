package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/vbonduro/memoryvault/internal/credential"
	"github.com/vbonduro/memoryvault/internal/domain"
	"github.com/vbonduro/memoryvault/internal/store"
)

// userRepository is the subset of store.UserStore that UserService requires.
type userRepository interface {
	Create(ctx context.Context, p store.NewUserParams) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	SetFamily(ctx context.Context, userID int64, familyID *int64) error
	ListUsernamesByFamily(ctx context.Context, familyID int64) ([]string, error)
}

// familyRepository is the subset of store.FamilyStore that UserService requires.
type familyRepository interface {
	Create(ctx context.Context, name, inviteCode string) (*domain.Family, error)
	GetByID(ctx context.Context, id int64) (*domain.Family, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (*domain.Family, error)
}

type UserService struct {
	users      userRepository
	families   familyRepository
	hasher     credential.Hasher
	adminToken string
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewUserService wires the user service. adminToken is the provisioning
// secret that grants the admin flag at registration; rng feeds invite code
// nonces and is injected so family creation is deterministic under test.
func NewUserService(
	users userRepository,
	families familyRepository,
	hasher credential.Hasher,
	adminToken string,
	rng *rand.Rand,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:      users,
		families:   families,
		hasher:     hasher,
		adminToken: adminToken,
		rng:        rng,
		logger:     logger,
	}
}

type RegisterParams struct {
	Username       string
	Password       string
	PasswordRepeat string
	Firstname      string
	Lastname       string
	Birthday       string // YYYY-MM-DD
	AdminToken     string // optional; must match the provisioning secret
}

// Register creates a new account. The username is stored lower-cased; the
// password is stored only as a digest. Nothing is persisted when any
// validation fails.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*domain.User, error) {
	taken, err := s.users.UsernameTaken(ctx, p.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	if p.Password != p.PasswordRepeat {
		return nil, ErrPasswordMismatch
	}

	isAdmin := false
	if p.AdminToken != "" {
		if s.adminToken == "" || p.AdminToken != s.adminToken {
			return nil, ErrInvalidAdminToken
		}
		isAdmin = true
	}

	birthday, err := time.Parse(domain.DateLayout, p.Birthday)
	if err != nil {
		return nil, validationf("birthday must be in YYYY-MM-DD format")
	}

	digest, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, store.NewUserParams{
		Username:     strings.ToLower(p.Username),
		PasswordHash: digest,
		Firstname:    p.Firstname,
		Lastname:     p.Lastname,
		Birthday:     birthday,
		IsAdmin:      isAdmin,
	})
	if err != nil {
		// Lost the race against a concurrent registration.
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username, "admin", user.IsAdmin)
	return user, nil
}

// UsernameTaken reports, case-insensitively, whether a username is in use.
func (s *UserService) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return s.users.UsernameTaken(ctx, username)
}

// CheckLogin verifies credentials and returns the user id on success. Bad
// credentials are not an error: the result is 0 for an unknown username
// and for a wrong password alike, and callers branch on that sentinel.
func (s *UserService) CheckLogin(ctx context.Context, username, password string) (int64, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return 0, nil
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return 0, nil
	}
	return user.ID, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateFamily creates a family, makes the user its first member and
// returns the family id. The invite code is a sha256 hex digest of a
// random nonce and the family name; it only needs to be hard to guess,
// not cryptographically secret.
func (s *UserService) CreateFamily(ctx context.Context, userID int64, familyName string) (int64, error) {
	inviteCode := s.generateInviteCode(familyName)

	family, err := s.families.Create(ctx, familyName, inviteCode)
	if err != nil {
		return 0, fmt.Errorf("failed to create family: %w", err)
	}

	if err := s.users.SetFamily(ctx, userID, &family.ID); err != nil {
		// The family row is already committed; this mirrors the
		// no-cross-call-transaction model, so the orphan is accepted.
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to add creator to family: %w", err)
	}

	s.logger.Info("family created", "family_id", family.ID, "user_id", userID)
	return family.ID, nil
}

func (s *UserService) generateInviteCode(familyName string) string {
	nonce := fmt.Sprintf("%d_%s", s.rng.IntN(1001), familyName)
	sum := sha256.Sum256([]byte(nonce))
	return hex.EncodeToString(sum[:])
}

// JoinFamily adds the user to the family matching the invite code and
// returns the family id. Re-joining a family the user is already in is
// allowed and idempotent.
func (s *UserService) JoinFamily(ctx context.Context, userID int64, inviteCode string) (int64, error) {
	family, err := s.families.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return 0, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if family == nil {
		return 0, ErrFamilyNotFound
	}

	if err := s.users.SetFamily(ctx, userID, &family.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to join family: %w", err)
	}

	s.logger.Info("user joined family", "family_id", family.ID, "user_id", userID)
	return family.ID, nil
}

// QuitFamily removes the user from their family. The family survives even
// when its last member leaves.
func (s *UserService) QuitFamily(ctx context.Context, userID int64) error {
	if err := s.users.SetFamily(ctx, userID, nil); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to quit family: %w", err)
	}
	return nil
}

// FamilyInfo describes a family and its membership.
type FamilyInfo struct {
	ID          int64    `json:"family_id"`
	Name        string   `json:"family_name"`
	InviteCode  string   `json:"invite_code"`
	Members     []string `json:"members"`
	MemberCount int      `json:"number_members"`
}

func (s *UserService) FamilyInfo(ctx context.Context, familyID int64) (*FamilyInfo, error) {
	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	members, err := s.users.ListUsernamesByFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return &FamilyInfo{
		ID:          family.ID,
		Name:        family.Name,
		InviteCode:  family.InviteCode,
		Members:     members,
		MemberCount: len(members),
	}, nil
}
