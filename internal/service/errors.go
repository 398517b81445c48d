// Package service implements the application services on top of the store
// layer: user accounts and families, vaults with their collection
// periods, and memories with slideshow playback.
//
// Failures that callers branch on are typed: every sentinel carries one of
// four kinds (validation, conflict, not-found, authorization) so the route
// layer can map errors onto HTTP status codes without string matching.
package service

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindAuthorization
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// KindOf extracts the Kind from an error chain, or 0 for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

var (
	ErrUsernameTaken     = &Error{KindConflict, "username already exists"}
	ErrPasswordMismatch  = &Error{KindValidation, "password and repeated password must match"}
	ErrInvalidAdminToken = &Error{KindAuthorization, "admin token is not valid"}

	ErrUserNotFound   = &Error{KindNotFound, "user could not be found"}
	ErrFamilyNotFound = &Error{KindNotFound, "no family with this invite code could be found"}
	ErrVaultNotFound  = &Error{KindNotFound, "vault could not be found"}
	ErrMemoryNotFound = &Error{KindNotFound, "memory could not be found"}

	ErrInvalidOwner     = &Error{KindValidation, "exactly one of user or family must own the vault"}
	ErrInvalidDuration  = &Error{KindValidation, "period duration must be 1, 3, 6 or 12 months"}
	ErrMissingSelector  = &Error{KindValidation, "a user, vault or family selector is required"}
	ErrDuplicateVault   = &Error{KindConflict, "a vault already exists for this owner"}
	ErrAlreadyInFamily  = &Error{KindConflict, "already a member of a family"}
	ErrNotInFamily      = &Error{KindConflict, "not a member of any family"}
)

// validationf builds an ad-hoc validation error for bad input that has no
// dedicated sentinel (unparseable dates, malformed selectors).
func validationf(format string, args ...any) *Error {
	return &Error{KindValidation, fmt.Sprintf(format, args...)}
}
