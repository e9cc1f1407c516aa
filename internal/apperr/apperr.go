// Package apperr defines the closed error set the domain services return.
// The API layer maps these to transport status codes; nothing outside this
// set crosses a service boundary.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrGroupNotFound      = errors.New("group not found")
	ErrDuplicateGroupName = errors.New("group with this name already exists")
	ErrGroupOwnership     = errors.New("only the group owner can modify the group")
	ErrGroupMembership    = errors.New("user does not belong to the group")

	ErrExpenseNotFound = errors.New("expense not found")

	// ErrStorageUnavailable wraps connectivity and IO failures from the
	// storage backend. It is the only unexpected kind; everything else is a
	// recoverable-by-caller condition.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Storage wraps an underlying storage failure as ErrStorageUnavailable,
// preserving the cause in the message.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
