package domain

import (
	"errors"
	"fmt"
)

// The closed set of domain errors. All are recoverable at the HTTP boundary;
// everything else coming out of the storage layer is wrapped as
// ErrStorageUnavailable and mapped to a 5xx.
var (
	ErrPasswordMismatch   = errors.New("Password does not match")
	ErrUserAlreadyExists  = errors.New("User already exists")
	ErrInvalidUserToken   = errors.New("Username does not match token username")
	ErrUserNotFound       = errors.New("User does not exist")
	ErrStorageUnavailable = errors.New("Storage operation failed")
)

// Unavailable tags an unclassified storage-layer failure so the adapter can
// distinguish it from the domain kinds above.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
