package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers bad logins and any token that cannot be
	// verified or resolved to an operator. It is deliberately generic.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidFormat      = errors.New("invalid format")
)

// FormatError reports a field that does not match its required format.
type FormatError struct {
	Field string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s is not in the official format", e.Field)
}

func (e *FormatError) Unwrap() error { return ErrInvalidFormat }

// DuplicateKeyError reports a uniqueness violation on Field.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return "record already exists"
	}
	return fmt.Sprintf("%s already in use", e.Field)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }
