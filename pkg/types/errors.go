package types

import (
	"errors"
	"fmt"
)

var (
	ErrFundraiserNotFound = errors.New("fundraiser not found")
	ErrNeedNotFound       = errors.New("need not found")
	ErrPledgeNotFound     = errors.New("pledge not found")
	ErrRewardTierNotFound = errors.New("reward tier not found")

	ErrForbidden = errors.New("forbidden")

	ErrImageStorageUnavailable = errors.New("image storage is not configured")

	// ErrValidation and ErrIntegrity let callers classify errors with errors.Is
	// without caring about the concrete error type.
	ErrValidation = errors.New("validation failed")
	ErrIntegrity  = errors.New("integrity violation")
)

// ValidationError reports malformed caller input. Nothing is written when one
// is returned.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IntegrityError reports stored data that breaks a model invariant, such as
// a need without its detail record or a pledge whose detail kind does not
// match its need.
type IntegrityError struct {
	Entity  string
	ID      string
	Message string
}

func NewIntegrityError(entity, id, format string, args ...any) *IntegrityError {
	return &IntegrityError{Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation: %s %s: %s", e.Entity, e.ID, e.Message)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}
