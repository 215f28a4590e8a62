package services

import (
	"errors"
	"fmt"

	"gasflow/internal/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInsufficientStock = repository.ErrInsufficientStock
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// wrapLookup turns a repository not-found into ErrNotFound for entity and
// wraps anything else.
func wrapLookup(err error, entity string) error {
	if repository.IsNotFound(err) {
		return notFound(entity)
	}
	return fmt.Errorf("failed to load %s: %w", entity, err)
}
