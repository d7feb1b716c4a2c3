package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the target of an operation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRecurrence is returned for rules that cannot generate anything
	// meaningful: an empty or weekend weekday set, a month day outside 1-31.
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	// ErrImmutableRecord is returned when a snapshot, or a closed day, would change.
	ErrImmutableRecord = errors.New("immutable record")
	// ErrAmbiguousIntent is returned for moves and deletes that have no
	// defined effect on the occurrence's rule.
	ErrAmbiguousIntent = errors.New("ambiguous intent")
	// ErrInvalidInput is returned for malformed field values.
	ErrInvalidInput = errors.New("invalid input")
)

// notFound translates gorm's missing-record error and passes others through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
