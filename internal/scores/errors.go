package scores

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller input rejected before any I/O.
	ErrValidation = errors.New("validation failed")
	// ErrStorage marks a read or write the datastore could not complete.
	ErrStorage = errors.New("storage failure")

	ErrNotFound = errors.New("score not found")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StorageError wraps a driver error so callers can match both ErrStorage and
// the underlying cause.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// ValidateDifficulty rejects blank difficulty tags.
func ValidateDifficulty(difficulty string) error {
	if isBlank(difficulty) {
		return validationError("difficulty is required")
	}
	return nil
}

// ValidateUserID rejects missing or non-positive player ids.
func ValidateUserID(userID int64) error {
	if userID <= 0 {
		return validationError("user_id must be positive, got %d", userID)
	}
	return nil
}

// ValidateLimit rejects negative leaderboard sizes. Zero means "use the default".
func ValidateLimit(limit int) error {
	if limit < 0 {
		return validationError("limit must be positive, got %d", limit)
	}
	return nil
}
