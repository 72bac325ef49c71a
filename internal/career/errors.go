package career

import "errors"

// Invariant violations. Callers reject the operation; nothing is coerced.
var (
	ErrInvalidCheckpoint  = errors.New("checkpoint does not belong to domain")
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrEmptyInput         = errors.New("no scores supplied")
	ErrNegativePoints     = errors.New("points must not be negative")
)
