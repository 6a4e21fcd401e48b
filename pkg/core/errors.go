package core

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error caused by an out-of-bounds value,
// an empty name or a missing required reference.
var ErrInvalidConfig = errors.New("invalid configuration")

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func validateRange(value, min, max float64, field string) error {
	if value < min || value > max {
		return configErr("%s must be between %.1f and %.1f, got %.2f", field, min, max, value)
	}
	return nil
}
