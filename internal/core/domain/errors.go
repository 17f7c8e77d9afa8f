package domain

import (
	"errors"
	"fmt"
)

// ErrLocationUnresolved is returned when the resolver's confidence stays below
// the search threshold. The service refuses to search under a guessed city.
var ErrLocationUnresolved = errors.New("location could not be resolved with enough confidence")

// ValidationError marks bad or incomplete search criteria. It is surfaced to
// the caller immediately; no scraping is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid criteria: %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
