package answer

import "fmt"

// ResolutionError reports a required field whose value could not be
// determined from the page, the caller parameters, or the template.
// It is fatal: a partial answer is never submitted.
type ResolutionError struct {
	// Field is the template field that could not be resolved.
	Field string

	// Reason explains what was missing.
	Reason string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve field %q: %s", e.Field, e.Reason)
}
