package fetch

import "fmt"

// FetchError reports a failed page fetch. It is fatal: without a
// snapshot there is nothing to extract.
type FetchError struct {
	// URL is the target that failed.
	URL string

	// StatusCode is the HTTP status, 0 for network-level failures.
	StatusCode int

	// Err is the underlying cause, nil when the status alone explains it.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}
