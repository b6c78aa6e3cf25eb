package submit

import "fmt"

// SubmissionError reports a submission that did not reach a 2xx response
// within the attempt budget. The response body, when any was received,
// lives in the accompanying SubmissionResult.
type SubmissionError struct {
	// StatusCode is the last HTTP status received, 0 when every attempt
	// failed at the network level.
	StatusCode int

	// Attempts is the number of POSTs performed.
	Attempts int

	// Err is the last network error, nil when a response was received.
	Err error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submission failed after %d attempt(s): %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("submission rejected with status %d after %d attempt(s)", e.StatusCode, e.Attempts)
}

// Unwrap returns the underlying network error, if any.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}
