package interpret

import "errors"

// Interpretation errors. These are fatal: without a template or a
// submission URL there is nothing to resolve or submit.
var (
	// ErrNoTemplate is returned when no JSON-shaped answer template can be
	// found in the instruction text.
	ErrNoTemplate = errors.New("no answer template found in page text")

	// ErrNoSubmissionURL is returned when neither the instruction text nor
	// the page's links identify an endpoint to POST the answer to.
	ErrNoSubmissionURL = errors.New("no submission URL found on page")
)
