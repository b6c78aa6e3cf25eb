package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no quiz page URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a quiz page URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cancel the run immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidFetchMode is returned when --method is not one of
	// auto, static, or dynamic.
	ErrInvalidFetchMode = errors.New("invalid fetch method: must be auto, static, or dynamic")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidSubmitAttempts is returned when the submission attempt
	// budget is not positive. At least one POST is always required.
	ErrInvalidSubmitAttempts = errors.New("invalid submit attempts: must be positive")

	// ErrInvalidConcurrency is returned when the transcription concurrency
	// limit is not positive.
	ErrInvalidConcurrency = errors.New("invalid transcribe concurrency: must be positive")
)
