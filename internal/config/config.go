package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds one whole pipeline run, not a single request.
	// Dynamic rendering plus transcription of several audio clips fits
	// comfortably in 30 seconds; quiz endpoints that take longer are
	// effectively down.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies quizscan in HTTP requests.
	// A descriptive User-Agent lets quiz operators recognize solver
	// traffic in their logs.
	DefaultUserAgent = "quizscan/1.0 (+https://github.com/quizscan/quizscan)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is sufficient for any quiz page or CSV data file while
	// preventing memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultSubmitAttempts is the maximum number of POSTs per submission.
	// The first attempt plus two retries covers transient 5xx responses
	// without hammering a genuinely broken endpoint.
	DefaultSubmitAttempts = 3

	// DefaultSubmitBackoff is the base delay between submission retries.
	// The delay doubles on each retry.
	DefaultSubmitBackoff = 500 * time.Millisecond

	// DefaultTranscribeConcurrency is the number of audio clips transcribed
	// in parallel. Speech-to-text requests are slow and rate limited, so a
	// small limit keeps latency down without tripping quotas.
	DefaultTranscribeConcurrency = 3

	// DefaultGeminiModel is the speech-to-text model used for audio clips.
	DefaultGeminiModel = "gemini-2.0-flash"

	// AppName is the application name used for XDG directory paths.
	AppName = "quizscan"
)

// FetchMode selects how pages are fetched.
type FetchMode string

// Fetch modes accepted by the --method flag.
const (
	// FetchModeAuto fetches statically first and falls back to a headless
	// browser when the page looks like an empty JavaScript application shell.
	FetchModeAuto FetchMode = "auto"

	// FetchModeStatic always uses a plain HTTP GET.
	FetchModeStatic FetchMode = "static"

	// FetchModeDynamic always renders the page in a headless browser.
	FetchModeDynamic FetchMode = "dynamic"
)

// Config holds all configuration options for quizscan.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, SubmitConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Target is the quiz page URL to solve.
	Target string

	// Email is the caller identity passed to the quiz. Pages interpolate
	// it into data-file URLs and derive per-user parameters from it.
	Email string

	// Secret is the shared secret included in the answer payload.
	Secret string

	// FetchMode selects static, dynamic, or automatic page fetching.
	FetchMode FetchMode

	// Timeout bounds the whole run: fetch, transcription, resolution,
	// and submission all share this budget.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// NoSubmit stops the pipeline after answer resolution. The resolved
	// answer still appears in the report; nothing is POSTed.
	NoSubmit bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// SubmitAttempts is the maximum number of submission POSTs, retries
	// included. Only network errors and 5xx responses are retried.
	SubmitAttempts int

	// SubmitBackoff is the base delay between submission retries.
	SubmitBackoff time.Duration

	// TranscribeConcurrency limits parallel audio transcription requests.
	TranscribeConcurrency int

	// GeminiAPIKey authenticates speech-to-text requests. When empty,
	// audio clips are recorded as failed transcripts and the run continues.
	GeminiAPIKey string

	// GeminiModel is the model name used for transcription.
	GeminiModel string

	// DBDir is the directory path for storing the SQLite run database.
	// When empty, the XDG data directory is used.
	DBDir string

	// NoStore disables persisting run outcomes to the database.
	NoStore bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .quizscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host configurations loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, retry
// counts). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		FetchMode:             FetchModeAuto,
		Timeout:               DefaultTimeout,
		UserAgent:             DefaultUserAgent,
		MaxBodySize:           DefaultMaxBodySize,
		SubmitAttempts:        DefaultSubmitAttempts,
		SubmitBackoff:         DefaultSubmitBackoff,
		TranscribeConcurrency: DefaultTranscribeConcurrency,
		GeminiModel:           DefaultGeminiModel,
	}
}

// XDGDataDir returns the XDG data directory for quizscan.
// On Linux: ~/.local/share/quizscan
// On macOS: ~/Library/Application Support/quizscan
// On Windows: %LOCALAPPDATA%\quizscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for quizscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the pipeline runs.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	switch c.FetchMode {
	case FetchModeAuto, FetchModeStatic, FetchModeDynamic:
	default:
		return ErrInvalidFetchMode
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.SubmitAttempts <= 0 {
		return ErrInvalidSubmitAttempts
	}

	if c.TranscribeConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}
