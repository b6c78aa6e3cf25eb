package submit

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/quizscan/quizscan/internal/model"
)

// Submitter posts answers to quiz receiver endpoints.
//
// Retry policy: network errors and 5xx responses are transient and retry
// with doubling backoff; any 4xx is a verdict on the payload and fails
// immediately. The endpoint's final response is preserved verbatim either way.
type Submitter struct {
	httpClient  *http.Client
	attempts    int
	backoff     time.Duration
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithHTTPClient sets the HTTP client used for submission.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Submitter) {
		s.httpClient = c
	}
}

// WithAttempts sets the total attempt budget, retries included.
func WithAttempts(n int) Option {
	return func(s *Submitter) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithBackoff sets the base delay between retries.
func WithBackoff(d time.Duration) Option {
	return func(s *Submitter) {
		s.backoff = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Submitter) {
		s.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// New creates a Submitter.
func New(opts ...Option) *Submitter {
	s := &Submitter{
		httpClient:  http.DefaultClient,
		attempts:    3,
		backoff:     500 * time.Millisecond,
		maxBodySize: 1 * 1024 * 1024,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit serializes the answer with its field order intact and POSTs it to
// the task's submission URL. The returned result carries the final status,
// body, and attempt count even when the submission failed.
func (s *Submitter) Submit(ctx context.Context, task *model.TaskDescription, ans *model.Answer) (*model.SubmissionResult, error) {
	body, err := ans.MarshalOrdered()
	if err != nil {
		return nil, err
	}

	result := &model.SubmissionResult{}
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		result.Attempts = attempt

		status, respBody, err := s.post(ctx, task.SubmissionURL, body)
		if err != nil {
			lastErr = err
			s.logger.Warn("submission attempt failed", "attempt", attempt, "error", err.Error())
			if waitErr := s.wait(ctx, attempt); waitErr != nil {
				return result, &SubmissionError{Attempts: attempt, Err: waitErr}
			}
			continue
		}

		result.StatusCode = status
		result.ResponseBody = respBody
		lastErr = nil

		switch {
		case status >= 200 && status < 300:
			return result, nil
		case status >= 500:
			s.logger.Warn("submission attempt rejected", "attempt", attempt, "status", status)
			if waitErr := s.wait(ctx, attempt); waitErr != nil {
				return result, &SubmissionError{StatusCode: status, Attempts: attempt, Err: waitErr}
			}
			continue
		default:
			// A 4xx is the endpoint's verdict on the payload; retrying
			// the same payload cannot change it.
			return result, &SubmissionError{StatusCode: status, Attempts: attempt}
		}
	}

	return result, &SubmissionError{StatusCode: result.StatusCode, Attempts: result.Attempts, Err: lastErr}
}

// post performs one submission attempt.
func (s *Submitter) post(ctx context.Context, submissionURL string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, submissionURL, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(respBody), nil
}

// wait sleeps for the backoff of the given attempt, doubling each time.
// It returns early when the context is cancelled; the last attempt never waits.
func (s *Submitter) wait(ctx context.Context, attempt int) error {
	if attempt >= s.attempts {
		return nil
	}

	delay := s.backoff << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
