package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/quizscan/quizscan/internal/model"
)

// mockTranscriber returns canned transcripts keyed by source URL.
type mockTranscriber struct {
	mu          sync.Mutex
	transcripts map[string]string
	failures    map[string]error
	calls       []string
}

func (m *mockTranscriber) Transcribe(_ context.Context, sourceURL string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sourceURL)
	m.mu.Unlock()

	if err, ok := m.failures[sourceURL]; ok {
		return "", err
	}
	return m.transcripts[sourceURL], nil
}

// TestResolverOrder tests that transcripts land in discovery order even
// when clips are transcribed concurrently.
func TestResolverOrder(t *testing.T) {
	t.Parallel()

	sources := []model.Link{
		{ResolvedURL: "https://quiz.example.com/a.opus"},
		{ResolvedURL: "https://quiz.example.com/b.mp3"},
		{ResolvedURL: "https://quiz.example.com/c.wav"},
	}
	mock := &mockTranscriber{
		transcripts: map[string]string{
			"https://quiz.example.com/a.opus": "First clip.",
			"https://quiz.example.com/b.mp3":  "Second clip.",
			"https://quiz.example.com/c.wav":  "Third clip.",
		},
	}

	report := &model.ContentReport{AudioSources: sources}
	r := NewResolver(mock, WithConcurrency(2), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Resolve(context.Background(), report)

	if len(report.AudioTranscripts) != 3 {
		t.Fatalf("expected 3 transcripts, got %d", len(report.AudioTranscripts))
	}
	want := []string{"First clip.", "Second clip.", "Third clip."}
	for i, w := range want {
		got := report.AudioTranscripts[i]
		if got.Text != w {
			t.Errorf("transcript %d: expected %q, got %q", i, w, got.Text)
		}
		if got.Status != model.TranscriptSuccess {
			t.Errorf("transcript %d: expected success, got %q", i, got.Status)
		}
	}
}

// TestResolverRecordsFailures tests that a failed clip becomes a failed
// entry while other clips still succeed.
func TestResolverRecordsFailures(t *testing.T) {
	t.Parallel()

	sources := []model.Link{
		{ResolvedURL: "https://quiz.example.com/ok.opus"},
		{ResolvedURL: "https://quiz.example.com/broken.mp3"},
	}
	mock := &mockTranscriber{
		transcripts: map[string]string{
			"https://quiz.example.com/ok.opus": "All good.",
		},
		failures: map[string]error{
			"https://quiz.example.com/broken.mp3": errors.New("boom"),
		},
	}

	report := &model.ContentReport{AudioSources: sources}
	r := NewResolver(mock, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.Resolve(context.Background(), report)

	if len(report.AudioTranscripts) != 2 {
		t.Fatalf("expected 2 transcripts, got %d", len(report.AudioTranscripts))
	}
	if report.AudioTranscripts[0].Status != model.TranscriptSuccess {
		t.Errorf("expected first clip to succeed, got %+v", report.AudioTranscripts[0])
	}
	failed := report.AudioTranscripts[1]
	if failed.Status != model.TranscriptFailed || failed.Text != "" {
		t.Errorf("expected failed entry with empty text, got %+v", failed)
	}
	if failed.SourceURL != "https://quiz.example.com/broken.mp3" {
		t.Errorf("unexpected failed source %q", failed.SourceURL)
	}
}

// TestResolverNoSources tests that a report without audio is untouched.
func TestResolverNoSources(t *testing.T) {
	t.Parallel()

	report := &model.ContentReport{}
	r := NewResolver(&mockTranscriber{})
	r.Resolve(context.Background(), report)

	if report.AudioTranscripts != nil {
		t.Errorf("expected no transcripts, got %+v", report.AudioTranscripts)
	}
}

// TestLooksTruncated tests the truncation heuristic.
func TestLooksTruncated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		transcript string
		want       bool
	}{
		{
			name:       "sentence with period is complete",
			transcript: "Post the answer to the endpoint.",
			want:       false,
		},
		{
			name:       "clipped word is truncated",
			transcript: "Include the secret that was provid",
			want:       true,
		},
		{
			name:       "common final word without period is complete",
			transcript: "Submit the sum as your answer",
			want:       false,
		},
		{
			name:       "trailing number is complete",
			transcript: "The cutoff is 8201",
			want:       false,
		},
		{
			name:       "question mark is complete",
			transcript: "Did you include the email?",
			want:       false,
		},
		{
			name:       "empty transcript is not truncated",
			transcript: "   ",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := LooksTruncated(tt.transcript); got != tt.want {
				t.Errorf("LooksTruncated(%q) = %v, want %v", tt.transcript, got, tt.want)
			}
		})
	}
}

// TestDisabledTranscriber tests the no-credentials fallback.
func TestDisabledTranscriber(t *testing.T) {
	t.Parallel()

	_, err := DisabledTranscriber{}.Transcribe(context.Background(), "https://quiz.example.com/a.opus")
	if !errors.Is(err, ErrTranscriptionDisabled) {
		t.Errorf("expected ErrTranscriptionDisabled, got %v", err)
	}
}

// TestTranscriptionErrorUnwrap tests error wrapping.
func TestTranscriptionErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("network down")
	err := &TranscriptionError{SourceURL: "https://quiz.example.com/a.opus", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if !strings.Contains(err.Error(), "a.opus") {
		t.Errorf("expected source URL in message, got %q", err.Error())
	}
}
