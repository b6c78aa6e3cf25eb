package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/quizscan/quizscan/internal/answer"
	"github.com/quizscan/quizscan/internal/audio"
	"github.com/quizscan/quizscan/internal/decode"
	"github.com/quizscan/quizscan/internal/fetch"
	"github.com/quizscan/quizscan/internal/interpret"
	"github.com/quizscan/quizscan/internal/model"
	"github.com/quizscan/quizscan/internal/submit"
)

const quizPage = `<!DOCTYPE html>
<html>
<head><title>Scraping Quiz</title></head>
<body>
<h1>Quiz 42</h1>
<p>Download <a href="/data.csv">the data file</a> and sum the first column.</p>
<p>Post the result to /receive as JSON shaped like
{"email": "your email", "secret": "your secret", "url": "this page", "answer": 0}</p>
</body>
</html>`

// TestPipelineEndToEnd runs the full step sequence against a stub quiz.
func TestPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	var received atomic.Value
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(quizPage))
	})
	mux.HandleFunc("/data.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1\n2\n3\n100\n"))
	})
	mux.HandleFunc("/receive", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received.Store(string(body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"correct":true}`))
	})

	logger := testLogger()
	p := New(WithLogger(logger))
	p.AddSteps(
		NewFetchStep(fetch.NewStatic()),
		NewExtractStep(),
		NewAudioStep(audio.NewResolver(audio.DisabledTranscriber{}, audio.WithLogger(logger))),
		NewDecodeStep(decode.New(decode.WithLogger(logger))),
		NewInterpretStep(interpret.New("user@example.com")),
		NewResolveStep(answer.New("user@example.com", "TOKEN", answer.WithLogger(logger))),
		NewSubmitStep(submit.New(submit.WithLogger(logger))),
	)

	report := model.NewQuizReport(server.URL + "/page?email=user%40example.com")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Succeeded() {
		t.Fatalf("expected successful run, got stage %q: %s", report.ErrorStage, report.ErrorMessage)
	}
	if report.Submission == nil || report.Submission.StatusCode != http.StatusOK {
		t.Fatalf("unexpected submission %+v", report.Submission)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(received.Load().(string)), &payload); err != nil {
		t.Fatalf("receiver got invalid JSON: %v", err)
	}
	if payload["email"] != "user@example.com" {
		t.Errorf("expected email in payload, got %v", payload["email"])
	}
	if payload["secret"] != "TOKEN" {
		t.Errorf("expected secret in payload, got %v", payload["secret"])
	}
	if payload["answer"] != float64(106) {
		t.Errorf("expected summed answer 106, got %v", payload["answer"])
	}
	if payload["url"] != report.Content.URL {
		t.Errorf("expected page URL %q, got %v", report.Content.URL, payload["url"])
	}
}

// TestStepsRequirePriorState tests the guard against out-of-order wiring.
func TestStepsRequirePriorState(t *testing.T) {
	t.Parallel()

	report := model.NewQuizReport("https://quiz.example.com")

	if err := NewExtractStep().Do(context.Background(), report); err != ErrNoSnapshot {
		t.Errorf("expected ErrNoSnapshot from extract, got %v", err)
	}
	if err := NewInterpretStep(interpret.New("")).Do(context.Background(), report); err != ErrNoSnapshot {
		t.Errorf("expected ErrNoSnapshot from interpret, got %v", err)
	}
}

// TestSubmitStepDisabled tests the no-submit mode.
func TestSubmitStepDisabled(t *testing.T) {
	t.Parallel()

	report := model.NewQuizReport("https://quiz.example.com")
	step := NewSubmitStep(submit.New(submit.WithLogger(testLogger())), WithSubmitDisabled(true))

	if err := step.Do(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Submission != nil {
		t.Error("expected no submission in disabled mode")
	}
}
