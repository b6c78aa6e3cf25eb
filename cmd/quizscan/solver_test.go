package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/quizscan/quizscan/internal/api"
	"github.com/quizscan/quizscan/internal/config"
)

const solverQuizPage = `<!DOCTYPE html>
<html>
<head><title>Scraping Quiz</title></head>
<body>
<h1>Quiz 99</h1>
<p>Download <a href="/data.csv">the data file</a> and sum the first column.</p>
<p>Post the result to /receive as JSON shaped like
{"email": "your email", "secret": "your secret", "url": "this page", "answer": 0}</p>
</body>
</html>`

// TestSolverEndToEnd runs the solver against a stub quiz server.
func TestSolverEndToEnd(t *testing.T) {
	t.Parallel()

	var received atomic.Value
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(solverQuizPage))
	})
	mux.HandleFunc("/data.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("5\n10\n15\n"))
	})
	mux.HandleFunc("/receive", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received.Store(string(body))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"correct":true}`))
	})

	cfg := config.NewConfig()
	cfg.FetchMode = config.FetchModeStatic
	cfg.NoStore = true

	s := newSolver(cfg, nil, discardLogger())
	report := s.Solve(context.Background(), api.SolveRequest{
		URL:    server.URL + "/page?email=user%40example.com",
		Email:  "user@example.com",
		Secret: "TOKEN",
	})

	if !report.Succeeded() {
		t.Fatalf("expected successful run, got stage %q: %s", report.ErrorStage, report.ErrorMessage)
	}
	if report.FinishedAt.IsZero() {
		t.Error("expected FinishedAt to be set")
	}
	if report.Submission == nil || report.Submission.StatusCode != http.StatusOK {
		t.Fatalf("unexpected submission %+v", report.Submission)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(received.Load().(string)), &payload); err != nil {
		t.Fatalf("receiver got invalid JSON: %v", err)
	}
	if payload["answer"] != float64(30) {
		t.Errorf("expected summed answer 30, got %v", payload["answer"])
	}
	if payload["secret"] != "TOKEN" {
		t.Errorf("expected secret in payload, got %v", payload["secret"])
	}
}

// TestSolverNoSubmit tests that no POST reaches the receiver in no-submit mode.
func TestSolverNoSubmit(t *testing.T) {
	t.Parallel()

	var posts atomic.Int32
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(solverQuizPage))
	})
	mux.HandleFunc("/data.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1\n2\n"))
	})
	mux.HandleFunc("/receive", func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	cfg := config.NewConfig()
	cfg.FetchMode = config.FetchModeStatic
	cfg.NoSubmit = true
	cfg.NoStore = true

	report := newSolver(cfg, nil, discardLogger()).Solve(context.Background(), api.SolveRequest{
		URL:    server.URL + "/page?email=user%40example.com",
		Secret: "TOKEN",
	})

	if !report.Succeeded() {
		t.Fatalf("expected successful run, got stage %q: %s", report.ErrorStage, report.ErrorMessage)
	}
	if posts.Load() != 0 {
		t.Errorf("expected no POSTs in no-submit mode, got %d", posts.Load())
	}
	if report.Answer == nil {
		t.Error("expected resolved answer in report")
	}
	if report.Submission != nil {
		t.Error("expected no submission result in no-submit mode")
	}
}

// TestSolverRecordsFetchFailure tests that a dead target yields a report,
// not a panic or a nil result.
func TestSolverRecordsFetchFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.NewConfig()
	cfg.FetchMode = config.FetchModeStatic
	cfg.NoStore = true

	report := newSolver(cfg, nil, discardLogger()).Solve(context.Background(), api.SolveRequest{
		URL: server.URL + "/missing",
	})

	if report.Succeeded() {
		t.Fatal("expected failed run")
	}
	if report.ErrorStage != "fetch" {
		t.Errorf("expected fetch stage, got %q", report.ErrorStage)
	}
}
