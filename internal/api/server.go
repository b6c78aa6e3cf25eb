package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quizscan/quizscan/internal/config"
	"github.com/quizscan/quizscan/internal/database"
	"github.com/quizscan/quizscan/internal/model"
)

// Solver runs one pipeline invocation for a request.
// The returned report is always non-nil; failures are recorded in it.
type Solver interface {
	Solve(ctx context.Context, req SolveRequest) *model.QuizReport
}

// SolveRequest carries the parameters of one solve invocation.
type SolveRequest struct {
	// URL is the quiz page to solve. Required.
	URL string `json:"url"`

	// Email overrides the email query parameter of the page.
	Email string `json:"email,omitempty"`

	// Secret is the shared secret to submit with the answer.
	Secret string `json:"secret,omitempty"`

	// Method selects the fetch mode: auto, static, or dynamic.
	// Empty means auto.
	Method string `json:"method,omitempty"`
}

// RunStore lists stored run metadata for the audit endpoint.
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]database.RunMetadata, error)
}

// Server is the HTTP boundary around the pipeline.
type Server struct {
	solver Solver
	store  RunStore
	secret string
	logger *slog.Logger

	// timeout bounds a single solve request.
	timeout time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRunStore attaches a run store backing GET /runs.
func WithRunStore(store RunStore) ServerOption {
	return func(s *Server) {
		s.store = store
	}
}

// WithSharedSecret requires requests to carry the given secret.
// An empty secret disables the check.
func WithSharedSecret(secret string) ServerOption {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithTimeout bounds each solve request. Zero means the default.
func WithTimeout(timeout time.Duration) ServerOption {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server around the given solver.
func NewServer(solver Solver, opts ...ServerOption) *Server {
	s := &Server{
		solver:  solver,
		logger:  slog.Default(),
		timeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router builds the chi router with all endpoints mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/quiz", s.solveQuiz)
	r.Get("/runs", s.listRuns)
	r.Get("/healthz", s.healthz)

	return r
}

// Start serves the router until the context is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	s.logger.Info("api server listening", "addr", addr)
	return server.ListenAndServe()
}

// errorDetail names the failed pipeline stage in error responses.
type errorDetail struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// quizResponse wraps the report for both success and failure responses.
// The report carries the content extraction even when a later stage failed.
type quizResponse struct {
	Report *model.QuizReport `json:"report"`
	Error  *errorDetail      `json:"error,omitempty"`
}

// solveQuiz runs one pipeline invocation for the posted request.
func (s *Server) solveQuiz(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request", "invalid JSON body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "request", "url is required")
		return
	}
	if s.secret != "" && req.Secret != s.secret {
		writeError(w, http.StatusForbidden, "request", "invalid secret")
		return
	}
	switch config.FetchMode(req.Method) {
	case "", config.FetchModeAuto, config.FetchModeStatic, config.FetchModeDynamic:
	default:
		writeError(w, http.StatusBadRequest, "request", "unknown fetch method "+strconv.Quote(req.Method))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	report := s.solver.Solve(ctx, req)

	resp := quizResponse{Report: report}
	status := http.StatusOK
	if !report.Succeeded() {
		status = http.StatusUnprocessableEntity
		stage := report.ErrorStage
		message := report.ErrorMessage
		if report.TimedOut && message == "" {
			stage = "pipeline"
			message = "run timed out"
		}
		resp.Error = &errorDetail{Stage: stage, Message: message}
	}
	writeJSON(w, status, resp)
}

// listRuns returns stored run metadata, newest first.
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store", "run store is disabled")
		return
	}

	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "request", "invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store", err.Error())
		return
	}
	if runs == nil {
		runs = []database.RunMetadata{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// healthz is the liveness probe.
func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs one line per request through the server's slog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, stage, message string) {
	writeJSON(w, status, quizResponse{
		Error: &errorDetail{Stage: stage, Message: message},
	})
}
