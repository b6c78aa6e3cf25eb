package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/quizscan/quizscan/internal/answer"
	"github.com/quizscan/quizscan/internal/api"
	"github.com/quizscan/quizscan/internal/audio"
	"github.com/quizscan/quizscan/internal/config"
	"github.com/quizscan/quizscan/internal/database"
	"github.com/quizscan/quizscan/internal/decode"
	"github.com/quizscan/quizscan/internal/fetch"
	"github.com/quizscan/quizscan/internal/interpret"
	"github.com/quizscan/quizscan/internal/model"
	"github.com/quizscan/quizscan/internal/pipeline"
	"github.com/quizscan/quizscan/internal/submit"
)

// solver builds and runs one pipeline per request. It implements
// api.Solver so the CLI and the HTTP server share the same wiring.
type solver struct {
	cfg    *config.Config
	db     *database.RunDB
	logger *slog.Logger
}

// newSolver creates a solver over the given base configuration.
// The database may be nil when persistence is disabled.
func newSolver(cfg *config.Config, db *database.RunDB, logger *slog.Logger) *solver {
	return &solver{cfg: cfg, db: db, logger: logger}
}

// Solve runs the pipeline for one request, overlaying request parameters
// on the base configuration.
func (s *solver) Solve(ctx context.Context, req api.SolveRequest) *model.QuizReport {
	runCfg := *s.cfg
	runCfg.Target = req.URL
	if req.Email != "" {
		runCfg.Email = req.Email
	}
	if req.Secret != "" {
		runCfg.Secret = req.Secret
	}
	if req.Method != "" {
		runCfg.FetchMode = config.FetchMode(req.Method)
	}
	return s.run(ctx, &runCfg)
}

// run executes the full pipeline and persists the outcome.
func (s *solver) run(ctx context.Context, cfg *config.Config) *model.QuizReport {
	report := model.NewQuizReport(cfg.Target)
	report.Email = cfg.Email
	report.Secret = cfg.Secret

	p, err := buildPipeline(ctx, cfg, s.logger)
	if err != nil {
		report.RecordError("setup", err)
		report.FinishedAt = time.Now()
		return report
	}

	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	// Pipeline errors are recorded in the report; the report stays valid
	// for output and audit either way.
	_ = p.Execute(runCtx, report)
	report.FinishedAt = time.Now()

	if s.db != nil && !cfg.NoStore {
		if _, err := s.db.SaveRun(ctx, report); err != nil {
			s.logger.Error("failed to save run", "target", cfg.Target, "error", err)
		}
	}

	return report
}

// buildPipeline wires the seven pipeline steps from the configuration.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	fetcher, err := buildFetcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewFetchStep(fetcher),
		pipeline.NewExtractStep(),
		pipeline.NewAudioStep(audio.NewResolver(
			buildTranscriber(ctx, cfg, logger),
			audio.WithConcurrency(cfg.TranscribeConcurrency),
			audio.WithLogger(logger),
		)),
		pipeline.NewDecodeStep(decode.New(decode.WithLogger(logger))),
		pipeline.NewInterpretStep(interpret.New(cfg.Email)),
		pipeline.NewResolveStep(answer.New(cfg.Email, cfg.Secret,
			answer.WithHTTPClient(httpClient),
			answer.WithUserAgent(cfg.UserAgent),
			answer.WithMaxBodySize(cfg.MaxBodySize),
			answer.WithLogger(logger),
		)),
		pipeline.NewSubmitStep(submit.New(
			submit.WithHTTPClient(httpClient),
			submit.WithAttempts(cfg.SubmitAttempts),
			submit.WithBackoff(cfg.SubmitBackoff),
			submit.WithUserAgent(cfg.UserAgent),
			submit.WithLogger(logger),
		), pipeline.WithSubmitDisabled(cfg.NoSubmit)),
	)

	return p, nil
}

// buildFetcher selects the fetcher for the configured mode and the
// target's site configuration.
func buildFetcher(cfg *config.Config, logger *slog.Logger) (fetch.Fetcher, error) {
	site := siteConfigFor(cfg)

	staticOpts := []fetch.StaticOption{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if site.Cookie != "" {
		staticOpts = append(staticOpts, fetch.WithCookie(site.Cookie))
	}
	if len(site.Headers) > 0 {
		staticOpts = append(staticOpts, fetch.WithHeaders(site.Headers))
	}
	static := fetch.NewStatic(staticOpts...)
	browser := fetch.NewBrowser(fetch.WithBrowserUserAgent(cfg.UserAgent))

	mode := cfg.FetchMode
	if site.ForceDynamic {
		mode = config.FetchModeDynamic
	}

	switch mode {
	case config.FetchModeStatic:
		return static, nil
	case config.FetchModeDynamic:
		return browser, nil
	case config.FetchModeAuto:
		return fetch.NewAuto(static, browser, logger), nil
	default:
		return nil, config.ErrInvalidFetchMode
	}
}

// siteConfigFor looks up the per-host configuration for the target.
func siteConfigFor(cfg *config.Config) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}
	u, err := url.Parse(cfg.Target)
	if err != nil {
		return cfg.SiteConfigs.Defaults
	}
	return cfg.SiteConfigs.GetSiteConfig(u.Host)
}

// buildTranscriber creates the speech-to-text client, degrading to the
// disabled transcriber when no credentials are available.
func buildTranscriber(ctx context.Context, cfg *config.Config, logger *slog.Logger) audio.Transcriber {
	t, err := audio.NewGeminiTranscriber(ctx, cfg.GeminiAPIKey, cfg.GeminiModel,
		audio.WithMaxBodySize(cfg.MaxBodySize))
	if err != nil {
		if errors.Is(err, audio.ErrTranscriptionDisabled) {
			logger.Warn("no Gemini API key configured; audio clips will not be transcribed")
		} else {
			logger.Warn("transcriber unavailable; audio clips will not be transcribed", "error", err)
		}
		return audio.DisabledTranscriber{}
	}
	return t
}
