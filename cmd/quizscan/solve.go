package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quizscan/quizscan/internal/api"
	"github.com/quizscan/quizscan/internal/config"
	"github.com/quizscan/quizscan/internal/database"
	quizlog "github.com/quizscan/quizscan/internal/log"
	"github.com/quizscan/quizscan/internal/model"
	"github.com/quizscan/quizscan/internal/report"
)

// NewSolveCmd creates the solve command.
func NewSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <url>",
		Short: "Solve a quiz page and submit the answer",
		Long: `Solve fetches a quiz page, recovers the task it poses, resolves the
answer, and submits it as JSON to the endpoint the page names.

The page is read three ways: visible DOM text, audio clips transcribed
through the Gemini API, and base64 payloads hidden in scripts. Pages
rendered by JavaScript frameworks are detected and re-fetched through a
headless browser.

Examples:
  # Solve a quiz, submitting with the given identity
  quizscan solve --email you@example.com --secret TOKEN https://quiz.example.com/page

  # Resolve the answer without submitting it
  quizscan solve --no-submit https://quiz.example.com/page

  # Force headless browser rendering and write a Markdown report
  quizscan solve --method dynamic --markdown -o report.md https://quiz.example.com/page

Configuration file (.quizscan) example:
  sites:
    quiz.example.com:
      cookie: "session_id=abc123"
      forceDynamic: true

The Gemini API key is read from --gemini-api-key or the GEMINI_API_KEY
environment variable. Without a key, audio clips are reported as failed
transcripts and the run continues.`,
		Args: cobra.ExactArgs(1),
		RunE: runSolveCmd,
	}

	cmd.Flags().StringP("email", "e", "", "Email identity to submit; overrides the page's email query parameter")
	cmd.Flags().StringP("secret", "s", "", "Shared secret included in the answer payload")
	cmd.Flags().String("method", string(config.FetchModeAuto), "Fetch method: auto, static, or dynamic")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for the whole run")
	cmd.Flags().Bool("no-submit", false, "Resolve the answer but do not POST it")

	cmd.Flags().String("gemini-api-key", "", "Gemini API key for audio transcription (default: $GEMINI_API_KEY)")
	cmd.Flags().String("gemini-model", config.DefaultGeminiModel, "Gemini model used for transcription")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .quizscan in current or home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().Bool("no-store", false, "Do not record the run in the local database")

	return cmd
}

// runSolveCmd executes the solve command.
func runSolveCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	logger := quizlog.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runSolve(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Target = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.Email, err = cmd.Flags().GetString("email")
	if err != nil {
		return nil, err
	}

	cfg.Secret, err = cmd.Flags().GetString("secret")
	if err != nil {
		return nil, err
	}

	method, err := cmd.Flags().GetString("method")
	if err != nil {
		return nil, err
	}
	cfg.FetchMode = config.FetchMode(method)

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.NoSubmit, err = cmd.Flags().GetBool("no-submit")
	if err != nil {
		return nil, err
	}

	cfg.GeminiAPIKey, err = cmd.Flags().GetString("gemini-api-key")
	if err != nil {
		return nil, err
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg.GeminiModel, err = cmd.Flags().GetString("gemini-model")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-host configurations from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.NoStore, err = cmd.Flags().GetBool("no-store")
	if err != nil {
		return nil, err
	}
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// runSolve executes the pipeline for the configured target.
func runSolve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting solve",
		"target", cfg.Target,
		"method", string(cfg.FetchMode),
		"noSubmit", cfg.NoSubmit,
	)

	var db *database.RunDB
	if !cfg.NoStore {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	quizReport := newSolver(cfg, db, logger).Solve(ctx, api.SolveRequest{
		URL:    cfg.Target,
		Email:  cfg.Email,
		Secret: cfg.Secret,
		Method: string(cfg.FetchMode),
	})

	if err := outputReport(cfg, quizReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !quizReport.Succeeded() {
		if quizReport.TimedOut {
			return fmt.Errorf("run timed out after %s", cfg.Timeout)
		}
		return fmt.Errorf("solve failed at %s: %s", quizReport.ErrorStage, quizReport.ErrorMessage)
	}
	return nil
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, quizReport *model.QuizReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain email addresses and answer payloads that
		// should only be readable by the owner.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(quizReport)
	return err
}
