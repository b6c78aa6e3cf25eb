package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quizscan/quizscan/internal/api"
	"github.com/quizscan/quizscan/internal/config"
	"github.com/quizscan/quizscan/internal/database"
	quizlog "github.com/quizscan/quizscan/internal/log"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quiz solver as an HTTP service",
		Long: `Serve exposes the solver over HTTP.

POST /quiz with {"url": "...", "email": "...", "secret": "...", "method": "..."}
runs one pipeline invocation and returns the full report. GET /runs lists
past runs from the local database, and GET /healthz reports liveness.

When --shared-secret is set, requests whose secret does not match are
rejected with 403.

Examples:
  # Listen on the default address
  quizscan serve

  # Require a shared secret and listen on a custom port
  quizscan serve --addr :9090 --shared-secret TOKEN`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", ":8080", "Listen address for the HTTP server")
	cmd.Flags().String("shared-secret", "", "Shared secret required on POST /quiz (default: open)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each solve request")
	cmd.Flags().String("method", string(config.FetchModeAuto), "Default fetch method: auto, static, or dynamic")
	cmd.Flags().Bool("no-submit", false, "Resolve answers but never POST them")
	cmd.Flags().Bool("no-store", false, "Do not record runs in the local database")
	cmd.Flags().String("gemini-api-key", "", "Gemini API key for audio transcription (default: $GEMINI_API_KEY)")
	cmd.Flags().String("gemini-model", config.DefaultGeminiModel, "Gemini model used for transcription")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	method, err := cmd.Flags().GetString("method")
	if err != nil {
		return err
	}
	cfg.FetchMode = config.FetchMode(method)

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	cfg.NoSubmit, err = cmd.Flags().GetBool("no-submit")
	if err != nil {
		return err
	}

	cfg.NoStore, err = cmd.Flags().GetBool("no-store")
	if err != nil {
		return err
	}
	cfg.DBDir = config.XDGDataDir()

	cfg.GeminiAPIKey, err = cmd.Flags().GetString("gemini-api-key")
	if err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	cfg.GeminiModel, err = cmd.Flags().GetString("gemini-model")
	if err != nil {
		return err
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	sharedSecret, err := cmd.Flags().GetString("shared-secret")
	if err != nil {
		return err
	}

	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := quizlog.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	var db *database.RunDB
	if !cfg.NoStore {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	serverOpts := []api.ServerOption{
		api.WithLogger(logger),
		api.WithTimeout(cfg.Timeout),
		api.WithSharedSecret(sharedSecret),
	}
	if db != nil {
		serverOpts = append(serverOpts, api.WithRunStore(db))
	}

	server := api.NewServer(newSolver(cfg, db, logger), serverOpts...)

	fmt.Printf("Listening on %s\n", addr)
	if err := server.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
