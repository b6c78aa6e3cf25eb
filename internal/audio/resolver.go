package audio

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/quizscan/quizscan/internal/model"
)

// Resolver transcribes every audio source of a content report.
// Clips run concurrently under a limit; results land in discovery order.
type Resolver struct {
	transcriber Transcriber
	concurrency int
	logger      *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithConcurrency limits the number of clips transcribed in parallel.
func WithConcurrency(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger for per-clip failures.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver using the given transcriber.
func NewResolver(transcriber Transcriber, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		transcriber: transcriber,
		concurrency: 3,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve transcribes the report's audio sources and appends the results.
// A failed clip becomes a failed transcript entry; it never returns an
// error because missing audio only degrades the instruction text.
func (r *Resolver) Resolve(ctx context.Context, report *model.ContentReport) {
	if len(report.AudioSources) == 0 {
		return
	}

	results := make([]model.AudioTranscript, len(report.AudioSources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, src := range report.AudioSources {
		g.Go(func() error {
			text, err := r.transcriber.Transcribe(gctx, src.ResolvedURL)
			if err != nil {
				terr := &TranscriptionError{SourceURL: src.ResolvedURL, Err: err}
				r.logger.Warn("audio transcription failed", "source", src.ResolvedURL, "error", terr.Error())
				results[i] = model.AudioTranscript{
					SourceURL: src.ResolvedURL,
					Status:    model.TranscriptFailed,
				}
				return nil
			}

			results[i] = model.AudioTranscript{
				SourceURL: src.ResolvedURL,
				Status:    model.TranscriptSuccess,
				Text:      text,
				Truncated: LooksTruncated(text),
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	report.AudioTranscripts = append(report.AudioTranscripts, results...)
}
