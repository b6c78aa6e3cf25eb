package pipeline

import (
	"context"
	"errors"

	"github.com/quizscan/quizscan/internal/answer"
	"github.com/quizscan/quizscan/internal/audio"
	"github.com/quizscan/quizscan/internal/decode"
	"github.com/quizscan/quizscan/internal/extract"
	"github.com/quizscan/quizscan/internal/fetch"
	"github.com/quizscan/quizscan/internal/interpret"
	"github.com/quizscan/quizscan/internal/model"
	"github.com/quizscan/quizscan/internal/submit"
)

// ErrNoSnapshot is returned by steps that need a page snapshot when the
// fetch step never produced one.
var ErrNoSnapshot = errors.New("no page snapshot available")

// FetchStep obtains the page snapshot that every later step works from.
type FetchStep struct {
	fetcher fetch.Fetcher
}

// NewFetchStep creates a fetch step over the given fetcher.
func NewFetchStep(fetcher fetch.Fetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches the target page.
func (s *FetchStep) Do(ctx context.Context, report *model.QuizReport) error {
	snapshot, err := s.fetcher.Fetch(ctx, report.Target)
	if err != nil {
		return err
	}
	report.Snapshot = snapshot
	return nil
}

// ExtractStep normalizes the snapshot into a content report.
type ExtractStep struct{}

// NewExtractStep creates an extract step.
func NewExtractStep() *ExtractStep {
	return &ExtractStep{}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do builds the content report from the snapshot.
func (s *ExtractStep) Do(_ context.Context, report *model.QuizReport) error {
	if report.Snapshot == nil {
		return ErrNoSnapshot
	}

	extractor, err := extract.New(report.Snapshot.URL)
	if err != nil {
		return err
	}
	content, err := extractor.Extract(report.Snapshot)
	if err != nil {
		return err
	}
	report.Content = content
	return nil
}

// AudioStep transcribes discovered audio clips. Per-clip failures are
// recorded in the content report; the step itself never fails.
type AudioStep struct {
	resolver *audio.Resolver
}

// NewAudioStep creates an audio step over the given resolver.
func NewAudioStep(resolver *audio.Resolver) *AudioStep {
	return &AudioStep{resolver: resolver}
}

// Name returns the step name.
func (s *AudioStep) Name() string {
	return "audio"
}

// Do resolves transcripts for the content report's audio sources.
func (s *AudioStep) Do(ctx context.Context, report *model.QuizReport) error {
	if report.Content == nil {
		return ErrNoSnapshot
	}
	s.resolver.Resolve(ctx, report.Content)
	return nil
}

// DecodeStep recovers instruction text from base64 payloads on the page.
type DecodeStep struct {
	decoder *decode.Decoder
}

// NewDecodeStep creates a decode step.
func NewDecodeStep(decoder *decode.Decoder) *DecodeStep {
	return &DecodeStep{decoder: decoder}
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do scans the snapshot for encoded payloads.
func (s *DecodeStep) Do(_ context.Context, report *model.QuizReport) error {
	if report.Snapshot == nil || report.Content == nil {
		return ErrNoSnapshot
	}
	s.decoder.Decode(report.Snapshot, report.Content)
	return nil
}

// InterpretStep turns the content report into an executable task.
type InterpretStep struct {
	interpreter *interpret.Interpreter
}

// NewInterpretStep creates an interpret step.
func NewInterpretStep(interpreter *interpret.Interpreter) *InterpretStep {
	return &InterpretStep{interpreter: interpreter}
}

// Name returns the step name.
func (s *InterpretStep) Name() string {
	return "interpret"
}

// Do interprets the content report.
func (s *InterpretStep) Do(_ context.Context, report *model.QuizReport) error {
	if report.Content == nil {
		return ErrNoSnapshot
	}
	task, err := s.interpreter.Interpret(report.Content)
	if err != nil {
		return err
	}
	report.Task = task
	return nil
}

// ResolveStep fills in a value for every field the task requires.
type ResolveStep struct {
	resolver *answer.Resolver
}

// NewResolveStep creates a resolve step.
func NewResolveStep(resolver *answer.Resolver) *ResolveStep {
	return &ResolveStep{resolver: resolver}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do resolves the answer fields.
func (s *ResolveStep) Do(ctx context.Context, report *model.QuizReport) error {
	if report.Task == nil || report.Content == nil {
		return ErrNoSnapshot
	}
	ans, err := s.resolver.Resolve(ctx, report.Task, report.Content)
	if err != nil {
		return err
	}
	report.Answer = ans
	return nil
}

// SubmitStep posts the resolved answer to the task's submission URL.
type SubmitStep struct {
	submitter *submit.Submitter
	disabled  bool
}

// SubmitStepOption configures a SubmitStep.
type SubmitStepOption func(*SubmitStep)

// WithSubmitDisabled makes the step a no-op. The resolved answer stays in
// the report; nothing is POSTed.
func WithSubmitDisabled(disabled bool) SubmitStepOption {
	return func(s *SubmitStep) {
		s.disabled = disabled
	}
}

// NewSubmitStep creates a submit step.
func NewSubmitStep(submitter *submit.Submitter, opts ...SubmitStepOption) *SubmitStep {
	s := &SubmitStep{submitter: submitter}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SubmitStep) Name() string {
	return "submit"
}

// Do submits the answer. The submission result is stored even when the
// endpoint rejects the payload, so the report always shows the verdict.
func (s *SubmitStep) Do(ctx context.Context, report *model.QuizReport) error {
	if s.disabled {
		return nil
	}
	if report.Task == nil || report.Answer == nil {
		return ErrNoSnapshot
	}

	result, err := s.submitter.Submit(ctx, report.Task, report.Answer)
	if result != nil {
		report.Submission = result
	}
	return err
}
