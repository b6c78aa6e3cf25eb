package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/quizscan/quizscan/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockStep records execution and optionally fails.
type mockStep struct {
	name     string
	err      error
	executed bool
}

func (m *mockStep) Do(_ context.Context, _ *model.QuizReport) error {
	m.executed = true
	return m.err
}

func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineExecutesInOrder tests sequential execution and step tracking.
func TestPipelineExecutesInOrder(t *testing.T) {
	t.Parallel()

	steps := []*mockStep{
		{name: "fetch"},
		{name: "extract"},
		{name: "interpret"},
	}

	p := New(WithLogger(testLogger()))
	for _, s := range steps {
		p.AddStep(s)
	}

	report := model.NewQuizReport("https://quiz.example.com")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range steps {
		if !s.executed {
			t.Errorf("step %q was not executed", s.name)
		}
	}
	want := []string{"fetch", "extract", "interpret"}
	if len(report.PerformedSteps) != len(want) {
		t.Fatalf("expected %d performed steps, got %v", len(want), report.PerformedSteps)
	}
	for i, name := range want {
		if report.PerformedSteps[i] != name {
			t.Errorf("step %d: expected %q, got %q", i, name, report.PerformedSteps[i])
		}
	}
	if !report.Succeeded() {
		t.Error("expected successful report")
	}
}

// TestPipelineStopsOnError tests that a fatal step halts the run and the
// report records the failing stage.
func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("no template")
	first := &mockStep{name: "fetch"}
	failing := &mockStep{name: "interpret", err: boom}
	never := &mockStep{name: "submit"}

	p := New(WithLogger(testLogger()))
	p.AddSteps(first, failing, never)

	report := model.NewQuizReport("https://quiz.example.com")
	err := p.Execute(context.Background(), report)

	if !errors.Is(err, boom) {
		t.Fatalf("expected step error, got %v", err)
	}
	if never.executed {
		t.Error("expected pipeline to stop before later steps")
	}
	if report.ErrorStage != "interpret" {
		t.Errorf("expected failing stage recorded, got %q", report.ErrorStage)
	}
	if report.Succeeded() {
		t.Error("expected failed report")
	}
}

// TestPipelineContinueOnError tests the continue-on-error mode.
func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	failing := &mockStep{name: "audio", err: errors.New("clip unavailable")}
	after := &mockStep{name: "interpret"}

	p := New(WithLogger(testLogger()), WithContinueOnError(true))
	p.AddSteps(failing, after)

	report := model.NewQuizReport("https://quiz.example.com")
	if err := p.Execute(context.Background(), report); err != nil {
		t.Fatalf("expected nil error in continue mode, got %v", err)
	}
	if !after.executed {
		t.Error("expected later steps to run")
	}
	if report.ErrorStage != "audio" {
		t.Errorf("expected first error stage kept, got %q", report.ErrorStage)
	}
}

// TestPipelineCancellation tests that a cancelled context stops the run
// and marks the report timed out.
func TestPipelineCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	step := &mockStep{name: "fetch"}
	p := New(WithLogger(testLogger()))
	p.AddStep(step)

	report := model.NewQuizReport("https://quiz.example.com")
	err := p.Execute(ctx, report)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if step.executed {
		t.Error("expected no step execution after cancellation")
	}
	if !report.TimedOut {
		t.Error("expected timed-out report")
	}
}

// TestStepNames tests pipeline introspection.
func TestStepNames(t *testing.T) {
	t.Parallel()

	p := New(WithLogger(testLogger()))
	p.AddSteps(&mockStep{name: "fetch"}, &mockStep{name: "extract"})

	if p.StepCount() != 2 {
		t.Errorf("expected 2 steps, got %d", p.StepCount())
	}
	names := p.StepNames()
	if names[0] != "fetch" || names[1] != "extract" {
		t.Errorf("unexpected step names %v", names)
	}
}
