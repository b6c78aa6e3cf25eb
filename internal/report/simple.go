package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/quizscan/quizscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.QuizReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("=== Quizscan Report ===\n")
	fmt.Fprintf(&sb, "Target:  %s\n", report.Target)

	if report.Snapshot != nil {
		fmt.Fprintf(&sb, "Method:  %s\n", report.Snapshot.Method)
	}

	if report.Content != nil {
		c := report.Content
		fmt.Fprintf(&sb, "Page:    %q (%d bytes HTML, %d bytes text)\n", c.Title, c.HTMLLength, c.TextLength)
		fmt.Fprintf(&sb, "Found:   %d blocks, %d links, %d images, %d tables, %d audio clips\n",
			len(c.TextBlocks), len(c.Links), len(c.Images), len(c.Tables), len(c.AudioSources))

		for _, t := range c.AudioTranscripts {
			mark := "ok"
			if t.Status == model.TranscriptFailed {
				mark = "failed"
			} else if t.Truncated {
				mark = "truncated"
			}
			fmt.Fprintf(&sb, "Audio:   [%s] %s\n", mark, t.SourceURL)
			if w.verbose && t.Text != "" {
				fmt.Fprintf(&sb, "         %s\n", t.Text)
			}
		}
	}

	if report.Task != nil {
		fmt.Fprintf(&sb, "Task:    fields [%s] -> %s\n",
			strings.Join(report.Task.RequiredFields, ", "), report.Task.SubmissionURL)
		if report.Task.Incomplete {
			sb.WriteString("Task:    instructions appear incomplete; executed literal parts only\n")
		}
		for name, value := range report.Task.DerivedParams {
			fmt.Fprintf(&sb, "Derived: %s = %d\n", name, value)
		}
	}

	if report.Answer != nil {
		if payload, err := report.Answer.MarshalOrdered(); err == nil {
			fmt.Fprintf(&sb, "Answer:  %s\n", payload)
		}
	}

	if report.Submission != nil {
		fmt.Fprintf(&sb, "Submit:  status %d after %d attempt(s)\n",
			report.Submission.StatusCode, report.Submission.Attempts)
		if report.Submission.ResponseBody != "" {
			fmt.Fprintf(&sb, "Reply:   %s\n", report.Submission.ResponseBody)
		}
	}

	switch {
	case report.TimedOut:
		sb.WriteString("Status:  TIMED OUT (partial results)\n")
	case report.ErrorMessage != "":
		fmt.Fprintf(&sb, "Status:  FAILED at %s: %s\n", report.ErrorStage, report.ErrorMessage)
	default:
		sb.WriteString("Status:  OK\n")
	}

	return io.WriteString(w.output, sb.String())
}
