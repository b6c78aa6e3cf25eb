package model

import "time"

// QuizReport is the accumulated result of one pipeline invocation.
// Steps fill in their own section and never reach back into an earlier
// stage's data except to read it.
type QuizReport struct {
	// Target is the URL the caller asked to solve.
	Target string `json:"target"`

	// Email is the caller-supplied email parameter, possibly empty.
	Email string `json:"email,omitempty"`

	// Secret is the caller-supplied shared secret, excluded from output.
	Secret string `json:"-"`

	// StartedAt and FinishedAt bound the pipeline run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Snapshot is the rendered page, set by the fetch step.
	Snapshot *PageSnapshot `json:"snapshot,omitempty"`

	// Content is the normalized extraction, set by the extract step and
	// augmented by the audio and decode steps.
	Content *ContentReport `json:"content,omitempty"`

	// Task is the interpreted task, set by the interpret step.
	Task *TaskDescription `json:"task,omitempty"`

	// Answer holds the resolved field values, set by the resolve step.
	Answer *Answer `json:"answer,omitempty"`

	// Submission is the final POST outcome, set by the submit step.
	Submission *SubmissionResult `json:"submission,omitempty"`

	// PerformedSteps lists the names of steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut is set when the run was cancelled mid-pipeline.
	TimedOut bool `json:"timed_out,omitempty"`

	// Error holds the first fatal error; ErrorStage names the step that
	// produced it. The report up to that point is still valid for audit.
	Error        error  `json:"-"`
	ErrorStage   string `json:"error_stage,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewQuizReport creates a report for the given target URL.
func NewQuizReport(target string) *QuizReport {
	return &QuizReport{
		Target:    target,
		StartedAt: time.Now(),
	}
}

// RecordError stores the first fatal error and the step that raised it.
func (r *QuizReport) RecordError(stage string, err error) {
	if r.Error != nil {
		return
	}
	r.Error = err
	r.ErrorStage = stage
	r.ErrorMessage = err.Error()
}

// Succeeded reports whether the run completed without a fatal error.
func (r *QuizReport) Succeeded() bool {
	return r.Error == nil && !r.TimedOut
}
