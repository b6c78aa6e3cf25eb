package audio

import (
	"errors"
	"fmt"
)

// ErrTranscriptionDisabled is returned by DisabledTranscriber.
// It signals that no speech-to-text credentials were configured.
var ErrTranscriptionDisabled = errors.New("transcription disabled: no API key configured")

// TranscriptionError wraps a per-clip transcription failure.
// It identifies the clip so the content report can record which source failed.
type TranscriptionError struct {
	// SourceURL is the audio clip that failed.
	SourceURL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.SourceURL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *TranscriptionError) Unwrap() error {
	return e.Err
}
