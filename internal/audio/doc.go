// Package audio resolves transcripts for audio clips discovered on a quiz
// page. Clips are downloaded and sent to a speech-to-text collaborator;
// per-clip failures are recorded in the content report and never abort a run.
package audio
