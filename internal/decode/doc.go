// Package decode recovers instruction text hidden in base64 payloads on a
// quiz page. Candidates that do not decode to printable text are skipped
// silently; decoding never fails a run.
package decode
