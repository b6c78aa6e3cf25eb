// Package log provides structured logging with automatic masking of
// sensitive values such as shared secrets and API keys.
package log
