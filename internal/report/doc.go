// Package report renders quiz run reports as plain text, GitHub-flavored
// Markdown, or JSON.
package report
