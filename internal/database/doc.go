// Package database provides SQLite-based persistence for quiz run reports.
// Every pipeline run can be saved with its full report JSON so that past
// submissions remain auditable after the fact.
package database
