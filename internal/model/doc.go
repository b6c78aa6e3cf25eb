// Package model defines the core data structures used throughout QuizScan.
//
// This package contains the following main types:
//   - PageSnapshot: The rendered HTML captured at fetch time
//   - ContentReport: The normalized structural/textual extraction of a snapshot
//   - TaskDescription: The interpreted task parsed from a report
//   - Answer: The resolved field values to submit
//   - QuizReport: The accumulated result of one pipeline invocation
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (extract, interpret, answer, report, submit)
// need to use these types, so centralizing them prevents import cycles.
//
// Each structure is produced by exactly one pipeline stage and handed to the
// next; no stage holds a back-reference into an earlier stage's mutable state.
package model
