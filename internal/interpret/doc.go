// Package interpret turns a content report into an executable task
// description: the answer template with its field order, the submission
// URL, and any parameters the page derives from the caller's email.
//
// Interpretation is strictly literal. Only computations the page states
// outright are performed; when instruction text looks cut off, the task
// is marked incomplete and nothing is invented to fill the gap.
package interpret
