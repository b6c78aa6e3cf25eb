// Package submit posts a resolved answer to the task's submission URL,
// retrying transient failures and reporting the endpoint's verdict verbatim.
package submit
