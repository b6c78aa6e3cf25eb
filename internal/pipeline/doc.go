// Package pipeline orchestrates a quiz run as an ordered sequence of
// steps: fetch, extract, audio, decode, interpret, resolve, submit.
// Each step reads the accumulated report and fills in its own section.
package pipeline
