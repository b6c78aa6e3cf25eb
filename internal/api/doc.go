// Package api exposes the quiz solving pipeline over HTTP.
// A single POST endpoint runs one pipeline invocation per request and
// returns the accumulated report, mirroring what the CLI prints.
package api
