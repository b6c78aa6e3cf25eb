// Package main provides the entry point for the quizscan CLI.
//
// Quizscan fetches a web quiz page, recovers the task it poses from DOM
// text, audio clips, and base64-obfuscated payloads, resolves the answer,
// and submits it as JSON.
//
// Usage:
//
//	quizscan solve <url>
//	quizscan serve --addr :8080
//	quizscan runs
//
// See --help for all available options.
package main

// main is the entry point for quizscan.
func main() {
	Execute()
}
