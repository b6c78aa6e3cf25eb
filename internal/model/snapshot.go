package model

import "time"

// FetchMethod identifies how a page snapshot was obtained.
type FetchMethod string

// Fetch methods.
const (
	// FetchStatic means the page was fetched with a plain HTTP GET.
	FetchStatic FetchMethod = "static"

	// FetchDynamic means the page was rendered in a headless browser
	// so that script-driven DOM mutation settled before capture.
	FetchDynamic FetchMethod = "dynamic"
)

// PageSnapshot is the rendered page captured at fetch time.
// It is immutable once captured; only the Content Extractor reads it.
type PageSnapshot struct {
	// HTML is the full rendered HTML string.
	HTML string `json:"-"`

	// URL is the final resolved URL after redirects and navigation.
	// All relative references on the page resolve against this URL.
	URL string `json:"url"`

	// Method records how the snapshot was obtained.
	Method FetchMethod `json:"method"`

	// FetchedAt is the capture timestamp.
	FetchedAt time.Time `json:"fetched_at"`
}
