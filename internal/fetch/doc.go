// Package fetch obtains page snapshots. A snapshot is either the raw
// response of a plain HTTP GET or the rendered DOM of a headless browser;
// the automatic fetcher tries the cheap path first and renders only when
// the page looks like an empty JavaScript application shell.
package fetch
