// Package extract normalizes a fetched page snapshot into a structured
// content report: ordered text blocks, headings, links, images, audio
// sources, tables, and the query parameters of the final URL.
package extract
