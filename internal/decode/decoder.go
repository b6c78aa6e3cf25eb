package decode

import (
	"encoding/base64"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quizscan/quizscan/internal/model"
)

// emailPlaceholder is replaced with the page's email query parameter.
// Quiz pages embed it in encoded instructions to personalize data URLs.
const emailPlaceholder = "$EMAIL"

// base64Candidate matches long runs of base64 alphabet characters.
// 40 characters is the shortest payload worth decoding; anything shorter
// is overwhelmingly a false positive (identifiers, hashes, tokens).
var base64Candidate = regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`)

// atobArgument matches the string argument of a JavaScript atob() call.
// These are decoded regardless of length since the call site makes the
// intent explicit.
var atobArgument = regexp.MustCompile(`atob\(\s*["']([A-Za-z0-9+/=]+)["']\s*\)`)

// Decoder scans a snapshot for encoded payloads and appends the recovered
// text to the content report as decoded blocks.
type Decoder struct {
	logger *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger for decoded payload notices.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// New creates a Decoder.
func New(opts ...Option) *Decoder {
	d := &Decoder{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode scans the snapshot's raw HTML for base64 payloads, decodes the
// ones that yield printable text, and appends each as a decoded text block
// directly after the block that contains the payload (or at the end when
// the payload only appears in markup). It returns the number of payloads
// recovered. Running it on a page without payloads changes nothing.
func (d *Decoder) Decode(snapshot *model.PageSnapshot, report *model.ContentReport) int {
	candidates := d.collectCandidates(snapshot.HTML)
	if len(candidates) == 0 {
		return 0
	}

	email := report.QueryParams["email"]

	decoded := 0
	for _, candidate := range candidates {
		text, ok := decodePrintable(candidate)
		if !ok {
			continue
		}
		if email != "" {
			text = strings.ReplaceAll(text, emailPlaceholder, email)
		}

		idx := blockContaining(report, candidate)
		report.AppendTextBlock(idx, model.TextBlock{
			Text:   text,
			Source: model.BlockDecoded,
		})
		decoded++
		d.logger.Debug("decoded hidden payload", "length", len(text))
	}
	return decoded
}

// collectCandidates gathers candidate payloads from atob() call sites and
// bare base64 runs, preserving document order and deduplicating.
func (d *Decoder) collectCandidates(html string) []string {
	type candidate struct {
		pos   int
		value string
	}

	found := make([]candidate, 0)
	seen := make(map[string]bool)

	for _, m := range atobArgument.FindAllStringSubmatchIndex(html, -1) {
		value := html[m[2]:m[3]]
		if !seen[value] {
			seen[value] = true
			found = append(found, candidate{pos: m[0], value: value})
		}
	}
	for _, m := range base64Candidate.FindAllStringIndex(html, -1) {
		value := html[m[0]:m[1]]
		if !seen[value] {
			seen[value] = true
			found = append(found, candidate{pos: m[0], value: value})
		}
	}

	// Restore document order across both sources.
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].pos < found[j-1].pos; j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}

	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.value
	}
	return out
}

// decodePrintable decodes a base64 candidate, re-padding as needed.
// It reports false for anything that is not valid base64 or does not
// decode to printable UTF-8 text.
func decodePrintable(candidate string) (string, bool) {
	trimmed := strings.TrimRight(candidate, "=")
	if len(trimmed)%4 == 1 {
		return "", false
	}
	if pad := len(trimmed) % 4; pad != 0 {
		trimmed += strings.Repeat("=", 4-pad)
	}

	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(raw) {
		return "", false
	}

	text := string(raw)
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return "", false
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// blockContaining returns the index of the first text block whose text
// contains the candidate, or -1 when the payload lives only in markup.
func blockContaining(report *model.ContentReport, candidate string) int {
	for i, b := range report.TextBlocks {
		if strings.Contains(b.Text, candidate) {
			return i
		}
	}
	return -1
}
