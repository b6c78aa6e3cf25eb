package interpret

import (
	"crypto/sha1" //nolint:gosec // Pages derive parameters with SHA-1; not used for security
	"encoding/hex"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/quizscan/quizscan/internal/model"
)

// postToPattern captures an explicit "post ... to <url>" statement.
// The stated URL always outranks link classification.
var postToPattern = regexp.MustCompile(`(?i)\b(?:post|send|submit)\b[^.!?\n]{0,80}?\bto:?\s*(https?://[^\s"'<>)]+|/[^\s"'<>)]+)`)

// templateField captures one "name": value pair inside a template region.
var templateField = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_-]*)"\s*:\s*("(?:[^"\\]|\\.)*"|[^,}\n]+)`)

// submitLinkHints mark links that act as answer receivers when the text
// never states the endpoint outright.
var submitLinkHints = []string{"submit", "receiver", "answer"}

// Interpreter extracts an executable task from a content report.
type Interpreter struct {
	// email is the caller identity used for derived parameters when the
	// page's query string carries none.
	email string
}

// New creates an Interpreter. The email is a fallback; the page's own
// email query parameter takes precedence.
func New(email string) *Interpreter {
	return &Interpreter{email: email}
}

// Interpret assembles the instruction text, parses the answer template,
// locates the submission endpoint, and computes literally stated derived
// parameters. It fails with ErrNoTemplate or ErrNoSubmissionURL when the
// page leaves the task unexecutable.
func (i *Interpreter) Interpret(report *model.ContentReport) (*model.TaskDescription, error) {
	task := &model.TaskDescription{
		InstructionText: instructionText(report),
		Incomplete:      incomplete(report),
	}

	fields, ok := parseTemplate(task.InstructionText)
	if !ok {
		return nil, ErrNoTemplate
	}
	task.Template = fields
	task.RequiredFields = make([]string, len(fields))
	for idx, f := range fields {
		task.RequiredFields[idx] = f.Name
	}

	submissionURL, ok := i.findSubmissionURL(task.InstructionText, report)
	if !ok {
		return nil, ErrNoSubmissionURL
	}
	task.SubmissionURL = submissionURL

	if cutoff, ok := i.deriveCutoff(task.InstructionText, report); ok {
		task.DerivedParams = map[string]int64{"cutoff": cutoff}
	}

	return task, nil
}

// instructionText joins the page text with the successful audio
// transcripts, in discovery order. Decoded blocks are already part of the
// page text at their insertion points.
func instructionText(report *model.ContentReport) string {
	parts := make([]string, 0, 1+len(report.AudioTranscripts))
	if text := report.JoinedText(); text != "" {
		parts = append(parts, text)
	}
	for _, t := range report.AudioTranscripts {
		if t.Status == model.TranscriptSuccess && t.Text != "" {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, model.TextSeparator)
}

// incomplete reports whether part of the instructions is known missing:
// a transcript flagged as truncated, or a clip that failed outright.
func incomplete(report *model.ContentReport) bool {
	for _, t := range report.AudioTranscripts {
		if t.Truncated || t.Status == model.TranscriptFailed {
			return true
		}
	}
	return false
}

// parseTemplate finds the first JSON-shaped answer template in the text
// and extracts its fields in written order.
func parseTemplate(text string) ([]model.TemplateField, bool) {
	for start := 0; start < len(text); {
		open := strings.IndexByte(text[start:], '{')
		if open < 0 {
			return nil, false
		}
		open += start

		region, ok := balancedRegion(text[open:])
		if !ok {
			start = open + 1
			continue
		}

		fields := parseFields(region)
		if len(fields) > 0 {
			return fields, true
		}
		start = open + 1
	}
	return nil, false
}

// balancedRegion returns the substring from the leading '{' to its
// matching '}', respecting quoted strings.
func balancedRegion(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for idx := 0; idx < len(s); idx++ {
		c := s[idx]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:idx+1], true
			}
		}
	}
	return "", false
}

// parseFields extracts "name": value pairs from a template region.
// Quoted placeholders are unquoted; everything else is kept verbatim.
func parseFields(region string) []model.TemplateField {
	matches := templateField.FindAllStringSubmatch(region, -1)
	if len(matches) == 0 {
		return nil
	}

	fields := make([]model.TemplateField, 0, len(matches))
	for _, m := range matches {
		placeholder := strings.TrimSpace(m[2])
		if len(placeholder) >= 2 && placeholder[0] == '"' && placeholder[len(placeholder)-1] == '"' {
			if unquoted, err := strconv.Unquote(placeholder); err == nil {
				placeholder = unquoted
			} else {
				placeholder = placeholder[1 : len(placeholder)-1]
			}
		}
		fields = append(fields, model.TemplateField{
			Name:        m[1],
			Placeholder: placeholder,
		})
	}
	return fields
}

// findSubmissionURL locates the answer endpoint. A URL stated in the
// instruction text wins; otherwise the first link that looks like a
// receiver is used. Relative URLs resolve against the page, never the caller.
func (i *Interpreter) findSubmissionURL(text string, report *model.ContentReport) (string, bool) {
	if m := postToPattern.FindStringSubmatch(text); m != nil {
		return resolveAgainstPage(strings.TrimRight(m[1], ".,;:"), report.URL), true
	}

	for _, link := range report.Links {
		if link.Unresolved {
			continue
		}
		haystack := strings.ToLower(link.Text + " " + link.Href)
		for _, hint := range submitLinkHints {
			if strings.Contains(haystack, hint) {
				return link.ResolvedURL, true
			}
		}
	}
	return "", false
}

// resolveAgainstPage resolves a possibly relative URL against the page URL.
func resolveAgainstPage(ref, pageURL string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// deriveCutoff computes the SHA-1 derived cutoff when, and only when, the
// page literally states the computation. The page must mention the hash,
// the email parameter, and a cutoff for the derivation to run; anything
// less would be guessing.
func (i *Interpreter) deriveCutoff(text string, report *model.ContentReport) (int64, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "sha1") && !strings.Contains(lower, "sha-1") {
		return 0, false
	}
	if !strings.Contains(lower, "email") {
		return 0, false
	}
	if !strings.Contains(lower, "cutoff") && !strings.Contains(lower, "cut-off") && !strings.Contains(lower, "threshold") {
		return 0, false
	}

	email := report.QueryParams["email"]
	if email == "" {
		email = i.email
	}
	if email == "" {
		return 0, false
	}
	return DeriveCutoff(email), true
}

// DeriveCutoff computes the per-user cutoff a quiz page derives from the
// email parameter: the first four hex digits of the SHA-1 of the email,
// read as a base-16 integer. The result is deterministic per email and
// always fits in [0, 65535].
func DeriveCutoff(email string) int64 {
	sum := sha1.Sum([]byte(email)) //nolint:gosec // Parameter derivation, not security
	hexDigest := hex.EncodeToString(sum[:])
	v, _ := strconv.ParseInt(hexDigest[:4], 16, 64)
	return v
}
