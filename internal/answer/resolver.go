package answer

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/quizscan/quizscan/internal/model"
)

// statedCSVURL matches a data-file URL written directly in instruction text.
var statedCSVURL = regexp.MustCompile(`https?://[^\s"'<>)]+\.csv[^\s"'<>)]*`)

// sumRequest matches an aggregation request in instruction text.
var sumRequest = regexp.MustCompile(`(?i)\b(?:sum|total|add(?:ing)?\s+up)\b`)

// labeledValuePatterns match a value stated next to a label word in page
// text: "The secret code is 4521", "answer: 7", "result = 9".
var labeledValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:secret|code|answer|result|value)\s+is\s+(\d+)`),
	regexp.MustCompile(`(?i)\b(?:secret|code|answer|result|value):\s*(\d+)`),
	regexp.MustCompile(`(?i)\b(?:secret|code|answer|result|value)\s*=\s*(\d+)`),
}

// headingRequest matches an instruction asking for a heading's text.
var headingRequest = regexp.MustCompile(`(?i)\b(?:heading|title)\b`)

// maxRequest matches an instruction asking for the largest number.
var maxRequest = regexp.MustCompile(`(?i)\b(?:max(?:imum)?|largest|highest|biggest)\b`)

// longNumber matches a standalone number long enough to be a code.
var longNumber = regexp.MustCompile(`\b(\d{4,})\b`)

// pageInteger matches any integer in page text.
var pageInteger = regexp.MustCompile(`-?\d+`)

// genericFillers are placeholder words that describe a value instead of
// stating it. A placeholder made of these is never used verbatim.
var genericFillers = map[string]bool{
	"your": true, "the": true, "a": true, "an": true, "this": true,
	"that": true, "here": true, "value": true, "answer": true,
	"email": true, "secret": true, "url": true, "page": true,
	"above": true, "below": true, "code": true, "word": true,
	"you": true, "scraped": true, "computed": true, "sum": true,
}

// Resolver fills in answer fields from the task, the page, and the
// caller's parameters.
type Resolver struct {
	httpClient  *http.Client
	email       string
	secret      string
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used to fetch linked data files.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = c
	}
}

// WithUserAgent sets the User-Agent for data-file requests.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithMaxBodySize limits data-file downloads in bytes.
func WithMaxBodySize(n int64) Option {
	return func(r *Resolver) {
		r.maxBodySize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver for the given caller identity.
func New(email, secret string, opts ...Option) *Resolver {
	r := &Resolver{
		httpClient:  http.DefaultClient,
		email:       email,
		secret:      secret,
		maxBodySize: 5 * 1024 * 1024,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve produces a complete Answer for the task, or a ResolutionError
// naming the first field that cannot be determined.
func (r *Resolver) Resolve(ctx context.Context, task *model.TaskDescription, report *model.ContentReport) (*model.Answer, error) {
	ans := model.NewAnswer(task.RequiredFields)

	// The answer field is resolved first so descriptive fields can report
	// which strategy produced it.
	var strategyNote string
	if task.RequiredField("answer") {
		value, note, err := r.resolveAnswer(ctx, task, report)
		if err != nil {
			return nil, err
		}
		ans.Set("answer", value)
		strategyNote = note
	}

	for _, field := range task.RequiredFields {
		if field == "answer" {
			continue
		}
		value, err := r.resolveField(field, task, report, strategyNote)
		if err != nil {
			return nil, err
		}
		ans.Set(field, value)
	}

	return ans, nil
}

// resolveField determines the value of one non-answer field.
func (r *Resolver) resolveField(field string, task *model.TaskDescription, report *model.ContentReport, strategyNote string) (any, error) {
	placeholder := task.PlaceholderFor(field)

	switch field {
	case "email":
		if r.email != "" {
			return r.email, nil
		}
		if v := report.QueryParams["email"]; v != "" {
			return v, nil
		}
		if isConcretePlaceholder(placeholder) {
			return placeholder, nil
		}
		return nil, &ResolutionError{Field: field, Reason: "no email parameter supplied and none on the page"}

	case "secret":
		if r.secret != "" {
			return r.secret, nil
		}
		if v := report.QueryParams["secret"]; v != "" {
			return v, nil
		}
		if isConcretePlaceholder(placeholder) {
			return placeholder, nil
		}
		return nil, &ResolutionError{Field: field, Reason: "no secret supplied and the template shows only filler"}

	case "url":
		// A template that names an actual URL wants that URL, not the
		// page it was found on.
		if isConcretePlaceholder(placeholder) && isAbsoluteURL(placeholder) {
			return strings.TrimSpace(placeholder), nil
		}
		return report.URL, nil

	case "reasoning", "explanation", "method":
		if strategyNote != "" {
			return strategyNote, nil
		}
		return "resolved from page content", nil

	default:
		if v, ok := report.QueryParams[field]; ok {
			return v, nil
		}
		if isConcretePlaceholder(placeholder) {
			return coercePlaceholder(placeholder), nil
		}
		return nil, &ResolutionError{Field: field, Reason: "no source for this field on the page"}
	}
}

// resolveAnswer picks and executes the answer strategy.
// An aggregation stated on the page wins; then a concrete template
// placeholder taken verbatim; then a value extracted straight from the
// page text. Anything else is unresolvable.
func (r *Resolver) resolveAnswer(ctx context.Context, task *model.TaskDescription, report *model.ContentReport) (any, string, error) {
	if sumRequest.MatchString(task.InstructionText) {
		if dataURL, ok := findDataURL(task.InstructionText, report); ok {
			value, err := r.sumFirstColumn(ctx, dataURL, task.DerivedParams)
			if err != nil {
				return nil, "", &ResolutionError{Field: "answer", Reason: err.Error()}
			}
			note := "summed the first column of " + dataURL
			if cutoff, ok := task.DerivedParams["cutoff"]; ok {
				note += " keeping values >= " + strconv.FormatInt(cutoff, 10)
			}
			return value, note, nil
		}
	}

	if placeholder := task.PlaceholderFor("answer"); isConcretePlaceholder(placeholder) {
		return coercePlaceholder(placeholder), "took the literal value stated in the template", nil
	}

	if value, note, ok := extractDirect(task, report); ok {
		return value, note, nil
	}

	return nil, "", &ResolutionError{Field: "answer", Reason: "no aggregation stated and no concrete value on the page"}
}

// extractDirect pulls the answer out of the page when it is already
// written there: a labeled value, a requested heading, the largest
// number in the text, or a standalone code-length number. Decoded
// blocks are part of the joined text, so a secret hidden in base64
// is searched the same as visible text.
func extractDirect(task *model.TaskDescription, report *model.ContentReport) (any, string, bool) {
	text := report.JoinedText()

	for _, pattern := range labeledValuePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		return n, "took the value stated next to its label on the page", true
	}

	if headingRequest.MatchString(task.InstructionText) && len(report.Headings) > 0 {
		return report.Headings[0].Text, "took the first heading on the page", true
	}

	if maxRequest.MatchString(task.InstructionText) {
		if v, ok := maxInteger(text); ok {
			return v, "took the largest number in the page text", true
		}
	}

	if m := longNumber.FindString(text); m != "" {
		if n, err := strconv.ParseInt(m, 10, 64); err == nil {
			return n, "took the code-length number on the page", true
		}
	}

	return nil, "", false
}

// maxInteger returns the largest integer in the text, if any.
func maxInteger(text string) (int64, bool) {
	var best int64
	found := false
	for _, m := range pageInteger.FindAllString(text, -1) {
		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		if !found || n > best {
			best = n
			found = true
		}
	}
	return best, found
}

// findDataURL locates the data file the instructions refer to: a URL
// stated in the text, or a linked file that looks like data.
func findDataURL(instructionText string, report *model.ContentReport) (string, bool) {
	if m := statedCSVURL.FindString(instructionText); m != "" {
		return strings.TrimRight(m, ".,;:"), true
	}

	for _, link := range report.Links {
		if link.Unresolved {
			continue
		}
		if isDataLink(link) {
			return link.ResolvedURL, true
		}
	}
	return "", false
}

// isDataLink reports whether a link points at a data file.
func isDataLink(link model.Link) bool {
	u, err := url.Parse(link.ResolvedURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".csv", ".tsv", ".txt", ".json":
		return true
	}
	return strings.Contains(strings.ToLower(link.Text), "data")
}

// isConcretePlaceholder reports whether a template placeholder states an
// actual value rather than describing one. Descriptive filler ("your
// secret", "the code you scraped") is made of generic words; concrete
// values are numbers, URLs, or single opaque tokens.
func isConcretePlaceholder(placeholder string) bool {
	p := strings.TrimSpace(placeholder)
	if p == "" {
		return false
	}
	if _, err := strconv.ParseFloat(p, 64); err == nil {
		return true
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return true
	}
	words := strings.Fields(strings.ToLower(p))
	if len(words) > 1 {
		return false
	}
	return !genericFillers[words[0]]
}

// isAbsoluteURL reports whether the placeholder is an absolute http(s) URL.
func isAbsoluteURL(placeholder string) bool {
	p := strings.TrimSpace(placeholder)
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// coercePlaceholder converts a concrete placeholder to its natural type.
// Integers stay integers so the submitted JSON matches what the page showed.
func coercePlaceholder(placeholder string) any {
	p := strings.TrimSpace(placeholder)
	if n, err := strconv.ParseInt(p, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(p, 64); err == nil {
		return f
	}
	return p
}
