package fetch

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/quizscan/quizscan/internal/model"
)

// frameworkMarkers identify pages built by client-side frameworks.
// Their static HTML is an application shell; the instructions only exist
// after scripts run.
var frameworkMarkers = []string{
	"__NEXT_DATA__",
	"__NUXT__",
	"data-reactroot",
	"data-v-app",
	"ng-app",
	"ng-version",
	`id="root"`,
	`id="app"`,
	"id='root'",
	"id='app'",
}

// AutoFetcher fetches statically and falls back to browser rendering when
// the static snapshot looks like an unrendered application shell.
type AutoFetcher struct {
	static  Fetcher
	browser Fetcher
	logger  *slog.Logger
}

// NewAuto creates an AutoFetcher over the given static and browser fetchers.
func NewAuto(static, browser Fetcher, logger *slog.Logger) *AutoFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoFetcher{static: static, browser: browser, logger: logger}
}

// Fetch tries the static path first. When the result looks dynamic, it
// renders the page instead; if rendering fails, the static snapshot is
// still returned so the run can proceed with whatever content exists.
func (f *AutoFetcher) Fetch(ctx context.Context, target string) (*model.PageSnapshot, error) {
	snapshot, err := f.static.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	if !LooksDynamic(snapshot.HTML) {
		return snapshot, nil
	}

	f.logger.Debug("static snapshot looks dynamic, rendering", "url", target)
	rendered, err := f.browser.Fetch(ctx, target)
	if err != nil {
		f.logger.Warn("browser rendering failed, using static snapshot", "url", target, "error", err.Error())
		return snapshot, nil
	}
	return rendered, nil
}

// LooksDynamic reports whether static HTML is probably an application
// shell that needs JavaScript to show its content. The heuristic combines
// framework markers with the amount of visible text: a marker plus a
// near-empty body means the real page has not been rendered yet.
func LooksDynamic(rawHTML string) bool {
	textLen := visibleTextLength(rawHTML)

	for _, marker := range frameworkMarkers {
		if strings.Contains(rawHTML, marker) && textLen < 200 {
			return true
		}
	}

	return textLen < 100 && strings.Contains(rawHTML, "<script")
}

// visibleTextLength measures the text a static snapshot would show,
// excluding scripts and styles.
func visibleTextLength(rawHTML string) int {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return len(rawHTML)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template", "title":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return len(strings.Join(strings.Fields(sb.String()), " "))
}
