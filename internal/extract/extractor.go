package extract

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/quizscan/quizscan/internal/model"
)

// audioExtensions are file extensions treated as audio clips when they
// appear in anchor hrefs or audio element sources.
var audioExtensions = map[string]bool{
	".opus": true,
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
}

// skipElements are elements whose text content is never visible.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// blockElements delimit text blocks. Text accumulated inside one of these
// elements is flushed as its own block when the element closes.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"header": true, "footer": true, "main": true, "aside": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "blockquote": true, "pre": true, "figcaption": true,
	"td": true, "th": true, "caption": true, "summary": true,
}

// Extractor turns a page snapshot into a content report.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// it correctly handles the malformed HTML real quiz pages serve and gives
// us a proper DOM-like structure to walk.
type Extractor struct {
	// baseURL is the snapshot's final URL, used to resolve relative references.
	baseURL *url.URL
}

// New creates an Extractor that resolves references against baseURL.
func New(baseURL string) (*Extractor, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{baseURL: u}, nil
}

// Extract parses the snapshot's HTML and assembles a content report.
// Every section is present even when empty; lengths are reported even
// when zero so downstream consumers never branch on absence.
func (e *Extractor) Extract(snapshot *model.PageSnapshot) (*model.ContentReport, error) {
	doc, err := html.Parse(strings.NewReader(snapshot.HTML))
	if err != nil {
		return nil, err
	}

	report := &model.ContentReport{
		URL:         snapshot.URL,
		Method:      snapshot.Method,
		TextBlocks:  make([]model.TextBlock, 0),
		Headings:    make([]model.Heading, 0),
		Links:       make([]model.Link, 0),
		Images:      make([]model.Image, 0),
		Tables:      make([]model.Table, 0),
		HTMLLength:  len(snapshot.HTML),
		QueryParams: queryParams(snapshot.URL),
	}

	w := &walker{extractor: e, report: report, seenAudio: make(map[string]bool)}
	w.walk(doc)
	w.flush()

	report.TextLength = len(report.JoinedText())
	return report, nil
}

// walker carries the mutable extraction state through one DOM traversal.
type walker struct {
	extractor *Extractor
	report    *model.ContentReport
	current   strings.Builder
	seenAudio map[string]bool
}

// walk traverses the DOM in document order, collecting structure and text.
func (w *walker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if skipElements[n.Data] {
			return
		}
		w.processElement(n)
		if n.Data == "title" {
			// Title text is captured separately and is not page text.
			return
		}
	}

	if n.Type == html.TextNode {
		w.current.WriteString(n.Data)
		w.current.WriteString(" ")
	}

	isBlock := n.Type == html.ElementNode && blockElements[n.Data]
	if isBlock {
		w.flush()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	if isBlock {
		w.flush()
	}
}

// flush emits the accumulated inline text as a block, if any remains
// after whitespace normalization.
func (w *walker) flush() {
	text := normalizeSpace(w.current.String())
	w.current.Reset()
	if text == "" {
		return
	}
	w.report.TextBlocks = append(w.report.TextBlocks, model.TextBlock{
		Text:   text,
		Source: model.BlockDOM,
	})
}

// processElement records the structural features of one element.
func (w *walker) processElement(n *html.Node) {
	switch n.Data {
	case "title":
		if w.report.Title == "" {
			w.report.Title = normalizeSpace(textOf(n))
		}

	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.report.Headings = append(w.report.Headings, model.Heading{
			Level: int(n.Data[1] - '0'),
			Text:  normalizeSpace(textOf(n)),
		})

	case "a":
		href := strings.TrimSpace(getAttr(n, "href"))
		if href == "" {
			return
		}
		link := w.extractor.resolveLink(normalizeSpace(textOf(n)), href)
		w.report.Links = append(w.report.Links, link)
		if !link.Unresolved && isAudioURL(link.ResolvedURL) {
			w.addAudioSource(link)
		}

	case "img":
		src := strings.TrimSpace(getAttr(n, "src"))
		if src == "" {
			return
		}
		resolved, unresolved := w.extractor.resolveURL(src)
		w.report.Images = append(w.report.Images, model.Image{
			Alt:         getAttr(n, "alt"),
			Src:         src,
			ResolvedURL: resolved,
			Unresolved:  unresolved,
		})

	case "audio", "source", "embed":
		src := strings.TrimSpace(getAttr(n, "src"))
		if src == "" {
			return
		}
		link := w.extractor.resolveLink("", src)
		if link.Unresolved {
			return
		}
		switch n.Data {
		case "audio":
			w.addAudioSource(link)
		case "source":
			// A <source> inside <video> is not an audio clip unless the
			// extension says so.
			if insideAudio(n) || isAudioURL(link.ResolvedURL) {
				w.addAudioSource(link)
			}
		default:
			if isAudioURL(link.ResolvedURL) {
				w.addAudioSource(link)
			}
		}

	case "table":
		w.report.Tables = append(w.report.Tables, extractTable(n))
	}
}

// addAudioSource records an audio clip URL once, in discovery order.
func (w *walker) addAudioSource(link model.Link) {
	if w.seenAudio[link.ResolvedURL] {
		return
	}
	w.seenAudio[link.ResolvedURL] = true
	w.report.AudioSources = append(w.report.AudioSources, link)
}

// resolveLink builds a Link, falling back to the literal href when the
// reference cannot be parsed.
func (e *Extractor) resolveLink(text, href string) model.Link {
	resolved, unresolved := e.resolveURL(href)
	return model.Link{
		Text:        text,
		Href:        href,
		ResolvedURL: resolved,
		Unresolved:  unresolved,
	}
}

// resolveURL resolves a reference against the snapshot's final URL.
// When parsing fails, it returns the original literal and true.
func (e *Extractor) resolveURL(ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return ref, true
	}
	return e.baseURL.ResolveReference(u).String(), false
}

// extractTable collects the cell text of every row in document order.
func extractTable(n *html.Node) model.Table {
	table := model.Table{Rows: make([][]string, 0)}

	var walkRows func(*html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			row := make([]string, 0)
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, normalizeSpace(textOf(c)))
				}
			}
			table.Rows = append(table.Rows, row)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(n)

	return table
}

// insideAudio reports whether the node has an <audio> ancestor.
func insideAudio(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "audio" {
			return true
		}
	}
	return false
}

// textOf collects the visible text of a subtree.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isAudioURL reports whether the URL path ends with a known audio extension.
func isAudioURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return audioExtensions[strings.ToLower(path.Ext(u.Path))]
}

// queryParams extracts the query parameters of rawURL.
// Keys are unique; when a parameter repeats, the first value wins.
func queryParams(rawURL string) map[string]string {
	params := make(map[string]string)
	u, err := url.Parse(rawURL)
	if err != nil {
		return params
	}
	for key, vals := range u.Query() {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
