package fetch

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/quizscan/quizscan/internal/model"
)

// domStableWindow is how long the DOM must stay unchanged before the
// rendered page counts as settled.
const domStableWindow = 300 * time.Millisecond

// BrowserFetcher renders pages in a headless Chromium via go-rod.
// A browser is launched per fetch; quiz runs fetch exactly one page, so
// keeping a warm browser around buys nothing.
type BrowserFetcher struct {
	userAgent string
}

// BrowserOption configures a BrowserFetcher.
type BrowserOption func(*BrowserFetcher)

// WithBrowserUserAgent overrides the browser's User-Agent.
func WithBrowserUserAgent(ua string) BrowserOption {
	return func(f *BrowserFetcher) {
		f.userAgent = ua
	}
}

// NewBrowser creates a BrowserFetcher.
func NewBrowser(opts ...BrowserOption) *BrowserFetcher {
	f := &BrowserFetcher{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch renders the page and returns the post-JavaScript DOM.
func (f *BrowserFetcher) Fetch(ctx context.Context, target string) (*model.PageSnapshot, error) {
	l := launcher.New().Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer func() {
		_ = page.Close()
	}()

	if f.userAgent != "" {
		override := &proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}
		if err := page.SetUserAgent(override); err != nil {
			return nil, &FetchError{URL: target, Err: err}
		}
	}

	if err := page.Navigate(target); err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	// Give client-side frameworks a beat to mount before snapshotting.
	if err := page.WaitDOMStable(domStableWindow, 0); err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	info, err := page.Info()
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	return &model.PageSnapshot{
		HTML:      html,
		URL:       info.URL,
		Method:    model.FetchDynamic,
		FetchedAt: time.Now(),
	}, nil
}
