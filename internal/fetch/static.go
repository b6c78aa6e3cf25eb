package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/quizscan/quizscan/internal/model"
)

// Fetcher obtains a snapshot of one page.
type Fetcher interface {
	// Fetch downloads or renders the page at target and returns its snapshot.
	Fetch(ctx context.Context, target string) (*model.PageSnapshot, error)
}

// StaticFetcher performs a plain HTTP GET without executing scripts.
type StaticFetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
	cookie      string
	headers     map[string]string
}

// StaticOption configures a StaticFetcher.
type StaticOption func(*StaticFetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) StaticOption {
	return func(f *StaticFetcher) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) StaticOption {
	return func(f *StaticFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits the response body in bytes.
func WithMaxBodySize(n int64) StaticOption {
	return func(f *StaticFetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithCookie sets a Cookie header for hosts that gate their quiz pages.
func WithCookie(cookie string) StaticOption {
	return func(f *StaticFetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets additional request headers.
func WithHeaders(headers map[string]string) StaticOption {
	return func(f *StaticFetcher) {
		f.headers = headers
	}
}

// NewStatic creates a StaticFetcher.
func NewStatic(opts ...StaticOption) *StaticFetcher {
	f := &StaticFetcher{
		httpClient:  http.DefaultClient,
		maxBodySize: 5 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the page. The snapshot's URL is the final URL after
// redirects, not the requested one; all later URL resolution and query
// parameter extraction happens against it.
func (f *StaticFetcher) Fetch(ctx context.Context, target string) (*model.PageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	return &model.PageSnapshot{
		HTML:      string(body),
		URL:       resp.Request.URL.String(),
		Method:    model.FetchStatic,
		FetchedAt: time.Now(),
	}, nil
}
