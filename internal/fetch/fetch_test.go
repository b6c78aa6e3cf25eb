package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quizscan/quizscan/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestStaticFetch tests a plain GET with headers and body limits.
func TestStaticFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "quizscan-test" {
			t.Errorf("expected custom user agent, got %q", ua)
		}
		if cookie := r.Header.Get("Cookie"); cookie != "session=abc" {
			t.Errorf("expected cookie header, got %q", cookie)
		}
		_, _ = w.Write([]byte("<html><body>quiz page</body></html>"))
	}))
	defer server.Close()

	f := NewStatic(
		WithUserAgent("quizscan-test"),
		WithCookie("session=abc"),
	)

	snapshot, err := f.Fetch(context.Background(), server.URL+"/page?email=a%40b.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.Method != model.FetchStatic {
		t.Errorf("expected static method, got %q", snapshot.Method)
	}
	if !strings.Contains(snapshot.HTML, "quiz page") {
		t.Errorf("unexpected HTML %q", snapshot.HTML)
	}
	if !strings.Contains(snapshot.URL, "email=a%40b.c") {
		t.Errorf("expected final URL to keep query, got %q", snapshot.URL)
	}
	if snapshot.FetchedAt.IsZero() {
		t.Error("expected fetch timestamp")
	}
}

// TestStaticFetchFollowsRedirects tests that the snapshot records the
// final URL, not the requested one.
func TestStaticFetchFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final?email=user%40example.com", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>arrived</html>"))
	})

	snapshot, err := NewStatic().Fetch(context.Background(), server.URL+"/start")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(snapshot.URL, "/final?email=user%40example.com") {
		t.Errorf("expected final URL after redirect, got %q", snapshot.URL)
	}
}

// TestStaticFetchErrorStatus tests the fatal fetch error on non-2xx.
func TestStaticFetchErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewStatic().Fetch(context.Background(), server.URL)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if ferr.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 in error, got %d", ferr.StatusCode)
	}
}

// TestStaticFetchBodyLimit tests response truncation.
func TestStaticFetchBodyLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
	}))
	defer server.Close()

	snapshot, err := NewStatic(WithMaxBodySize(100)).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.HTML) != 100 {
		t.Errorf("expected truncated body of 100 bytes, got %d", len(snapshot.HTML))
	}
}

// stubFetcher returns a canned snapshot or error.
type stubFetcher struct {
	snapshot *model.PageSnapshot
	err      error
	calls    int
}

func (s *stubFetcher) Fetch(context.Context, string) (*model.PageSnapshot, error) {
	s.calls++
	return s.snapshot, s.err
}

// TestAutoFetch tests static-first behavior with dynamic fallback.
func TestAutoFetch(t *testing.T) {
	t.Parallel()

	t.Run("static page needs no rendering", func(t *testing.T) {
		t.Parallel()

		static := &stubFetcher{snapshot: &model.PageSnapshot{
			HTML:   "<html><body><p>" + strings.Repeat("real visible quiz content ", 10) + "</p></body></html>",
			Method: model.FetchStatic,
		}}
		browser := &stubFetcher{}

		snapshot, err := NewAuto(static, browser, testLogger()).Fetch(context.Background(), "https://quiz.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snapshot.Method != model.FetchStatic {
			t.Errorf("expected static snapshot, got %q", snapshot.Method)
		}
		if browser.calls != 0 {
			t.Errorf("expected no browser fetch, got %d", browser.calls)
		}
	})

	t.Run("app shell falls back to browser", func(t *testing.T) {
		t.Parallel()

		static := &stubFetcher{snapshot: &model.PageSnapshot{
			HTML:   `<html><body><div id="root"></div><script src="app.js"></script></body></html>`,
			Method: model.FetchStatic,
		}}
		browser := &stubFetcher{snapshot: &model.PageSnapshot{
			HTML:   "<html><body><p>rendered instructions</p></body></html>",
			Method: model.FetchDynamic,
		}}

		snapshot, err := NewAuto(static, browser, testLogger()).Fetch(context.Background(), "https://quiz.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snapshot.Method != model.FetchDynamic {
			t.Errorf("expected rendered snapshot, got %q", snapshot.Method)
		}
		if browser.calls != 1 {
			t.Errorf("expected one browser fetch, got %d", browser.calls)
		}
	})

	t.Run("render failure degrades to static snapshot", func(t *testing.T) {
		t.Parallel()

		static := &stubFetcher{snapshot: &model.PageSnapshot{
			HTML:   `<html><body><div id="app"></div><script>boot()</script></body></html>`,
			Method: model.FetchStatic,
		}}
		browser := &stubFetcher{err: errors.New("no chromium")}

		snapshot, err := NewAuto(static, browser, testLogger()).Fetch(context.Background(), "https://quiz.example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snapshot.Method != model.FetchStatic {
			t.Errorf("expected static fallback, got %q", snapshot.Method)
		}
	})
}

// TestLooksDynamic tests the application-shell heuristic.
func TestLooksDynamic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "react shell",
			html: `<html><body><div id="root"></div><script src="/static/app.js"></script></body></html>`,
			want: true,
		},
		{
			name: "next data blob",
			html: `<html><body><script id="__NEXT_DATA__" type="application/json">{}</script></body></html>`,
			want: true,
		},
		{
			name: "near empty body with scripts",
			html: `<html><body>loading<script>boot()</script></body></html>`,
			want: true,
		},
		{
			name: "real static content",
			html: "<html><body><p>" + strings.Repeat("plenty of visible instructions here ", 10) + "</p></body></html>",
			want: false,
		},
		{
			name: "framework marker with full content",
			html: `<html><body><div id="app">` + strings.Repeat("rendered server side content ", 10) + `</div></body></html>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := LooksDynamic(tt.html); got != tt.want {
				t.Errorf("LooksDynamic = %v, want %v", got, tt.want)
			}
		})
	}
}
