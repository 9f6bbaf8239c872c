package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var longBody = "<p>" + strings.Repeat("x", 200) + "</p>"

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Seen-UA", r.UserAgent())
		_, _ = w.Write([]byte(`<p>Hello <span class="h-card"><a href="https://example.social/@bob">@bob</a></span></p>`))
	})
	mux.HandleFunc("/image", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(r.UserAgent() + "|" + r.Header.Get("X-Token")))
	})
	mux.HandleFunc("/long", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(longBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticFetcher_Fetch(t *testing.T) {
	srv := newServer(t)
	f := NewStatic(StaticConfig{})

	got, err := f.Fetch(context.Background(), srv.URL+"/status", Options{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", got.StatusCode)
	}
	want := `<p>Hello <span class="h-card"><a href="https://example.social/@bob">@bob</a></span></p>`
	if string(got.Body) != want {
		t.Errorf("Body = %q, want raw markup %q", got.Body, want)
	}
	if got.FetchedAt.IsZero() {
		t.Error("FetchedAt should be set")
	}
}

func TestStaticFetcher_OptionsOverrideConfig(t *testing.T) {
	srv := newServer(t)
	f := NewStatic(StaticConfig{UserAgent: "config-agent"})

	got, err := f.Fetch(context.Background(), srv.URL+"/ua", Options{
		UserAgent: "option-agent",
		Headers:   map[string]string{"X-Token": "abc"},
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got.Body) != "option-agent|abc" {
		t.Errorf("Body = %q, want option-agent|abc", got.Body)
	}

	got, err = f.Fetch(context.Background(), srv.URL+"/ua", Options{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got.Body) != "config-agent|" {
		t.Errorf("Body = %q, want config-agent|", got.Body)
	}
}

func TestStaticFetcher_Errors(t *testing.T) {
	srv := newServer(t)
	f := NewStatic(StaticConfig{Timeout: 5 * time.Second})

	t.Run("not found", func(t *testing.T) {
		got, err := f.Fetch(context.Background(), srv.URL+"/missing", Options{})
		if !errors.Is(err, ErrHTTPStatus) {
			t.Fatalf("expected ErrHTTPStatus, got %v", err)
		}
		if got.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", got.StatusCode)
		}
	})

	t.Run("binary content", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/image", Options{})
		if !errors.Is(err, ErrUnsupportedContentType) {
			t.Fatalf("expected ErrUnsupportedContentType, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Fetch(ctx, srv.URL+"/status", Options{})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestStaticFetcher_MaxBodySize(t *testing.T) {
	srv := newServer(t)
	size := int64(len(longBody))

	tests := []struct {
		name    string
		config  int64
		option  int64
		wantErr bool
	}{
		{"over limit", size - 1, 0, true},
		{"exactly at limit", size, 0, false},
		{"option overrides config", size - 1, size, false},
		{"negative option is unlimited", 10, -1, false},
		{"negative config is unlimited", -1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewStatic(StaticConfig{MaxBodySize: tt.config})
			got, err := f.Fetch(context.Background(), srv.URL+"/long", Options{MaxBodySize: tt.option})
			if tt.wantErr {
				if !errors.Is(err, ErrBodyTooLarge) {
					t.Fatalf("expected ErrBodyTooLarge, got %v", err)
				}
				if got.Body != nil {
					t.Errorf("Body = %q, want nil for an oversized response", got.Body)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if string(got.Body) != longBody {
				t.Errorf("Body has %d bytes, want %d", len(got.Body), size)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://mastodon.social/@user/1", true},
		{"http://localhost:8080/x", true},
		{"post.html", false},
		{"-", false},
		{"ftp://host/file", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewStatic_Defaults(t *testing.T) {
	f := NewStatic(StaticConfig{})
	d := DefaultStaticConfig()
	if f.config != d {
		t.Errorf("config = %+v, want defaults %+v", f.config, d)
	}
	if f := NewStatic(StaticConfig{MaxBodySize: -1}); f.config.MaxBodySize != -1 {
		t.Errorf("MaxBodySize = %d, want -1 kept as unlimited", f.config.MaxBodySize)
	}
	if f.Type() != "static" {
		t.Errorf("Type() = %q, want static", f.Type())
	}
}
