package fetcher

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/mastosan/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
// MaxBodySize zero selects the default limit; a negative value disables it.
type StaticConfig struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int64
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: 10 * 1024 * 1024,
	}
}

const defaultUserAgent = "mastosan (+https://github.com/jmylchreest/mastosan)"

// StaticFetcher performs a single GET per document with colly.
// It implements the Fetcher interface.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	defaults := DefaultStaticConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = defaults.MaxBodySize
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves the raw document at targetURL.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	userAgent := coalesce(opts.UserAgent, f.config.UserAgent)
	maxBody := opts.MaxBodySize
	if maxBody == 0 {
		maxBody = f.config.MaxBodySize
	}
	// colly truncates silently at its limit, so read one byte past ours
	// to tell a full body from a cut one. Zero is unlimited for colly.
	readLimit := 0
	if maxBody > 0 {
		readLimit = int(maxBody) + 1
	}

	// A new collector per request keeps fetches independent.
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
		colly.MaxBodySize(readLimit),
		colly.AllowURLRevisit(),
	)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)
	logger.Debug("static fetch configured", "url", targetURL, "user_agent", userAgent, "timeout", timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html, application/xhtml+xml;q=0.9, text/plain;q=0.8")
		for k, v := range opts.Headers {
			r.Headers.Set(k, v)
		}
	})

	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.Body = r.Body
		logger.Debug("static fetch response received",
			"status", r.StatusCode,
			"content_type", result.ContentType,
			"body_size", len(r.Body))
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode >= 400 {
			result.StatusCode = r.StatusCode
			fetchErr = fmt.Errorf("%w: %d from %s", ErrHTTPStatus, r.StatusCode, targetURL)
			return
		}
		fetchErr = fmt.Errorf("fetch %s: %w", targetURL, err)
	})

	if err := c.Visit(targetURL); err != nil && fetchErr == nil {
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		logger.Debug("static fetch failed", "url", targetURL, "error", fetchErr)
		return result, fetchErr
	}

	if maxBody > 0 && int64(len(result.Body)) > maxBody {
		result.Body = nil
		return result, fmt.Errorf("%w: more than %d bytes from %s", ErrBodyTooLarge, maxBody, targetURL)
	}

	if !acceptable(result.ContentType) {
		return result, fmt.Errorf("%w: %s", ErrUnsupportedContentType, result.ContentType)
	}

	logger.Debug("static fetch complete", "url", targetURL, "bytes", len(result.Body))
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

// IsURL reports whether s should be fetched rather than opened as a file.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// acceptable allows markup and text responses. A missing Content-Type is
// accepted.
func acceptable(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") || strings.Contains(mt, "html") || strings.HasSuffix(mt, "+xml")
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
