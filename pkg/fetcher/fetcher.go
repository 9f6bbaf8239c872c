// Package fetcher retrieves raw HTML documents so they can be converted
// from a URL instead of a file or stdin.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts document retrieval.
type Fetcher interface {
	// Fetch retrieves the document at url.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources.
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static").
	Type() string
}

// Options controls a single fetch. Zero values fall back to the fetcher's
// configuration. A negative MaxBodySize removes the body limit.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	Headers     map[string]string
	MaxBodySize int64
}

// Content is a fetched document. Body holds the response bytes unchanged;
// markup is not parsed or decoded here.
type Content struct {
	URL         string
	Body        []byte
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Error types for distinguishing failure reasons.
var (
	// ErrHTTPStatus indicates a non-success response.
	ErrHTTPStatus = errors.New("fetcher: unexpected HTTP status")
	// ErrUnsupportedContentType indicates a response that is not markup or text.
	ErrUnsupportedContentType = errors.New("fetcher: unsupported content type")
	// ErrBodyTooLarge indicates a response body over the configured limit.
	ErrBodyTooLarge = errors.New("fetcher: response body too large")
)
