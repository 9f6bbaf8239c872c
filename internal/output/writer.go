// Package output writes per-input conversion reports.
//
// Reports go to their own stream (stderr for the CLI) so they never mix with
// converted content.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents report format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats for flag help.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONL, FormatYAML}
}

// ParseFormat resolves a format name. "yml" is accepted for yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported report format: %q", s)
}

// Writer serializes reports.
type Writer interface {
	// Write records the report of one input.
	Write(r *Report) error

	// Flush ensures all buffered reports are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}
