package output

import (
	"errors"

	"github.com/jmylchreest/mastosan/pkg/cleaner/mastosan"
	"github.com/jmylchreest/mastosan/pkg/rewriter"
)

// Status values of a Report.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Report describes the conversion of one input.
type Report struct {
	Source    string          `json:"source" yaml:"source"`
	Status    string          `json:"status" yaml:"status"`
	ErrorKind string          `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty" yaml:"error,omitempty"`
	Stats     *mastosan.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// NewReport builds the report for source. stats may be nil when the input
// could not be opened.
func NewReport(source string, stats *mastosan.Stats, err error) *Report {
	r := &Report{Source: source, Status: StatusOK, Stats: stats}
	if err != nil {
		r.Status = StatusError
		r.ErrorKind = ErrorKind(err)
		r.Error = err.Error()
	}
	return r
}

// ErrorKind classifies err for machine consumers.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, rewriter.ErrMalformedMarkup):
		return "malformed_markup"
	case errors.Is(err, rewriter.ErrMissingExpectedAttribute):
		return "missing_expected_attribute"
	case errors.Is(err, mastosan.ErrUnknownMode):
		return "unknown_mode"
	case errors.Is(err, mastosan.ErrInputTooLarge):
		return "input_too_large"
	default:
		return "other"
	}
}
