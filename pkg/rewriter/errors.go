package rewriter

import (
	"errors"
	"fmt"
)

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, rewriter.ErrMalformedMarkup).
var (
	// ErrMalformedMarkup indicates a tag or comment that cannot be closed
	// before end of input, or a '<' that does not start valid markup.
	ErrMalformedMarkup = errors.New("rewriter: malformed markup")

	// ErrMissingExpectedAttribute indicates a handler asked for an attribute
	// the element does not carry.
	ErrMissingExpectedAttribute = errors.New("rewriter: missing expected attribute")

	// ErrInvalidSelector is returned when a selector string cannot be parsed.
	ErrInvalidSelector = errors.New("rewriter: invalid selector")

	// ErrNeedMore is returned by Tokenizer.Next when the buffered input ends
	// in the middle of a construct and more chunks are expected.
	ErrNeedMore = errors.New("rewriter: need more input")

	// ErrEnded is returned when writing to a rewriter after End.
	ErrEnded = errors.New("rewriter: write after end")
)

// SyntaxError describes malformed markup and where it was found.
// It matches ErrMalformedMarkup with errors.Is.
type SyntaxError struct {
	Offset int64  // byte offset of the construct in the logical input
	Msg    string // what went wrong
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrMalformedMarkup, e.Offset, e.Msg)
}

// Is reports whether target is ErrMalformedMarkup.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedMarkup
}

// AttributeError reports an attribute a rule required but did not find.
type AttributeError struct {
	Tag    string
	Attr   string
	Offset int64
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: <%s> at offset %d has no %q attribute",
		ErrMissingExpectedAttribute, e.Tag, e.Offset, e.Attr)
}

// Unwrap returns ErrMissingExpectedAttribute.
func (e *AttributeError) Unwrap() error {
	return ErrMissingExpectedAttribute
}
