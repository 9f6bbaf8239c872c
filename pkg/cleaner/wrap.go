package cleaner

import (
	"strconv"

	"github.com/muesli/reflow/wordwrap"
)

// WrapCleaner word-wraps text to a fixed width. Words longer than the
// width, such as URLs, are never broken.
type WrapCleaner struct {
	width int
}

// NewWrap creates a cleaner that wraps at width columns.
// A width of zero or less disables wrapping.
func NewWrap(width int) *WrapCleaner {
	return &WrapCleaner{width: width}
}

// Clean wraps content. Existing line breaks are kept.
func (c *WrapCleaner) Clean(content string) (string, error) {
	if c.width <= 0 {
		return content, nil
	}
	return wordwrap.String(content, c.width), nil
}

// Name returns the cleaner type.
func (c *WrapCleaner) Name() string {
	return "wrap(" + strconv.Itoa(c.width) + ")"
}
