package cleaner

import "strings"

// TrimCleaner strips leading and trailing whitespace, the way the mastosan
// convenience functions present their results.
type TrimCleaner struct{}

// NewTrim creates a new trim cleaner.
func NewTrim() *TrimCleaner {
	return &TrimCleaner{}
}

// Clean returns content without surrounding whitespace.
func (c *TrimCleaner) Clean(content string) (string, error) {
	return strings.TrimSpace(content), nil
}

// Name returns the cleaner type.
func (c *TrimCleaner) Name() string {
	return "trim"
}
