// Package cleaner provides interfaces and implementations for cleaning
// converted content. The mastosan subpackage turns HTML into text; the
// cleaners here post-process that text and can be composed with NewChain.
package cleaner

// Cleaner transforms content into a cleaner format.
type Cleaner interface {
	// Clean transforms the input.
	// The output format depends on the implementation (markdown, plain text, etc.).
	Clean(content string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
