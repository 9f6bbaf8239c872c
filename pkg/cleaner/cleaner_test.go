package cleaner

import (
	"errors"
	"strings"
	"testing"
)

// upperCleaner is a test cleaner that upper-cases its input.
type upperCleaner struct{}

func (c *upperCleaner) Clean(content string) (string, error) {
	return strings.ToUpper(content), nil
}

func (c *upperCleaner) Name() string {
	return "upper"
}

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

var errTest = errors.New("test error")

func (c *errorCleaner) Clean(string) (string, error) {
	return "", errTest
}

func (c *errorCleaner) Name() string {
	return "error"
}

// --- TrimCleaner Tests ---

func TestTrimCleaner_Clean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty_string", "", ""},
		{"paragraph_breaks", "hello\n\nworld\n\n", "hello\n\nworld"},
		{"leading_space", "  \n\thi", "hi"},
		{"whitespace_only", "  \n\t  ", ""},
	}

	c := NewTrim()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Clean(tt.input)
			if err != nil {
				t.Errorf("Clean() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- WrapCleaner Tests ---

func TestWrapCleaner_Clean(t *testing.T) {
	tests := []struct {
		name  string
		width int
		input string
		want  string
	}{
		{"disabled", 0, "a b c d e f", "a b c d e f"},
		{"wraps_words", 5, "aaa bbb ccc", "aaa\nbbb\nccc"},
		{"keeps_breaks", 20, "one\n\ntwo", "one\n\ntwo"},
		{"long_url_kept_whole", 10, "see https://example.com/long/path now", "see\nhttps://example.com/long/path\nnow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewWrap(tt.width).Clean(tt.input)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapCleaner_Name(t *testing.T) {
	if got := NewWrap(72).Name(); got != "wrap(72)" {
		t.Errorf("Name() = %q, want %q", got, "wrap(72)")
	}
}

// --- ChainCleaner Tests ---

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestChainCleaner_Order(t *testing.T) {
	c := NewChain(NewTrim(), &upperCleaner{}, NewWrap(3))

	got, err := c.Clean("  ab cd\n\n")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "AB\nCD" {
		t.Errorf("Clean() = %q, want %q", got, "AB\nCD")
	}
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewTrim(), &errorCleaner{}, &upperCleaner{})

	_, err := c.Clean("test")
	if !errors.Is(err, errTest) {
		t.Fatalf("expected errTest, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "error: ") {
		t.Errorf("expected error prefixed with stage name, got %v", err)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewTrim()}, "chain(trim)"},
		{"double", []Cleaner{NewTrim(), NewWrap(40)}, "chain(trim->wrap(40))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
