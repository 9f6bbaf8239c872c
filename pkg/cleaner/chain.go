package cleaner

import (
	"fmt"
	"strings"
)

// ChainCleaner applies multiple cleaners in sequence.
// This allows composing cleaners for multi-stage processing.
type ChainCleaner struct {
	cleaners []Cleaner
}

// NewChain creates a new cleaner that applies multiple cleaners in sequence.
// Cleaners are applied in the order provided.
//
// Example:
//
//	md, _ := mastosan.New(mastosan.PresetMarkdown())
//	chain := cleaner.NewChain(md, cleaner.NewTrim(), cleaner.NewWrap(72))
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	return &ChainCleaner{
		cleaners: cleaners,
	}
}

// Clean applies all cleaners in sequence. The first failing stage stops the
// chain and its error is returned prefixed with the stage name.
func (c *ChainCleaner) Clean(content string) (string, error) {
	var err error
	for _, cleaner := range c.cleaners {
		content, err = cleaner.Clean(content)
		if err != nil {
			return "", fmt.Errorf("%s: %w", cleaner.Name(), err)
		}
	}
	return content, nil
}

// Len returns the number of stages.
func (c *ChainCleaner) Len() int {
	return len(c.cleaners)
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.cleaners))
	for i, cleaner := range c.cleaners {
		names[i] = cleaner.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
