package rewriter

import "maps"

// Stats counts what a Rewriter has done.
type Stats struct {
	InputBytes  int64          `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int64          `json:"output_bytes" yaml:"output_bytes"`
	Chunks      int            `json:"chunks" yaml:"chunks"`
	Tokens      map[string]int `json:"tokens" yaml:"tokens"`     // token kind -> count
	Rewrites    map[string]int `json:"rewrites" yaml:"rewrites"` // selector -> elements handled
}

func newStats() Stats {
	return Stats{
		Tokens:   make(map[string]int),
		Rewrites: make(map[string]int),
	}
}

func (s Stats) clone() Stats {
	s.Tokens = maps.Clone(s.Tokens)
	s.Rewrites = maps.Clone(s.Rewrites)
	return s
}

// TotalRewrites returns the number of elements handled by any rule.
func (s Stats) TotalRewrites() int {
	total := 0
	for _, n := range s.Rewrites {
		total += n
	}
	return total
}
