package mastosan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/mastosan/pkg/rewriter"
)

// Stats captures metrics about one conversion.
type Stats struct {
	Mode           Mode `json:"mode" yaml:"mode"`
	rewriter.Stats `yaml:",inline"`

	// Timing
	Duration time.Duration `json:"duration_ns" yaml:"duration"`
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Mode: %s\n", s.Mode))
	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction) in %d chunk(s)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)),
		s.ReductionPercent(), s.Chunks))

	if len(s.Rewrites) > 0 {
		sb.WriteString(fmt.Sprintf("Elements rewritten: %d (%s)\n", s.TotalRewrites(), joinCounts(s.Rewrites)))
	}
	if len(s.Tokens) > 0 {
		sb.WriteString("Tokens: " + joinCounts(s.Tokens) + "\n")
	}

	sb.WriteString(fmt.Sprintf("Timing: total=%v\n", s.Duration.Round(time.Microsecond)))
	return sb.String()
}

// joinCounts formats a count map as "k=v, ..." sorted by key.
func joinCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ", ")
}

// Result contains the output of a conversion.
type Result struct {
	// Content is the converted output. It is empty when Err is set.
	Content string `json:"content"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats"`

	// Err is set when the conversion failed.
	Err error `json:"-"`
}
