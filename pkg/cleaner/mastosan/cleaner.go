package mastosan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmylchreest/mastosan/internal/logger"
	"github.com/jmylchreest/mastosan/pkg/rewriter"
)

// Cleaner converts HTML in one of the Modes.
// It implements the cleaner.Cleaner interface and is safe for concurrent
// use: every conversion runs its own rewriter.
type Cleaner struct {
	config Config
	rules  []rewriter.Rule
}

// New creates a Cleaner with the given configuration.
// If config is nil, DefaultConfig() is used. The mode is resolved here, so
// an unknown mode fails before any input is read.
func New(config *Config) (*Cleaner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := Rules(cfg.Mode)
	if err != nil {
		return nil, err
	}
	return &Cleaner{config: cfg, rules: rules}, nil
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "mastosan:" + string(c.config.Mode)
}

// Mode returns the resolved output mode.
func (c *Cleaner) Mode() Mode {
	return c.config.Mode
}

// Clean converts html and returns the result.
// This method implements the cleaner.Cleaner interface.
func (c *Cleaner) Clean(html string) (string, error) {
	result := c.CleanWithStats(context.Background(), html)
	if result.Err != nil {
		return "", result.Err
	}
	return result.Content, nil
}

// CleanWithStats converts html and returns the content with stats.
func (c *Cleaner) CleanWithStats(ctx context.Context, html string) *Result {
	var out rewriter.Buffer
	stats, err := c.Convert(ctx, strings.NewReader(html), &out)
	if err != nil {
		return &Result{Stats: stats, Err: err}
	}
	return &Result{Content: out.String(), Stats: stats}
}

// Convert reads HTML from r in chunks and sends the output to sink.
// With a rewriter.Buffer sink nothing is visible until the whole input has
// been converted; with rewriter.WriterSink output streams as it is produced
// and may be followed by an error. ctx is checked between chunks.
func (c *Cleaner) Convert(ctx context.Context, r io.Reader, sink rewriter.Sink) (*Stats, error) {
	start := time.Now()
	stats := &Stats{Mode: c.config.Mode}

	rw, err := rewriter.New(c.rules, sink)
	if err != nil {
		return stats, err
	}

	err = c.feed(ctx, rw, r)
	if err == nil {
		err = rw.End()
	}
	stats.Stats = rw.Stats()
	stats.Duration = time.Since(start)

	if err != nil {
		logger.DebugContext(ctx, "conversion failed",
			"mode", c.config.Mode,
			"input_bytes", stats.InputBytes,
			"error", err)
		return stats, fmt.Errorf("convert %s: %w", c.config.Mode, err)
	}

	logger.DebugContext(ctx, "conversion complete",
		"mode", c.config.Mode,
		"input_bytes", stats.InputBytes,
		"output_bytes", stats.OutputBytes,
		"rewrites", stats.TotalRewrites(),
		"duration", stats.Duration)
	return stats, nil
}

// Stream converts HTML from r and writes output to w as it is produced.
// On error, output already written for the valid prefix stays in w.
func (c *Cleaner) Stream(ctx context.Context, r io.Reader, w io.Writer) (*Stats, error) {
	return c.Convert(ctx, r, rewriter.WriterSink(w))
}

func (c *Cleaner) feed(ctx context.Context, rw *rewriter.Rewriter, r io.Reader) error {
	size := c.config.ChunkSize
	if size <= 0 {
		size = rewriter.DefaultChunkSize
	}
	buf := make([]byte, size)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if c.config.MaxInputSize > 0 && total > c.config.MaxInputSize {
				return fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, c.config.MaxInputSize)
			}
			if _, werr := rw.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}
