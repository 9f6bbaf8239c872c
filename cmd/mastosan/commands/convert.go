package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/mastosan/internal/logger"
	"github.com/jmylchreest/mastosan/internal/output"
	"github.com/jmylchreest/mastosan/pkg/cleaner"
	"github.com/jmylchreest/mastosan/pkg/cleaner/mastosan"
	"github.com/jmylchreest/mastosan/pkg/fetcher"
)

// errStreamPostProcess is returned when --stream is combined with a
// post-processing stage that needs the whole result.
var errStreamPostProcess = errors.New("--stream cannot be combined with --trim or --wrap")

func newConvertCmd(a *app) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "convert [file|url|-]...",
		Short: "Convert HTML from files, URLs or stdin",
		Long: `Convert HTML documents in one of the output modes.

Inputs are file paths, http(s) URLs, or "-" for stdin (the default when no
input is given). Results are written in input order. Output is held back
until every input converted successfully unless --stream is set.

Examples:
  mastosan convert -m slack status.html
  curl -s https://example.social/api/v1/statuses/1 | jq -r .content | mastosan convert -m markdown
  mastosan convert -m text --trim -o out.txt a.html b.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd, a.v.GetString("mode"), args, outputPath)
		},
	}

	flags := cmd.Flags()
	flags.StringP("mode", "m", string(mastosan.ModeText), "output mode: text, markdown, slack")
	flags.StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	_ = a.v.BindPFlag("mode", flags.Lookup("mode"))

	return cmd
}

// settings is the resolved configuration of one conversion run.
type settings struct {
	config    mastosan.Config
	trim      bool
	wrap      int
	stream    bool
	report    output.Format
	timeout   time.Duration
	userAgent string
}

func (a *app) settings(modeName string) (*settings, error) {
	mode, err := mastosan.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	chunkSize, err := parseSize(a.v.GetString("chunk_size"))
	if err != nil {
		return nil, fmt.Errorf("invalid chunk-size: %w", err)
	}
	maxInput, err := parseSize(a.v.GetString("max_input_size"))
	if err != nil {
		return nil, fmt.Errorf("invalid max-input-size: %w", err)
	}

	s := &settings{
		config: mastosan.Config{
			Mode:         mode,
			ChunkSize:    int(chunkSize),
			MaxInputSize: int64(maxInput),
		},
		trim:      a.v.GetBool("trim"),
		wrap:      a.v.GetInt("wrap"),
		stream:    a.v.GetBool("stream"),
		timeout:   a.v.GetDuration("timeout"),
		userAgent: a.v.GetString("user_agent"),
	}
	if r := a.v.GetString("report"); r != "" {
		if s.report, err = output.ParseFormat(r); err != nil {
			return nil, err
		}
	}
	if s.wrap < 0 {
		s.wrap = terminalWidth(80)
	}
	if s.stream && (s.trim || s.wrap > 0) {
		return nil, errStreamPostProcess
	}
	return s, nil
}

// postProcess returns the stages applied to each buffered result.
func (s *settings) postProcess() *cleaner.ChainCleaner {
	var stages []cleaner.Cleaner
	if s.trim {
		stages = append(stages, cleaner.NewTrim())
	}
	if s.wrap > 0 {
		stages = append(stages, cleaner.NewWrap(s.wrap))
	}
	return cleaner.NewChain(stages...)
}

// convert runs one conversion per input. In buffered mode nothing reaches
// the output unless every input succeeded.
func (a *app) convert(cmd *cobra.Command, modeName string, inputs []string, outputPath string) error {
	s, err := a.settings(modeName)
	if err != nil {
		return err
	}
	conv, err := mastosan.New(&s.config)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	ctx := cmd.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var reports output.Writer
	if s.report != "" {
		if reports, err = output.NewWriter(cmd.ErrOrStderr(), s.report); err != nil {
			return err
		}
		defer reports.Close()
	}

	out := cmd.OutOrStdout()
	if s.stream && outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	post := s.postProcess()
	logger.Debug("converting",
		"mode", s.config.Mode,
		"inputs", len(inputs),
		"stream", s.stream,
		"post", post.Name())

	var results bytes.Buffer
	for _, source := range inputs {
		var (
			stats *mastosan.Stats
			err   error
		)
		if s.stream {
			stats, err = a.streamOne(ctx, cmd, conv, s, source, out)
		} else {
			var text string
			text, stats, err = a.convertOne(ctx, cmd, conv, s, source, post)
			if err == nil {
				results.WriteString(text)
				if s.trim {
					results.WriteByte('\n')
				}
			}
		}

		if reports != nil {
			if rerr := reports.Write(output.NewReport(source, stats, err)); rerr != nil {
				return fmt.Errorf("write report: %w", rerr)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", displayName(source), err)
		}
		if stats != nil {
			logger.Debug("input converted", "source", displayName(source), "stats", stats.String())
		}
	}

	if s.stream {
		return nil
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, results.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("output written", "path", outputPath, "size", humanize.Bytes(uint64(results.Len())))
		return nil
	}
	_, err = out.Write(results.Bytes())
	return err
}

func (a *app) convertOne(ctx context.Context, cmd *cobra.Command, conv *mastosan.Cleaner, s *settings, source string, post cleaner.Cleaner) (string, *mastosan.Stats, error) {
	r, err := openInput(ctx, cmd, s, source)
	if err != nil {
		return "", nil, err
	}
	defer r.Close()

	var buf bytes.Buffer
	stats, err := conv.Stream(ctx, r, &buf)
	if err != nil {
		return "", stats, err
	}
	text, err := post.Clean(buf.String())
	return text, stats, err
}

func (a *app) streamOne(ctx context.Context, cmd *cobra.Command, conv *mastosan.Cleaner, s *settings, source string, out io.Writer) (*mastosan.Stats, error) {
	r, err := openInput(ctx, cmd, s, source)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return conv.Stream(ctx, r, out)
}

// openInput opens a file, stdin ("-") or a URL.
func openInput(ctx context.Context, cmd *cobra.Command, s *settings, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return io.NopCloser(cmd.InOrStdin()), nil
	case fetcher.IsURL(source):
		f := fetcher.NewStatic(fetchConfig(s))
		defer f.Close()
		content, err := f.Fetch(ctx, source, fetcher.Options{})
		if errors.Is(err, fetcher.ErrBodyTooLarge) {
			return nil, fmt.Errorf("%w: %w", mastosan.ErrInputTooLarge, err)
		}
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(content.Body)), nil
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return f, nil
	}
}

// fetchConfig caps downloads at the input limit. With no input limit the
// download is unbounded too.
func fetchConfig(s *settings) fetcher.StaticConfig {
	cfg := fetcher.StaticConfig{UserAgent: s.userAgent, Timeout: s.timeout, MaxBodySize: -1}
	if s.config.MaxInputSize > 0 {
		cfg.MaxBodySize = s.config.MaxInputSize
	}
	return cfg
}

func displayName(source string) string {
	if source == "-" {
		return "stdin"
	}
	return source
}

// parseSize accepts human sizes such as "64KB" or "1MiB". Empty and "0"
// mean zero.
func parseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	return humanize.ParseBytes(s)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		var w int
		if _, err := fmt.Sscanf(value, "%d", &w); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}
