// Package commands implements the CLI commands for mastosan.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/mastosan/internal/logger"
)

// errUsage is returned when the root command runs without a mode.
var errUsage = errors.New("usage: mastosan [markdown|slackdown|text]")

// app carries the state shared by all commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "mastosan [text|markdown|slackdown]",
		Short: "Convert Mastodon HTML into plain text, Markdown or Slack markdown",
		Long: `Mastosan rewrites the HTML of Mastodon posts into plain text, Markdown
or Slack-flavored markdown ("slackdown") in a single streaming pass.

Examples:
  # The classic form: HTML on stdin, converted text on stdout
  mastosan slackdown < status.html

  # Convert files and URLs, trimming and wrapping the result
  mastosan convert -m markdown --trim --wrap 72 post.html https://example.social/@user/1

  # Emit a machine-readable report of every conversion on stderr
  mastosan convert -m text --report jsonl *.html`,
		ValidArgs:     []string{"text", "markdown", "slackdown", "slack", "plain"},
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errUsage
			}
			return a.convert(cmd, args[0], nil, "")
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.mastosan.yaml)")
	pf.Bool("debug", false, "enable debug logging")
	pf.BoolP("quiet", "q", false, "only log errors")
	pf.Bool("log-json", false, "log as JSON")

	// Conversion flags, shared by the positional form and convert
	pf.Bool("trim", false, "trim surrounding whitespace from each result")
	pf.Int("wrap", 0, "word-wrap output at this width (0=off, -1=terminal width)")
	pf.Bool("stream", false, "write output as it is produced; partial output may precede an error")
	pf.String("chunk-size", "32KiB", "bytes fed to the rewriter per step (e.g. 4KB, 1MiB)")
	pf.String("max-input-size", "0", "reject inputs larger than this (e.g. 500KB, 0=unlimited)")
	pf.String("report", "", "write a per-input report to stderr: json, jsonl, yaml")
	pf.Duration("timeout", 0, "overall timeout for fetching and converting (0=none)")
	pf.String("user-agent", "", "User-Agent header for URL inputs")

	for key, flag := range map[string]string{
		"debug":          "debug",
		"quiet":          "quiet",
		"log_json":       "log-json",
		"trim":           "trim",
		"wrap":           "wrap",
		"stream":         "stream",
		"chunk_size":     "chunk-size",
		"max_input_size": "max-input-size",
		"report":         "report",
		"timeout":        "timeout",
		"user_agent":     "user-agent",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(newConvertCmd(a), newVersionCmd())
	return rootCmd
}

// initConfig loads the config file and environment, then sets up logging.
func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName(".mastosan")
		a.v.SetConfigType("yaml")
	}

	// Environment variables
	a.v.SetEnvPrefix("MASTOSAN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	// A missing default config file is fine; an explicit one must exist.
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	logger.Init(logger.Options{
		Debug:  a.v.GetBool("debug"),
		Quiet:  a.v.GetBool("quiet"),
		JSON:   a.v.GetBool("log_json"),
		Output: cmd.ErrOrStderr(),
	})
	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "path", used)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Error("mastosan failed", "error", err, "elapsed", time.Since(start).Round(time.Millisecond))
		return err
	}
	return nil
}
