// Package mastosan converts Mastodon-flavored HTML into plain text,
// Markdown or Slack-flavored markdown ("slackdown").
//
// Conversion is a single streaming pass of the rewriter package with a small
// fixed rule set: <span> is unwrapped, <p> and <br> become paragraph breaks
// and <a href> becomes a link in the syntax of the selected Mode.
package mastosan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode selects the output flavor.
type Mode string

const (
	// ModeText drops links, keeping their text.
	ModeText Mode = "text"
	// ModeMarkdown renders links as [text](href).
	ModeMarkdown Mode = "markdown"
	// ModeSlack renders links as <href|text>.
	ModeSlack Mode = "slack"
)

// Modes returns the supported modes in display order.
func Modes() []Mode {
	return []Mode{ModeText, ModeMarkdown, ModeSlack}
}

// Error types for distinguishing failure reasons.
var (
	// ErrUnknownMode is returned when a mode name is not one of Modes.
	ErrUnknownMode = errors.New("mastosan: unknown mode")

	// ErrInvalidConfig is returned when Config validation fails.
	ErrInvalidConfig = errors.New("mastosan: invalid config")

	// ErrInputTooLarge is returned when input exceeds Config.MaxInputSize.
	ErrInputTooLarge = errors.New("mastosan: input size exceeds maximum")
)

// ParseMode resolves a mode name. Besides the canonical names it accepts
// "plain" and "plain-text" for text, "md" for markdown and "slackdown"
// for slack.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "plain", "plain-text", "plaintext":
		return ModeText, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	case "slack", "slackdown":
		return ModeSlack, nil
	}
	return "", fmt.Errorf("%w: %q (want text, markdown or slack)", ErrUnknownMode, s)
}

// Config defines the options of a Cleaner.
type Config struct {
	// Mode is the output flavor. Aliases accepted by ParseMode are allowed.
	Mode Mode `json:"mode" yaml:"mode" validate:"required"`

	// ChunkSize is the number of bytes fed to the rewriter per step when
	// reading from an io.Reader. Zero uses the rewriter default.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" validate:"gte=0,lte=67108864"`

	// MaxInputSize rejects inputs larger than this many bytes. Zero means
	// unlimited.
	MaxInputSize int64 `json:"max_input_size" yaml:"max_input_size" validate:"gte=0"`
}

// DefaultConfig returns a text-mode configuration without an input limit.
func DefaultConfig() *Config {
	return &Config{
		Mode:      ModeText,
		ChunkSize: 32 * 1024,
	}
}

// PresetMarkdown returns the default configuration in markdown mode.
func PresetMarkdown() *Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeMarkdown
	return cfg
}

// PresetSlack returns the default configuration in slack mode.
func PresetSlack() *Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeSlack
	return cfg
}

var validate = validator.New()

// Validate checks the configuration and normalizes Mode to its canonical
// name. An unknown or empty mode is reported as ErrUnknownMode.
func (c *Config) Validate() error {
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	err = validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatValidationError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag())
	}
}
