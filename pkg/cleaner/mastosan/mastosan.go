package mastosan

import (
	"context"
	"strings"
)

// Convert converts html in the given mode and trims surrounding whitespace
// from the result.
func Convert(ctx context.Context, mode Mode, html string) (string, error) {
	c, err := New(&Config{Mode: mode})
	if err != nil {
		return "", err
	}
	result := c.CleanWithStats(ctx, html)
	if result.Err != nil {
		return "", result.Err
	}
	return strings.TrimSpace(result.Content), nil
}

// Slackdown converts a string full of HTML text to slack-flavored markdown.
func Slackdown(ctx context.Context, html string) (string, error) {
	return Convert(ctx, ModeSlack, html)
}

// Text converts a string with HTML content into an approximation of plain text.
func Text(ctx context.Context, html string) (string, error) {
	return Convert(ctx, ModeText, html)
}

// Markdown converts a string with HTML content into generic markdown.
func Markdown(ctx context.Context, html string) (string, error) {
	return Convert(ctx, ModeMarkdown, html)
}
