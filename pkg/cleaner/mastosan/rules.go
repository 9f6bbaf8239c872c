package mastosan

import (
	"github.com/jmylchreest/mastosan/pkg/rewriter"
)

// paragraphBreak is what <p> and <br> turn into.
const paragraphBreak = "\n\n"

// Rules returns the rewrite rules for mode. span, p and br are handled the
// same way in every mode; only links differ.
//
// Markdown and slack select every <a>, so an anchor without href fails with
// rewriter.ErrMissingExpectedAttribute instead of leaking raw HTML into the
// output. Text mode only needs the link text and selects a[href].
func Rules(mode Mode) ([]rewriter.Rule, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	return []rewriter.Rule{
		rewriter.MustRule("span", unwrap),
		rewriter.MustRule("p", breakAfter),
		rewriter.MustRule("br", breakAfter),
		rewriter.MustRule(linkSelector(mode), linkHandler(mode)),
	}, nil
}

func linkSelector(mode Mode) string {
	if mode == ModeText {
		return "a[href]"
	}
	return "a"
}

func unwrap(el *rewriter.Element) error {
	el.RemoveAndKeepContent()
	return nil
}

func breakAfter(el *rewriter.Element) error {
	el.Append(paragraphBreak)
	el.RemoveAndKeepContent()
	return nil
}

func linkHandler(mode Mode) rewriter.Handler {
	if mode == ModeText {
		return unwrap
	}
	return func(el *rewriter.Element) error {
		href, err := el.Attr("href")
		if err != nil {
			return err
		}
		switch mode {
		case ModeMarkdown:
			el.Prepend("[")
			el.Append("](" + href + ")")
		case ModeSlack:
			el.Prepend("<" + href + "|")
			el.Append(">")
		}
		el.RemoveAndKeepContent()
		return nil
	}
}
