package rewriter_test

import (
	"fmt"

	"github.com/jmylchreest/mastosan/pkg/rewriter"
)

func Example() {
	var out rewriter.Buffer
	rw, err := rewriter.New([]rewriter.Rule{
		rewriter.MustRule("span", func(el *rewriter.Element) error {
			el.RemoveAndKeepContent()
			return nil
		}),
		rewriter.MustRule("a[href]", func(el *rewriter.Element) error {
			href, err := el.Attr("href")
			if err != nil {
				return err
			}
			el.Prepend("[")
			el.Append("](" + href + ")")
			el.RemoveAndKeepContent()
			return nil
		}),
	}, &out)
	if err != nil {
		panic(err)
	}

	// Chunks may split tags anywhere.
	for _, chunk := range []string{`<a href="https://example.com"><sp`, `an>docs</span></a>`} {
		if _, err := rw.Write([]byte(chunk)); err != nil {
			panic(err)
		}
	}
	if err := rw.End(); err != nil {
		panic(err)
	}
	fmt.Println(out.String())
	// Output: [docs](https://example.com)
}
