// Package rewriter is a streaming HTML rewriter.
//
// Input is fed in chunks to a Rewriter, which tokenizes it in a single
// forward pass without building a tree. Start tags are matched against an
// ordered set of Rules ("span", "a[href]", ...). A matched element's Handler
// may drop the element's own tags while keeping its content, and may insert
// literal text before and after that content. Everything else is copied to
// the Sink byte for byte.
//
//	var out rewriter.Buffer
//	rw, err := rewriter.New([]rewriter.Rule{
//		rewriter.MustRule("span", func(el *rewriter.Element) error {
//			el.RemoveAndKeepContent()
//			return nil
//		}),
//	}, &out)
//	if err != nil {
//		return err
//	}
//	if _, err := rw.Write(input); err != nil {
//		return err
//	}
//	if err := rw.End(); err != nil {
//		return err
//	}
//	fmt.Print(out.String())
//
// The tokenizer is deliberately small: raw text elements (script, style),
// foreign content and character references are not interpreted.
package rewriter
