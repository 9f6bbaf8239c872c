package rewriter

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/atom"
)

// voidElements never have an end tag, so their appended text is emitted
// right after the start tag.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

func isVoid(name string) bool {
	return voidElements[atom.Lookup([]byte(name))]
}

// frame is an open element whose end tag the rewriter is waiting for.
type frame struct {
	name    string
	matched bool // false for watched tags no rule selected
	removed bool
	after   []byte
	offset  int64
}

// Rewriter applies a rule set to a stream of HTML chunks.
// A Rewriter is not safe for concurrent use.
type Rewriter struct {
	tz      *Tokenizer
	matcher *Matcher
	sink    Sink
	stack   []frame
	stats   Stats
	ended   bool
	err     error

	// void tags a handler removed; their stray end tags are dropped too.
	removedVoid map[string]bool
}

// New creates a rewriter that writes its output to sink.
func New(rules []Rule, sink Sink) (*Rewriter, error) {
	if sink == nil {
		return nil, errors.New("rewriter: nil sink")
	}
	m, err := NewMatcher(rules)
	if err != nil {
		return nil, err
	}
	return &Rewriter{
		tz:      NewTokenizer(),
		matcher: m,
		sink:    sink,
		stats:   newStats(),
	}, nil
}

// Write feeds one chunk of input and rewrites every token it completes.
// The first error aborts the pass and is returned by every later call.
func (rw *Rewriter) Write(p []byte) (int, error) {
	if rw.err != nil {
		return 0, rw.err
	}
	if rw.ended {
		return 0, ErrEnded
	}
	rw.stats.InputBytes += int64(len(p))
	rw.stats.Chunks++
	rw.tz.Feed(p)
	if err := rw.drain(); err != nil {
		rw.err = err
		return 0, err
	}
	return len(p), nil
}

// End signals end of input. It fails with ErrMalformedMarkup if the input
// stops inside a tag or comment, or while a matched element is still open.
func (rw *Rewriter) End() error {
	if rw.err != nil {
		return rw.err
	}
	if rw.ended {
		return nil
	}
	rw.ended = true
	rw.tz.Close()
	if err := rw.drain(); err != nil {
		rw.err = err
		return err
	}
	for _, f := range rw.stack {
		if f.matched {
			rw.err = &SyntaxError{Offset: f.offset, Msg: fmt.Sprintf("<%s> is never closed", f.name)}
			return rw.err
		}
	}
	return nil
}

// Stats returns counters for the pass so far.
func (rw *Rewriter) Stats() Stats {
	return rw.stats.clone()
}

func (rw *Rewriter) drain() error {
	for {
		tok, err := rw.tz.Next()
		if errors.Is(err, ErrNeedMore) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		rw.stats.Tokens[tok.Kind.String()]++
		if err := rw.handle(&tok); err != nil {
			return err
		}
	}
}

func (rw *Rewriter) handle(tok *Token) error {
	switch tok.Kind {
	case StartTagToken:
		if rule, ok := rw.matcher.Match(tok); ok {
			return rw.startElement(rule, tok)
		}
		if rw.matcher.Watches(tok.Name) && !tok.SelfClosing && !isVoid(tok.Name) {
			rw.stack = append(rw.stack, frame{name: tok.Name, offset: tok.Offset})
		}
		return rw.emit(tok.Raw)
	case EndTagToken:
		return rw.endElement(tok)
	default:
		return rw.emit(tok.Raw)
	}
}

func (rw *Rewriter) startElement(rule *Rule, tok *Token) error {
	el := &Element{tag: tok.Name, attrs: tok.Attrs, offset: tok.Offset}
	if err := rule.Handler(el); err != nil {
		return fmt.Errorf("%s handler: %w", rule.Selector, err)
	}
	rw.stats.Rewrites[rule.Selector.String()]++

	if !el.removed {
		if err := rw.emit(tok.Raw); err != nil {
			return err
		}
	}
	if err := rw.emit(el.before); err != nil {
		return err
	}
	if tok.SelfClosing || isVoid(tok.Name) {
		if el.removed && isVoid(tok.Name) {
			if rw.removedVoid == nil {
				rw.removedVoid = make(map[string]bool)
			}
			rw.removedVoid[tok.Name] = true
		}
		return rw.emit(el.after)
	}
	rw.stack = append(rw.stack, frame{
		name:    tok.Name,
		matched: true,
		removed: el.removed,
		after:   el.after,
		offset:  tok.Offset,
	})
	return nil
}

func (rw *Rewriter) endElement(tok *Token) error {
	open := -1
	for i := len(rw.stack) - 1; i >= 0; i-- {
		if rw.stack[i].name == tok.Name {
			open = i
			break
		}
	}
	if open < 0 {
		if rw.removedVoid[tok.Name] {
			return nil
		}
		return rw.emit(tok.Raw)
	}

	// Elements opened after the one being closed end here too.
	for len(rw.stack) > open+1 {
		if err := rw.emit(rw.pop().after); err != nil {
			return err
		}
	}
	f := rw.pop()
	if err := rw.emit(f.after); err != nil {
		return err
	}
	if f.removed {
		return nil
	}
	return rw.emit(tok.Raw)
}

func (rw *Rewriter) pop() frame {
	f := rw.stack[len(rw.stack)-1]
	rw.stack = rw.stack[:len(rw.stack)-1]
	return f
}

func (rw *Rewriter) emit(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	rw.stats.OutputBytes += int64(len(p))
	return rw.sink.Append(p)
}

// Rewrite runs rules over everything read from r in chunks of chunkSize
// bytes and returns the result once the whole input succeeded.
func Rewrite(r io.Reader, rules []Rule, chunkSize int) ([]byte, Stats, error) {
	var out Buffer
	rw, err := New(rules, &out)
	if err != nil {
		return nil, Stats{}, err
	}
	if err := Copy(rw, r, chunkSize); err != nil {
		return nil, rw.Stats(), err
	}
	return out.Bytes(), rw.Stats(), nil
}

// Copy feeds r to rw chunk by chunk and ends the pass at EOF.
func Copy(rw *Rewriter, r io.Reader, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := rw.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return rw.End()
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}

// DefaultChunkSize is the read size used by Copy when none is given.
const DefaultChunkSize = 32 * 1024
