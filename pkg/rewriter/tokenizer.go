package rewriter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Tokenizer splits HTML fed in chunks into Tokens.
//
// Only the unterminated suffix of the input (a tag or comment whose closing
// '>' has not arrived yet) is kept between calls to Feed. Text is emitted as
// soon as it is seen, so a single run of text may be split over several
// TextTokens.
//
// Every tag and comment ends with '>', so an unterminated construct is only
// scanned again once a chunk brings a new '>'. Feeding a long construct in
// small pieces stays linear unless the pieces keep adding '>' bytes inside
// quoted attribute values.
type Tokenizer struct {
	buf     []byte
	pos     int   // next unread byte in buf
	base    int64 // logical input offset of buf[0]
	pending int   // bytes of buf[pos:] already known not to form a construct
	closed  bool
	err     error
}

// NewTokenizer creates an empty tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Feed appends a chunk of input. Tokens returned before the call must no
// longer be used, since their Raw bytes may be overwritten.
func (z *Tokenizer) Feed(p []byte) {
	if z.closed {
		return
	}
	if z.pos > 0 {
		n := copy(z.buf, z.buf[z.pos:])
		z.buf = z.buf[:n]
		z.base += int64(z.pos)
		z.pos = 0
	}
	z.buf = append(z.buf, p...)
}

// Close signals end of input. After Close, Next drains what is buffered and
// then returns io.EOF, or a *SyntaxError if the input ends inside markup.
func (z *Tokenizer) Close() {
	z.closed = true
}

// Buffered returns the number of fed bytes not yet returned as tokens.
func (z *Tokenizer) Buffered() int {
	return len(z.buf) - z.pos
}

// Next returns the next complete token. It returns ErrNeedMore when the
// remaining input is an unterminated construct and Close has not been
// called. Errors other than ErrNeedMore are sticky.
func (z *Tokenizer) Next() (Token, error) {
	if z.err != nil {
		return Token{}, z.err
	}
	if z.pos >= len(z.buf) {
		if z.closed {
			return Token{}, io.EOF
		}
		return Token{}, ErrNeedMore
	}

	rest := z.buf[z.pos:]
	offset := z.base + int64(z.pos)

	if rest[0] != '<' {
		n := bytes.IndexByte(rest, '<')
		if n < 0 {
			n = len(rest)
		}
		z.pos += n
		return Token{Kind: TextToken, Raw: rest[:n], Offset: offset}, nil
	}

	if z.pending > 0 && !z.closed && bytes.IndexByte(rest[z.pending:], '>') < 0 {
		z.pending = len(rest)
		return Token{}, ErrNeedMore
	}
	z.pending = 0

	tok, n, err := scanMarkup(rest)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.Offset = offset
		}
		z.err = err
		return Token{}, err
	}
	if n == 0 {
		if !z.closed {
			// Syntax errors show within the first three bytes; past that
			// only a new '>' can complete the construct.
			if len(rest) >= 3 {
				z.pending = len(rest)
			}
			return Token{}, ErrNeedMore
		}
		z.err = &SyntaxError{Offset: offset, Msg: "unterminated " + describe(rest)}
		return Token{}, z.err
	}

	tok.Raw = rest[:n]
	tok.Offset = offset
	z.pos += n
	return tok, nil
}

// scanMarkup parses the construct at the start of b, which begins with '<'.
// It returns the token and its length, or n == 0 if b ends before the
// construct is complete.
func scanMarkup(b []byte) (tok Token, n int, err error) {
	if len(b) < 2 {
		return Token{}, 0, nil
	}

	switch c := b[1]; {
	case c == '!':
		return scanBang(b)
	case c == '?':
		end := bytes.IndexByte(b, '>')
		if end < 0 {
			return Token{}, 0, nil
		}
		return Token{Kind: CommentToken}, end + 1, nil
	case c == '/':
		return scanEndTag(b)
	case isASCIILetter(c):
		return scanStartTag(b)
	default:
		return Token{}, 0, &SyntaxError{Msg: fmt.Sprintf("invalid first character of tag name %q", c)}
	}
}

var commentOpen = []byte("<!--")

func scanBang(b []byte) (Token, int, error) {
	if len(b) < len(commentOpen) && bytes.HasPrefix(commentOpen, b) {
		return Token{}, 0, nil
	}
	if bytes.HasPrefix(b, commentOpen) {
		body := b[len(commentOpen):]
		// <!--> and <!---> are complete empty comments.
		switch {
		case len(body) == 0 || (len(body) == 1 && body[0] == '-'):
			return Token{}, 0, nil
		case body[0] == '>':
			return Token{Kind: CommentToken}, len(commentOpen) + 1, nil
		case body[0] == '-' && body[1] == '>':
			return Token{Kind: CommentToken}, len(commentOpen) + 2, nil
		}
		end := bytes.Index(body, []byte("-->"))
		if end < 0 {
			return Token{}, 0, nil
		}
		return Token{Kind: CommentToken}, len(commentOpen) + end + 3, nil
	}

	end := bytes.IndexByte(b, '>')
	if end < 0 {
		return Token{}, 0, nil
	}
	if end >= 9 && bytes.EqualFold(b[2:9], []byte("doctype")) {
		return Token{Kind: DoctypeToken}, end + 1, nil
	}
	// <!anything> is a bogus comment.
	return Token{Kind: CommentToken}, end + 1, nil
}

func scanEndTag(b []byte) (Token, int, error) {
	if len(b) < 3 {
		return Token{}, 0, nil
	}
	if !isASCIILetter(b[2]) {
		return Token{}, 0, &SyntaxError{Msg: fmt.Sprintf("invalid first character of end tag name %q", b[2])}
	}
	i := 2
	for i < len(b) && isTagNameByte(b[i]) {
		i++
	}
	name := string(bytes.ToLower(b[2:i]))
	// Anything between the name and '>' is ignored, as browsers do.
	end := bytes.IndexByte(b[i:], '>')
	if end < 0 {
		return Token{}, 0, nil
	}
	return Token{Kind: EndTagToken, Name: name}, i + end + 1, nil
}

func scanStartTag(b []byte) (Token, int, error) {
	i := 1
	for i < len(b) && isTagNameByte(b[i]) {
		i++
	}
	if i >= len(b) {
		return Token{}, 0, nil
	}
	tok := Token{Kind: StartTagToken, Name: string(bytes.ToLower(b[1:i]))}

	for {
		i = skipSpace(b, i)
		if i >= len(b) {
			return Token{}, 0, nil
		}
		switch b[i] {
		case '>':
			return tok, i + 1, nil
		case '/':
			if i+1 >= len(b) {
				return Token{}, 0, nil
			}
			if b[i+1] == '>' {
				tok.SelfClosing = true
				return tok, i + 2, nil
			}
			i++
			continue
		}

		start := i
		if b[i] == '=' {
			// A leading '=' is part of the attribute name.
			i++
		}
		for i < len(b) && !isSpace(b[i]) && b[i] != '=' && b[i] != '>' && b[i] != '/' {
			i++
		}
		if i >= len(b) {
			return Token{}, 0, nil
		}
		name := string(bytes.ToLower(b[start:i]))

		i = skipSpace(b, i)
		if i >= len(b) {
			return Token{}, 0, nil
		}
		if b[i] != '=' {
			tok.addAttr(name, "")
			continue
		}

		i = skipSpace(b, i+1)
		if i >= len(b) {
			return Token{}, 0, nil
		}
		var value string
		switch q := b[i]; q {
		case '"', '\'':
			end := bytes.IndexByte(b[i+1:], q)
			if end < 0 {
				return Token{}, 0, nil
			}
			value = string(b[i+1 : i+1+end])
			i += end + 2
		case '>':
			// name= with nothing after it has an empty value.
		default:
			start := i
			for i < len(b) && !isSpace(b[i]) && b[i] != '>' {
				i++
			}
			if i >= len(b) {
				return Token{}, 0, nil
			}
			value = string(b[start:i])
		}
		tok.addAttr(name, value)
	}
}

// addAttr keeps the first occurrence of a duplicated attribute.
func (t *Token) addAttr(name, value string) {
	if _, ok := t.Attr(name); ok {
		return
	}
	t.Attrs = append(t.Attrs, Attribute{Name: name, Value: value})
}

func describe(b []byte) string {
	if bytes.HasPrefix(b, commentOpen) {
		return "comment"
	}
	if len(b) > 1 && b[1] == '/' {
		return "end tag"
	}
	return "tag"
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagNameByte(c byte) bool {
	return !isSpace(c) && c != '/' && c != '>'
}
