package rewriter

import "fmt"

// TokenKind identifies the type of a Token.
type TokenKind uint8

const (
	TextToken TokenKind = iota + 1
	StartTagToken
	EndTagToken
	CommentToken
	DoctypeToken
)

// String returns the kind name used in stats and logs.
func (k TokenKind) String() string {
	switch k {
	case TextToken:
		return "text"
	case StartTagToken:
		return "start_tag"
	case EndTagToken:
		return "end_tag"
	case CommentToken:
		return "comment"
	case DoctypeToken:
		return "doctype"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Attribute is a single name/value pair on a start tag.
// Names are lower-cased; values are kept exactly as written, minus quotes.
type Attribute struct {
	Name  string
	Value string
}

// Token is one unit of markup produced by the Tokenizer.
//
// Raw points into the tokenizer's buffer and is only valid until the next
// call to Feed.
type Token struct {
	Kind        TokenKind
	Name        string // tag name for start and end tags, lower-cased
	Attrs       []Attribute
	SelfClosing bool   // start tag written as <name ... />
	Raw         []byte // the source bytes of the token
	Offset      int64  // offset of Raw in the logical input
}

// Attr returns the value of the named attribute and whether it is present.
func (t *Token) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (t Token) String() string {
	switch t.Kind {
	case StartTagToken, EndTagToken:
		return fmt.Sprintf("%s(%s)@%d", t.Kind, t.Name, t.Offset)
	default:
		return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Raw, t.Offset)
	}
}
