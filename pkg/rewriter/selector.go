package rewriter

import (
	"fmt"
	"strings"
)

// Selector matches start tags by name and, optionally, by the presence of
// an attribute. It is the "tag" and "tag[attr]" subset of CSS.
type Selector struct {
	Tag  string // lower-cased tag name
	Attr string // required attribute, empty for none
}

// ParseSelector parses "tag" or "tag[attr]".
func ParseSelector(s string) (Selector, error) {
	raw := s
	s = strings.ToLower(strings.TrimSpace(s))

	var sel Selector
	if i := strings.IndexByte(s, '['); i >= 0 {
		if !strings.HasSuffix(s, "]") {
			return Selector{}, fmt.Errorf("%w: %q: unclosed attribute predicate", ErrInvalidSelector, raw)
		}
		sel.Attr = strings.TrimSpace(s[i+1 : len(s)-1])
		if !validName(sel.Attr) {
			return Selector{}, fmt.Errorf("%w: %q: bad attribute name", ErrInvalidSelector, raw)
		}
		s = s[:i]
	}
	if !validName(s) || !isASCIILetter(s[0]) {
		return Selector{}, fmt.Errorf("%w: %q: bad tag name", ErrInvalidSelector, raw)
	}
	sel.Tag = s
	return sel, nil
}

// Matches reports whether tok is a start tag selected by s.
func (s Selector) Matches(tok *Token) bool {
	if tok.Kind != StartTagToken || !strings.EqualFold(tok.Name, s.Tag) {
		return false
	}
	if s.Attr == "" {
		return true
	}
	_, ok := tok.Attr(s.Attr)
	return ok
}

func (s Selector) String() string {
	if s.Attr == "" {
		return s.Tag
	}
	return s.Tag + "[" + s.Attr + "]"
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isASCIILetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':' {
			continue
		}
		return false
	}
	return true
}

// Handler rewrites a matched element through its handle.
type Handler func(el *Element) error

// Rule pairs a Selector with the Handler run for every element it selects.
type Rule struct {
	Selector Selector
	Handler  Handler
}

// NewRule parses selector and returns a Rule for it.
func NewRule(selector string, h Handler) (Rule, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return Rule{}, err
	}
	if h == nil {
		return Rule{}, fmt.Errorf("%w: %q has no handler", ErrInvalidSelector, selector)
	}
	return Rule{Selector: sel, Handler: h}, nil
}

// MustRule is like NewRule but panics on error. It is meant for rule sets
// declared in package variables.
func MustRule(selector string, h Handler) Rule {
	r, err := NewRule(selector, h)
	if err != nil {
		panic(err)
	}
	return r
}

// Matcher finds the rule for a start tag. When several rules select the
// same tag, the first one in rule set order wins.
type Matcher struct {
	rules []Rule
	byTag map[string][]int
}

// NewMatcher indexes rules by tag name.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{
		rules: rules,
		byTag: make(map[string][]int, len(rules)),
	}
	for i, r := range rules {
		if r.Selector.Tag == "" || r.Handler == nil {
			return nil, fmt.Errorf("%w: rule %d is incomplete", ErrInvalidSelector, i)
		}
		tag := strings.ToLower(r.Selector.Tag)
		m.byTag[tag] = append(m.byTag[tag], i)
	}
	return m, nil
}

// Match returns the first rule selecting tok.
func (m *Matcher) Match(tok *Token) (*Rule, bool) {
	if tok.Kind != StartTagToken {
		return nil, false
	}
	for _, i := range m.byTag[tok.Name] {
		if m.rules[i].Selector.Matches(tok) {
			return &m.rules[i], true
		}
	}
	return nil, false
}

// Watches reports whether any rule selects tags with this name. Elements
// with a watched name are tracked even when no rule matches them, so that
// their end tags are paired correctly.
func (m *Matcher) Watches(tag string) bool {
	_, ok := m.byTag[tag]
	return ok
}
