package rewriter

// Element is the handle passed to a Handler for a matched start tag. It is
// only valid for the duration of the handler call.
type Element struct {
	tag     string
	attrs   []Attribute
	offset  int64
	removed bool
	before  []byte
	after   []byte
}

// TagName returns the lower-cased tag name.
func (e *Element) TagName() string {
	return e.tag
}

// Attrs returns the element's attributes in source order.
func (e *Element) Attrs() []Attribute {
	return e.attrs
}

// HasAttr reports whether the element carries the named attribute.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.lookup(name)
	return ok
}

// Attr returns the value of the named attribute. A missing attribute is an
// *AttributeError matching ErrMissingExpectedAttribute.
func (e *Element) Attr(name string) (string, error) {
	v, ok := e.lookup(name)
	if !ok {
		return "", &AttributeError{Tag: e.tag, Attr: name, Offset: e.offset}
	}
	return v, nil
}

func (e *Element) lookup(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// RemoveAndKeepContent drops the element's start and end tags while its
// content keeps streaming through.
func (e *Element) RemoveAndKeepContent() {
	e.removed = true
}

// Removed reports whether RemoveAndKeepContent was called.
func (e *Element) Removed() bool {
	return e.removed
}

// Prepend inserts s right before the element's content. Each call inserts
// in front of text added by earlier calls.
func (e *Element) Prepend(s string) {
	e.before = append([]byte(s), e.before...)
}

// Append inserts s right after the element's content, where the end tag
// would close it. Each call inserts behind text added by earlier calls.
func (e *Element) Append(s string) {
	e.after = append(e.after, s...)
}
