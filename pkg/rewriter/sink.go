package rewriter

import (
	"bytes"
	"io"
)

// Sink receives the rewritten output in input order. The slice passed to
// Append is only valid during the call.
type Sink interface {
	Append(p []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(p []byte) error

// Append calls f(p).
func (f SinkFunc) Append(p []byte) error {
	return f(p)
}

// Buffer accumulates output in memory. Read it only after Rewriter.End has
// returned nil.
type Buffer struct {
	buf bytes.Buffer
}

// Append copies p into the buffer.
func (b *Buffer) Append(p []byte) error {
	b.buf.Write(p)
	return nil
}

// Bytes returns the accumulated output.
func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }

// String returns the accumulated output as a string.
func (b *Buffer) String() string { return b.buf.String() }

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int { return b.buf.Len() }

// Reset empties the buffer.
func (b *Buffer) Reset() { b.buf.Reset() }

// WriterSink returns a Sink that streams every chunk to w. Output written
// before a failed pass is not taken back.
func WriterSink(w io.Writer) Sink {
	return SinkFunc(func(p []byte) error {
		_, err := w.Write(p)
		return err
	})
}
