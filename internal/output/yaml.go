package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter writes each report as its own YAML document.
type YAMLWriter struct {
	w   *bufio.Writer
	enc *yaml.Encoder
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	bw := bufio.NewWriter(w)
	enc := yaml.NewEncoder(bw)
	enc.SetIndent(2)
	return &YAMLWriter{w: bw, enc: enc}
}

// Write encodes a report. Documents after the first are preceded by "---".
func (w *YAMLWriter) Write(r *Report) error {
	if err := w.enc.Encode(r); err != nil {
		return err
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *YAMLWriter) Flush() error {
	return w.w.Flush()
}

// Close ends the YAML stream.
func (w *YAMLWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
