package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers reports and writes them as one JSON document on Flush.
type JSONWriter struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	reports []*Report
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:       bufio.NewWriter(w),
		pretty:  pretty,
		indent:  indent,
		reports: make([]*Report, 0),
	}
}

// Write buffers a single report.
func (w *JSONWriter) Write(r *Report) error {
	w.reports = append(w.reports, r)
	return nil
}

// Flush writes the buffered reports. A single report is written as an
// object, anything else as an array. Flushing with nothing buffered is a
// no-op.
func (w *JSONWriter) Flush() error {
	if len(w.reports) == 0 {
		return w.w.Flush()
	}

	var doc any = w.reports
	if len(w.reports) == 1 {
		doc = w.reports[0]
	}

	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(doc, "", w.indent)
	} else {
		output, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}
	w.reports = w.reports[:0]

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes one JSON line per report as soon as it arrives.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a single report as a JSON line.
func (w *JSONLWriter) Write(r *Report) error {
	output, err := json.Marshal(r)
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}

	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
