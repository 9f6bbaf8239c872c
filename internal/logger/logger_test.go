package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger resets the logger to default state for test isolation
func resetLogger() {
	Init(Options{})
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantLogs []string
		wantSkip []string
	}{
		{
			name:     "default_info",
			wantLogs: []string{"info msg", "error msg"},
			wantSkip: []string{"debug msg"},
		},
		{
			name:     "debug",
			opts:     Options{Debug: true},
			wantLogs: []string{"debug msg", "info msg", "error msg"},
		},
		{
			name:     "quiet",
			opts:     Options{Quiet: true},
			wantLogs: []string{"error msg"},
			wantSkip: []string{"debug msg", "info msg"},
		},
		{
			name:     "quiet_overrides_debug",
			opts:     Options{Debug: true, Quiet: true},
			wantLogs: []string{"error msg"},
			wantSkip: []string{"debug msg", "info msg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Debug("debug msg")
			Info("info msg")
			Error("error msg")

			output := buf.String()
			for _, s := range tt.wantLogs {
				if !strings.Contains(output, s) {
					t.Errorf("expected %q in output %q", s, output)
				}
			}
			for _, s := range tt.wantSkip {
				if strings.Contains(output, s) {
					t.Errorf("did not expect %q in output %q", s, output)
				}
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("converted", "mode", "slack", "output_bytes", 42)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "converted" || rec["level"] != "INFO" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["mode"] != "slack" || rec["output_bytes"] != float64(42) {
		t.Errorf("expected structured attrs, got %v", rec)
	}
}

func TestInit_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	Info("test message", "count", 3)

	output := buf.String()
	if !strings.Contains(output, "level=INFO") || !strings.Contains(output, `msg="test message"`) {
		t.Errorf("unexpected text output %q", output)
	}
	if !strings.Contains(output, "count=3") {
		t.Errorf("expected attrs in output %q", output)
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewTextHandler(buf, nil))
	// Output is ignored when Logger is set
	Init(Options{Logger: custom, Output: &bytes.Buffer{}})
	defer resetLogger()

	Info("routed")
	if !strings.Contains(buf.String(), "routed") {
		t.Error("expected message in custom logger output")
	}
}

func TestDebugContext(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	DebugContext(context.Background(), "debug with context", "mode", "markdown")

	output := buf.String()
	if !strings.Contains(output, "debug with context") || !strings.Contains(output, "mode=markdown") {
		t.Errorf("expected message and attrs in %q", output)
	}
}
