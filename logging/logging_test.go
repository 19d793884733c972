package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.Debugf("region 0x%08x", 0x10)
	l.Infof("loaded %d", 1)
	l.Warnf("skipping %s", "KartFZ.VMS")
	l.Errorf("decode failed")

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Errorf("below-level messages written: %q", out)
	}
	if !strings.Contains(out, "[WARN] skipping KartFZ.VMS") {
		t.Errorf("missing warning in %q", out)
	}
	if !strings.Contains(out, "[ERROR] decode failed") {
		t.Errorf("missing error in %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warning ", LevelWarn},
		{"error", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNilAndDiscard(t *testing.T) {
	var l *Logger
	if l.Enabled(LevelError) {
		t.Error("nil logger reports enabled")
	}
	l.Errorf("must not panic")
	if Discard().Enabled(LevelError) {
		t.Error("discard logger reports enabled")
	}
}
