package qbk

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.Encoding != EncodingBoostbook {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, EncodingBoostbook)
	}
	if !cfg.PrettyPrint {
		t.Error("PrettyPrint = false, want true")
	}
	if cfg.Indent != -1 || cfg.LineWidth != -1 {
		t.Errorf("Indent/LineWidth = %d/%d, want -1/-1", cfg.Indent, cfg.LineWidth)
	}
	if cfg.Now.IsZero() {
		t.Error("Now is the zero time")
	}
}

func TestFixedTimestamp(t *testing.T) {
	now := FixedTimestamp()
	want := time.Date(2000, time.December, 20, 12, 0, 0, 0, time.Local)
	if !now.Equal(want) {
		t.Errorf("FixedTimestamp() = %v, want %v", now, want)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		encoding string
		input    string
		want     string
	}{
		{EncodingBoostbook, "doc.qbk", "doc.xml"},
		{EncodingBoostbook, "doc", "doc.xml"},
		{EncodingHTML, "doc.qbk", "doc.html"},
		{EncodingHTML, "dir/doc.quickbook", "dir/doc.html"},
	}
	for _, tt := range tests {
		cfg := NewConfig()
		cfg.Encoding = tt.encoding
		if got := cfg.OutputName(tt.input); got != tt.want {
			t.Errorf("OutputName(%q) with %v = %q, want %q", tt.input, tt.encoding, got, tt.want)
		}
	}
}

func TestLoadDefaultsFileMissing(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.LoadDefaultsFile("no-such-file.yaml"); err != nil {
		t.Errorf("LoadDefaultsFile() = %v, want nil for a missing file", err)
	}
}
