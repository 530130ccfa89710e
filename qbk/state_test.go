package qbk

import (
	"io"
	"testing"
)

func newTestState() *State {
	cfg := NewConfig()
	cfg.Now = FixedTimestamp()
	enc, err := NewEncoder(cfg.Encoding)
	if err != nil {
		panic(err)
	}
	return NewState(cfg, enc, NewReporter(io.Discard, false), nil)
}

func TestStateEnterLeave(t *testing.T) {
	st := newTestState()
	if !st.Enter("file:a.qbk") {
		t.Fatal("Enter() = false on a fresh key")
	}
	if st.Enter("file:a.qbk") {
		t.Error("Enter() = true while the key is active")
	}
	st.Leave("file:a.qbk")
	if !st.Enter("file:a.qbk") {
		t.Error("Enter() = false after Leave()")
	}
}

func TestNextSectionID(t *testing.T) {
	st := newTestState()
	if got := st.NextSectionID(); got != "section_1" {
		t.Errorf("NextSectionID() = %q, want section_1", got)
	}
	if got := st.NextSectionID(); got != "section_2" {
		t.Errorf("NextSectionID() = %q, want section_2", got)
	}
}

func TestInstallPredefinedMacros(t *testing.T) {
	st := newTestState()
	st.InstallPredefinedMacros("doc.qbk")

	tests := []struct {
		name string
		want string
	}{
		{"__DATE__", "2000-Dec-20"},
		{"__TIME__", "12:00:00 PM"},
		{"__FILENAME__", "doc.qbk"},
	}
	for _, tt := range tests {
		def := st.LookupMacro(tt.name)
		if def == nil {
			t.Errorf("LookupMacro(%q) = nil", tt.name)
			continue
		}
		if def.Body != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, def.Body, tt.want)
		}
	}
}

func TestApplyPresetDefines(t *testing.T) {
	st := newTestState()
	st.Config.Defines = []string{"title=Hello", "flag", "1bad=x"}
	st.ApplyPresetDefines()

	if def := st.LookupMacro("title"); def == nil || def.Body != "Hello" {
		t.Errorf("title = %v", def)
	}
	if def := st.LookupMacro("flag"); def == nil || def.Body != "" {
		t.Errorf("flag = %v", def)
	}
	if st.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1 for the malformed definition", st.ErrorCount)
	}
}

func TestStatus(t *testing.T) {
	st := newTestState()
	if st.Status() != 0 {
		t.Errorf("Status() = %d, want 0", st.Status())
	}
	st.ErrorCount = 3
	if st.Status() != 1 {
		t.Errorf("Status() = %d, want 1", st.Status())
	}
}
