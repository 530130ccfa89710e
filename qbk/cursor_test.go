package qbk

import (
	"testing"
)

func TestCursorAdvance(t *testing.T) {
	c := NewCursor("test.qbk", []byte("ab\ncd"))

	if got := c.Position(); got.Line != 1 || got.Column != 1 {
		t.Errorf("start position = %v, want 1:1", got)
	}
	if !c.AtLineStart() {
		t.Error("AtLineStart() = false at start of input")
	}

	c.Advance(2)
	if got := c.Position(); got.Line != 1 || got.Column != 3 {
		t.Errorf("after 'ab' position = %v, want 1:3", got)
	}

	c.Advance(1) // the newline
	if got := c.Position(); got.Line != 2 || got.Column != 1 {
		t.Errorf("after newline position = %v, want 2:1", got)
	}
	if !c.AtLineStart() {
		t.Error("AtLineStart() = false after newline")
	}

	c.Advance(10) // clamped at end of input
	if !c.AtEOF() {
		t.Error("AtEOF() = false after advancing past the end")
	}
}

func TestCursorSaveRestore(t *testing.T) {
	c := NewCursor("test.qbk", []byte("one\ntwo"))
	c.Advance(4)
	m := c.Save()
	c.Advance(3)
	if !c.AtEOF() {
		t.Fatal("AtEOF() = false at end of input")
	}
	c.Restore(m)
	if got := c.Position(); got.Line != 2 || got.Column != 1 {
		t.Errorf("restored position = %v, want 2:1", got)
	}
	if string(c.Remaining()) != "two" {
		t.Errorf("Remaining() = %q, want %q", c.Remaining(), "two")
	}
}

func TestCursorPeek(t *testing.T) {
	c := NewCursor("test.qbk", []byte("xy"))
	if c.Peek() != 'x' {
		t.Errorf("Peek() = %c, want x", c.Peek())
	}
	if c.PeekAt(1) != 'y' {
		t.Errorf("PeekAt(1) = %c, want y", c.PeekAt(1))
	}
	if c.PeekAt(2) != 0 {
		t.Errorf("PeekAt(2) = %d, want 0", c.PeekAt(2))
	}
	if !c.HasPrefix("xy") {
		t.Error("HasPrefix(xy) = false")
	}
	if c.HasPrefix("xz") {
		t.Error("HasPrefix(xz) = true")
	}
}

func TestReadMacroIdentifier(t *testing.T) {
	tests := []struct {
		src    string
		want   string
		wantOK bool
	}{
		{"name]", "name", true},
		{"__DATE__]", "__DATE__", true},
		{"a.b-c_d1 rest", "a.b-c_d1", true},
		{"1abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c := NewCursor("test.qbk", []byte(tt.src))
		got, ok := readMacroIdentifier(c)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("readMacroIdentifier(%q) = %q, %v, want %q, %v", tt.src, got, ok, tt.want, tt.wantOK)
		}
	}
}
