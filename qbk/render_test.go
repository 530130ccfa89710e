package qbk

import (
	"testing"
)

func TestByteRenderer(t *testing.T) {
	r := &ByteRenderer{}
	r.Render("a", []byte("b"), 'c', byte('d'), 42)
	r.Renderln("!")
	if got := r.String(); got != "abcd42!\n" {
		t.Errorf("rendered = %q, want %q", got, "abcd42!\n")
	}
}

func TestByteRendererPanicsOnUnknownType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Render() did not panic on an unsupported type")
		}
	}()
	r := &ByteRenderer{}
	r.Render(3.14)
}

func TestIndentation(t *testing.T) {
	if got := string(indentation(4)); got != "    " {
		t.Errorf("indentation(4) = %q", got)
	}
	if got := len(indentation(1000)); got != 1000 {
		t.Errorf("len(indentation(1000)) = %d", got)
	}
	if got := len(indentation(0)); got != 0 {
		t.Errorf("len(indentation(0)) = %d", got)
	}
}
