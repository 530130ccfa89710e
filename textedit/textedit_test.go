package textedit

import (
	"testing"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		buf  string
		item string
		want []int
	}{
		{"abcabc", "abc", []int{0, 3}},
		{"aaaa", "aa", []int{0, 2}},
		{"abc", "x", []int{}},
		{"abc", "", []int{}},
	}
	for _, tt := range tests {
		got := FindAll([]byte(tt.buf), tt.item)
		if len(got) != len(tt.want) {
			t.Errorf("FindAll(%q, %q) = %v, want %v", tt.buf, tt.item, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("FindAll(%q, %q) = %v, want %v", tt.buf, tt.item, got, tt.want)
			}
		}
	}
}

func TestReplaceAllString(t *testing.T) {
	b := NewBuffer([]byte("one two two three"))
	b.ReplaceAllString("two", "2")
	if got := b.String(); got != "one 2 2 three" {
		t.Errorf("String() = %q", got)
	}
}

func TestDeleteAllString(t *testing.T) {
	b := NewBuffer([]byte("a--b--c"))
	b.DeleteAllString("--")
	if got := b.String(); got != "abc" {
		t.Errorf("String() = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"lone cr", "a\rb", "a\nb"},
		{"tabs", "\tx", "    x"},
		{"mixed", "a\tb\r\nc", "a    b\nc"},
		{"clean", "a\nb\n", "a\nb\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Normalize([]byte(tt.src))); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}
