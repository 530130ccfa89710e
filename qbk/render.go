package qbk

import (
	"bytes"
	"fmt"
	"strconv"
)

// ByteRenderer accumulates the generated output. It is append-only until
// the post-processing stage receives the final bytes.
type ByteRenderer struct {
	bytes.Buffer
}

// Render writes the given parameters to the buffer.
// It accepts byte slices, strings, runes and integers.
func (r *ByteRenderer) Render(inputs ...any) {
	for _, s := range inputs {
		switch v := s.(type) {
		case []byte:
			r.Write(v)
		case string:
			r.WriteString(v)
		case rune:
			r.WriteRune(v)
		case byte:
			r.WriteByte(v)
		case int:
			r.WriteString(strconv.Itoa(v))
		default:
			panic(fmt.Errorf("render: attempting to write something not a string, []byte, rune or int: %T", v))
		}
	}
}

// Renderln is like Render with a newline appended.
func (r *ByteRenderer) Renderln(inputs ...any) {
	r.Render(inputs...)
	r.Render("\n")
}

var aBigIndentationString = bytes.Repeat([]byte(" "), 200)

func indentation(n int) []byte {
	for n > len(aBigIndentationString) {
		aBigIndentationString = append(aBigIndentationString, aBigIndentationString...)
	}
	return aBigIndentationString[:n]
}
