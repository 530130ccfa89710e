// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package textedit implements buffered editing of byte slices on top of
// rsc.io/edit. Edits are queued against the original data and applied
// with a single allocation, which keeps whole-file rewrites cheap.
package textedit

import (
	"bytes"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed  edit.Buffer
	buf []byte
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must ensure
// the data is not modified until after the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	b := &Buffer{}
	b.buf = buf // Just for our internal queries, we do not modify anything in it
	b.ed = *edit.NewBuffer(buf)
	return b
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}

	if len(item) == 0 {
		return found
	}

	realOffset := 0

	for {
		i := bytes.Index(buf, []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, i+realOffset)
		buf = buf[i+len(item):]
		realOffset = realOffset + i + len(item)
	}
}

// Delete queues deletion of the bytes in the range [start, end).
func (b *Buffer) Delete(start, end int) {
	b.ed.Delete(start, end)
}

// Replace queues replacement of the bytes in the range [start, end) with new.
func (b *Buffer) Replace(start, end int, new string) {
	b.ed.Replace(start, end, new)
}

// DeleteAllString deletes every instance of the text s.
func (b *Buffer) DeleteAllString(s string) {
	hits := FindAll(b.buf, s)
	for _, hit := range hits {
		b.ed.Delete(hit, hit+len(s))
	}
}

// ReplaceAllString replaces every instance of old with new.
func (b *Buffer) ReplaceAllString(old string, new string) {
	hits := FindAll(b.buf, old)
	for _, hit := range hits {
		b.ed.Replace(hit, hit+len(old), new)
	}
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}

// Normalize prepares raw source text for line-oriented parsing: CRLF and
// lone CR line endings become LF, and tabs expand to four spaces so
// column numbers in diagnostics stay meaningful.
func Normalize(src []byte) []byte {
	b := NewBuffer(src)
	b.ReplaceAllString("\t", "    ")
	for _, hit := range FindAll(src, "\r") {
		if hit+1 < len(src) && src[hit+1] == '\n' {
			b.Delete(hit, hit+1)
		} else {
			b.Replace(hit, hit+1, "\n")
		}
	}
	return b.Bytes()
}
