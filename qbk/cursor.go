package qbk

import (
	"bytes"
	"fmt"
)

// Position identifies a point of some source unit for diagnostics.
// It is captured by value at the point of interest, so reports keep
// pointing at the right place even after the cursor moves on.
type Position struct {
	Origin string
	Line   int
	Column int
}

func (pos Position) String() string {
	return fmt.Sprintf("%s:%d:%d", pos.Origin, pos.Line, pos.Column)
}

// Cursor wraps the raw text of one logical unit (a file, a macro or
// template expansion, a command-line definition) with a named origin
// and a running line/column. Each nested unit owns its own cursor.
type Cursor struct {
	origin string
	src    []byte
	pos    int
	line   int
	col    int
}

// Mark is a snapshot of the cursor state, used for backtracking.
type Mark struct {
	pos  int
	line int
	col  int
}

func NewCursor(origin string, src []byte) *Cursor {
	return &Cursor{
		origin: origin,
		src:    src,
		line:   1,
		col:    1,
	}
}

func (c *Cursor) Origin() string {
	return c.origin
}

// Position returns an immutable snapshot for diagnostics.
func (c *Cursor) Position() Position {
	return Position{Origin: c.origin, Line: c.line, Column: c.col}
}

func (c *Cursor) AtEOF() bool {
	return c.pos >= len(c.src)
}

// Remaining returns a view over the unconsumed text. It never copies.
func (c *Cursor) Remaining() []byte {
	return c.src[c.pos:]
}

// Peek returns the next byte, or 0 at end of input.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.src) {
		return 0
	}
	return c.src[c.pos]
}

// PeekAt returns the byte n positions ahead, or 0 past end of input.
func (c *Cursor) PeekAt(n int) byte {
	if c.pos+n >= len(c.src) {
		return 0
	}
	return c.src[c.pos+n]
}

func (c *Cursor) HasPrefix(s string) bool {
	return bytes.HasPrefix(c.src[c.pos:], []byte(s))
}

// Advance consumes n bytes, keeping the line and column counters in sync.
func (c *Cursor) Advance(n int) {
	end := c.pos + n
	if end > len(c.src) {
		end = len(c.src)
	}
	for ; c.pos < end; c.pos++ {
		if c.src[c.pos] == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
	}
}

// AtLineStart reports whether the cursor sits at the first column of a line.
func (c *Cursor) AtLineStart() bool {
	return c.col == 1
}

// Save returns a snapshot that Restore can rewind to.
func (c *Cursor) Save() Mark {
	return Mark{pos: c.pos, line: c.line, col: c.col}
}

func (c *Cursor) Restore(m Mark) {
	c.pos = m.pos
	c.line = m.line
	c.col = m.col
}
