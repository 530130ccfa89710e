package qbk

import (
	"fmt"
)

// parser drives the two-phase grammar over one input unit. Backtracking
// works by saving and restoring cursor marks; every failed alternative
// records the furthest position reached so the final diagnostic points
// at the exact place where no rule could continue.
type parser struct {
	c  *Cursor
	st *State

	// furthest failure position, tracked by byte offset
	furthest    Position
	furthestOff int

	// aborted is set after a hard error (reference error, nested syntax
	// error) has already been reported. It unwinds the parse without
	// reporting twice.
	aborted bool
}

func newParser(c *Cursor, st *State) *parser {
	return &parser{
		c:        c,
		st:       st,
		furthest: c.Position(),
	}
}

// fail records the current position as a failure point and returns false.
func (p *parser) fail() bool {
	if p.c.pos >= p.furthestOff {
		p.furthestOff = p.c.pos
		p.furthest = p.c.Position()
	}
	return false
}

// literal consumes the given string if the input starts with it.
func (p *parser) literal(s string) bool {
	if !p.c.HasPrefix(s) {
		return p.fail()
	}
	p.c.Advance(len(s))
	return true
}

// syntaxError reports the unrecoverable body grammar failure at the
// furthest position any alternative reached, and stops this file's parse.
func (p *parser) syntaxError() {
	pos := p.furthest
	if p.c.pos > p.furthestOff {
		pos = p.c.Position()
	}
	p.st.ErrorCount++
	p.st.Report.Error(pos, "Syntax Error near column %d.", pos.Column)
	p.aborted = true
}

// referenceError reports an unresolved or cyclic macro/template use.
// Reference errors are fatal to the current parse.
func (p *parser) referenceError(pos Position, format string, args ...any) bool {
	p.st.ErrorCount++
	p.st.Report.Error(pos, format, args...)
	p.aborted = true
	return false
}

// capture redirects the output buffer while f runs and returns what it
// produced. Used for constructs whose content must be rendered before
// the enclosing element can be emitted (titles, table cells).
func (p *parser) capture(f func() bool) ([]byte, bool) {
	prev := p.st.Out
	p.st.Out = &ByteRenderer{}
	ok := f()
	rendered := p.st.Out.Bytes()
	p.st.Out = prev
	return rendered, ok
}

// parseComment consumes a [/ ... ] comment with balanced brackets.
// Comments produce no output at all.
func (p *parser) parseComment() bool {
	if !p.c.HasPrefix("[/") {
		return p.fail()
	}
	m := p.c.Save()
	p.c.Advance(2)
	depth := 1
	for !p.c.AtEOF() {
		switch p.c.Peek() {
		case '\\':
			p.c.Advance(2)
			continue
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				p.c.Advance(1)
				return true
			}
		}
		p.c.Advance(1)
	}
	p.c.Restore(m)
	return p.fail()
}

// readBalancedText consumes raw text up to (and including) the ']' that
// closes the current bracket construct, honoring nested brackets and
// backslash escapes. The returned text excludes the closing bracket.
func (p *parser) readBalancedText() (string, bool) {
	rem := p.c.Remaining()
	depth := 0
	for i := 0; i < len(rem); i++ {
		switch rem[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			if depth == 0 {
				text := string(rem[:i])
				p.c.Advance(i + 1)
				return text, true
			}
			depth--
		}
	}
	p.fail()
	return "", false
}

// expand runs the grammar recursively over the body of a resolved macro
// or template. The expansion text is parsed as if it were new source,
// with a child cursor whose origin records the definition name and the
// invocation site, so diagnostics point at the true source of an error
// even inside expanded content.
func (p *parser) expand(kind string, def *Definition, args []string, invPos Position) bool {
	key := kind + ":" + def.Name
	if !p.st.Enter(key) {
		return p.referenceError(invPos, "Infinite loop detected: %s '%s' expands itself.", kind, def.Name)
	}
	defer p.st.Leave(key)

	// Template arguments become expansion-scoped macros shadowing any
	// same-named outer definition for the duration of the expansion.
	var saved map[string]*Definition
	if len(def.Params) > 0 {
		saved = make(map[string]*Definition, len(def.Params))
		for i, param := range def.Params {
			saved[param] = p.st.macros[param]
			p.st.macros[param] = &Definition{Name: param, Body: args[i], Pos: invPos}
		}
	}

	origin := fmt.Sprintf("[%s] (%s:%d)", def.Name, invPos.Origin, invPos.Line)
	child := newParser(NewCursor(origin, []byte(def.Body)), p.st)
	ok := child.parsePhrase(func() bool { return false })

	for param, prev := range saved {
		if prev == nil {
			delete(p.st.macros, param)
		} else {
			p.st.macros[param] = prev
		}
	}

	if !ok {
		if !child.aborted {
			child.syntaxError()
		}
		p.aborted = true
		return false
	}
	return true
}
