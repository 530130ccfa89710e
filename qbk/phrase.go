package qbk

import (
	"strings"
)

// parsePhrase matches inline content until stop reports a boundary or
// the input is exhausted. It returns false when a position is reached
// where no inline rule matches; the caller turns that into a syntax
// error at the exact position.
func (p *parser) parsePhrase(stop func() bool) bool {
	for {
		if p.aborted {
			return false
		}
		if p.c.AtEOF() || stop() {
			return true
		}
		if !p.parsePhraseItem() {
			return false
		}
	}
}

func (p *parser) parsePhraseItem() bool {
	switch {
	case p.c.Peek() == '\\':
		return p.parseEscape()
	case p.c.HasPrefix("'''"):
		return p.parseRawPassthrough()
	case p.c.Peek() == '[':
		return p.parseBracketPhrase()
	case p.c.Peek() == ']':
		// A close bracket with no matching construct open.
		return p.fail()
	case p.c.Peek() == '&':
		return p.parseEntity()
	default:
		return p.parseTextRun()
	}
}

// parseEscape handles the backslash escape: the next character is
// emitted literally, stripped of any markup meaning.
func (p *parser) parseEscape() bool {
	if p.c.PeekAt(1) == 0 {
		return p.fail()
	}
	ch := p.c.PeekAt(1)
	p.c.Advance(2)
	p.st.Encoder.Text(p.st.Out, []byte{ch})
	return true
}

// parseRawPassthrough handles '''...''', which escapes back to the
// output markup dialect. The content goes through unescaped.
func (p *parser) parseRawPassthrough() bool {
	m := p.c.Save()
	p.c.Advance(3)
	rem := p.c.Remaining()
	end := strings.Index(string(rem), "'''")
	if end < 0 {
		p.c.Restore(m)
		return p.fail()
	}
	p.st.Encoder.RawText(p.st.Out, rem[:end])
	p.c.Advance(end + 3)
	return true
}

// parseEntity recognizes explicit entity references like &nbsp; or
// &#169; and passes them through unescaped. A bare ampersand is plain
// text and gets escaped by the encoder.
func (p *parser) parseEntity() bool {
	rem := p.c.Remaining()
	if len(rem) >= 3 && (isAlpha(rem[1]) || rem[1] == '#') {
		for i := 2; i < len(rem); i++ {
			if rem[i] == ';' {
				p.st.Encoder.RawText(p.st.Out, rem[:i+1])
				p.c.Advance(i + 1)
				return true
			}
			if !isAlpha(rem[i]) && !isDigit(rem[i]) {
				break
			}
		}
	}
	p.st.Encoder.Text(p.st.Out, []byte("&"))
	p.c.Advance(1)
	return true
}

// parseTextRun consumes plain text up to the next character that could
// start an inline construct or a line boundary. Line boundaries are not
// crossed in one run so enclosing constructs can re-check their stop
// condition at each one.
func (p *parser) parseTextRun() bool {
	rem := p.c.Remaining()
	n := 0
	for n < len(rem) {
		ch := rem[n]
		if ch == '\\' || ch == '[' || ch == ']' || ch == '&' || ch == '\'' || ch == '\n' {
			break
		}
		n++
	}
	if n == 0 {
		// A lone quote, or a newline the enclosing construct did not
		// claim as its boundary. Both are plain text.
		p.st.Encoder.Text(p.st.Out, rem[:1])
		p.c.Advance(1)
		return true
	}
	p.st.Encoder.Text(p.st.Out, rem[:n])
	p.c.Advance(n)
	return true
}

var spanMarkers = map[byte]SpanKind{
	'*':  SpanBold,
	'\'': SpanItalic,
	'_':  SpanUnderline,
	'^':  SpanTeletype,
	'"':  SpanQuote,
}

func (p *parser) parseBracketPhrase() bool {
	m := p.c.Save()
	p.c.Advance(1)

	if p.c.Peek() == '/' {
		p.c.Restore(m)
		return p.parseComment()
	}

	if kind, ok := spanMarkers[p.c.Peek()]; ok {
		p.c.Advance(1)
		skipBlanks(p.c)
		p.st.Encoder.BeginSpan(p.st.Out, kind)
		if !p.phraseUntilCloseBracket() {
			return false
		}
		p.st.Encoder.EndSpan(p.st.Out, kind)
		return true
	}

	switch p.c.Peek() {
	case '@':
		return p.parseLink(m)
	case '$':
		p.c.Advance(1)
		path, ok := p.readBalancedText()
		if !ok {
			p.c.Restore(m)
			return p.fail()
		}
		p.st.Encoder.Image(p.st.Out, strings.TrimSpace(path))
		return true
	case '#':
		p.c.Advance(1)
		id, ok := p.readBalancedText()
		if !ok {
			p.c.Restore(m)
			return p.fail()
		}
		p.st.Encoder.Anchor(p.st.Out, strings.TrimSpace(id))
		return true
	}

	name, ok := readMacroIdentifier(p.c)
	if !ok {
		p.c.Restore(m)
		return p.fail()
	}

	if name == "br" && p.c.Peek() == ']' {
		p.c.Advance(1)
		p.st.Encoder.LineBreak(p.st.Out)
		return true
	}

	return p.parseInvocation(m, name)
}

// phraseUntilCloseBracket parses phrase content up to the ']' that
// closes the construct opened by the caller, and consumes it.
func (p *parser) phraseUntilCloseBracket() bool {
	if !p.parsePhrase(func() bool { return p.c.Peek() == ']' }) {
		return false
	}
	if p.c.Peek() != ']' {
		return p.fail()
	}
	p.c.Advance(1)
	return true
}

// parseLink handles [@url] and [@url text].
func (p *parser) parseLink(m Mark) bool {
	p.c.Advance(1)
	url := p.readTextUntil(' ', '\n', ']')
	if url == "" {
		p.c.Restore(m)
		return p.fail()
	}
	skipBlanks(p.c)
	p.st.Encoder.BeginLink(p.st.Out, url)
	if p.c.Peek() == ']' {
		p.c.Advance(1)
		p.st.Encoder.Text(p.st.Out, []byte(url))
	} else {
		if !p.phraseUntilCloseBracket() {
			return false
		}
	}
	p.st.Encoder.EndLink(p.st.Out)
	return true
}

// parseInvocation resolves [name] against the macro table and
// [name arg..arg] against the template table, then recursively parses
// the expansion. An unresolved name is a hard error at the invocation
// site, never a silent pass-through.
func (p *parser) parseInvocation(m Mark, name string) bool {
	invPos := Position{Origin: p.c.origin, Line: m.line, Column: m.col}

	if p.c.Peek() == ']' {
		p.c.Advance(1)
		if def := p.st.LookupMacro(name); def != nil {
			return p.expand("macro", def, nil, invPos)
		}
		if def := p.st.LookupTemplate(name); def != nil {
			if len(def.Params) != 0 {
				return p.referenceError(invPos, "Template '%s' expects %d arguments, got 0.", name, len(def.Params))
			}
			return p.expand("template", def, nil, invPos)
		}
		return p.referenceError(invPos, "Macro or template '%s' is not defined.", name)
	}

	if p.c.Peek() != ' ' && p.c.Peek() != '\n' {
		p.c.Restore(m)
		return p.fail()
	}
	skipSpaces(p.c)

	argText, ok := p.readBalancedText()
	if !ok {
		p.c.Restore(m)
		return p.fail()
	}

	def := p.st.LookupTemplate(name)
	if def == nil {
		return p.referenceError(invPos, "Macro or template '%s' is not defined.", name)
	}

	args := splitTemplateArgs(argText)
	if len(args) != len(def.Params) {
		return p.referenceError(invPos, "Template '%s' expects %d arguments, got %d.", name, len(def.Params), len(args))
	}
	return p.expand("template", def, args, invPos)
}

// splitTemplateArgs splits the argument text of a template invocation on
// top-level ".." separators, honoring nested brackets and escapes.
func splitTemplateArgs(text string) []string {
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 && i+1 < len(text) && text[i+1] == '.' {
				args = append(args, strings.TrimSpace(text[start:i]))
				i++
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(text[start:]))
	return args
}
