package qbk

import (
	"strings"
)

var blockKeywords = map[string]bool{
	"section":      true,
	"endsect":      true,
	"h1":           true,
	"h2":           true,
	"h3":           true,
	"h4":           true,
	"h5":           true,
	"h6":           true,
	"def":          true,
	"template":     true,
	"include":      true,
	"pre":          true,
	"table":        true,
	"variablelist": true,
}

// blockStartKeyword reports the block construct keyword starting at the
// given text, or "" when the text does not open a block construct.
func blockStartKeyword(rem []byte) string {
	if len(rem) < 2 || rem[0] != '[' {
		return ""
	}
	if !isIdentStart(rem[1]) {
		return ""
	}
	j := 2
	for j < len(rem) && isIdentChar(rem[j]) {
		j++
	}
	word := string(rem[1:j])
	if !blockKeywords[word] {
		return ""
	}
	if j < len(rem) && rem[j] != ' ' && rem[j] != '\n' && rem[j] != ']' {
		return ""
	}
	return word
}

// listMarkerAt reports whether the text begins a list item line:
// optional indentation, a '*' or '#' mark, and a blank.
func listMarkerAt(rem []byte) (indent int, marker byte, ok bool) {
	i := 0
	for i < len(rem) && rem[i] == ' ' {
		i++
	}
	if i+1 < len(rem) && (rem[i] == '*' || rem[i] == '#') && rem[i+1] == ' ' {
		return i, rem[i], true
	}
	return 0, 0, false
}

// parseBlocks matches block constructs until end of input. Partial
// consumption is always a failure: the first position where no rule
// matches is reported as a syntax error and parsing of this unit stops.
func (p *parser) parseBlocks() bool {
	for {
		if p.aborted {
			return false
		}
		p.skipBlankLines()
		if p.c.AtEOF() {
			return true
		}
		if !p.parseBlock() {
			if !p.aborted {
				p.syntaxError()
			}
			return false
		}
	}
}

func (p *parser) skipBlankLines() {
	for !p.c.AtEOF() {
		m := p.c.Save()
		skipBlanks(p.c)
		if p.c.Peek() == '\n' {
			p.c.Advance(1)
			continue
		}
		if p.c.AtEOF() {
			return
		}
		p.c.Restore(m)
		return
	}
}

// parseBlock matches exactly one block construct. The alternatives are
// tried in a fixed priority order; the paragraph is the fallback.
func (p *parser) parseBlock() bool {
	if p.c.AtLineStart() {
		if _, _, ok := listMarkerAt(p.c.Remaining()); ok {
			return p.parseListBlock()
		}
		if p.c.Peek() == ' ' {
			return p.parseCodeBlock()
		}
	}

	if p.c.HasPrefix("[/") {
		return p.parseComment()
	}

	switch kw := blockStartKeyword(p.c.Remaining()); kw {
	case "section":
		return p.parseSection()
	case "endsect":
		return p.parseEndsect()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return p.parseHeading(int(kw[1] - '0'))
	case "def":
		return p.parseDef()
	case "template":
		return p.parseTemplate()
	case "include":
		return p.parseIncludeDirective()
	case "pre":
		return p.parsePre()
	case "table":
		return p.parseTable()
	case "variablelist":
		return p.parseVariableList()
	}

	return p.parseParagraph()
}

// parseSection opens a section: the nesting level goes up and the
// opening tag carries a generated anchor id unique within the document.
func (p *parser) parseSection() bool {
	if !p.literal("[section") {
		return false
	}
	skipBlanks(p.c)
	title, ok := p.capture(p.phraseUntilCloseBracket)
	if !ok {
		return false
	}
	id := p.st.NextSectionID()
	p.st.SectionLevel++
	p.st.Encoder.BeginSection(p.st.Out, id, title)
	return true
}

func (p *parser) parseEndsect() bool {
	pos := p.c.Position()
	if !p.literal("[endsect]") {
		return false
	}
	if p.st.SectionLevel == 0 {
		p.st.ErrorCount++
		p.st.Report.Error(pos, "Mismatched [endsect] near column %d.", pos.Column)
		p.aborted = true
		return false
	}
	p.st.SectionLevel--
	p.st.Encoder.EndSection(p.st.Out)
	return true
}

func (p *parser) parseHeading(level int) bool {
	if !p.literal("[h" + itoa(level)) {
		return false
	}
	skipBlanks(p.c)
	title, ok := p.capture(p.phraseUntilCloseBracket)
	if !ok {
		return false
	}
	p.st.Encoder.Heading(p.st.Out, level, title)
	return true
}

// parseDef registers a macro: [def name body]. The body is stored as
// raw text and reparsed at every invocation.
func (p *parser) parseDef() bool {
	pos := p.c.Position()
	if !p.literal("[def") {
		return false
	}
	skipBlanks(p.c)
	name, ok := readMacroIdentifier(p.c)
	if !ok {
		return p.fail()
	}
	body, ok := p.readBalancedText()
	if !ok {
		return false
	}
	p.st.DefineMacro(&Definition{Name: name, Body: strings.TrimSpace(body), Pos: pos})
	return true
}

// parseTemplate registers a template: [template name [p1 p2] body].
func (p *parser) parseTemplate() bool {
	pos := p.c.Position()
	if !p.literal("[template") {
		return false
	}
	skipSpaces(p.c)
	name, ok := readMacroIdentifier(p.c)
	if !ok {
		return p.fail()
	}
	skipSpaces(p.c)

	var params []string
	if p.c.Peek() == '[' {
		p.c.Advance(1)
		for {
			skipSpaces(p.c)
			if p.c.Peek() == ']' {
				p.c.Advance(1)
				break
			}
			param, ok := readMacroIdentifier(p.c)
			if !ok {
				return p.fail()
			}
			params = append(params, param)
		}
	}

	body, ok := p.readBalancedText()
	if !ok {
		return false
	}
	p.st.DefineTemplate(&Definition{Name: name, Body: strings.TrimSpace(body), Params: params, Pos: pos})
	return true
}

func (p *parser) parseIncludeDirective() bool {
	pos := p.c.Position()
	if !p.literal("[include") {
		return false
	}
	skipBlanks(p.c)
	path, ok := p.readBalancedText()
	if !ok {
		return false
	}
	return p.processInclude(strings.TrimSpace(path), pos)
}

// parsePre emits a preformatted block whose whitespace survives as-is.
func (p *parser) parsePre() bool {
	if !p.literal("[pre") {
		return false
	}
	content, ok := p.readBalancedText()
	if !ok {
		return false
	}
	content = strings.TrimPrefix(content, " ")
	content = strings.TrimPrefix(content, "\n")
	p.st.Encoder.Preformatted(p.st.Out, content)
	return true
}

// parseCodeBlock collects the run of indented lines, strips their common
// indentation and emits them verbatim as a code block.
func (p *parser) parseCodeBlock() bool {
	var lines []string
	minIndent := -1
	lastNonBlank := 0

	for !p.c.AtEOF() {
		m := p.c.Save()
		line := p.readRawLine()
		trimmed := strings.TrimRight(line, " ")
		if trimmed == "" {
			lines = append(lines, "")
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent == 0 {
			p.c.Restore(m)
			break
		}
		if _, _, ok := listMarkerAt([]byte(line)); ok {
			p.c.Restore(m)
			break
		}
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
		lines = append(lines, strings.TrimRight(line, " "))
		lastNonBlank = len(lines)
	}

	lines = lines[:lastNonBlank]
	if len(lines) == 0 {
		// Cannot happen: the caller saw an indented non-blank line.
		return p.fail()
	}

	var sb strings.Builder
	for _, line := range lines {
		if len(line) > minIndent {
			sb.WriteString(line[minIndent:])
		}
		sb.WriteByte('\n')
	}
	p.st.Encoder.CodeBlock(p.st.Out, sb.String(), p.st.SourceMode)
	return true
}

// readRawLine consumes the current line including its newline and
// returns it without the newline.
func (p *parser) readRawLine() string {
	rem := p.c.Remaining()
	for i := 0; i < len(rem); i++ {
		if rem[i] == '\n' {
			p.c.Advance(i + 1)
			return string(rem[:i])
		}
	}
	p.c.Advance(len(rem))
	return string(rem)
}

// parseTable handles [table Title [[a][b]] [[c][d]] ]. The first row is
// the header when the table has more than one row.
func (p *parser) parseTable() bool {
	if !p.literal("[table") {
		return false
	}
	skipBlanks(p.c)
	title := strings.TrimSpace(p.readTextUntil('\n', '[', ']'))

	var rows [][][]byte
	cols := 0
	for {
		skipSpaces(p.c)
		if p.c.HasPrefix("[/") {
			if !p.parseComment() {
				return false
			}
			continue
		}
		if p.c.Peek() == ']' {
			p.c.Advance(1)
			break
		}
		if p.c.Peek() != '[' {
			return p.fail()
		}
		p.c.Advance(1)

		var row [][]byte
		for {
			skipSpaces(p.c)
			if p.c.Peek() == ']' {
				p.c.Advance(1)
				break
			}
			if p.c.Peek() != '[' {
				return p.fail()
			}
			p.c.Advance(1)
			cell, ok := p.capture(p.phraseUntilCloseBracket)
			if !ok {
				return false
			}
			row = append(row, cell)
		}
		if len(row) > cols {
			cols = len(row)
		}
		rows = append(rows, row)
	}

	var header [][]byte
	if len(rows) > 1 {
		header = rows[0]
		rows = rows[1:]
	}
	p.st.Encoder.Table(p.st.Out, title, header, rows, cols)
	return true
}

// parseVariableList handles [variablelist Title [[term][definition]] ].
func (p *parser) parseVariableList() bool {
	if !p.literal("[variablelist") {
		return false
	}
	skipBlanks(p.c)
	title := strings.TrimSpace(p.readTextUntil('\n', '[', ']'))

	var entries []VarListEntry
	for {
		skipSpaces(p.c)
		if p.c.HasPrefix("[/") {
			if !p.parseComment() {
				return false
			}
			continue
		}
		if p.c.Peek() == ']' {
			p.c.Advance(1)
			break
		}
		if !p.literal("[") {
			return false
		}
		skipSpaces(p.c)
		if !p.literal("[") {
			return false
		}
		term, ok := p.capture(p.phraseUntilCloseBracket)
		if !ok {
			return false
		}
		skipSpaces(p.c)
		if !p.literal("[") {
			return false
		}
		definition, ok := p.capture(p.phraseUntilCloseBracket)
		if !ok {
			return false
		}
		skipSpaces(p.c)
		if !p.literal("]") {
			return false
		}
		entries = append(entries, VarListEntry{Term: term, Definition: definition})
	}
	p.st.Encoder.VariableList(p.st.Out, title, entries)
	return true
}

// parseListBlock consumes the whole run of list item lines, nesting
// sublists by marker indentation.
func (p *parser) parseListBlock() bool {
	type frame struct {
		indent  int
		ordered bool
	}
	var stack []frame

	closeTo := func(n int) {
		for len(stack) > n {
			top := stack[len(stack)-1]
			p.st.Encoder.EndList(p.st.Out, top.ordered)
			stack = stack[:len(stack)-1]
		}
	}

	for !p.aborted {
		ind, marker, ok := listMarkerAt(p.c.Remaining())
		if !ok || !p.c.AtLineStart() {
			break
		}
		ordered := marker == '#'

		for len(stack) > 0 && ind < stack[len(stack)-1].indent {
			closeTo(len(stack) - 1)
		}
		if len(stack) > 0 && ind == stack[len(stack)-1].indent && ordered != stack[len(stack)-1].ordered {
			closeTo(len(stack) - 1)
		}
		if len(stack) == 0 || ind > stack[len(stack)-1].indent {
			stack = append(stack, frame{indent: ind, ordered: ordered})
			p.st.Encoder.BeginList(p.st.Out, ordered)
		}

		skipBlanks(p.c)
		p.c.Advance(1) // the mark
		skipBlanks(p.c)

		p.st.Encoder.BeginListItem(p.st.Out)
		if !p.parsePhrase(p.atListItemEnd) {
			return false
		}
		p.st.Encoder.EndListItem(p.st.Out)

		p.skipBlankLines()
	}

	closeTo(0)
	return !p.aborted
}

// atListItemEnd reports whether the current position terminates a list
// item: a blank line, another item line, or a dedent back to column one.
func (p *parser) atListItemEnd() bool {
	if p.c.AtEOF() {
		return true
	}
	if p.c.Peek() != '\n' {
		return false
	}
	rem := p.c.Remaining()[1:]
	i := 0
	for i < len(rem) && rem[i] == ' ' {
		i++
	}
	if i >= len(rem) || rem[i] == '\n' {
		return true
	}
	if _, _, ok := listMarkerAt(rem); ok {
		return true
	}
	return i == 0
}

// atParagraphEnd reports whether the current position terminates a
// paragraph: a blank line, a block construct on the next line, a list
// item line, or an indented line opening a code block.
func (p *parser) atParagraphEnd() bool {
	if p.c.AtEOF() {
		return true
	}
	if p.c.Peek() != '\n' {
		return false
	}
	rem := p.c.Remaining()[1:]
	i := 0
	for i < len(rem) && rem[i] == ' ' {
		i++
	}
	if i >= len(rem) || rem[i] == '\n' {
		return true
	}
	if _, _, ok := listMarkerAt(rem); ok {
		return true
	}
	if i > 0 {
		return true
	}
	return blockStartKeyword(rem) != ""
}

// parseParagraph is the fallback block construct.
func (p *parser) parseParagraph() bool {
	p.st.Encoder.BeginParagraph(p.st.Out)
	if !p.parsePhrase(p.atParagraphEnd) {
		return false
	}
	p.st.Encoder.EndParagraph(p.st.Out)
	if p.c.Peek() == '\n' {
		p.c.Advance(1)
	}
	return true
}
