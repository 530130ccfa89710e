package qbk

import (
	"strings"
)

// Author of the document, as written in the [authors] attribute.
type Author struct {
	Surname   string
	Firstname string
}

// Copyright holds one [copyright years holder] attribute.
type Copyright struct {
	Years  []string
	Holder string
}

// DocInfo is the document-header metadata. It is produced once per
// top-level parse, rendered at the "pre" stage, and the derived trailing
// markup is rendered again at the "post" stage once the body is known.
type DocInfo struct {
	Kind             string
	Title            string
	ID               string
	DocVersion       string
	QuickbookVersion string
	Authors          []Author
	Copyrights       []Copyright
	Purpose          string
	License          string
	SourceMode       string

	// Ignore marks the header of an included sub-document, whose
	// prologue and epilogue must not be rendered again.
	Ignore bool
}

var docKinds = []string{"article", "book", "chapter", "part", "reference"}

func isDocKind(word string) bool {
	for _, k := range docKinds {
		if k == word {
			return true
		}
	}
	return false
}

// parseDocInfo attempts the header grammar from the current position.
// On failure the cursor is rewound to where it started; the caller
// decides whether a missing header is acceptable for this unit.
func (p *parser) parseDocInfo() (*DocInfo, bool) {
	start := p.c.Save()

	skipSpaces(p.c)
	for p.c.HasPrefix("[/") {
		if !p.parseComment() {
			p.c.Restore(start)
			return nil, false
		}
		skipSpaces(p.c)
	}

	if !p.literal("[") {
		p.c.Restore(start)
		return nil, false
	}
	skipBlanks(p.c)

	kind, ok := readMacroIdentifier(p.c)
	if !ok || !isDocKind(kind) {
		p.fail()
		p.c.Restore(start)
		return nil, false
	}

	info := &DocInfo{Kind: kind}
	skipBlanks(p.c)
	info.Title = strings.TrimSpace(p.readTextUntil('[', ']', '\n'))

	for {
		skipSpaces(p.c)
		if p.c.AtEOF() {
			p.fail()
			p.c.Restore(start)
			return nil, false
		}
		if p.c.Peek() == ']' {
			p.c.Advance(1)
			return info, true
		}
		if !p.parseDocInfoAttribute(info) {
			p.c.Restore(start)
			return nil, false
		}
	}
}

func (p *parser) parseDocInfoAttribute(info *DocInfo) bool {
	if p.c.HasPrefix("[/") {
		return p.parseComment()
	}
	if !p.literal("[") {
		return false
	}
	skipBlanks(p.c)
	key, ok := readMacroIdentifier(p.c)
	if !ok {
		return p.fail()
	}
	skipBlanks(p.c)

	switch key {
	case "quickbook":
		info.QuickbookVersion, ok = p.readBalancedText()
	case "version":
		info.DocVersion, ok = p.readBalancedText()
	case "id":
		info.ID, ok = p.readBalancedText()
	case "purpose":
		info.Purpose, ok = p.readBalancedText()
	case "license":
		info.License, ok = p.readBalancedText()
	case "source-mode":
		info.SourceMode, ok = p.readBalancedText()
	case "authors":
		return p.parseAuthors(info)
	case "copyright":
		return p.parseCopyright(info)
	default:
		return p.fail()
	}
	if !ok {
		return false
	}
	return true
}

// parseAuthors parses [authors [Last, First], [Last, First]].
func (p *parser) parseAuthors(info *DocInfo) bool {
	for {
		skipSpaces(p.c)
		if !p.literal("[") {
			return false
		}
		surname := strings.TrimSpace(p.readTextUntil(',', ']', 0))
		var firstname string
		if p.c.Peek() == ',' {
			p.c.Advance(1)
			firstname = strings.TrimSpace(p.readTextUntil(']', 0, 0))
		}
		if !p.literal("]") {
			return false
		}
		info.Authors = append(info.Authors, Author{Surname: surname, Firstname: firstname})

		skipSpaces(p.c)
		if p.c.Peek() == ',' {
			p.c.Advance(1)
			continue
		}
		break
	}
	skipSpaces(p.c)
	return p.literal("]")
}

// parseCopyright parses [copyright year... holder words].
func (p *parser) parseCopyright(info *DocInfo) bool {
	text, ok := p.readBalancedText()
	if !ok {
		return false
	}
	cr := Copyright{}
	words := strings.Fields(text)
	i := 0
	for ; i < len(words); i++ {
		if len(words[i]) == 0 || !isDigit(words[i][0]) {
			break
		}
		cr.Years = append(cr.Years, words[i])
	}
	cr.Holder = strings.Join(words[i:], " ")
	info.Copyrights = append(info.Copyrights, cr)
	return true
}

// readTextUntil consumes text up to any of the given delimiter bytes
// (zero bytes are ignored), leaving the delimiter unconsumed.
func (p *parser) readTextUntil(stops ...byte) string {
	rem := p.c.Remaining()
	for i := 0; i < len(rem); i++ {
		for _, s := range stops {
			if s != 0 && rem[i] == s {
				text := string(rem[:i])
				p.c.Advance(i)
				return text
			}
		}
	}
	p.c.Advance(len(rem))
	return string(rem)
}
