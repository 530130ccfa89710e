package qbk

import (
	"strconv"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func isSpaceChar(c byte) bool {
	return c == ' ' || c == '\n'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Macro and template identifiers start with a letter or underscore and
// continue with letters, digits, underscores, dots or dashes.
func isIdentStart(c byte) bool {
	return isAlpha(c) || c == '_'
}

func isIdentChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '.' || c == '-'
}

// readMacroIdentifier consumes an identifier from the cursor.
// The cursor is left untouched when no identifier starts there.
func readMacroIdentifier(c *Cursor) (string, bool) {
	rem := c.Remaining()
	if len(rem) == 0 || !isIdentStart(rem[0]) {
		return "", false
	}
	n := 1
	for n < len(rem) && isIdentChar(rem[n]) {
		n++
	}
	name := string(rem[:n])
	c.Advance(n)
	return name, true
}

// skipSpaces consumes blanks and newlines.
func skipSpaces(c *Cursor) {
	rem := c.Remaining()
	n := 0
	for n < len(rem) && isSpaceChar(rem[n]) {
		n++
	}
	c.Advance(n)
}

// skipBlanks consumes blanks but never crosses a line boundary.
func skipBlanks(c *Cursor) {
	rem := c.Remaining()
	n := 0
	for n < len(rem) && rem[n] == ' ' {
		n++
	}
	c.Advance(n)
}

// escapeText escapes the characters with a meaning in both output
// schemas. Attribute values additionally escape the quote character.
func escapeText(dst *ByteRenderer, text []byte) {
	for _, ch := range text {
		switch ch {
		case '&':
			dst.Render("&amp;")
		case '<':
			dst.Render("&lt;")
		case '>':
			dst.Render("&gt;")
		default:
			dst.Render(ch)
		}
	}
}

func escapeAttr(dst *ByteRenderer, text string) {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '&':
			dst.Render("&amp;")
		case '<':
			dst.Render("&lt;")
		case '>':
			dst.Render("&gt;")
		case '"':
			dst.Render("&quot;")
		default:
			dst.Render(text[i])
		}
	}
}
