package qbk

import (
	"fmt"
	"strings"
)

// A TokenType is the type of a Token in the emitted markup dialect.
type TokenType uint32

const (
	// ErrorToken means end of input or that tokenization failed.
	ErrorToken TokenType = iota
	// TextToken means a text run.
	TextToken
	// A StartTagToken looks like <a>.
	StartTagToken
	// An EndTagToken looks like </a>.
	EndTagToken
	// A SelfClosingTagToken looks like <br/>.
	SelfClosingTagToken
	// A CommentToken looks like <!--x-->.
	CommentToken
	// A DeclToken looks like <!DOCTYPE x> or <?xml x?>.
	DeclToken
)

func (t TokenType) String() string {
	switch t {
	case ErrorToken:
		return "Error"
	case TextToken:
		return "Text"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case SelfClosingTagToken:
		return "SelfClosingTag"
	case CommentToken:
		return "Comment"
	case DeclToken:
		return "Decl"
	}
	return fmt.Sprintf("Invalid(%d)", uint32(t))
}

// A Token is one element of the output stream: a tag with its name, or
// a text run. Raw always holds the exact source bytes of the token.
type Token struct {
	Type TokenType
	Name string
	Raw  string
}

// tokenizer re-tokenizes the rendered output text into an element
// stream. It is constructed once per pretty-print invocation.
type tokenizer struct {
	src string
	pos int
}

// errorAt builds a SyntaxError pointing at the given offset of the
// rendered text.
func (z *tokenizer) errorAt(pos int, format string, args ...any) error {
	line, col := 1, 1
	for i := 0; i < pos && i < len(z.src); i++ {
		if z.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{Origin: "output", Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (z *tokenizer) next() (Token, error) {
	if z.pos >= len(z.src) {
		return Token{Type: ErrorToken}, nil
	}
	if z.src[z.pos] != '<' {
		start := z.pos
		for z.pos < len(z.src) && z.src[z.pos] != '<' {
			z.pos++
		}
		return Token{Type: TextToken, Raw: z.src[start:z.pos]}, nil
	}

	rem := z.src[z.pos:]
	switch {
	case strings.HasPrefix(rem, "<!--"):
		end := strings.Index(rem, "-->")
		if end < 0 {
			return Token{}, z.errorAt(z.pos, "unterminated comment")
		}
		raw := rem[:end+3]
		z.pos += len(raw)
		return Token{Type: CommentToken, Raw: raw}, nil

	case strings.HasPrefix(rem, "<!"), strings.HasPrefix(rem, "<?"):
		end := z.findTagEnd(rem)
		if end < 0 {
			return Token{}, z.errorAt(z.pos, "unterminated declaration")
		}
		raw := rem[:end+1]
		z.pos += len(raw)
		return Token{Type: DeclToken, Raw: raw}, nil

	case strings.HasPrefix(rem, "</"):
		end := z.findTagEnd(rem)
		if end < 0 {
			return Token{}, z.errorAt(z.pos, "unterminated end tag")
		}
		raw := rem[:end+1]
		z.pos += len(raw)
		return Token{Type: EndTagToken, Name: tagName(raw[2 : len(raw)-1]), Raw: raw}, nil

	default:
		end := z.findTagEnd(rem)
		if end < 0 {
			return Token{}, z.errorAt(z.pos, "unterminated tag")
		}
		raw := rem[:end+1]
		z.pos += len(raw)
		typ := StartTagToken
		inner := raw[1 : len(raw)-1]
		if strings.HasSuffix(inner, "/") {
			typ = SelfClosingTagToken
			inner = inner[:len(inner)-1]
		}
		return Token{Type: typ, Name: tagName(inner), Raw: raw}, nil
	}
}

// findTagEnd returns the index of the '>' closing the tag that starts
// at rem[0], skipping over quoted attribute values.
func (z *tokenizer) findTagEnd(rem string) int {
	var quote byte
	for i := 1; i < len(rem); i++ {
		c := rem[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return i
		}
	}
	return -1
}

func tagName(inner string) string {
	inner = strings.TrimSpace(inner)
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '/' {
			return strings.ToLower(inner[:i])
		}
	}
	return strings.ToLower(inner)
}

// copyVerbatim consumes tokens up to and including the end tag matching
// the given verbatim start tag, returning the exact raw text of the
// whole element. Content inside is never reformatted.
func (z *tokenizer) copyVerbatim(start Token) (string, error) {
	var sb strings.Builder
	sb.WriteString(start.Raw)
	depth := 1
	for {
		tok, err := z.next()
		if err != nil {
			return "", err
		}
		if tok.Type == ErrorToken {
			return "", z.errorAt(z.pos, "unterminated <%s> element", start.Name)
		}
		sb.WriteString(tok.Raw)
		switch tok.Type {
		case StartTagToken:
			if tok.Name == start.Name {
				depth++
			}
		case EndTagToken:
			if tok.Name == start.Name {
				depth--
				if depth == 0 {
					return sb.String(), nil
				}
			}
		}
	}
}

// Tag names always placed on their own line, indented to their depth.
// Everything not listed here is inline and keeps flowing, so unknown
// content is never corrupted.
var blockLevelTags = map[string]bool{
	// boostbook
	"article": true, "book": true, "chapter": true, "part": true, "reference": true,
	"articleinfo": true, "bookinfo": true, "chapterinfo": true, "partinfo": true, "referenceinfo": true,
	"authorgroup": true, "author": true, "copyright": true, "legalnotice": true,
	"articlepurpose": true, "bookpurpose": true,
	"section": true, "title": true, "para": true, "simpara": true, "bridgehead": true,
	"itemizedlist": true, "orderedlist": true, "listitem": true,
	"variablelist": true, "varlistentry": true, "term": true,
	"table": true, "informaltable": true, "tgroup": true,
	"thead": true, "tbody": true, "row": true, "entry": true,
	// html
	"html": true, "head": true, "body": true, "meta": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "li": true,
	"dl": true, "dt": true, "dd": true, "caption": true,
	"tr": true, "td": true, "th": true,
	"div": true, "blockquote": true, "hr": true,
}

// Elements whose content is whitespace-significant and copied through
// byte for byte.
var verbatimTags = map[string]bool{
	"programlisting": true,
	"screen":         true,
	"pre":            true,
}

type formatter struct {
	out    strings.Builder
	line   strings.Builder
	indent int
	width  int
	depth  int

	// pendingSpace records that whitespace separated the previous atom
	// from the next one, which makes the boundary safe for wrapping.
	pendingSpace bool
}

func (f *formatter) flushLine() {
	if f.line.Len() > 0 {
		f.out.WriteString(f.line.String())
		f.out.WriteByte('\n')
		f.line.Reset()
	}
	f.pendingSpace = false
}

// ownLine places s alone on a line at the current depth.
func (f *formatter) ownLine(s string) {
	f.flushLine()
	f.out.Write(indentation(f.depth * f.indent))
	f.out.WriteString(s)
	f.out.WriteByte('\n')
}

func (f *formatter) openBlock(s string) {
	f.ownLine(s)
	f.depth++
}

func (f *formatter) closeBlock(s string) {
	f.flushLine()
	if f.depth > 0 {
		f.depth--
	}
	f.ownLine(s)
}

// writeAtom appends an unbreakable run to the flowing line, wrapping
// first when the boundary is safe and the line would grow past the
// width.
func (f *formatter) writeAtom(atom string, spaceBefore bool) {
	if f.line.Len() == 0 {
		f.line.Write(indentation(f.depth * f.indent))
		f.line.WriteString(atom)
		return
	}
	if spaceBefore {
		if f.line.Len()+1+len(atom) > f.width {
			f.flushLine()
			f.line.Write(indentation(f.depth * f.indent))
			f.line.WriteString(atom)
			return
		}
		f.line.WriteByte(' ')
	}
	f.line.WriteString(atom)
}

func (f *formatter) inlineTag(raw string) {
	f.writeAtom(raw, f.pendingSpace)
	f.pendingSpace = false
}

func (f *formatter) text(s string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			f.pendingSpace = true
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '\n' && s[j] != '\r' {
			j++
		}
		f.writeAtom(s[i:j], f.pendingSpace)
		f.pendingSpace = false
		i = j
	}
}

// PostProcess reformats the complete rendered output with controlled
// indentation and line width. It only breaks lines at safe boundaries
// (between sibling elements or at whitespace inside a text run), and it
// is idempotent: formatting its own output again changes nothing.
// Negative indent or linewidth select the defaults.
func PostProcess(src string, indent int, linewidth int) (string, error) {
	if indent < 0 {
		indent = DefaultIndent
	}
	if linewidth < 0 {
		linewidth = DefaultLineWidth
	}

	z := &tokenizer{src: src}
	f := &formatter{indent: indent, width: linewidth}

	for {
		tok, err := z.next()
		if err != nil {
			return "", err
		}
		if tok.Type == ErrorToken {
			break
		}

		switch tok.Type {
		case TextToken:
			f.text(tok.Raw)
		case CommentToken, DeclToken:
			f.ownLine(tok.Raw)
		case SelfClosingTagToken:
			if blockLevelTags[tok.Name] {
				f.ownLine(tok.Raw)
			} else {
				f.inlineTag(tok.Raw)
			}
		case StartTagToken:
			switch {
			case verbatimTags[tok.Name]:
				raw, err := z.copyVerbatim(tok)
				if err != nil {
					return "", err
				}
				f.ownLine(raw)
			case blockLevelTags[tok.Name]:
				f.openBlock(tok.Raw)
			default:
				f.inlineTag(tok.Raw)
			}
		case EndTagToken:
			if blockLevelTags[tok.Name] {
				f.closeBlock(tok.Raw)
			} else {
				f.inlineTag(tok.Raw)
			}
		}
	}
	f.flushLine()
	return f.out.String(), nil
}
