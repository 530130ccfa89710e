package qbk

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HTMLEncoder renders plain HTML5 output.
type HTMLEncoder struct{}

func (e *HTMLEncoder) Encoding() string { return EncodingHTML }

func (e *HTMLEncoder) DocInfoPre(out *ByteRenderer, info *DocInfo, cfg *Config) {
	out.Renderln("<!DOCTYPE html>")
	out.Renderln("<html>")
	out.Renderln("<head>")
	out.Renderln(`<meta charset="UTF-8"/>`)
	out.Render("<title>")
	escapeText(out, []byte(info.Title))
	out.Renderln("</title>")
	if info.DocVersion != "" {
		out.Render(`<meta name="version" content="`)
		escapeAttr(out, info.DocVersion)
		out.Renderln(`"/>`)
	}
	out.Render(`<meta name="generated" content="`)
	escapeAttr(out, cfg.Now.Format("Mon Jan  2 15:04:05 2006"))
	out.Renderln(`"/>`)
	out.Renderln("</head>")
	out.Renderln("<body>")

	out.Render("<h1>")
	escapeText(out, []byte(info.Title))
	out.Renderln("</h1>")

	for _, a := range info.Authors {
		out.Render(`<p class="author">`)
		escapeText(out, []byte(a.Firstname))
		out.Render(" ")
		escapeText(out, []byte(a.Surname))
		out.Renderln("</p>")
	}
	for _, cr := range info.Copyrights {
		out.Render(`<p class="copyright">Copyright &#169; `)
		for i, y := range cr.Years {
			if i > 0 {
				out.Render(", ")
			}
			escapeText(out, []byte(y))
		}
		out.Render(" ")
		escapeText(out, []byte(cr.Holder))
		out.Renderln("</p>")
	}
	if info.License != "" {
		out.Render(`<p class="legalnotice">`)
		escapeText(out, []byte(info.License))
		out.Renderln("</p>")
	}
	if info.Purpose != "" {
		out.Render(`<p class="purpose">`)
		escapeText(out, []byte(info.Purpose))
		out.Renderln("</p>")
	}
}

func (e *HTMLEncoder) DocInfoPost(out *ByteRenderer, info *DocInfo) {
	out.Renderln("</body>")
	out.Renderln("</html>")
}

func (e *HTMLEncoder) BeginSection(out *ByteRenderer, id string, title []byte) {
	out.Render(`<section id="`)
	escapeAttr(out, id)
	out.Renderln(`">`)
	out.Render("<h2>", title)
	out.Renderln("</h2>")
}

func (e *HTMLEncoder) EndSection(out *ByteRenderer) {
	out.Renderln("</section>")
}

func (e *HTMLEncoder) Heading(out *ByteRenderer, level int, title []byte) {
	out.Render("<h", level, ">", title)
	out.Renderln("</h", level, ">")
}

func (e *HTMLEncoder) BeginParagraph(out *ByteRenderer) {
	out.Render("<p>")
}

func (e *HTMLEncoder) EndParagraph(out *ByteRenderer) {
	out.Renderln("</p>")
}

var htmlSpans = map[SpanKind][2]string{
	SpanBold:      {"<b>", "</b>"},
	SpanItalic:    {"<i>", "</i>"},
	SpanUnderline: {"<u>", "</u>"},
	SpanTeletype:  {"<code>", "</code>"},
	SpanQuote:     {"<q>", "</q>"},
}

func (e *HTMLEncoder) BeginSpan(out *ByteRenderer, kind SpanKind) {
	out.Render(htmlSpans[kind][0])
}

func (e *HTMLEncoder) EndSpan(out *ByteRenderer, kind SpanKind) {
	out.Render(htmlSpans[kind][1])
}

func (e *HTMLEncoder) BeginLink(out *ByteRenderer, url string) {
	out.Render(`<a href="`)
	escapeAttr(out, url)
	out.Render(`">`)
}

func (e *HTMLEncoder) EndLink(out *ByteRenderer) {
	out.Render("</a>")
}

func (e *HTMLEncoder) Image(out *ByteRenderer, path string) {
	out.Render(`<img src="`)
	escapeAttr(out, path)
	out.Render(`"/>`)
}

func (e *HTMLEncoder) Anchor(out *ByteRenderer, id string) {
	out.Render(`<a id="`)
	escapeAttr(out, id)
	out.Render(`"></a>`)
}

func (e *HTMLEncoder) LineBreak(out *ByteRenderer) {
	out.Render("<br/>")
}

// CodeBlock highlights the code with chroma. The lexer comes from the
// document source-mode when set, otherwise from content analysis, with
// a plain-text fallback.
func (e *HTMLEncoder) CodeBlock(out *ByteRenderer, code string, lang string) {
	l := lexers.Get(lang)
	if l == nil {
		l = lexers.Analyse(code)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	s := styles.Get("swapoff")
	f := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))

	it, err := l.Tokenise(nil, code)
	if err != nil {
		out.Render(`<pre class="programlisting">`)
		escapeText(out, []byte(code))
		out.Renderln("</pre>")
		return
	}

	rb := &bytes.Buffer{}
	if err := f.Format(rb, s, it); err != nil {
		out.Render(`<pre class="programlisting">`)
		escapeText(out, []byte(code))
		out.Renderln("</pre>")
		return
	}

	out.Render(`<pre class="programlisting">`)
	out.Render(rb.Bytes())
	out.Renderln("</pre>")
}

func (e *HTMLEncoder) Preformatted(out *ByteRenderer, text string) {
	out.Render("<pre>")
	escapeText(out, []byte(text))
	out.Renderln("</pre>")
}

func (e *HTMLEncoder) BeginList(out *ByteRenderer, ordered bool) {
	if ordered {
		out.Renderln("<ol>")
	} else {
		out.Renderln("<ul>")
	}
}

func (e *HTMLEncoder) EndList(out *ByteRenderer, ordered bool) {
	if ordered {
		out.Renderln("</ol>")
	} else {
		out.Renderln("</ul>")
	}
}

func (e *HTMLEncoder) BeginListItem(out *ByteRenderer) {
	out.Render("<li>")
}

func (e *HTMLEncoder) EndListItem(out *ByteRenderer) {
	out.Renderln("</li>")
}

func (e *HTMLEncoder) Table(out *ByteRenderer, title string, header [][]byte, rows [][][]byte, cols int) {
	out.Renderln("<table>")
	if title != "" {
		out.Render("<caption>")
		escapeText(out, []byte(title))
		out.Renderln("</caption>")
	}
	if header != nil {
		out.Renderln("<thead>")
		out.Renderln("<tr>")
		for _, cell := range header {
			out.Render("<th>", cell)
			out.Renderln("</th>")
		}
		out.Renderln("</tr>")
		out.Renderln("</thead>")
	}
	out.Renderln("<tbody>")
	for _, row := range rows {
		out.Renderln("<tr>")
		for _, cell := range row {
			out.Render("<td>", cell)
			out.Renderln("</td>")
		}
		out.Renderln("</tr>")
	}
	out.Renderln("</tbody>")
	out.Renderln("</table>")
}

func (e *HTMLEncoder) VariableList(out *ByteRenderer, title string, entries []VarListEntry) {
	if title != "" {
		out.Render("<h3>")
		escapeText(out, []byte(title))
		out.Renderln("</h3>")
	}
	out.Renderln("<dl>")
	for _, entry := range entries {
		out.Render("<dt>", entry.Term)
		out.Renderln("</dt>")
		out.Render("<dd>", entry.Definition)
		out.Renderln("</dd>")
	}
	out.Renderln("</dl>")
}

func (e *HTMLEncoder) Text(out *ByteRenderer, text []byte) {
	escapeText(out, text)
}

func (e *HTMLEncoder) RawText(out *ByteRenderer, text []byte) {
	out.Render(text)
}
