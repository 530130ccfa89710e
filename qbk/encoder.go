package qbk

import (
	"fmt"
	"strings"
)

// SpanKind enumerates the inline emphasis constructs.
type SpanKind int

const (
	SpanBold SpanKind = iota
	SpanItalic
	SpanUnderline
	SpanTeletype
	SpanQuote
)

// VarListEntry is one term/definition pair of a variablelist.
type VarListEntry struct {
	Term       []byte
	Definition []byte
}

// Encoder renders recognized constructs into one concrete output markup
// dialect. The set of implementations is closed: boostbook and html,
// selected once per run. Every construct the grammar can produce has a
// method here, so a missing rendering is a compile-time error rather
// than silently dropped content.
type Encoder interface {
	Encoding() string

	DocInfoPre(out *ByteRenderer, info *DocInfo, cfg *Config)
	DocInfoPost(out *ByteRenderer, info *DocInfo)

	BeginSection(out *ByteRenderer, id string, title []byte)
	EndSection(out *ByteRenderer)
	Heading(out *ByteRenderer, level int, title []byte)

	BeginParagraph(out *ByteRenderer)
	EndParagraph(out *ByteRenderer)

	BeginSpan(out *ByteRenderer, kind SpanKind)
	EndSpan(out *ByteRenderer, kind SpanKind)
	BeginLink(out *ByteRenderer, url string)
	EndLink(out *ByteRenderer)
	Image(out *ByteRenderer, path string)
	Anchor(out *ByteRenderer, id string)
	LineBreak(out *ByteRenderer)

	CodeBlock(out *ByteRenderer, code string, lang string)
	Preformatted(out *ByteRenderer, text string)

	BeginList(out *ByteRenderer, ordered bool)
	EndList(out *ByteRenderer, ordered bool)
	BeginListItem(out *ByteRenderer)
	EndListItem(out *ByteRenderer)

	Table(out *ByteRenderer, title string, header [][]byte, rows [][][]byte, cols int)
	VariableList(out *ByteRenderer, title string, entries []VarListEntry)

	// Text escapes and appends plain text; RawText appends as-is.
	Text(out *ByteRenderer, text []byte)
	RawText(out *ByteRenderer, text []byte)
}

// NewEncoder maps the configuration value to an encoder. An unknown
// name is a configuration error, detected before any parsing starts.
func NewEncoder(encoding string) (Encoder, error) {
	switch encoding {
	case EncodingBoostbook:
		return &BoostbookEncoder{}, nil
	case EncodingHTML:
		return &HTMLEncoder{}, nil
	}
	return nil, fmt.Errorf("unknown output encoding: %s", encoding)
}

// slugify derives an element id from free text.
func slugify(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case isAlpha(c) || isDigit(c):
			sb.WriteByte(c | 0x20)
		case c == ' ' || c == '_' || c == '-' || c == '.':
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// BoostbookEncoder renders the BoostBook XML dialect.
type BoostbookEncoder struct{}

func (e *BoostbookEncoder) Encoding() string { return EncodingBoostbook }

func (e *BoostbookEncoder) DocInfoPre(out *ByteRenderer, info *DocInfo, cfg *Config) {
	kind := info.Kind
	if kind == "" {
		kind = "article"
	}
	id := info.ID
	if id == "" {
		id = slugify(info.Title)
	}

	out.Renderln(`<?xml version="1.0" encoding="UTF-8"?>`)
	out.Renderln(`<!DOCTYPE `, kind, ` PUBLIC "-//Boost//DTD BoostBook XML V1.0//EN" "http://www.boost.org/tools/boostbook/dtd/boostbook.dtd">`)

	out.Render("<", kind)
	if id != "" {
		out.Render(` id="`)
		escapeAttr(out, id)
		out.Render(`"`)
	}
	out.Render(` last-revision="`)
	escapeAttr(out, cfg.Now.Format("Mon Jan  2 15:04:05 2006"))
	out.Renderln(`">`)

	out.Render("<title>")
	escapeText(out, []byte(info.Title))
	if info.DocVersion != "" {
		out.Render(" ")
		escapeText(out, []byte(info.DocVersion))
	}
	out.Renderln("</title>")

	if len(info.Authors) == 0 && len(info.Copyrights) == 0 && info.License == "" && info.Purpose == "" {
		return
	}

	out.Renderln("<", kind, "info>")
	if len(info.Authors) > 0 {
		out.Renderln("<authorgroup>")
		for _, a := range info.Authors {
			out.Render("<author><surname>")
			escapeText(out, []byte(a.Surname))
			out.Render("</surname><firstname>")
			escapeText(out, []byte(a.Firstname))
			out.Renderln("</firstname></author>")
		}
		out.Renderln("</authorgroup>")
	}
	for _, cr := range info.Copyrights {
		out.Render("<copyright>")
		for _, y := range cr.Years {
			out.Render("<year>")
			escapeText(out, []byte(y))
			out.Render("</year>")
		}
		out.Render("<holder>")
		escapeText(out, []byte(cr.Holder))
		out.Renderln("</holder></copyright>")
	}
	if info.License != "" {
		out.Render("<legalnotice><para>")
		escapeText(out, []byte(info.License))
		out.Renderln("</para></legalnotice>")
	}
	if info.Purpose != "" {
		out.Render("<", kind, "purpose>")
		escapeText(out, []byte(info.Purpose))
		out.Renderln("</", kind, "purpose>")
	}
	out.Renderln("</", kind, "info>")
}

func (e *BoostbookEncoder) DocInfoPost(out *ByteRenderer, info *DocInfo) {
	kind := info.Kind
	if kind == "" {
		kind = "article"
	}
	out.Renderln("</", kind, ">")
}

func (e *BoostbookEncoder) BeginSection(out *ByteRenderer, id string, title []byte) {
	out.Render(`<section id="`)
	escapeAttr(out, id)
	out.Renderln(`">`)
	out.Render("<title>", title)
	out.Renderln("</title>")
}

func (e *BoostbookEncoder) EndSection(out *ByteRenderer) {
	out.Renderln("</section>")
}

func (e *BoostbookEncoder) Heading(out *ByteRenderer, level int, title []byte) {
	out.Render(`<bridgehead renderas="sect`, level, `">`, title)
	out.Renderln("</bridgehead>")
}

func (e *BoostbookEncoder) BeginParagraph(out *ByteRenderer) {
	out.Render("<para>")
}

func (e *BoostbookEncoder) EndParagraph(out *ByteRenderer) {
	out.Renderln("</para>")
}

var boostbookSpans = map[SpanKind][2]string{
	SpanBold:      {`<emphasis role="bold">`, "</emphasis>"},
	SpanItalic:    {"<emphasis>", "</emphasis>"},
	SpanUnderline: {`<emphasis role="underline">`, "</emphasis>"},
	SpanTeletype:  {"<literal>", "</literal>"},
	SpanQuote:     {"<quote>", "</quote>"},
}

func (e *BoostbookEncoder) BeginSpan(out *ByteRenderer, kind SpanKind) {
	out.Render(boostbookSpans[kind][0])
}

func (e *BoostbookEncoder) EndSpan(out *ByteRenderer, kind SpanKind) {
	out.Render(boostbookSpans[kind][1])
}

func (e *BoostbookEncoder) BeginLink(out *ByteRenderer, url string) {
	out.Render(`<ulink url="`)
	escapeAttr(out, url)
	out.Render(`">`)
}

func (e *BoostbookEncoder) EndLink(out *ByteRenderer) {
	out.Render("</ulink>")
}

func (e *BoostbookEncoder) Image(out *ByteRenderer, path string) {
	out.Render(`<inlinemediaobject><imageobject><imagedata fileref="`)
	escapeAttr(out, path)
	out.Render(`"/></imageobject></inlinemediaobject>`)
}

func (e *BoostbookEncoder) Anchor(out *ByteRenderer, id string) {
	out.Render(`<anchor id="`)
	escapeAttr(out, id)
	out.Render(`"/>`)
}

func (e *BoostbookEncoder) LineBreak(out *ByteRenderer) {
	out.Render("<sbr/>")
}

func (e *BoostbookEncoder) CodeBlock(out *ByteRenderer, code string, lang string) {
	out.Render("<programlisting>")
	escapeText(out, []byte(code))
	out.Renderln("</programlisting>")
}

func (e *BoostbookEncoder) Preformatted(out *ByteRenderer, text string) {
	out.Render("<screen>")
	escapeText(out, []byte(text))
	out.Renderln("</screen>")
}

func (e *BoostbookEncoder) BeginList(out *ByteRenderer, ordered bool) {
	if ordered {
		out.Renderln("<orderedlist>")
	} else {
		out.Renderln("<itemizedlist>")
	}
}

func (e *BoostbookEncoder) EndList(out *ByteRenderer, ordered bool) {
	if ordered {
		out.Renderln("</orderedlist>")
	} else {
		out.Renderln("</itemizedlist>")
	}
}

func (e *BoostbookEncoder) BeginListItem(out *ByteRenderer) {
	out.Render("<listitem><simpara>")
}

func (e *BoostbookEncoder) EndListItem(out *ByteRenderer) {
	out.Renderln("</simpara></listitem>")
}

func (e *BoostbookEncoder) Table(out *ByteRenderer, title string, header [][]byte, rows [][][]byte, cols int) {
	if title != "" {
		out.Renderln("<table>")
		out.Render("<title>")
		escapeText(out, []byte(title))
		out.Renderln("</title>")
	} else {
		out.Renderln("<informaltable>")
	}
	out.Renderln(`<tgroup cols="`, cols, `">`)

	writeRow := func(row [][]byte) {
		out.Renderln("<row>")
		for _, cell := range row {
			out.Render("<entry>", cell)
			out.Renderln("</entry>")
		}
		out.Renderln("</row>")
	}

	if header != nil {
		out.Renderln("<thead>")
		writeRow(header)
		out.Renderln("</thead>")
	}
	out.Renderln("<tbody>")
	for _, row := range rows {
		writeRow(row)
	}
	out.Renderln("</tbody>")
	out.Renderln("</tgroup>")
	if title != "" {
		out.Renderln("</table>")
	} else {
		out.Renderln("</informaltable>")
	}
}

func (e *BoostbookEncoder) VariableList(out *ByteRenderer, title string, entries []VarListEntry) {
	out.Renderln("<variablelist>")
	if title != "" {
		out.Render("<title>")
		escapeText(out, []byte(title))
		out.Renderln("</title>")
	}
	for _, entry := range entries {
		out.Renderln("<varlistentry>")
		out.Render("<term>", entry.Term)
		out.Renderln("</term>")
		out.Render("<listitem><simpara>", entry.Definition)
		out.Renderln("</simpara></listitem>")
		out.Renderln("</varlistentry>")
	}
	out.Renderln("</variablelist>")
}

func (e *BoostbookEncoder) Text(out *ByteRenderer, text []byte) {
	escapeText(out, text)
}

func (e *BoostbookEncoder) RawText(out *ByteRenderer, text []byte) {
	out.Render(text)
}
