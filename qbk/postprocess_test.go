package qbk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostProcessStructure(t *testing.T) {
	src := `<?xml version="1.0"?><article id="x"><title>T</title><para>some words</para></article>`
	got, err := PostProcess(src, 2, 79)
	require.NoError(t, err)

	want := `<?xml version="1.0"?>
<article id="x">
  <title>
    T
  </title>
  <para>
    some words
  </para>
</article>
`
	require.Equal(t, want, got)
}

func TestPostProcessIdempotent(t *testing.T) {
	srcs := []string{
		`<?xml version="1.0"?><article><para>` + strings.Repeat("word ", 40) + `</para></article>`,
		"<article>\n<para>a <emphasis>b</emphasis> c</para>\n<programlisting>x :=  1\n   y\n</programlisting>\n</article>",
		"<html><body><p>text with <b>bold</b> and <unknowntag>stuff</unknowntag></p></body></html>",
	}
	for _, src := range srcs {
		once, err := PostProcess(src, 2, 40)
		require.NoError(t, err)
		twice, err := PostProcess(once, 2, 40)
		require.NoError(t, err)
		require.Equal(t, once, twice, "formatting must be stable for %q", src)
	}
}

func TestPostProcessWrapsLongFlow(t *testing.T) {
	src := "<para>" + strings.Repeat("word ", 30) + "</para>"
	got, err := PostProcess(src, 2, 30)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Greater(t, len(lines), 3, "long flow should wrap onto several lines")
	for _, line := range lines {
		require.LessOrEqual(t, len(line), 30, "line %q exceeds the width", line)
	}
}

func TestPostProcessVerbatimUntouched(t *testing.T) {
	code := "<programlisting>if a {\n    b()\n}\n</programlisting>"
	src := "<article><para>x</para>" + code + "</article>"
	got, err := PostProcess(src, 2, 79)
	require.NoError(t, err)
	require.Contains(t, got, code)
}

func TestPostProcessInlineUnknownTags(t *testing.T) {
	got, err := PostProcess("<para>a <weird>b</weird> c</para>", 2, 79)
	require.NoError(t, err)
	require.Contains(t, got, "a <weird>b</weird> c")
}

func TestPostProcessDefaults(t *testing.T) {
	got, err := PostProcess("<para>x</para>", -1, -1)
	require.NoError(t, err)
	require.Equal(t, "<para>\n  x\n</para>\n", got)
}

func TestPostProcessErrors(t *testing.T) {
	_, err := PostProcess("<para", 2, 79)
	require.Error(t, err)

	_, err = PostProcess("<programlisting>never closed", 2, 79)
	require.Error(t, err)
}

func TestTokenizer(t *testing.T) {
	z := &tokenizer{src: `<!DOCTYPE x><a href="q>z">t</a><br/><!--c-->tail`}
	var types []TokenType
	var names []string
	for {
		tok, err := z.next()
		require.NoError(t, err)
		if tok.Type == ErrorToken {
			break
		}
		types = append(types, tok.Type)
		names = append(names, tok.Name)
	}
	require.Equal(t, []TokenType{DeclToken, StartTagToken, TextToken, EndTagToken, SelfClosingTagToken, CommentToken, TextToken}, types)
	require.Equal(t, []string{"", "a", "", "a", "br", "", ""}, names)
}
