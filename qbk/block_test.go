package qbk

import (
	"strings"
	"testing"
)

// renderBody runs the body grammar over src with the boostbook encoder
// and returns the raw rendered output.
func renderBody(t *testing.T, src string) string {
	t.Helper()
	p, st := newTestParser(src)
	if !p.parseBlocks() {
		t.Fatalf("body parse failed, errors = %d", st.ErrorCount)
	}
	return st.Out.String()
}

func TestParseHeading(t *testing.T) {
	out := renderBody(t, "[h3 My Title]\n")
	if !strings.Contains(out, `<bridgehead renderas="sect3">My Title</bridgehead>`) {
		t.Errorf("output = %q", out)
	}
}

func TestParseCommentProducesNothing(t *testing.T) {
	out := renderBody(t, "[/ ignore [nested] me]\nvisible\n")
	if strings.Contains(out, "ignore") || strings.Contains(out, "nested") {
		t.Errorf("comment leaked into output: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("output = %q", out)
	}
}

func TestParseUnorderedList(t *testing.T) {
	out := renderBody(t, "* one\n* two\n")
	for _, want := range []string{
		"<itemizedlist>",
		"<listitem><simpara>one",
		"<listitem><simpara>two",
		"</itemizedlist>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestParseNestedList(t *testing.T) {
	out := renderBody(t, "* one\n* two\n  # sub\n* three\n")
	for _, want := range []string{
		"<itemizedlist>",
		"<orderedlist>",
		"<listitem><simpara>sub",
		"</orderedlist>",
		"<listitem><simpara>three",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "</orderedlist>") > strings.Index(out, "three") {
		t.Errorf("sublist not closed before the next outer item:\n%s", out)
	}
}

func TestParseCodeBlock(t *testing.T) {
	src := "intro\n\n    int main() {\n        return 0;\n    }\n\nafter\n"
	out := renderBody(t, src)
	if !strings.Contains(out, "<programlisting>int main() {\n    return 0;\n}\n</programlisting>") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Errorf("text after the code block is missing:\n%s", out)
	}
}

func TestParsePre(t *testing.T) {
	out := renderBody(t, "[pre\nraw   spacing\n]\n")
	if !strings.Contains(out, "<screen>raw   spacing\n</screen>") {
		t.Errorf("output = %q", out)
	}
}

func TestParseTable(t *testing.T) {
	src := "[table Stats\n  [[name][value]]\n  [[a][1]]\n]\n"
	out := renderBody(t, src)
	for _, want := range []string{
		"<table>",
		"<title>Stats</title>",
		`<tgroup cols="2">`,
		"<thead>",
		"<entry>name",
		"<entry>a",
		"</table>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestParseTableSingleRowHasNoHeader(t *testing.T) {
	out := renderBody(t, "[table\n  [[only][row]]\n]\n")
	if strings.Contains(out, "<thead>") {
		t.Errorf("single-row table must not have a header:\n%s", out)
	}
	if !strings.Contains(out, "<informaltable>") {
		t.Errorf("untitled table must be informal:\n%s", out)
	}
}

func TestParseVariableList(t *testing.T) {
	src := "[variablelist Terms\n  [[apple][a fruit]]\n]\n"
	out := renderBody(t, src)
	for _, want := range []string{
		"<variablelist>",
		"<title>Terms</title>",
		"<term>apple",
		"<listitem><simpara>a fruit",
		"</variablelist>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestParagraphBreaksAtBlock(t *testing.T) {
	out := renderBody(t, "first words\n[h2 Next]\n")
	if !strings.Contains(out, "<para>first words") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, `<bridgehead renderas="sect2">Next</bridgehead>`) {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "<para>first words\n[h2") {
		t.Errorf("heading swallowed by the paragraph:\n%s", out)
	}
}

func TestParagraphJoinsContiguousLines(t *testing.T) {
	out := renderBody(t, "line one\nline two\n\nnext para\n")
	if !strings.Contains(out, "line one\nline two") {
		t.Errorf("output = %q", out)
	}
	if got := strings.Count(out, "<para>"); got != 2 {
		t.Errorf("paragraph count = %d, want 2:\n%s", got, out)
	}
}

func TestSectionNesting(t *testing.T) {
	src := "[section Outer]\n[section Inner]\ndeep\n[endsect]\n[endsect]\n"
	p, st := newTestParser(src)
	if !p.parseBlocks() {
		t.Fatalf("body parse failed, errors = %d", st.ErrorCount)
	}
	if st.SectionLevel != 0 {
		t.Errorf("SectionLevel = %d, want 0", st.SectionLevel)
	}
	out := st.Out.String()
	if !strings.Contains(out, `<section id="section_1">`) || !strings.Contains(out, `<section id="section_2">`) {
		t.Errorf("section ids missing:\n%s", out)
	}
}
