package qbk

import (
	"strings"
	"testing"
)

func TestPhraseSpans(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bold", "[*strong]\n", `<emphasis role="bold">strong</emphasis>`},
		{"italics", "['slanted]\n", "<emphasis>slanted</emphasis>"},
		{"underline", "[_below]\n", `<emphasis role="underline">below</emphasis>`},
		{"teletype", "[^mono]\n", "<literal>mono</literal>"},
		{"quote", `["quoted]` + "\n", "<quote>quoted</quote>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderBody(t, "x "+tt.src)
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want substring %q", out, tt.want)
			}
		})
	}
}

func TestPhraseLink(t *testing.T) {
	out := renderBody(t, "see [@https://example.com the site]\n")
	if !strings.Contains(out, `<ulink url="https://example.com">the site</ulink>`) {
		t.Errorf("output = %q", out)
	}
}

func TestPhraseBareLink(t *testing.T) {
	out := renderBody(t, "see [@https://example.com]\n")
	if !strings.Contains(out, `<ulink url="https://example.com">https://example.com</ulink>`) {
		t.Errorf("output = %q", out)
	}
}

func TestPhraseImageAnchorBreak(t *testing.T) {
	out := renderBody(t, "a [$images/x.png] b [#mark] c [br] d\n")
	for _, want := range []string{
		`<imagedata fileref="images/x.png"/>`,
		`<anchor id="mark"/>`,
		"<sbr/>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestPhraseEscape(t *testing.T) {
	out := renderBody(t, `not a link: \[x\]` + "\n")
	if !strings.Contains(out, "not a link: [x]") {
		t.Errorf("output = %q", out)
	}
}

func TestPhraseRawPassthrough(t *testing.T) {
	out := renderBody(t, "before '''<custom attr=\"1\"/>''' after\n")
	if !strings.Contains(out, `<custom attr="1"/>`) {
		t.Errorf("raw markup was escaped: %q", out)
	}
}

func TestPhraseEntities(t *testing.T) {
	out := renderBody(t, "a&nbsp;b and x &#169; y and a & b\n")
	if !strings.Contains(out, "a&nbsp;b") {
		t.Errorf("named entity was escaped: %q", out)
	}
	if !strings.Contains(out, "x &#169; y") {
		t.Errorf("numeric entity was escaped: %q", out)
	}
	if !strings.Contains(out, "a &amp; b") {
		t.Errorf("bare ampersand was not escaped: %q", out)
	}
}

func TestPhraseTextEscaping(t *testing.T) {
	out := renderBody(t, "1 < 2 and 3 > 2\n")
	if !strings.Contains(out, "1 &lt; 2 and 3 &gt; 2") {
		t.Errorf("output = %q", out)
	}
}

func TestExpansionScopedParams(t *testing.T) {
	p, st := newTestParser("[def who everyone]\n[template greet [who] Hi [who]]\n\n[greet Ana] and [who]\n")
	if !p.parseBlocks() {
		t.Fatalf("parse failed, errors = %d", st.ErrorCount)
	}
	out := st.Out.String()
	if !strings.Contains(out, "Hi Ana") {
		t.Errorf("parameter did not shadow the macro inside the expansion:\n%s", out)
	}
	if !strings.Contains(out, "and everyone") {
		t.Errorf("outer macro not restored after the expansion:\n%s", out)
	}
}

func TestSplitTemplateArgs(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"one", []string{"one"}},
		{"a..b", []string{"a", "b"}},
		{"a .. b .. c", []string{"a", "b", "c"}},
		{"[x..y]..z", []string{"[x..y]", "z"}},
		{`a\..b`, []string{`a\..b`}},
	}
	for _, tt := range tests {
		got := splitTemplateArgs(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("splitTemplateArgs(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitTemplateArgs(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
			}
		}
	}
}

func TestRedefinitionWarns(t *testing.T) {
	p, st := newTestParser("[def x one]\n[def x two]\n\n[x]\n")
	if !p.parseBlocks() {
		t.Fatalf("parse failed, errors = %d", st.ErrorCount)
	}
	if st.WarningCount != 1 {
		t.Errorf("WarningCount = %d, want 1", st.WarningCount)
	}
	if !strings.Contains(st.Out.String(), "two") {
		t.Errorf("later definition did not win:\n%s", st.Out.String())
	}
}
