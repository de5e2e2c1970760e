package render

import (
	"strings"
	"testing"
)

func TestContent_HeadingListParagraph(t *testing.T) {
	got := Content("# Título\n- um\n- dois\n\nTexto **forte**.")

	want := "<h2>Título</h2>\n<ul><li>um</li><li>dois</li></ul>\n<p>Texto <strong>forte</strong>.</p>"
	if got != want {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, want)
	}
}

func TestContent_HeadingLevels(t *testing.T) {
	got := Content("# um\n## dois\n### três")
	want := "<h2>um</h2>\n<h3>dois</h3>\n<h4>três</h4>"
	if got != want {
		t.Errorf("rendered = %q, want %q", got, want)
	}
}

func TestContent_OrderedList(t *testing.T) {
	got := Content("1. primeiro\n2. segundo")
	want := "<ol><li>primeiro</li><li>segundo</li></ol>"
	if got != want {
		t.Errorf("rendered = %q, want %q", got, want)
	}
}

func TestContent_ListKindsDoNotMerge(t *testing.T) {
	got := Content("- a\n1. b")
	want := "<ul><li>a</li></ul>\n<ol><li>b</li></ol>"
	if got != want {
		t.Errorf("rendered = %q, want %q", got, want)
	}
}

func TestContent_BlankLineFlushesList(t *testing.T) {
	got := Content("- a\n\n- b")
	want := "<ul><li>a</li></ul>\n<ul><li>b</li></ul>"
	if got != want {
		t.Errorf("rendered = %q, want %q", got, want)
	}
}

func TestContent_PendingListFlushedAtEOF(t *testing.T) {
	got := Content("texto\n- item")
	want := "<p>texto</p>\n<ul><li>item</li></ul>"
	if got != want {
		t.Errorf("rendered = %q, want %q", got, want)
	}
}

func TestContent_EmptyInputPlaceholder(t *testing.T) {
	if got := Content(""); got != Placeholder {
		t.Errorf("rendered = %q, want placeholder", got)
	}
	if got := Content("   \n\n"); got != Placeholder {
		t.Errorf("whitespace-only rendered = %q, want placeholder", got)
	}
}

func TestContent_FourHashesIsParagraph(t *testing.T) {
	got := Content("#### não é título")
	if !strings.HasPrefix(got, "<p>") {
		t.Errorf("rendered = %q, want paragraph", got)
	}
}

func TestInline_EscapePrecedesMarkup(t *testing.T) {
	got := Inline("<script>alert(1)</script> e **negrito**")
	if strings.Contains(got, "<script>") {
		t.Errorf("script tag leaked: %q", got)
	}
	if !strings.Contains(got, "<strong>negrito</strong>") {
		t.Errorf("bold not applied: %q", got)
	}
}

func TestInline_Link(t *testing.T) {
	got := Inline("veja [o site](https://example.com/x) agora")
	want := `veja <a href="https://example.com/x" target="_blank" rel="noopener noreferrer">o site</a> agora`
	if got != want {
		t.Errorf("inline = %q, want %q", got, want)
	}
}

func TestInline_NonHTTPURLNotLinked(t *testing.T) {
	got := Inline("[x](javascript:alert(1))")
	if strings.Contains(got, "<a ") {
		t.Errorf("unsafe scheme linked: %q", got)
	}
}

func TestInline_BareLabelFallback(t *testing.T) {
	got := Inline("consulte [Norma ISO 55000] para detalhes")
	want := "consulte <strong>Norma ISO 55000</strong> para detalhes"
	if got != want {
		t.Errorf("inline = %q, want %q", got, want)
	}
}

func TestInline_Italic(t *testing.T) {
	got := Inline("texto *leve* aqui")
	want := "texto <em>leve</em> aqui"
	if got != want {
		t.Errorf("inline = %q, want %q", got, want)
	}
}
