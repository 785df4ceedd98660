package parser

import "testing"

func TestPagesToForest(t *testing.T) {
	text := "Intro line one\nline two\n\nSecond para\f  \n\f Last page "
	f := pagesToForest(splitPages(text))

	if len(f) != 2 {
		t.Fatalf("expected 2 pages with content, got %d", len(f))
	}
	if f[0].Text != "Page 1" || f[1].Text != "Page 3" {
		t.Errorf("expected page numbers to follow source pages, got %q and %q", f[0].Text, f[1].Text)
	}
	if len(f[0].Children) != 2 {
		t.Fatalf("expected 2 paragraphs on page 1, got %d", len(f[0].Children))
	}
	if f[0].Children[0].Text != "Intro line one\nline two" {
		t.Errorf("unexpected first paragraph %q", f[0].Children[0].Text)
	}
	if f[1].Children[0].Text != "Last page" {
		t.Errorf("expected trimmed paragraph, got %q", f[1].Children[0].Text)
	}
}

func TestParagraphs_Empty(t *testing.T) {
	if got := paragraphs(" \n\t\n"); len(got) != 0 {
		t.Errorf("expected no paragraphs, got %q", got)
	}
}
