package parser

import (
	"fmt"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.md", "*parser.MarkdownParser"},
		{"a.MARKDOWN", "*parser.MarkdownParser"},
		{"a.txt", "*parser.TextParser"},
		{"a.csv", "*parser.CSVParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
		if !IsSupportedExtension(tt.filename) {
			t.Errorf("%s: expected supported", tt.filename)
		}
	}

	if _, err := ForFile("a.exe", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("a.exe") {
		t.Error("expected .exe to be unsupported")
	}
}

func TestForFile_PDFOptions(t *testing.T) {
	p, _ := ForFile("x.pdf", Options{PDFFallbackPdftotext: true})
	if pp, ok := p.(*PDFParser); !ok || !pp.FallbackPdftotext {
		t.Errorf("expected fallback to be set, got %+v", p)
	}
}

func TestPagesToForest_TwoPages(t *testing.T) {
	f := pagesToForest(splitPages("first para\nwraps\n\nsecond\f   \fthird page"))
	if len(f) != 2 {
		t.Fatalf("expected 2 pages with content, got %d", len(f))
	}
	if f[0].Text != "Page 1" || f[1].Text != "Page 3" {
		t.Errorf("unexpected page titles %q, %q", f[0].Text, f[1].Text)
	}
	if len(f[0].Children) != 2 || f[0].Children[0].Text != "first para\nwraps" {
		t.Errorf("unexpected page 1 children %+v", f[0].Children)
	}
}

func TestStyleHeadingLevel_Styles(t *testing.T) {
	tests := map[string]int{
		"Heading1":  1,
		"heading 2": 2,
		"Heading 9": 9,
		"Title":     0,
		"Heading10": 0,
		"Normal":    0,
	}
	for style, want := range tests {
		if got := styleHeadingLevel(style); got != want {
			t.Errorf("%q: expected %d, got %d", style, want, got)
		}
	}
}

func typeName(p Parser) string {
	return fmt.Sprintf("%T", p)
}
