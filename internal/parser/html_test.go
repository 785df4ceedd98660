package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_Headings(t *testing.T) {
	input := `<html><head><title>My  Page</title><style>p{}</style></head>
<body>
<nav><p>skip me</p></nav>
<p>Lead
   paragraph.</p>
<h1>Intro</h1>
<p>Hello <b>world</b>.</p>
<h2>Details</h2>
<ul><li>one</li><li>two</li></ul>
<h1>Next</h1>
<script>var x;</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "My Page" {
		t.Errorf("expected title %q, got %q", "My Page", doc.Title)
	}
	if len(doc.Forest) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(doc.Forest))
	}
	if doc.Forest[0].Text != "Lead paragraph." {
		t.Errorf("expected %q, got %q", "Lead paragraph.", doc.Forest[0].Text)
	}

	intro := doc.Forest[1]
	if intro.Text != "Intro" || len(intro.Children) != 2 {
		t.Fatalf("unexpected intro node %q with %d children", intro.Text, len(intro.Children))
	}
	if intro.Children[0].Text != "Hello world." {
		t.Errorf("expected %q, got %q", "Hello world.", intro.Children[0].Text)
	}
	details := intro.Children[1]
	if len(details.Children) != 2 || details.Children[0].Text != "one" || details.Children[1].Text != "two" {
		t.Errorf("unexpected list items under details: %+v", details.Children)
	}
	if doc.Forest[2].Text != "Next" || len(doc.Forest[2].Children) != 0 {
		t.Errorf("expected empty Next heading, got %+v", doc.Forest[2])
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := map[string]int{"h1": 1, "h6": 6, "h7": 0, "hr": 0, "p": 0, "h": 0}
	for tag, want := range tests {
		if got := headingLevel(tag); got != want {
			t.Errorf("%s: expected %d, got %d", tag, want, got)
		}
	}
}
