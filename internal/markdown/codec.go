// Package markdown converts between an outline forest and its Markdown
// text. Nodes with children are written as headings whose level is their
// depth plus one; leaves are written as bare paragraphs.
package markdown

import (
	"regexp"
	"strings"

	"github.com/dgallion1/marktree/internal/outline"
)

var headingLine = regexp.MustCompile(`^(#+)\s+(.*)$`)

// Parse builds a forest from Markdown text. It never fails: any non-blank
// line that is not a heading is paragraph text. Input with no content
// yields an empty forest.
func Parse(markdown string) outline.Forest {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = strings.ReplaceAll(markdown, "\r", "\n")

	var b outline.Builder
	var para []string

	flush := func() {
		t := strings.TrimSpace(strings.Join(para, "\n"))
		if t != "" {
			b.Paragraph(t)
		}
		para = para[:0]
	}

	for _, line := range strings.Split(markdown, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if m := headingLine.FindStringSubmatch(line); m != nil {
			flush()
			b.Heading(len(m[1]), strings.TrimSpace(m[2]))
			continue
		}
		para = append(para, line)
	}
	flush()

	return b.Forest()
}

// Serialize writes the forest as Markdown. Root serializations are separated
// by a blank line; nodes that would produce no text are skipped.
func Serialize(f outline.Forest) string {
	return joinNodes(f, 1)
}

func joinNodes(nodes []*outline.Node, level int) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := serializeNode(n, level); strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func serializeNode(n *outline.Node, level int) string {
	if len(n.Children) == 0 {
		return n.Text
	}
	heading := strings.Repeat("#", level) + " " + n.Text
	if body := joinNodes(n.Children, level+1); body != "" {
		return heading + "\n" + body
	}
	return heading
}
