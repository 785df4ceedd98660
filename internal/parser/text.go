package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/marktree/internal/outline"
)

// TextParser handles plain text files. Each blank-line separated paragraph
// becomes a root leaf.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b outline.Builder
	var current strings.Builder

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			b.Paragraph(t)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &outline.Document{
		Title:  trimExt(filename),
		Forest: b.Forest(),
	}, nil
}
