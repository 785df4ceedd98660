package parser

import (
	"io"

	"github.com/dgallion1/marktree/internal/markdown"
	"github.com/dgallion1/marktree/internal/outline"
)

// MarkdownParser reads Markdown with the outline codec.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &outline.Document{
		Title:  trimExt(filename),
		Forest: markdown.Parse(string(src)),
	}, nil
}
