package markdown

import (
	"bytes"
	"fmt"

	"github.com/dgallion1/marktree/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var htmlRenderer = goldmark.New(
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderHTML serializes the forest and renders the Markdown as HTML. Raw
// HTML in node text is omitted from the output.
func RenderHTML(f outline.Forest) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(Serialize(f)), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
