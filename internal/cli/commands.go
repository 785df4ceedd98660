package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgallion1/marktree/internal/markdown"
	"github.com/dgallion1/marktree/internal/outline"
	"github.com/dgallion1/marktree/internal/parser"
	"github.com/spf13/cobra"
)

// readOutline parses any supported file into an outline.
func readOutline(path string, opts parser.Options) (*outline.Document, error) {
	p, err := parser.ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func RunFmt(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out := markdown.Serialize(markdown.Parse(string(data)))

	write, _ := cmd.Flags().GetBool("write")
	if !write {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if out != "" {
		out += "\n"
	}
	return os.WriteFile(path, []byte(out), info.Mode().Perm())
}

func RunTree(cmd *cobra.Command, args []string) error {
	doc, err := readOutline(args[0], parser.Options{})
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	writeTree(cmd.OutOrStdout(), doc.Forest)
	return nil
}

// writeTree prints one line per node, indented by depth. Nodes that will be
// written as headings show their level.
func writeTree(w io.Writer, f outline.Forest) {
	f.Walk(func(n *outline.Node, depth int) bool {
		marker := "-"
		if len(n.Children) > 0 {
			marker = "h" + strconv.Itoa(depth+1)
		}
		text := strings.ReplaceAll(n.Text, "\n", " / ")
		fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), marker, text)
		return true
	})
}

func RunHTML(cmd *cobra.Command, args []string) error {
	doc, err := readOutline(args[0], parser.Options{})
	if err != nil {
		return err
	}
	html, err := markdown.RenderHTML(doc.Forest)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(html)
	return err
}

func RunImport(cmd *cobra.Command, args []string) error {
	noFallback, _ := cmd.Flags().GetBool("no-pdftotext")
	doc, err := readOutline(args[0], parser.Options{PDFFallbackPdftotext: !noFallback})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), markdown.Serialize(doc.Forest))
	return err
}

func RunNav(cmd *cobra.Command, args []string) error {
	doc, err := readOutline(args[0], parser.Options{})
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[1], err)
	}
	dir, err := outline.ParseDirection(args[2])
	if err != nil {
		return err
	}

	ix := outline.NewIndex(doc.Forest)
	if index < 0 || index >= ix.Len() {
		return fmt.Errorf("index %d out of range (document has %d visible nodes)", index, ix.Len())
	}
	ids := ix.IDs()
	next, ok := ix.Next(ids[index], dir)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "none")
		return nil
	}
	for i, id := range ids {
		if id == next {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", i, doc.Forest.Find(id).Text)
			break
		}
	}
	return nil
}
