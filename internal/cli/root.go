// Package cli implements the marktree command-line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "marktree",
		Short: "Work with Markdown documents as outlines",
		Long: `marktree reads Markdown (and other formats) as a tree of headings
and paragraphs, and writes it back as canonical Markdown where each heading
level follows the node's depth.`,
		SilenceUsage: true,
	}

	fmtCmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Re-serialize a Markdown file in canonical outline form",
		Args:  cobra.ExactArgs(1),
		RunE:  RunFmt,
	}
	fmtCmd.Flags().BoolP("write", "w", false, "Write result to the file instead of stdout")

	treeCmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the outline of a document",
		Args:  cobra.ExactArgs(1),
		RunE:  RunTree,
	}
	treeCmd.Flags().Bool("json", false, "Print the outline as JSON")

	htmlCmd := &cobra.Command{
		Use:   "html <file>",
		Short: "Render a document's outline as HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  RunHTML,
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Convert a .txt, .csv, .html, .pdf or .docx file to outline Markdown",
		Args:  cobra.ExactArgs(1),
		RunE:  RunImport,
	}
	importCmd.Flags().Bool("no-pdftotext", false, "Disable the pdftotext fallback for PDFs")

	navCmd := &cobra.Command{
		Use:   "nav <file> <index> up|down",
		Short: "Show the visible node above or below the node at a visible index",
		Args:  cobra.ExactArgs(3),
		RunE:  RunNav,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "marktree %s\n", version)
		},
	}

	rootCmd.AddCommand(
		fmtCmd,
		treeCmd,
		htmlCmd,
		importCmd,
		navCmd,
		versionCmd,
	)

	return rootCmd
}
