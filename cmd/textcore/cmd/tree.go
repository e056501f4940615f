package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/engine/text"
)

var treeCmd = &cobra.Command{
	Use:   "tree FILE",
	Short: "Dump the rope structure of a file as Graphviz",
	Long: `Dump the tree of nodes that stores a file in Graphviz dot format.

Example:
  textcore tree big.go | dot -Tsvg > rope.svg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDoc(args[0])
		if err != nil {
			return err
		}
		writeDot(cmd.OutOrStdout(), doc)
		return nil
	},
}

// writeDot writes doc's node tree as a dot digraph. Leaves show their first
// line fragment.
func writeDot(w io.Writer, doc text.Text) {
	fmt.Fprintln(w, "digraph rope {")
	fmt.Fprintln(w, "  node [shape=box, fontname=monospace];")
	id := 0
	var walk func(t text.Text) int
	walk = func(t text.Text) int {
		me := id
		id++
		if t.IsLeaf() {
			first := ""
			if lines := t.LeafLines(); len(lines) > 0 {
				first = lines[0]
				if len(first) > 24 {
					first = first[:24] + "…"
				}
			}
			fmt.Fprintf(w, "  n%d [label=%s];\n", me,
				strconv.Quote(fmt.Sprintf("leaf len=%d lines=%d\n%s", t.Len(), t.Lines(), first)))
			return me
		}
		fmt.Fprintf(w, "  n%d [label=%s, style=rounded];\n", me,
			strconv.Quote(fmt.Sprintf("branch len=%d lines=%d", t.Len(), t.Lines())))
		for _, child := range t.Children() {
			fmt.Fprintf(w, "  n%d -> n%d;\n", me, walk(child))
		}
		return me
	}
	walk(doc)
	fmt.Fprintln(w, "}")
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
