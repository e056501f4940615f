package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/renderer/highlight"
	"github.com/dshills/textcore/internal/syntax/lexcache"
)

var (
	lineNumbers  bool
	decorateFrom int
	decorateTo   int
)

var decorateCmd = &cobra.Command{
	Use:   "decorate FILE",
	Short: "Print a file with syntax highlighting",
	Long: `Print a file styled with the active theme.

Example:
  textcore decorate --theme monokai config.toml
  textcore decorate -n --from 100 --to 140 main.go`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache(args[0])
		if err != nil {
			return err
		}
		defer cache.Close()

		return decorate(cmd.OutOrStdout(), cache, theme, decorateFrom, decorateTo)
	},
}

// decorate writes lines [from, to) of the cache's document with their styles.
// to <= 0 means the end of the document.
func decorate(w io.Writer, cache lexcache.Any, theme *highlight.Theme, from, to int) error {
	p := highlight.NewProvider(cache, theme)
	doc := cache.Doc()
	if to <= 0 || to > doc.Lines()+1 {
		to = doc.Lines() + 1
	}
	width := len(fmt.Sprint(to - 1))
	for n := max(1, from); n < to; n++ {
		line, err := doc.Line(n)
		if err != nil {
			return err
		}
		if lineNumbers {
			fmt.Fprintf(w, "%*d  ", width, n)
		}
		fmt.Fprintln(w, renderLine(line.Text(), p.HighlightsForLine(n), theme))
	}
	return cache.Err()
}

func init() {
	decorateCmd.Flags().BoolVarP(&lineNumbers, "number", "n", false, "prefix lines with their number")
	decorateCmd.Flags().IntVar(&decorateFrom, "from", 1, "first line (1-based)")
	decorateCmd.Flags().IntVar(&decorateTo, "to", 0, "line after the last one printed (default: end of file)")
	rootCmd.AddCommand(decorateCmd)
}
