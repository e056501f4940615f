package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	fromLine int
	toLine   int
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "List the tokens of a file",
	Long: `List every tagged token of a file as LINE:FROM-TO TAG TEXT, with
columns as byte offsets within the line.

Example:
  textcore tokens config.toml
  textcore tokens --from 10 --to 20 main.go`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := openCache(args[0])
		if err != nil {
			return err
		}
		defer cache.Close()

		doc := cache.Doc()
		to := toLine
		if to <= 0 {
			to = doc.Lines() + 1
		}
		toks, err := cache.LinesTokens(fromLine, to)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, tok := range toks {
			line, err := doc.LineAt(tok.From)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d:%d-%d %s %s\n", line.Number, tok.From-line.Start, tok.To-line.Start,
				tok.Tag, strconv.Quote(doc.Slice(tok.From, tok.To)))
		}
		logger.Debug("tokens listed", "count", len(toks), "stats", cache.Stats())
		return nil
	},
}

func init() {
	tokensCmd.Flags().IntVar(&fromLine, "from", 1, "first line (1-based)")
	tokensCmd.Flags().IntVar(&toLine, "to", 0, "line after the last one listed (default: end of file)")
	rootCmd.AddCommand(tokensCmd)
}
