package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var indentLine bool

var indentCmd = &cobra.Command{
	Use:   "indent FILE POS",
	Short: "Report the indentation the language wants at a position",
	Long: `Report the indentation column the language's indenter computes for the
line containing byte offset POS. With --line, POS is a 1-based line number.

Example:
  textcore indent --line main.go 42`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[1], err)
		}
		cache, err := openCache(args[0])
		if err != nil {
			return err
		}
		defer cache.Close()

		pos := n
		if indentLine {
			line, err := cache.Doc().Line(n)
			if err != nil {
				return err
			}
			pos = line.Start
		}
		col, ok, err := cache.Indent(pos)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "unknown")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), col)
		return nil
	},
}

func init() {
	indentCmd.Flags().BoolVar(&indentLine, "line", false, "treat POS as a line number")
	rootCmd.AddCommand(indentCmd)
}
