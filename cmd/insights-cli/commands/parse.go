package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <title>",
	Short: "Prints the attributes the title parser extracts from a listing title.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, err := config.Parser()
		if err != nil {
			return err
		}
		title := strings.Join(args, " ")
		attrs := parser.Parse(title)

		t := newTable()
		t.AppendHeader(table.Row{"Attribute", "Value"})
		t.AppendRows([]table.Row{
			{"brand detected", parser.Detects(title)},
			{"brand", orDash(attrs.Brand)},
			{"model", orDash(attrs.Model)},
			{"variant", orDash(attrs.Variant)},
			{"gender", orDash(attrs.Gender)},
			{"size", orDash(attrs.Size)},
			{"colour", orDash(attrs.Colour)},
		})
		t.Render()
		return nil
	},
}
