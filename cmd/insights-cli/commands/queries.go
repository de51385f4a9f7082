package commands

import (
	"fmt"
	"os"
	"strings"

	"ebayinsights-backend/lib/timezone"
	"ebayinsights-backend/services/listings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queriesCmd)
	rootCmd.AddCommand(itemsCmd)
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Prints the stored queries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()

		queries, err := listings.NewStore(database).ListQueries(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name", "Search term", "Created"})
		for _, q := range queries {
			t.AppendRow(table.Row{q.ID, q.Name, q.SearchTerm, timezone.Format(q.CreatedAt)})
		}
		t.Render()
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items <query name>",
	Short: "Prints the items stored for a query.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()
		store := listings.NewStore(database)

		query, err := store.FindQueryByName(ctx, args[0])
		if err != nil {
			return err
		}
		if query == nil {
			suggestions, err := store.SuggestQueryNames(ctx, args[0], 3)
			if err != nil {
				return err
			}
			if len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "did you mean: %s\n", strings.Join(suggestions, ", "))
			}
			return fmt.Errorf("unknown query %q", args[0])
		}

		items, err := store.ListItemsForQuery(ctx, query.ID)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"eBay ID", "Ended", "Title", "Model", "Gender", "Size", "Total", "Currency"})
		for _, item := range items {
			ended := "-"
			if item.EndTime != nil {
				ended = timezone.Format(*item.EndTime)
			}
			t.AppendRow(table.Row{
				item.EbayItemID,
				ended,
				item.Title,
				orDash(item.Model),
				orDash(item.Gender),
				orDash(item.Size),
				orDash(item.TotalPriceEst),
				orDash(item.Currency),
			})
		}
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d items", len(items))})
		t.Render()
		return nil
	},
}
