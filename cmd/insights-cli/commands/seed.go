package commands

import (
	"fmt"

	"ebayinsights-backend/lib/timezone"
	"ebayinsights-backend/services/ingest"

	"github.com/spf13/cobra"
)

var (
	seedName       string
	seedSearchTerm string
)

func init() {
	seedCmd.Flags().StringVar(&seedName, "name", "", "Logical name for the query.")
	seedCmd.Flags().StringVar(&seedSearchTerm, "search-term", "", "Search term stored with a newly created query.")
	seedCmd.MarkFlagRequired("name")
	seedCmd.MarkFlagRequired("search-term")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed --name <name> --search-term <term>",
	Short: "Inserts two dummy listings, for trying the api without eBay credentials.",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()

		result, err := ingest.Seed(cmd.Context(), ingest.SQLOpener(database), seedName, seedSearchTerm, timezone.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Using query id=%d name=%q\n", result.QueryID, seedName)
		fmt.Println(ingest.Summary(result))
		return nil
	},
}
