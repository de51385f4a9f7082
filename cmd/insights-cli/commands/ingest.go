package commands

import (
	"fmt"
	"log/slog"

	"ebayinsights-backend/lib/mailutil"
	"ebayinsights-backend/services/ingest"

	"github.com/spf13/cobra"
)

var (
	ingestName       string
	ingestSearchTerm string
	ingestMax        int
	ingestNotify     bool
)

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", `Logical name for the query, e.g. "Rab Microlight Alpine Men's"`)
	ingestCmd.Flags().StringVar(&ingestSearchTerm, "search-term", "", `Search term used against eBay, e.g. "Rab Microlight Alpine jacket"`)
	ingestCmd.Flags().IntVar(&ingestMax, "max", ingest.DefaultMaxResults, "Maximum number of sold items to fetch.")
	ingestCmd.Flags().BoolVar(&ingestNotify, "notify", false, "Email the run summary to the configured smtp recipients.")
	ingestCmd.MarkFlagRequired("name")
	ingestCmd.MarkFlagRequired("search-term")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest --name <name> --search-term <term> [--max 200] [--notify]",
	Short: "Fetches sold items from eBay and stores the ones not seen before.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		market, err := config.Marketplace()
		if err != nil {
			return err
		}
		if market == nil {
			return fmt.Errorf("ebay.app_id is not configured, set EBAY_APP_ID or use the seed command")
		}
		parser, err := config.Parser()
		if err != nil {
			return err
		}
		if ingestNotify && !config.Smtp.Configured() {
			return fmt.Errorf("--notify requires the smtp section of the config")
		}

		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()

		pipeline := ingest.Pipeline{
			Open:   ingest.SQLOpener(database),
			Market: market,
			Parser: parser,
		}
		result, err := pipeline.Run(ctx, ingest.Request{
			Name:       ingestName,
			SearchTerm: ingestSearchTerm,
			MaxResults: ingestMax,
		})
		if err != nil {
			return err
		}

		summary := ingest.Summary(result)
		fmt.Println(summary)

		if ingestNotify {
			err = config.Smtp.Send(ctx, mailutil.Message{
				Subject: fmt.Sprintf("eBay Insights: %s", ingestName),
				Body:    fmt.Sprintf("Query: %s (id %d)\nFetched: %d\n\n%s\n", ingestName, result.QueryID, result.Fetched, summary),
			})
			if err != nil {
				slog.ErrorContext(ctx, "failed to send summary email", "err", err)
				return err
			}
		}
		return nil
	},
}
