package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"ebayinsights-backend/internal/appconfig"
	"ebayinsights-backend/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	config appconfig.Config
	tel    telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:           "insights-cli",
	Short:         "insights-cli ingests and inspects completed eBay listings.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "insights-cli")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		config, err = appconfig.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return tel.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", appconfig.DefaultPath, "Path to the config file.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*sql.DB, error) {
	database, err := config.OpenDB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func orDash[T any](value *T) any {
	if value == nil {
		return "-"
	}
	return *value
}
