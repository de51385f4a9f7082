package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"ebayinsights-backend/internal/appconfig"
	"ebayinsights-backend/lib/serviceutil"
	"ebayinsights-backend/lib/telemetry"
	"ebayinsights-backend/services/ingest"
	"ebayinsights-backend/services/insights"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", appconfig.DefaultPath, "Path to the config file.")
	verbose := flag.Bool("v", false, "Enable debug logging.")
	flag.Parse()

	telemetry.InitSlog(*verbose)

	ctx, cancel := serviceutil.SignalContext()
	defer cancel()

	tel, err := telemetry.SetupFromEnv(ctx, "insights-server")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := appconfig.Load(*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	database, err := cfg.OpenDB()
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	defer database.Close()

	parser, err := cfg.Parser()
	if err != nil {
		serviceutil.Fatal("failed to load vocabulary", err)
	}

	pipeline := ingest.Pipeline{
		Open:   ingest.SQLOpener(database),
		Parser: parser,
	}
	market, err := cfg.Marketplace()
	if err != nil {
		serviceutil.Fatal("failed to create ebay client", err)
	}
	if market != nil {
		pipeline.Market = market
	} else {
		slog.Warn("ebay.app_id is not set, ingestion endpoints are disabled")
	}

	service, err := insights.NewService(database, pipeline)
	if err != nil {
		serviceutil.Fatal("failed to create insights service", err)
	}

	server := serviceutil.NewHttpServer(cfg.Http.Port, service.Handler())

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return serviceutil.ServeUntilDone(groupCtx, server)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return tel.Shutdown(shutdownCtx)
	})

	err = group.Wait()
	if err != nil {
		serviceutil.Fatal("server stopped", err)
	}
}
