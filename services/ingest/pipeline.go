package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"ebayinsights-backend/lib/scrapers/ebay"
	"ebayinsights-backend/lib/telemetry"
	"ebayinsights-backend/lib/titleparse"
	"ebayinsights-backend/services/listings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("ebayinsights.services.ingest")

var (
	meter           = telemetry.Meter("ebayinsights.services.ingest")
	insertedCounter metric.Int64Counter
	skippedCounter  metric.Int64Counter
	failedCounter   metric.Int64Counter
)

func init() {
	insertedCounter, _ = meter.Int64Counter("ingest.items.inserted")
	skippedCounter, _ = meter.Int64Counter("ingest.items.skipped")
	failedCounter, _ = meter.Int64Counter("ingest.items.failed")
}

const DefaultMaxResults = 200

// Marketplace fetches completed listings, it fails as a whole or not at all.
type Marketplace interface {
	FindCompletedItems(ctx context.Context, searchTerm string, maxResults int) ([]ebay.RawItem, error)
}

// Store is the subset of listings.Store an ingestion run needs.
type Store interface {
	FindQueryByName(ctx context.Context, name string) (*listings.Query, error)
	CreateQuery(ctx context.Context, name, searchTerm string) (listings.Query, error)
	FindItemByEbayID(ctx context.Context, ebayItemID string) (*listings.Item, error)
	CreateItem(ctx context.Context, item listings.NewItem) (listings.Item, error)
}

// OpenStore acquires a store handle for one run, release is always called
// once the run is over.
type OpenStore func(ctx context.Context) (store Store, release func() error, err error)

// SQLOpener acquires a dedicated connection from the pool for every run.
func SQLOpener(database *sql.DB) OpenStore {
	return func(ctx context.Context) (Store, func() error, error) {
		conn, err := database.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		return listings.NewStore(conn), conn.Close, nil
	}
}

type Pipeline struct {
	Open   OpenStore
	Market Marketplace
	// defaults to the built-in Rab vocabulary when nil
	Parser *titleparse.Parser
}

type Request struct {
	Name       string `json:"name"`
	SearchTerm string `json:"search_term"`
	MaxResults int    `json:"max_results"`
}

type Result struct {
	RunID        string `json:"run_id"`
	QueryID      int64  `json:"query_id"`
	QueryCreated bool   `json:"query_created"`
	Fetched      int    `json:"fetched"`
	Inserted     int    `json:"inserted"`
	Skipped      int    `json:"skipped"`
}

func withStore(ctx context.Context, open OpenStore, fn func(store Store) error) error {
	store, release, err := open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		err := release()
		if err != nil {
			slog.WarnContext(ctx, "failed to release store", "err", err)
		}
	}()
	return fn(store)
}

// resolveQuery returns the query called `name`, creating it when it does not
// exist. An existing query keeps its original search term.
func resolveQuery(ctx context.Context, store Store, name, searchTerm string) (listings.Query, bool, error) {
	existing, err := store.FindQueryByName(ctx, name)
	if err != nil {
		return listings.Query{}, false, err
	}
	if existing != nil {
		if existing.SearchTerm != searchTerm {
			slog.DebugContext(
				ctx, "ignoring search term for existing query",
				"query_id", existing.ID,
				"stored", existing.SearchTerm,
				"given", searchTerm,
			)
		}
		return *existing, false, nil
	}

	created, err := store.CreateQuery(ctx, name, searchTerm)
	if errors.Is(err, listings.ErrQueryExists) {
		// another run created it in between
		existing, err := store.FindQueryByName(ctx, name)
		if err != nil {
			return listings.Query{}, false, err
		}
		if existing == nil {
			return listings.Query{}, false, fmt.Errorf("query %q vanished after conflict", name)
		}
		return *existing, false, nil
	}
	if err != nil {
		return listings.Query{}, false, err
	}
	return created, true, nil
}

func (p Pipeline) parser() *titleparse.Parser {
	if p.Parser != nil {
		return p.Parser
	}
	return titleparse.NewRabParser()
}

// Run resolves the query, fetches its listings and stores every listing that
// is not stored yet. Items are committed one by one, a failing item is
// logged and does not stop the run.
func (p Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if req.Name == "" {
		return Result{}, fmt.Errorf("query name is required")
	}
	if req.SearchTerm == "" {
		return Result{}, fmt.Errorf("search term is required")
	}

	result := Result{RunID: uuid.NewString()}
	span.SetAttributes(
		attribute.String("run_id", result.RunID),
		attribute.String("query_name", req.Name),
		attribute.Int("max_results", req.MaxResults),
	)
	logger := slog.With("run_id", result.RunID)

	err := withStore(ctx, p.Open, func(store Store) error {
		query, created, err := resolveQuery(ctx, store, req.Name, req.SearchTerm)
		if err != nil {
			return fmt.Errorf("resolve query: %w", err)
		}
		result.QueryID = query.ID
		result.QueryCreated = created
		if created {
			logger.InfoContext(ctx, "created new query", "query_id", query.ID, "name", query.Name)
		} else {
			logger.InfoContext(ctx, "using existing query", "query_id", query.ID, "name", query.Name)
		}

		logger.InfoContext(
			ctx, "fetching sold items",
			"search_term", query.SearchTerm,
			"max_results", req.MaxResults,
		)
		raws, err := p.Market.FindCompletedItems(ctx, query.SearchTerm, req.MaxResults)
		if err != nil {
			return fmt.Errorf("fetch items: %w", err)
		}
		result.Fetched = len(raws)
		logger.InfoContext(ctx, "retrieved raw sold items", "count", len(raws))

		parser := p.parser()
		for _, raw := range raws {
			item := Normalize(raw, query.ID, parser)
			storeItem(ctx, logger, store, item, &result)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ingestion run failed")
		return result, err
	}

	span.SetAttributes(
		attribute.Int("inserted", result.Inserted),
		attribute.Int("skipped", result.Skipped),
	)
	logger.InfoContext(
		ctx, "ingestion complete",
		"inserted", result.Inserted,
		"skipped", result.Skipped,
	)
	return result, nil
}

func storeItem(ctx context.Context, logger *slog.Logger, store Store, item listings.NewItem, result *Result) {
	existing, err := store.FindItemByEbayID(ctx, item.EbayItemID)
	if err != nil {
		failedCounter.Add(ctx, 1)
		logger.WarnContext(ctx, "failed to look up item", "ebay_item_id", item.EbayItemID, "err", err)
		return
	}
	if existing != nil {
		result.Skipped++
		skippedCounter.Add(ctx, 1)
		return
	}

	_, err = store.CreateItem(ctx, item)
	if errors.Is(err, listings.ErrItemExists) {
		result.Skipped++
		skippedCounter.Add(ctx, 1)
		logger.InfoContext(ctx, "item was stored concurrently, skipping", "ebay_item_id", item.EbayItemID)
		return
	}
	if err != nil {
		failedCounter.Add(ctx, 1)
		logger.WarnContext(ctx, "failed to store item", "ebay_item_id", item.EbayItemID, "err", err)
		return
	}
	result.Inserted++
	insertedCounter.Add(ctx, 1)
}
