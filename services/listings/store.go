package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ebayinsights-backend/lib/telemetry"
	"ebayinsights-backend/lib/textutil"
	"ebayinsights-backend/lib/timezone"
	"ebayinsights-backend/services/listings/db"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("ebayinsights.services.listings")

var (
	ErrNotFound    = errors.New("not found")
	ErrQueryExists = errors.New("query with this name already exists")
	ErrItemExists  = errors.New("item with this ebay item id already exists")
)

// both modernc and libsql report constraint violations with sqlite's message
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type Query struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SearchTerm string    `json:"search_term"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewItem is a normalized listing that has not been persisted yet.
type NewItem struct {
	EbayItemID   string     `json:"ebay_item_id"`
	QueryID      int64      `json:"query_id"`
	Title        string     `json:"title"`
	CategoryName *string    `json:"category_name"`
	Condition    *string    `json:"condition"`
	ListingType  *string    `json:"listing_type"`
	EndTime      *time.Time `json:"end_time"`

	Price         *float64 `json:"price"`
	Currency      *string  `json:"currency"`
	ShippingCost  *float64 `json:"shipping_cost"`
	TotalPriceEst *float64 `json:"total_price_est"`

	BidCount     *int64  `json:"bid_count"`
	SellingState *string `json:"selling_state"`

	SellerUsername        *string  `json:"seller_username"`
	SellerFeedbackScore   *int64   `json:"seller_feedback_score"`
	SellerPositivePercent *float64 `json:"seller_positive_percent"`
	ViewUrl               *string  `json:"view_url"`

	// derived from the title, nil unless the brand keyword matched
	Brand   *string `json:"brand"`
	Model   *string `json:"model"`
	Variant *string `json:"variant"`
	Gender  *string `json:"gender"`
	Size    *string `json:"size"`
	Colour  *string `json:"colour"`
}

type Item struct {
	ID int64 `json:"id"`
	NewItem
	CreatedAt time.Time `json:"created_at"`
}

// Store reads and writes queries and items. It works over a *sql.DB, a
// dedicated *sql.Conn or a transaction.
type Store struct {
	qry *db.Queries
	now func() time.Time
}

func NewStore(dbtx db.DBTX) Store {
	return Store{
		qry: db.New(dbtx),
		now: timezone.Now,
	}
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func queryFromRow(row db.Query) Query {
	return Query{
		ID:         row.ID,
		Name:       row.Name,
		SearchTerm: row.SearchTerm,
		CreatedAt:  unixTime(row.CreatedAt),
	}
}

func (s Store) GetQuery(ctx context.Context, id int64) (Query, error) {
	ctx, span := tracer.Start(ctx, "GetQuery")
	defer span.End()
	span.SetAttributes(attribute.Int64("query_id", id))

	row, err := s.qry.GetQuery(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Query{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get query")
		return Query{}, err
	}
	return queryFromRow(row), nil
}

// FindQueryByName returns nil when no query has the given name.
func (s Store) FindQueryByName(ctx context.Context, name string) (*Query, error) {
	ctx, span := tracer.Start(ctx, "FindQueryByName")
	defer span.End()

	row, err := s.qry.GetQueryByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find query")
		return nil, err
	}
	q := queryFromRow(row)
	return &q, nil
}

func (s Store) ListQueries(ctx context.Context) ([]Query, error) {
	ctx, span := tracer.Start(ctx, "ListQueries")
	defer span.End()

	rows, err := s.qry.ListQueries(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list queries")
		return nil, err
	}
	out := make([]Query, len(rows))
	for i, row := range rows {
		out[i] = queryFromRow(row)
	}
	return out, nil
}

func (s Store) CreateQuery(ctx context.Context, name, searchTerm string) (Query, error) {
	ctx, span := tracer.Start(ctx, "CreateQuery")
	defer span.End()

	row, err := s.qry.CreateQuery(ctx, db.CreateQueryParams{
		Name:       name,
		SearchTerm: searchTerm,
		CreatedAt:  s.now().Unix(),
	})
	if isUniqueViolation(err) {
		return Query{}, fmt.Errorf("%w: %q", ErrQueryExists, name)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create query")
		return Query{}, err
	}
	return queryFromRow(row), nil
}

// FindItemByEbayID returns nil when no item has the given marketplace id.
func (s Store) FindItemByEbayID(ctx context.Context, ebayItemID string) (*Item, error) {
	ctx, span := tracer.Start(ctx, "FindItemByEbayID")
	defer span.End()

	row, err := s.qry.GetItemByEbayItemID(ctx, ebayItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find item")
		return nil, err
	}
	item := itemFromRow(row)
	return &item, nil
}

func (s Store) CreateItem(ctx context.Context, item NewItem) (Item, error) {
	ctx, span := tracer.Start(ctx, "CreateItem")
	defer span.End()
	span.SetAttributes(attribute.String("ebay_item_id", item.EbayItemID))

	params := itemParams(item)
	params.CreatedAt = s.now().Unix()
	row, err := s.qry.CreateItem(ctx, params)
	if isUniqueViolation(err) {
		return Item{}, fmt.Errorf("%w: %s", ErrItemExists, item.EbayItemID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create item")
		return Item{}, err
	}
	return itemFromRow(row), nil
}

// ListItemsForQuery returns the most recently ended listings first,
// listings without an end time come last.
func (s Store) ListItemsForQuery(ctx context.Context, queryID int64) ([]Item, error) {
	ctx, span := tracer.Start(ctx, "ListItemsForQuery")
	defer span.End()
	span.SetAttributes(attribute.Int64("query_id", queryID))

	rows, err := s.qry.ListItemsForQuery(ctx, queryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list items")
		return nil, err
	}
	out := make([]Item, len(rows))
	for i, row := range rows {
		out[i] = itemFromRow(row)
	}
	return out, nil
}

func (s Store) CountItemsForQuery(ctx context.Context, queryID int64) (int64, error) {
	return s.qry.CountItemsForQuery(ctx, queryID)
}

// SuggestQueryNames returns up to `limit` stored query names ordered by
// their Jaro-Winkler similarity to `name`, most similar first.
func (s Store) SuggestQueryNames(ctx context.Context, name string, limit int) ([]string, error) {
	queries, err := s.ListQueries(ctx)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		name  string
		score float64
	}
	target := textutil.NormalizeName(name)
	candidates := make([]candidate, len(queries))
	for i, q := range queries {
		candidates[i] = candidate{
			name:  q.Name,
			score: matchr.JaroWinkler(target, textutil.NormalizeName(q.Name), false),
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = candidates[i].name
	}
	return out, nil
}
