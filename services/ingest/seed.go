package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ebayinsights-backend/services/listings"

	"github.com/google/uuid"
)

func dummyItems(query listings.Query, now time.Time) []listings.NewItem {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	count := func(i int64) *int64 { return &i }
	at := func(t time.Time) *time.Time { return &t }

	return []listings.NewItem{
		{
			QueryID:               query.ID,
			EbayItemID:            fmt.Sprintf("DUMMY-%d-1", query.ID),
			Title:                 fmt.Sprintf("%s - Test Listing 1", query.Name),
			CategoryName:          str("Coats & Jackets"),
			Condition:             str("Used"),
			ListingType:           str("Auction"),
			EndTime:               at(now.Add(-24 * time.Hour)),
			Price:                 num(85),
			Currency:              str("GBP"),
			ShippingCost:          num(4),
			TotalPriceEst:         num(89),
			BidCount:              count(12),
			SellingState:          str("EndedWithSales"),
			SellerUsername:        str("test_seller_1"),
			SellerFeedbackScore:   count(1234),
			SellerPositivePercent: num(99.5),
			ViewUrl:               str("https://www.ebay.co.uk/itm/DUMMY-1"),
		},
		{
			QueryID:               query.ID,
			EbayItemID:            fmt.Sprintf("DUMMY-%d-2", query.ID),
			Title:                 fmt.Sprintf("%s - Test Listing 2", query.Name),
			CategoryName:          str("Coats & Jackets"),
			Condition:             str("Used"),
			ListingType:           str("FixedPrice"),
			EndTime:               at(now.Add(-48 * time.Hour)),
			Price:                 num(95),
			Currency:              str("GBP"),
			ShippingCost:          num(0),
			TotalPriceEst:         num(95),
			BidCount:              count(0),
			SellingState:          str("EndedWithSales"),
			SellerUsername:        str("test_seller_2"),
			SellerFeedbackScore:   count(456),
			SellerPositivePercent: num(98),
			ViewUrl:               str("https://www.ebay.co.uk/itm/DUMMY-2"),
		},
	}
}

// Seed stores two fixed listings under the query called `name` so the API
// and UI can be tried without marketplace credentials. Listings that fail
// to insert, including ones seeded before, are logged and skipped.
func Seed(ctx context.Context, open OpenStore, name, searchTerm string, now time.Time) (Result, error) {
	ctx, span := tracer.Start(ctx, "Seed")
	defer span.End()

	result := Result{RunID: uuid.NewString()}
	err := withStore(ctx, open, func(store Store) error {
		query, created, err := resolveQuery(ctx, store, name, searchTerm)
		if err != nil {
			return fmt.Errorf("resolve query: %w", err)
		}
		result.QueryID = query.ID
		result.QueryCreated = created
		slog.InfoContext(ctx, "seeding query", "query_id", query.ID, "name", query.Name)

		items := dummyItems(query, now.UTC())
		result.Fetched = len(items)
		for _, item := range items {
			_, err := store.CreateItem(ctx, item)
			if err != nil {
				result.Skipped++
				slog.WarnContext(ctx, "skipping dummy item", "ebay_item_id", item.EbayItemID, "err", err)
				continue
			}
			result.Inserted++
		}
		return nil
	})
	return result, err
}
