package listings

import (
	"context"
	"errors"
	"testing"
	"time"

	"ebayinsights-backend/lib/testutil"
	"ebayinsights-backend/services/listings/db"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func setup(t testing.TB) (Store, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/listings",
		DbSchema: db.Schema,
	})
	store := NewStore(res.DB)
	store.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return store, cleanup
}

func ptr[T any](value T) *T {
	return &value
}

func TestQueries(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		q, err := store.FindQueryByName(ctx, "unknown")
		if err != nil {
			t.Fatal(err)
		}
		require.Nil(t, q)

		_, err = store.GetQuery(ctx, 42)
		require.ErrorIs(t, err, ErrNotFound)
	}

	alpine, err := store.CreateQuery(ctx, "Rab Microlight Alpine Men's", "Rab Microlight Alpine jacket")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Rab Microlight Alpine Men's", alpine.Name)
	require.Equal(t, "Rab Microlight Alpine jacket", alpine.SearchTerm)
	require.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), alpine.CreatedAt)

	_, err = store.CreateQuery(ctx, "Rab Microlight Alpine Men's", "something else")
	require.ErrorIs(t, err, ErrQueryExists)

	cirrus, err := store.CreateQuery(ctx, "Rab Cirrus", "rab cirrus")
	if err != nil {
		t.Fatal(err)
	}

	{
		found, err := store.FindQueryByName(ctx, "Rab Cirrus")
		if err != nil {
			t.Fatal(err)
		}
		require.NotNil(t, found)
		require.Equal(t, cirrus, *found)

		got, err := store.GetQuery(ctx, alpine.ID)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, alpine, got)
	}

	queries, err := store.ListQueries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []Query{alpine, cirrus}, queries)
}

func TestItems(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	query, err := store.CreateQuery(ctx, "rab", "rab jacket")
	if err != nil {
		t.Fatal(err)
	}

	older := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

	full := NewItem{
		EbayItemID:            "1001",
		QueryID:               query.ID,
		Title:                 "Rab Womens Microlight Vest Jacket Size M",
		CategoryName:          ptr("Coats & Jackets"),
		Condition:             ptr("Used"),
		ListingType:           ptr("Auction"),
		EndTime:               &older,
		Price:                 ptr(85.0),
		Currency:              ptr("GBP"),
		ShippingCost:          ptr(4.0),
		TotalPriceEst:         ptr(89.0),
		BidCount:              ptr(int64(12)),
		SellingState:          ptr("EndedWithSales"),
		SellerUsername:        ptr("seller"),
		SellerFeedbackScore:   ptr(int64(1234)),
		SellerPositivePercent: ptr(99.5),
		ViewUrl:               ptr("https://www.ebay.co.uk/itm/1001"),
		Brand:                 ptr("Rab"),
		Model:                 ptr("Microlight"),
		Variant:               ptr("Vest"),
		Gender:                ptr("Women"),
		Size:                  ptr("M"),
	}
	created, err := store.CreateItem(ctx, full)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(full, created.NewItem); diff != "" {
		t.Fatalf("created item mismatch (-want +got):\n%s", diff)
	}
	require.Nil(t, created.Colour)

	_, err = store.CreateItem(ctx, NewItem{EbayItemID: "1001", QueryID: query.ID, Title: "another title"})
	require.ErrorIs(t, err, ErrItemExists)

	undated, err := store.CreateItem(ctx, NewItem{EbayItemID: "1002", QueryID: query.ID, Title: "no end time"})
	if err != nil {
		t.Fatal(err)
	}
	recent, err := store.CreateItem(ctx, NewItem{EbayItemID: "1003", QueryID: query.ID, Title: "recent", EndTime: &newer})
	if err != nil {
		t.Fatal(err)
	}

	{
		found, err := store.FindItemByEbayID(ctx, "1001")
		if err != nil {
			t.Fatal(err)
		}
		require.NotNil(t, found)
		require.Equal(t, created, *found)

		missing, err := store.FindItemByEbayID(ctx, "9999")
		if err != nil {
			t.Fatal(err)
		}
		require.Nil(t, missing)
	}

	items, err := store.ListItemsForQuery(ctx, query.ID)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.EbayItemID
	}
	require.Equal(t, []string{recent.EbayItemID, created.EbayItemID, undated.EbayItemID}, ids)

	count, err := store.CountItemsForQuery(ctx, query.ID)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, int64(3), count)
}

func TestCreateItemUnknownQuery(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	_, err := store.CreateItem(context.Background(), NewItem{
		EbayItemID: testutil.RandomItemID(t),
		QueryID:    404,
		Title:      "orphan",
	})
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrItemExists))
}

func TestSuggestQueryNames(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	ctx := context.Background()
	for _, name := range []string{"Rab Cirrus", "Rab Microlight Alpine", "Montane Fireball"} {
		_, err := store.CreateQuery(ctx, name, name)
		if err != nil {
			t.Fatal(err)
		}
	}

	testCases := []struct {
		name     string
		limit    int
		expected []string
	}{
		{name: "rab microlight alpin", limit: 1, expected: []string{"Rab Microlight Alpine"}},
		{name: "RAB  CIRRUS", limit: 1, expected: []string{"Rab Cirrus"}},
		{name: "montane fireball", limit: 1, expected: []string{"Montane Fireball"}},
		{name: "anything", limit: 0, expected: []string{}},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			names, err := store.SuggestQueryNames(ctx, test.name, test.limit)
			if err != nil {
				t.Fatal(err)
			}
			require.Equal(t, test.expected, names)
		})
	}

	names, err := store.SuggestQueryNames(ctx, "rab", 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, names, 3)
}
