package ebay

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func itemJson(id int) string {
	return fmt.Sprintf(`{
		"itemId": ["%d"],
		"title": ["Rab Microlight Alpine Jacket %d"],
		"primaryCategory": [{"categoryName": ["Coats & Jackets"]}],
		"condition": [{"conditionDisplayName": ["Used"]}],
		"listingInfo": [{"listingType": ["Auction"], "endTime": ["2024-03-01T12:30:00.000Z"]}],
		"sellingStatus": [{
			"currentPrice": [{"@currencyId": "GBP", "__value__": "85.0"}],
			"bidCount": ["12"],
			"sellingState": ["EndedWithSales"]
		}],
		"shippingInfo": [{"shippingServiceCost": [{"@currencyId": "GBP", "__value__": "4.5"}]}],
		"sellerInfo": [{
			"sellerUserName": ["seller_%d"],
			"feedbackScore": ["1234"],
			"positiveFeedbackPercent": ["99.5"]
		}],
		"viewItemURL": ["https://www.ebay.co.uk/itm/%d"]
	}`, id, id, id, id)
}

// serves `total` items split into pages of the requested size
func newFindingServer(t *testing.T, total int, requests *int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(requests, 1)

		query := r.URL.Query()
		require.Equal(t, "findCompletedItems", query.Get("OPERATION-NAME"))
		require.Equal(t, "test-app", query.Get("SECURITY-APPNAME"))
		require.Equal(t, "SoldItemsOnly", query.Get("itemFilter(0).name"))

		perPage, _ := strconv.Atoi(query.Get("paginationInput.entriesPerPage"))
		page, _ := strconv.Atoi(query.Get("paginationInput.pageNumber"))
		totalPages := (total + perPage - 1) / perPage

		var items []string
		for i := (page - 1) * perPage; i < min(page*perPage, total); i++ {
			items = append(items, itemJson(i+1))
		}

		w.Header().Set("content-type", "text/plain")
		fmt.Fprintf(w, `{"findCompletedItemsResponse": [{
			"ack": ["Success"],
			"searchResult": [{"@count": "%d", "item": [%s]}],
			"paginationOutput": [{"pageNumber": ["%d"], "totalPages": ["%d"]}]
		}]}`, len(items), strings.Join(items, ","), page, totalPages)
	}))
}

func newTestClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(Config{AppID: "test-app", BaseUrl: baseUrl})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestFindCompletedItems(t *testing.T) {
	var requests int64
	server := newFindingServer(t, 3, &requests)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	items, err := newTestClient(t, server.URL).FindCompletedItems(ctx, "rab microlight", 10)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, items, 3)
	require.EqualValues(t, 1, requests)

	item := items[0]
	require.Equal(t, "1", item.ItemID)
	require.Equal(t, "Rab Microlight Alpine Jacket 1", item.Title)
	require.Equal(t, "Coats & Jackets", item.CategoryName)
	require.Equal(t, "Used", item.Condition)
	require.Equal(t, "Auction", item.ListingType)
	require.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), *item.EndTime)
	require.Equal(t, 85.0, *item.Price)
	require.Equal(t, "GBP", item.Currency)
	require.Equal(t, 4.5, *item.ShippingCost)
	require.Equal(t, 89.5, *item.TotalPriceEst)
	require.EqualValues(t, 12, *item.BidCount)
	require.Equal(t, "EndedWithSales", item.SellingState)
	require.Equal(t, "seller_1", item.SellerUsername)
	require.EqualValues(t, 1234, *item.SellerFeedbackScore)
	require.Equal(t, 99.5, *item.SellerPositivePercent)
	require.Equal(t, "https://www.ebay.co.uk/itm/1", item.ViewURL)
}

func TestFindCompletedItemsPaginates(t *testing.T) {
	var requests int64
	server := newFindingServer(t, 250, &requests)
	defer server.Close()

	items, err := newTestClient(t, server.URL).FindCompletedItems(context.Background(), "rab", 230)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, items, 230)
	require.EqualValues(t, 3, requests)

	// order is preserved across pages
	for i, item := range items {
		require.Equal(t, strconv.Itoa(i+1), item.ItemID)
	}
}

func TestFindCompletedItemsLastPage(t *testing.T) {
	var requests int64
	server := newFindingServer(t, 150, &requests)
	defer server.Close()

	items, err := newTestClient(t, server.URL).FindCompletedItems(context.Background(), "rab", 500)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, items, 150)
	require.EqualValues(t, 2, requests)
}

func TestFindCompletedItemsZero(t *testing.T) {
	var requests int64
	server := newFindingServer(t, 10, &requests)
	defer server.Close()

	items, err := newTestClient(t, server.URL).FindCompletedItems(context.Background(), "rab", 0)
	require.NoError(t, err)
	require.Empty(t, items)
	require.EqualValues(t, 0, requests)
}

func TestFindCompletedItemsFailures(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "ack failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"findCompletedItemsResponse": [{
					"ack": ["Failure"],
					"errorMessage": [{"error": [{"message": ["Invalid Application: test-app"]}]}]
				}]}`)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>maintenance</html>`)
			},
		},
		{
			name: "second page fails",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("paginationInput.pageNumber") == "2" {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				items := make([]string, 100)
				for i := range items {
					items[i] = itemJson(i + 1)
				}
				fmt.Fprintf(w, `{"findCompletedItemsResponse": [{
					"ack": ["Success"],
					"searchResult": [{"item": [%s]}],
					"paginationOutput": [{"totalPages": ["2"]}]
				}]}`, strings.Join(items, ","))
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(test.handler)
			defer server.Close()

			items, err := newTestClient(t, server.URL).FindCompletedItems(context.Background(), "rab", 200)
			require.ErrorIs(t, err, ErrRequestFailed)
			require.Nil(t, items)
		})
	}
}

func TestNewClientRequiresAppID(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestToRawItemMissingFields(t *testing.T) {
	raw := apiItem{
		ItemID: []string{"42"},
		Title:  []string{"Rab Jacket"},
		SellingStatus: []apiSellingStatus{{
			CurrentPrice: []amount{{CurrencyID: "GBP", Value: "10.25"}},
		}},
	}.toRawItem()

	require.Equal(t, "42", raw.ItemID)
	require.Nil(t, raw.EndTime)
	require.Nil(t, raw.ShippingCost)
	require.Nil(t, raw.BidCount)
	require.Equal(t, 10.25, *raw.TotalPriceEst)
}
