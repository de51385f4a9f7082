package ebay

import "time"

// RawItem is one completed listing as returned by the Finding API, with
// prices and counts already converted out of their string encodings.
type RawItem struct {
	ItemID       string
	Title        string
	CategoryName string
	Condition    string
	ListingType  string
	EndTime      *time.Time

	Price         *float64
	Currency      string
	ShippingCost  *float64
	TotalPriceEst *float64

	BidCount     *int64
	SellingState string

	SellerUsername        string
	SellerFeedbackScore   *int64
	SellerPositivePercent *float64
	ViewURL               string
}

// the Finding API's JSON format wraps every value in an array

type amount struct {
	CurrencyID string `json:"@currencyId"`
	Value      string `json:"__value__"`
}

type apiCategory struct {
	CategoryName []string `json:"categoryName"`
}

type apiCondition struct {
	ConditionDisplayName []string `json:"conditionDisplayName"`
}

type apiListingInfo struct {
	ListingType []string `json:"listingType"`
	EndTime     []string `json:"endTime"`
}

type apiSellingStatus struct {
	CurrentPrice []amount `json:"currentPrice"`
	BidCount     []string `json:"bidCount"`
	SellingState []string `json:"sellingState"`
}

type apiShippingInfo struct {
	ShippingServiceCost []amount `json:"shippingServiceCost"`
}

type apiSellerInfo struct {
	SellerUserName          []string `json:"sellerUserName"`
	FeedbackScore           []string `json:"feedbackScore"`
	PositiveFeedbackPercent []string `json:"positiveFeedbackPercent"`
}

type apiItem struct {
	ItemID          []string           `json:"itemId"`
	Title           []string           `json:"title"`
	PrimaryCategory []apiCategory      `json:"primaryCategory"`
	Condition       []apiCondition     `json:"condition"`
	ListingInfo     []apiListingInfo   `json:"listingInfo"`
	SellingStatus   []apiSellingStatus `json:"sellingStatus"`
	ShippingInfo    []apiShippingInfo  `json:"shippingInfo"`
	SellerInfo      []apiSellerInfo    `json:"sellerInfo"`
	ViewItemURL     []string           `json:"viewItemURL"`
}

type apiSearchResult struct {
	Count string    `json:"@count"`
	Item  []apiItem `json:"item"`
}

type apiPagination struct {
	PageNumber []string `json:"pageNumber"`
	TotalPages []string `json:"totalPages"`
}

type apiErrorDetail struct {
	Message []string `json:"message"`
}

type apiErrorMessage struct {
	Error []apiErrorDetail `json:"error"`
}

type apiResponse struct {
	Ack              []string          `json:"ack"`
	ErrorMessage     []apiErrorMessage `json:"errorMessage"`
	SearchResult     []apiSearchResult `json:"searchResult"`
	PaginationOutput []apiPagination   `json:"paginationOutput"`
}

type findCompletedItemsEnvelope struct {
	Response []apiResponse `json:"findCompletedItemsResponse"`
}
