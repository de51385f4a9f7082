package ebay

import (
	"strconv"
	"strings"
	"time"
)

func first[T any](values []T) (T, bool) {
	var zero T
	if len(values) == 0 {
		return zero, false
	}
	return values[0], true
}

func firstString(values []string) string {
	v, _ := first(values)
	return strings.TrimSpace(v)
}

func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(value string) *int64 {
	if value == "" {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &i
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func (item apiItem) toRawItem() RawItem {
	raw := RawItem{
		ItemID:  firstString(item.ItemID),
		Title:   firstString(item.Title),
		ViewURL: firstString(item.ViewItemURL),
	}

	if category, ok := first(item.PrimaryCategory); ok {
		raw.CategoryName = firstString(category.CategoryName)
	}
	if condition, ok := first(item.Condition); ok {
		raw.Condition = firstString(condition.ConditionDisplayName)
	}
	if listing, ok := first(item.ListingInfo); ok {
		raw.ListingType = firstString(listing.ListingType)
		raw.EndTime = parseTime(firstString(listing.EndTime))
	}
	if status, ok := first(item.SellingStatus); ok {
		if price, ok := first(status.CurrentPrice); ok {
			raw.Price = parseFloat(price.Value)
			raw.Currency = price.CurrencyID
		}
		raw.BidCount = parseInt(firstString(status.BidCount))
		raw.SellingState = firstString(status.SellingState)
	}
	if shipping, ok := first(item.ShippingInfo); ok {
		if cost, ok := first(shipping.ShippingServiceCost); ok {
			raw.ShippingCost = parseFloat(cost.Value)
		}
	}
	if seller, ok := first(item.SellerInfo); ok {
		raw.SellerUsername = firstString(seller.SellerUserName)
		raw.SellerFeedbackScore = parseInt(firstString(seller.FeedbackScore))
		raw.SellerPositivePercent = parseFloat(firstString(seller.PositiveFeedbackPercent))
	}

	switch {
	case raw.Price != nil && raw.ShippingCost != nil:
		total := *raw.Price + *raw.ShippingCost
		raw.TotalPriceEst = &total
	case raw.Price != nil:
		total := *raw.Price
		raw.TotalPriceEst = &total
	}

	return raw
}
