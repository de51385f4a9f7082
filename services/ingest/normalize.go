package ingest

import (
	"ebayinsights-backend/lib/scrapers/ebay"
	"ebayinsights-backend/lib/titleparse"
	"ebayinsights-backend/services/listings"
)

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// Normalize maps a raw listing onto the stored item shape. Title attributes
// are only filled in when the parser detects its brand in the title,
// otherwise they stay nil.
func Normalize(raw ebay.RawItem, queryID int64, parser *titleparse.Parser) listings.NewItem {
	item := listings.NewItem{
		EbayItemID:   raw.ItemID,
		QueryID:      queryID,
		Title:        raw.Title,
		CategoryName: optional(raw.CategoryName),
		Condition:    optional(raw.Condition),
		ListingType:  optional(raw.ListingType),
		EndTime:      raw.EndTime,

		Price:         raw.Price,
		Currency:      optional(raw.Currency),
		ShippingCost:  raw.ShippingCost,
		TotalPriceEst: raw.TotalPriceEst,

		BidCount:     raw.BidCount,
		SellingState: optional(raw.SellingState),

		SellerUsername:        optional(raw.SellerUsername),
		SellerFeedbackScore:   raw.SellerFeedbackScore,
		SellerPositivePercent: raw.SellerPositivePercent,
		ViewUrl:               optional(raw.ViewURL),
	}

	if parser == nil || !parser.Detects(item.Title) {
		return item
	}

	attrs := parser.Parse(item.Title)
	if attrs.Brand != nil {
		item.Brand = attrs.Brand
	}
	if attrs.Model != nil {
		item.Model = attrs.Model
	}
	if attrs.Variant != nil {
		item.Variant = attrs.Variant
	}
	if attrs.Gender != nil {
		item.Gender = attrs.Gender
	}
	if attrs.Size != nil {
		item.Size = attrs.Size
	}
	if attrs.Colour != nil {
		item.Colour = attrs.Colour
	}
	return item
}
