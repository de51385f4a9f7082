package listings

import (
	"database/sql"
	"time"

	"ebayinsights-backend/services/listings/db"
)

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func nullInt(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: value.Unix(), Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

func floatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	return &value.Float64
}

func intPtr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	return &value.Int64
}

func timePtr(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := unixTime(value.Int64)
	return &t
}

func itemParams(item NewItem) db.CreateItemParams {
	return db.CreateItemParams{
		EbayItemID:            item.EbayItemID,
		QueryID:               item.QueryID,
		Title:                 item.Title,
		CategoryName:          nullString(item.CategoryName),
		Condition:             nullString(item.Condition),
		ListingType:           nullString(item.ListingType),
		EndTime:               nullTime(item.EndTime),
		Price:                 nullFloat(item.Price),
		Currency:              nullString(item.Currency),
		ShippingCost:          nullFloat(item.ShippingCost),
		TotalPriceEst:         nullFloat(item.TotalPriceEst),
		BidCount:              nullInt(item.BidCount),
		SellingState:          nullString(item.SellingState),
		SellerUsername:        nullString(item.SellerUsername),
		SellerFeedbackScore:   nullInt(item.SellerFeedbackScore),
		SellerPositivePercent: nullFloat(item.SellerPositivePercent),
		ViewUrl:               nullString(item.ViewUrl),
		Brand:                 nullString(item.Brand),
		Model:                 nullString(item.Model),
		Variant:               nullString(item.Variant),
		Gender:                nullString(item.Gender),
		Size:                  nullString(item.Size),
		Colour:                nullString(item.Colour),
	}
}

func itemFromRow(row db.Item) Item {
	return Item{
		ID: row.ID,
		NewItem: NewItem{
			EbayItemID:            row.EbayItemID,
			QueryID:               row.QueryID,
			Title:                 row.Title,
			CategoryName:          stringPtr(row.CategoryName),
			Condition:             stringPtr(row.Condition),
			ListingType:           stringPtr(row.ListingType),
			EndTime:               timePtr(row.EndTime),
			Price:                 floatPtr(row.Price),
			Currency:              stringPtr(row.Currency),
			ShippingCost:          floatPtr(row.ShippingCost),
			TotalPriceEst:         floatPtr(row.TotalPriceEst),
			BidCount:              intPtr(row.BidCount),
			SellingState:          stringPtr(row.SellingState),
			SellerUsername:        stringPtr(row.SellerUsername),
			SellerFeedbackScore:   intPtr(row.SellerFeedbackScore),
			SellerPositivePercent: floatPtr(row.SellerPositivePercent),
			ViewUrl:               stringPtr(row.ViewUrl),
			Brand:                 stringPtr(row.Brand),
			Model:                 stringPtr(row.Model),
			Variant:               stringPtr(row.Variant),
			Gender:                stringPtr(row.Gender),
			Size:                  stringPtr(row.Size),
			Colour:                stringPtr(row.Colour),
		},
		CreatedAt: unixTime(row.CreatedAt),
	}
}
