package db

import (
	"database/sql"
)

type Query struct {
	ID         int64
	Name       string
	SearchTerm string
	CreatedAt  int64
}

type Item struct {
	ID                    int64
	EbayItemID            string
	QueryID               int64
	Title                 string
	CategoryName          sql.NullString
	Condition             sql.NullString
	ListingType           sql.NullString
	EndTime               sql.NullInt64
	Price                 sql.NullFloat64
	Currency              sql.NullString
	ShippingCost          sql.NullFloat64
	TotalPriceEst         sql.NullFloat64
	BidCount              sql.NullInt64
	SellingState          sql.NullString
	SellerUsername        sql.NullString
	SellerFeedbackScore   sql.NullInt64
	SellerPositivePercent sql.NullFloat64
	ViewUrl               sql.NullString
	Brand                 sql.NullString
	Model                 sql.NullString
	Variant               sql.NullString
	Gender                sql.NullString
	Size                  sql.NullString
	Colour                sql.NullString
	CreatedAt             int64
}
