package db

import (
	"context"
	"database/sql"
)

const queryColumns = `id, name, search_term, created_at`

const itemColumns = `id, ebay_item_id, query_id,
	title, category_name, condition, listing_type, end_time,
	price, currency, shipping_cost, total_price_est,
	bid_count, selling_state,
	seller_username, seller_feedback_score, seller_positive_percent, view_url,
	brand, model, variant, gender, size, colour,
	created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuery(row scanner) (Query, error) {
	var q Query
	err := row.Scan(&q.ID, &q.Name, &q.SearchTerm, &q.CreatedAt)
	return q, err
}

func scanItem(row scanner) (Item, error) {
	var i Item
	err := row.Scan(
		&i.ID, &i.EbayItemID, &i.QueryID,
		&i.Title, &i.CategoryName, &i.Condition, &i.ListingType, &i.EndTime,
		&i.Price, &i.Currency, &i.ShippingCost, &i.TotalPriceEst,
		&i.BidCount, &i.SellingState,
		&i.SellerUsername, &i.SellerFeedbackScore, &i.SellerPositivePercent, &i.ViewUrl,
		&i.Brand, &i.Model, &i.Variant, &i.Gender, &i.Size, &i.Colour,
		&i.CreatedAt,
	)
	return i, err
}

const getQuery = `SELECT ` + queryColumns + ` FROM queries WHERE id = ?`

func (q *Queries) GetQuery(ctx context.Context, id int64) (Query, error) {
	return scanQuery(q.db.QueryRowContext(ctx, getQuery, id))
}

const getQueryByName = `SELECT ` + queryColumns + ` FROM queries WHERE name = ?`

func (q *Queries) GetQueryByName(ctx context.Context, name string) (Query, error) {
	return scanQuery(q.db.QueryRowContext(ctx, getQueryByName, name))
}

const listQueries = `SELECT ` + queryColumns + ` FROM queries ORDER BY id`

func (q *Queries) ListQueries(ctx context.Context) ([]Query, error) {
	rows, err := q.db.QueryContext(ctx, listQueries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Query
	for rows.Next() {
		query, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, query)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createQuery = `INSERT INTO queries (name, search_term, created_at)
VALUES (?, ?, ?)
RETURNING ` + queryColumns

type CreateQueryParams struct {
	Name       string
	SearchTerm string
	CreatedAt  int64
}

func (q *Queries) CreateQuery(ctx context.Context, arg CreateQueryParams) (Query, error) {
	return scanQuery(q.db.QueryRowContext(ctx, createQuery, arg.Name, arg.SearchTerm, arg.CreatedAt))
}

const getItemByEbayItemID = `SELECT ` + itemColumns + ` FROM items WHERE ebay_item_id = ?`

func (q *Queries) GetItemByEbayItemID(ctx context.Context, ebayItemID string) (Item, error) {
	return scanItem(q.db.QueryRowContext(ctx, getItemByEbayItemID, ebayItemID))
}

// nulls sort first in ascending order in sqlite, so DESC puts listings
// without an end time last
const listItemsForQuery = `SELECT ` + itemColumns + ` FROM items
WHERE query_id = ?
ORDER BY end_time DESC, id`

func (q *Queries) ListItemsForQuery(ctx context.Context, queryID int64) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listItemsForQuery, queryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countItemsForQuery = `SELECT COUNT(*) FROM items WHERE query_id = ?`

func (q *Queries) CountItemsForQuery(ctx context.Context, queryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countItemsForQuery, queryID).Scan(&count)
	return count, err
}

const createItem = `INSERT INTO items (
	ebay_item_id, query_id,
	title, category_name, condition, listing_type, end_time,
	price, currency, shipping_cost, total_price_est,
	bid_count, selling_state,
	seller_username, seller_feedback_score, seller_positive_percent, view_url,
	brand, model, variant, gender, size, colour,
	created_at
) VALUES (
	?, ?,
	?, ?, ?, ?, ?,
	?, ?, ?, ?,
	?, ?,
	?, ?, ?, ?,
	?, ?, ?, ?, ?, ?,
	?
)
RETURNING ` + itemColumns

type CreateItemParams struct {
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

func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (Item, error) {
	row := q.db.QueryRowContext(ctx, createItem,
		arg.EbayItemID, arg.QueryID,
		arg.Title, arg.CategoryName, arg.Condition, arg.ListingType, arg.EndTime,
		arg.Price, arg.Currency, arg.ShippingCost, arg.TotalPriceEst,
		arg.BidCount, arg.SellingState,
		arg.SellerUsername, arg.SellerFeedbackScore, arg.SellerPositivePercent, arg.ViewUrl,
		arg.Brand, arg.Model, arg.Variant, arg.Gender, arg.Size, arg.Colour,
		arg.CreatedAt,
	)
	return scanItem(row)
}
