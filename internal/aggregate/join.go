package aggregate

import (
	"context"

	"go-bookstore-backoffice/internal/model"
)

// Row is one order denormalized with its stock record and catalog item.
type Row struct {
	Order model.OrderRecord
	Stock model.StockRecord
	Item  model.CatalogItem
}

// Join resolves order -> stock -> catalog item with inner-join semantics: an order whose stock
// record or catalog item is missing produces no row. Output keeps the order input order.
func Join(ctx context.Context, orders []model.OrderRecord, stocks []model.StockRecord, items []model.CatalogItem) ([]Row, error) {
	stockByID := make(map[string]model.StockRecord, len(stocks))
	for _, s := range stocks {
		if _, seen := stockByID[s.ID]; !seen {
			stockByID[s.ID] = s
		}
	}
	itemByID := make(map[string]model.CatalogItem, len(items))
	for _, it := range items {
		if _, seen := itemByID[it.ID]; !seen {
			itemByID[it.ID] = it
		}
	}

	rows := make([]Row, 0, len(orders))
	for i, o := range orders {
		if err := poll(ctx, i); err != nil {
			return nil, err
		}
		stock, ok := stockByID[o.BookStockID]
		if !ok {
			continue
		}
		item, ok := itemByID[stock.CatalogItemID]
		if !ok {
			continue
		}
		rows = append(rows, Row{Order: o, Stock: stock, Item: item})
	}
	return rows, nil
}

// StockIDs lists the distinct stock ids referenced by orders, in first-seen order.
func StockIDs(orders []model.OrderRecord) []string {
	seen := NewOrderedSet[string, string]()
	for _, o := range orders {
		seen.Add(o.BookStockID, o.BookStockID)
	}
	return seen.Values()
}

// CatalogItemIDs lists the distinct catalog item ids referenced by stocks, in first-seen order.
func CatalogItemIDs(stocks []model.StockRecord) []string {
	seen := NewOrderedSet[string, string]()
	for _, s := range stocks {
		seen.Add(s.CatalogItemID, s.CatalogItemID)
	}
	return seen.Values()
}
