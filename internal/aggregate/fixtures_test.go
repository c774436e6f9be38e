package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go-bookstore-backoffice/internal/model"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var baseTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func item(id, title string, genre model.Genre, price float64) model.CatalogItem {
	return model.CatalogItem{
		BaseModel: model.BaseModel{ID: id},
		Title:     title,
		Genre:     genre,
		Price:     price,
		Status:    model.StatusActive,
	}
}

func stock(id, itemID string, quantity int) model.StockRecord {
	return model.StockRecord{
		BaseModel:     model.BaseModel{ID: id},
		CatalogItemID: itemID,
		Quantity:      quantity,
		TotalQuantity: quantity,
	}
}

func order(id, userID, stockID string, quantity int, total float64, at time.Time) model.OrderRecord {
	return model.OrderRecord{
		BaseModel:   model.BaseModel{ID: id, CreatedAt: at},
		UserID:      userID,
		BookStockID: stockID,
		Quantity:    quantity,
		TotalPrice:  total,
	}
}

func mustJoin(t *testing.T, orders []model.OrderRecord, stocks []model.StockRecord, items []model.CatalogItem) []Row {
	t.Helper()
	rows, err := Join(context.Background(), orders, stocks, items)
	require.NoError(t, err)
	return rows
}

// catalog is a randomly generated but fully resolvable data set
type catalog struct {
	items  []model.CatalogItem
	stocks []model.StockRecord
	orders []model.OrderRecord
}

func drawCatalog(t *rapid.T) catalog {
	var c catalog
	nItems := rapid.IntRange(1, 25).Draw(t, "items")
	for i := 0; i < nItems; i++ {
		genre := rapid.SampledFrom(model.Genres[:5]).Draw(t, fmt.Sprintf("genre%d", i))
		c.items = append(c.items, item(fmt.Sprintf("b%d", i), fmt.Sprintf("Title %d", i), genre, float64(i+1)))
		c.stocks = append(c.stocks, stock(fmt.Sprintf("s%d", i), fmt.Sprintf("b%d", i), 100))
	}
	nOrders := rapid.IntRange(0, 80).Draw(t, "orders")
	for i := 0; i < nOrders; i++ {
		s := rapid.IntRange(0, nItems-1).Draw(t, fmt.Sprintf("stock%d", i))
		qty := rapid.IntRange(1, 5).Draw(t, fmt.Sprintf("qty%d", i))
		user := fmt.Sprintf("u%d", rapid.IntRange(0, 6).Draw(t, fmt.Sprintf("user%d", i)))
		c.orders = append(c.orders, order(fmt.Sprintf("o%d", i), user, fmt.Sprintf("s%d", s), qty, float64(qty*(s+1)), baseTime.Add(time.Duration(i)*time.Minute)))
	}
	return c
}

func (c catalog) rows(t *rapid.T) []Row {
	rows, err := Join(context.Background(), c.orders, c.stocks, c.items)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return rows
}
