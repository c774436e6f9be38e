package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var t0 = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func testDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(tb, err)
	require.NoError(tb, db.AutoMigrate(&model.CatalogItem{}, &model.StockRecord{}, &model.OrderRecord{}))

	sqlDB, err := db.DB()
	require.NoError(tb, err)
	tb.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedItem(tb testing.TB, repo CatalogRepository, title string, genre model.Genre, price float64) *model.CatalogItem {
	tb.Helper()
	it := &model.CatalogItem{
		Title:       title,
		Description: "d",
		Author:      "a",
		Genre:       genre,
		Publisher:   "p",
		Price:       price,
		Status:      model.StatusActive,
	}
	require.NoError(tb, repo.Create(context.Background(), it))
	return it
}

func seedStock(tb testing.TB, repo StockRepository, item *model.CatalogItem, qty int) *model.StockRecord {
	tb.Helper()
	s := &model.StockRecord{
		CatalogItemID: item.ID,
		Title:         item.Title,
		Quantity:      qty,
		TotalQuantity: qty,
		Status:        model.StatusActive,
	}
	require.NoError(tb, repo.Create(context.Background(), s))
	return s
}

func TestCatalogRepoLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepo(testDB(t), logger.NewNop())
	dune := seedItem(t, repo, "Dune", model.GenreSciFi, 20)

	assert.Len(t, dune.ID, 36, "id is generated on create")

	got, err := repo.FindByID(ctx, dune.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dune", got.Title)

	got, err = repo.FindByTitle(ctx, "Dune")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, dune.ID, got.ID)

	got, err = repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	items, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogRepoRejectsDuplicateTitle(t *testing.T) {
	repo := NewCatalogRepo(testDB(t), logger.NewNop())
	seedItem(t, repo, "Dune", model.GenreSciFi, 20)

	err := repo.Create(context.Background(), &model.CatalogItem{
		Title: "Dune", Description: "d", Author: "a", Genre: model.GenreSciFi, Publisher: "p", Status: model.StatusActive,
	})
	assert.Error(t, err)
}

func TestCatalogRepoFindPage(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepo(testDB(t), logger.NewNop())
	for i := 0; i < 5; i++ {
		seedItem(t, repo, fmt.Sprintf("Book %d", i), model.GenreFantasy, float64(i))
	}
	seedItem(t, repo, "Dune", model.GenreSciFi, 20)

	records, count, err := repo.FindPage(ctx, Scan{
		Filter: map[string]any{"genre": "Fantasy"},
		Sort:   []model.SortField{{Field: "price", Order: -1}},
		Select: []string{"title"},
		Offset: 1,
		Limit:  2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	require.Len(t, records, 2)
	assert.Equal(t, "Book 3", records[0].Title)
	assert.Equal(t, "Book 2", records[1].Title)
	assert.NotEmpty(t, records[0].ID, "id is always selected")
	assert.Zero(t, records[0].Price, "unselected fields stay empty")
}

func TestCatalogRepoFindPageRejectsUnknownFields(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepo(testDB(t), logger.NewNop())

	cases := map[string]Scan{
		"filter":     {Filter: map[string]any{"isbn": "x"}, Limit: 10},
		"nested":     {Filter: map[string]any{"price": map[string]any{"$gt": 1}}, Limit: 10},
		"sort":       {Sort: []model.SortField{{Field: "rating", Order: 1}}, Limit: 10},
		"sort order": {Sort: []model.SortField{{Field: "price", Order: 2}}, Limit: 10},
		"select":     {Select: []string{"password"}, Limit: 10},
	}
	for name, scan := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := repo.FindPage(ctx, scan)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestCatalogRepoUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepo(testDB(t), logger.NewNop())
	dune := seedItem(t, repo, "Dune", model.GenreSciFi, 20)

	got, err := repo.Update(ctx, dune.ID, map[string]any{"price": 25.5, "status": model.StatusInactive})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 25.5, got.Price)
	assert.Equal(t, model.StatusInactive, got.Status)

	got, err = repo.Update(ctx, "missing", map[string]any{"price": 1})
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = repo.Update(ctx, dune.ID, map[string]any{"id": "other"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestStockRepoAddQuantity(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	items := NewCatalogRepo(db, logger.NewNop())
	stocks := NewStockRepo(db, logger.NewNop())
	s := seedStock(t, stocks, seedItem(t, items, "Dune", model.GenreSciFi, 20), 5)

	got, err := stocks.AddQuantity(ctx, s.ID, 3, t0)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, 8, got.TotalQuantity)
	require.NotNil(t, got.QuantityUpdateAt)
	assert.True(t, t0.Equal(*got.QuantityUpdateAt))

	got, err = stocks.AddQuantity(ctx, "missing", 3, t0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStockRepoUpdateAfterOrder(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	items := NewCatalogRepo(db, logger.NewNop())
	stocks := NewStockRepo(db, logger.NewNop())
	s := seedStock(t, stocks, seedItem(t, items, "Dune", model.GenreSciFi, 20), 5)

	got, err := stocks.UpdateAfterOrder(ctx, s.ID, StockUpdate{Quantity: 3, QuantityBought: 2, TotalOrder: 1}, t0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 5, got.TotalQuantity)
	assert.Equal(t, 2, got.QuantityBought)
	assert.Equal(t, 1, got.TotalOrder)
	require.NotNil(t, got.LastOrderAt)

	got, err = stocks.UpdateAfterOrder(ctx, s.ID, StockUpdate{Quantity: 6}, t0)
	require.NoError(t, err)
	assert.Nil(t, got, "quantity above total quantity is not written")
}

func TestStockRepoFindRunningOut(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	items := NewCatalogRepo(db, logger.NewNop())
	stocks := NewStockRepo(db, logger.NewNop())
	low := seedStock(t, stocks, seedItem(t, items, "Low", model.GenreSciFi, 1), 2)
	seedStock(t, stocks, seedItem(t, items, "Edge", model.GenreSciFi, 1), 10)
	seedStock(t, stocks, seedItem(t, items, "Plenty", model.GenreSciFi, 1), 50)

	records, count, err := stocks.FindRunningOut(ctx, 10, Scan{Sort: []model.SortField{{Field: "quantity", Order: 1}}, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, records, 2)
	assert.Equal(t, low.ID, records[0].ID)

	records, count, err = stocks.FindRunningOut(ctx, 10, Scan{Filter: map[string]any{"title": "Edge"}, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, records, 1)
	assert.Equal(t, 10, records[0].Quantity)
}

func TestStockRepoFindByCatalogItemAndIDs(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	items := NewCatalogRepo(db, logger.NewNop())
	stocks := NewStockRepo(db, logger.NewNop())
	dune := seedItem(t, items, "Dune", model.GenreSciFi, 20)
	s := seedStock(t, stocks, dune, 5)

	got, err := stocks.FindByCatalogItemID(ctx, dune.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)

	found, err := stocks.FindByIDs(ctx, []string{s.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestOrderRepoFindForReport(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(testDB(t), logger.NewNop())
	create := func(id, user string, at time.Time) {
		require.NoError(t, repo.Create(ctx, &model.OrderRecord{
			BaseModel:   model.BaseModel{ID: id, CreatedAt: at},
			UserID:      user,
			BookStockID: "s1",
			Quantity:    1,
			TotalPrice:  10,
		}))
	}
	create("b", "u1", t0)
	create("a", "u1", t0)
	create("c", "u2", t0.Add(-time.Hour))
	create("d", "u1", t0.Add(48*time.Hour))

	all, err := repo.FindForReport(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, orderIDs(all))

	from, before := t0, t0.Add(24*time.Hour)
	window, err := repo.FindForReport(ctx, OrderFilter{UserID: "u1", CreatedFrom: &from, CreatedBefore: &before})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, orderIDs(window))
}

func TestOrderRepoFindByExternalID(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(testDB(t), logger.NewNop())
	ext := "checkout-42"
	o := &model.OrderRecord{UserID: "u1", BookStockID: "s1", Quantity: 1, ExternalID: &ext}
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByExternalID(ctx, ext)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.ID, got.ID)

	assert.Error(t, repo.Create(ctx, &model.OrderRecord{UserID: "u2", BookStockID: "s1", Quantity: 1, ExternalID: &ext}))

	got, err = repo.FindByExternalID(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func orderIDs(orders []model.OrderRecord) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
