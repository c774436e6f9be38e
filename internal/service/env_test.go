package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go-bookstore-backoffice/internal/event"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/repository"
	"go-bookstore-backoffice/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db     *gorm.DB
	items  repository.CatalogRepository
	stocks repository.StockRepository
	orders repository.OrderRepository
	events *event.Recorder
	log    *logger.Logger
}

func newTestEnv(tb testing.TB) *testEnv {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(tb, err)
	require.NoError(tb, db.AutoMigrate(&model.CatalogItem{}, &model.StockRecord{}, &model.OrderRecord{}))
	sqlDB, err := db.DB()
	require.NoError(tb, err)
	tb.Cleanup(func() { sqlDB.Close() })

	log := logger.NewNop()
	return &testEnv{
		db:     db,
		items:  repository.NewCatalogRepo(db, log),
		stocks: repository.NewStockRepo(db, log),
		orders: repository.NewOrderRepo(db, log),
		events: &event.Recorder{},
		log:    log,
	}
}

func (e *testEnv) item(tb testing.TB, title string, genre model.Genre, price float64) *model.CatalogItem {
	tb.Helper()
	it := &model.CatalogItem{
		Title: title, Description: "d", Author: "a", Genre: genre, Publisher: "p", Price: price, Status: model.StatusActive,
	}
	require.NoError(tb, e.items.Create(context.Background(), it))
	return it
}

func (e *testEnv) stock(tb testing.TB, id string, it *model.CatalogItem, qty int) *model.StockRecord {
	tb.Helper()
	s := &model.StockRecord{
		BaseModel: model.BaseModel{ID: id}, CatalogItemID: it.ID, Title: it.Title, Quantity: qty, TotalQuantity: qty, Status: model.StatusActive,
	}
	require.NoError(tb, e.stocks.Create(context.Background(), s))
	return s
}

func (e *testEnv) order(tb testing.TB, userID, stockID string, qty int, total float64, at time.Time) *model.OrderRecord {
	tb.Helper()
	o := &model.OrderRecord{
		BaseModel: model.BaseModel{CreatedAt: at}, UserID: userID, BookStockID: stockID, Quantity: qty, TotalPrice: total,
	}
	require.NoError(tb, e.orders.Create(context.Background(), o))
	return o
}

func (e *testEnv) reports() ReportService {
	resolver := NewJoinResolver(e.orders, e.stocks, e.items)
	return NewReportService(resolver, ReportConfig{
		Timeout:         5 * time.Second,
		WeekBackDays:    7,
		WeekForwardDays: 1,
		Now:             func() time.Time { return fixedNow },
	}, e.log)
}

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }
