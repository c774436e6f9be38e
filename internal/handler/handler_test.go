package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-bookstore-backoffice/internal/aggregate"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/service"
	"go-bookstore-backoffice/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	service.CatalogService
	items   map[string]*model.CatalogItem
	updated map[string]any
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*model.CatalogItem, error) {
	return f.items[id], nil
}

func (f *fakeCatalog) Update(_ context.Context, id string, body map[string]any) (*model.CatalogItem, error) {
	f.updated = body
	return f.items[id], nil
}

type fakeStock struct {
	service.StockService
	added   *service.AddQuantityInput
	updated *service.UpdateStockInput
	err     error
}

func (f *fakeStock) AddQuantity(_ context.Context, in *service.AddQuantityInput) (*model.StockRecord, error) {
	f.added = in
	return &model.StockRecord{BaseModel: model.BaseModel{ID: in.StockID}, Quantity: in.Quantity}, f.err
}

func (f *fakeStock) UpdateStock(_ context.Context, id string, in *service.UpdateStockInput) (*model.StockRecord, error) {
	f.updated = in
	return &model.StockRecord{BaseModel: model.BaseModel{ID: id}, Quantity: in.Quantity}, f.err
}

type fakeOrders struct {
	service.OrderService
	created *service.CreateOrderInput
}

func (f *fakeOrders) CreateOrder(_ context.Context, in *service.CreateOrderInput) (*model.OrderRecord, error) {
	f.created = in
	return &model.OrderRecord{BaseModel: model.BaseModel{ID: "o1"}, UserID: in.UserID, Quantity: in.Quantity}, nil
}

type fakeReports struct {
	service.ReportService
	history service.HistoryRequest
	page    service.PageRequest
	err     error
}

func (f *fakeReports) TopSeller(context.Context) ([]aggregate.TopSellerRecord, error) {
	return []aggregate.TopSellerRecord{{Title: "Dune", Quantity: 3, Genre: model.GenreSciFi, BookID: "b1"}}, f.err
}

func (f *fakeReports) UsersOrder(_ context.Context, req service.PageRequest) (*model.Page[aggregate.UserOrderRecord], error) {
	f.page = req
	if req.Page != nil && *req.Page < 1 {
		return nil, &service.ValidationError{Field: "page", Reason: "gte=1"}
	}
	return &model.Page[aggregate.UserOrderRecord]{Page: 1, PerPage: 20, Records: []aggregate.UserOrderRecord{}}, nil
}

func (f *fakeReports) HistoryByOrder(_ context.Context, req service.HistoryRequest) (*model.Page[aggregate.HistoryRecord], error) {
	f.history = req
	return &model.Page[aggregate.HistoryRecord]{Page: 1, PerPage: 20, Records: []aggregate.HistoryRecord{}}, nil
}

type fixture struct {
	app     *fiber.App
	catalog *fakeCatalog
	stock   *fakeStock
	orders  *fakeOrders
	reports *fakeReports
}

func newFixture() *fixture {
	f := &fixture{
		catalog: &fakeCatalog{items: map[string]*model.CatalogItem{
			"b1": {BaseModel: model.BaseModel{ID: "b1"}, Title: "Dune", Genre: model.GenreSciFi},
		}},
		stock:   &fakeStock{},
		orders:  &fakeOrders{},
		reports: &fakeReports{},
	}

	log := logger.NewNop()
	commands := NewCommandHandler(log)
	commands.Mount("catalog", NewCatalogHandler(f.catalog).Methods())
	commands.Mount("stock", NewStockHandler(f.stock).Methods())
	commands.Mount("order", NewOrderHandler(f.orders).Methods())
	reports := NewReportHandler(f.reports, log)
	commands.Mount("order", reports.Methods())

	f.app = fiber.New()
	api := f.app.Group("/api/v1")
	api.Post("/command", commands.Handle)
	reports.Register(api.Group("/reports"))
	return f
}

func (f *fixture) command(t *testing.T, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return f.do(t, req)
}

func (f *fixture) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()
	return f.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (f *fixture) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestCommandGetByObjectID(t *testing.T) {
	f := newFixture()

	for name, payload := range map[string]string{
		"bare string": `"b1"`,
		"object id":   `{"objectId":"b1"}`,
		"id":          `{"id":"b1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			status, out := f.command(t, `{"cmd":"catalog","method":"getByObjectId","payload":`+payload+`}`)
			require.Equal(t, http.StatusOK, status)
			data := out["data"].(map[string]any)
			assert.Equal(t, "Dune", data["title"])
		})
	}
}

func TestCommandNotFoundIsNullData(t *testing.T) {
	f := newFixture()

	status, out := f.command(t, `{"cmd":"catalog","method":"getByObjectId","payload":"missing"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, out, "data")
	assert.Nil(t, out["data"])
}

func TestCommandUpdatePassesBody(t *testing.T) {
	f := newFixture()

	status, _ := f.command(t, `{"cmd":"catalog","method":"update","payload":{"objectId":"b1","body":{"price":12.5}}}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"price": 12.5}, f.catalog.updated)
}

func TestCommandLegacyAliases(t *testing.T) {
	f := newFixture()

	status, out := f.command(t, `{"cmd":"stock","method":"update-stock","payload":{"objectId":"s1","body":{"quantity":4,"quantityBought":1,"totalOrder":1}}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "s1", out["data"].(map[string]any)["id"])
	assert.Equal(t, &service.UpdateStockInput{Quantity: 4, QuantityBought: 1, TotalOrder: 1}, f.stock.updated)

	status, _ = f.command(t, `{"cmd":"order","method":"create-order","payload":{"userId":"u1","bookStockId":"s1","quantity":2,"totalPrice":20}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", f.orders.created.UserID)
	assert.Equal(t, 2, f.orders.created.Quantity)
}

func TestCommandAddQuantityAcceptsStockRecord(t *testing.T) {
	f := newFixture()

	status, _ := f.command(t, `{"cmd":"stock","method":"addQuantity","payload":{"stock":{"id":"s9"},"quantity":5}}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, &service.AddQuantityInput{StockID: "s9", Quantity: 5}, f.stock.added)
}

func TestCommandErrors(t *testing.T) {
	f := newFixture()

	status, out := f.command(t, `{"cmd":"catalog","method":"drop","payload":null}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "operation failed", out["error"])

	status, out = f.command(t, `{"cmd":"catalog","method":"getByObjectId","payload":{"id":""}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out["message"], "'id'")

	f.stock.err = errors.New("connection reset")
	status, out = f.command(t, `{"cmd":"stock","method":"addQuantity","payload":{"stockId":"s1","quantity":1}}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "operation failed", out["error"])
	assert.Equal(t, "connection reset", out["message"])
}

func TestCommandHistoryPayloadShapes(t *testing.T) {
	f := newFixture()

	status, _ := f.command(t, `{"cmd":"order","method":"getHistoryByOrder","payload":{"objectId":"u1","body":{"page":2,"perPage":5}}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", f.reports.history.UserID)
	assert.Equal(t, 2, *f.reports.history.Page)
	assert.Equal(t, 5, *f.reports.history.PerPage)

	status, _ = f.command(t, `{"cmd":"order","method":"getHistoryByOrder","payload":{"userId":"u2"}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u2", f.reports.history.UserID)
	assert.Nil(t, f.reports.history.Page)
}

func TestReportRoutes(t *testing.T) {
	f := newFixture()

	status, out := f.get(t, "/api/v1/reports/top-seller")
	require.Equal(t, http.StatusOK, status)
	records := out["data"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "Dune", records[0].(map[string]any)["title"])

	status, _ = f.get(t, "/api/v1/reports/history/u7?page=3&perPage=10")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u7", f.reports.history.UserID)
	assert.Equal(t, 3, *f.reports.history.Page)

	status, _ = f.get(t, "/api/v1/reports/users-order")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, f.reports.page.Page)
}

func TestReportRoutesRejectBadPaging(t *testing.T) {
	f := newFixture()

	status, out := f.get(t, "/api/v1/reports/users-order?page=abc")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out["message"], "'page'")

	status, _ = f.get(t, "/api/v1/reports/users-order?page=0")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", NewHealthHandler(map[string]Probe{
		"database": func(context.Context) error { return nil },
	}).Check)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app = fiber.New()
	app.Get("/health", NewHealthHandler(map[string]Probe{
		"redis": func(context.Context) error { return errors.New("down") },
	}).Check)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
