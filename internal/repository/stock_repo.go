package repository

import (
	"context"
	"fmt"
	"time"

	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/pkg/logger"

	"gorm.io/gorm"
)

// StockUpdate carries the counters written after an order is fulfilled.
type StockUpdate struct {
	Quantity       int
	QuantityBought int
	TotalOrder     int
}

type StockRepository interface {
	Create(ctx context.Context, stock *model.StockRecord) error
	FindByID(ctx context.Context, id string) (*model.StockRecord, error)
	FindByCatalogItemID(ctx context.Context, catalogItemID string) (*model.StockRecord, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.StockRecord, error)
	FindPage(ctx context.Context, scan Scan) ([]model.StockRecord, int64, error)
	FindRunningOut(ctx context.Context, threshold int, scan Scan) ([]model.StockRecord, int64, error)
	AddQuantity(ctx context.Context, id string, n int, at time.Time) (*model.StockRecord, error)
	UpdateAfterOrder(ctx context.Context, id string, u StockUpdate, at time.Time) (*model.StockRecord, error)
}

var stockColumns = columns{
	"id":               "id",
	"catalogItemId":    "catalog_item_id",
	"title":            "title",
	"quantity":         "quantity",
	"totalQuantity":    "total_quantity",
	"quantityBought":   "quantity_bought",
	"totalOrder":       "total_order",
	"lastOrderAt":      "last_order_at",
	"quantityUpdateAt": "quantity_update_at",
	"lastStockCheck":   "last_stock_check",
	"status":           "status",
	"createdAt":        "created_at",
	"updatedAt":        "updated_at",
}

type stockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStockRepo(db *gorm.DB, baseLog *logger.Logger) StockRepository {
	return &stockRepo{db: db, log: baseLog.With("repo", "StockRepo")}
}

func (r *stockRepo) Create(ctx context.Context, stock *model.StockRecord) error {
	if err := r.db.WithContext(ctx).Create(stock).Error; err != nil {
		return fmt.Errorf("create stock record: %w", err)
	}
	return nil
}

func (r *stockRepo) FindByID(ctx context.Context, id string) (*model.StockRecord, error) {
	return first[model.StockRecord](r.db.WithContext(ctx), "id = ?", id)
}

func (r *stockRepo) FindByCatalogItemID(ctx context.Context, catalogItemID string) (*model.StockRecord, error) {
	return first[model.StockRecord](r.db.WithContext(ctx), "catalog_item_id = ?", catalogItemID)
}

func (r *stockRepo) FindByIDs(ctx context.Context, ids []string) ([]model.StockRecord, error) {
	records, err := findByIDs[model.StockRecord](r.db.WithContext(ctx), ids)
	if err != nil {
		return nil, fmt.Errorf("find stock records: %w", err)
	}
	return records, nil
}

func (r *stockRepo) FindPage(ctx context.Context, scan Scan) ([]model.StockRecord, int64, error) {
	return findPage[model.StockRecord](r.db.WithContext(ctx), stockColumns, scan)
}

// FindRunningOut pages through records whose on-hand quantity is at or below threshold,
// narrowed further by the scan's own filter.
func (r *stockRepo) FindRunningOut(ctx context.Context, threshold int, scan Scan) ([]model.StockRecord, int64, error) {
	db := r.db.WithContext(ctx).Where("quantity <= ?", threshold)
	return findPage[model.StockRecord](db, stockColumns, scan)
}

// AddQuantity increments both on-hand and lifetime quantity in one statement.
func (r *stockRepo) AddQuantity(ctx context.Context, id string, n int, at time.Time) (*model.StockRecord, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.StockRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":           gorm.Expr("quantity + ?", n),
			"total_quantity":     gorm.Expr("total_quantity + ?", n),
			"quantity_update_at": at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("add stock quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Debug("add quantity matched no stock record", "id", id)
		return nil, nil
	}
	return first[model.StockRecord](db, "id = ?", id)
}

// UpdateAfterOrder overwrites the order counters. The quantity guard is repeated in SQL so a
// concurrent change to total_quantity cannot break quantity <= total_quantity.
func (r *stockRepo) UpdateAfterOrder(ctx context.Context, id string, u StockUpdate, at time.Time) (*model.StockRecord, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.StockRecord{}).
		Where("id = ? AND total_quantity >= ?", id, u.Quantity).
		Updates(map[string]any{
			"quantity":        u.Quantity,
			"quantity_bought": u.QuantityBought,
			"total_order":     u.TotalOrder,
			"last_order_at":   at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update stock record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return first[model.StockRecord](db, "id = ?", id)
}
