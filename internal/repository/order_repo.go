package repository

import (
	"context"
	"fmt"
	"time"

	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/pkg/logger"

	"gorm.io/gorm"
)

// OrderFilter narrows the orders read for a report. Zero values mean "no constraint".
type OrderFilter struct {
	UserID        string
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.OrderRecord) error
	FindByID(ctx context.Context, id string) (*model.OrderRecord, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.OrderRecord, error)
	FindPage(ctx context.Context, scan Scan) ([]model.OrderRecord, int64, error)
	FindForReport(ctx context.Context, f OrderFilter) ([]model.OrderRecord, error)
}

var orderColumns = columns{
	"id":           "id",
	"userId":       "user_id",
	"bookStockId":  "book_stock_id",
	"quantity":     "quantity",
	"totalPrice":   "total_price",
	"includingVat": "including_vat",
	"externalId":   "external_id",
	"createdAt":    "created_at",
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepository {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) Create(ctx context.Context, order *model.OrderRecord) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order record: %w", err)
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*model.OrderRecord, error) {
	return first[model.OrderRecord](r.db.WithContext(ctx), "id = ?", id)
}

func (r *orderRepo) FindByExternalID(ctx context.Context, externalID string) (*model.OrderRecord, error) {
	return first[model.OrderRecord](r.db.WithContext(ctx), "external_id = ?", externalID)
}

func (r *orderRepo) FindPage(ctx context.Context, scan Scan) ([]model.OrderRecord, int64, error) {
	return findPage[model.OrderRecord](r.db.WithContext(ctx), orderColumns, scan)
}

// FindForReport reads every matching order oldest first, ties broken by id, so report grouping
// sees a deterministic first-seen order.
func (r *orderRepo) FindForReport(ctx context.Context, f OrderFilter) ([]model.OrderRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.OrderRecord{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedBefore != nil {
		q = q.Where("created_at < ?", *f.CreatedBefore)
	}

	orders := []model.OrderRecord{}
	if err := q.Order("created_at ASC").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("find orders for report: %w", err)
	}
	return orders, nil
}
