package repository

import (
	"context"
	"fmt"

	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/pkg/logger"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	Create(ctx context.Context, item *model.CatalogItem) error
	FindByID(ctx context.Context, id string) (*model.CatalogItem, error)
	FindByTitle(ctx context.Context, title string) (*model.CatalogItem, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.CatalogItem, error)
	FindPage(ctx context.Context, scan Scan) ([]model.CatalogItem, int64, error)
	Update(ctx context.Context, id string, body map[string]any) (*model.CatalogItem, error)
}

var catalogColumns = columns{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"author":      "author",
	"genre":       "genre",
	"publisher":   "publisher",
	"price":       "price",
	"imageUrl":    "image_url",
	"status":      "status",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepository {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) Create(ctx context.Context, item *model.CatalogItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create catalog item: %w", err)
	}
	return nil
}

func (r *catalogRepo) FindByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	return first[model.CatalogItem](r.db.WithContext(ctx), "id = ?", id)
}

func (r *catalogRepo) FindByTitle(ctx context.Context, title string) (*model.CatalogItem, error) {
	return first[model.CatalogItem](r.db.WithContext(ctx), "title = ?", title)
}

func (r *catalogRepo) FindByIDs(ctx context.Context, ids []string) ([]model.CatalogItem, error) {
	records, err := findByIDs[model.CatalogItem](r.db.WithContext(ctx), ids)
	if err != nil {
		return nil, fmt.Errorf("find catalog items: %w", err)
	}
	return records, nil
}

func (r *catalogRepo) FindPage(ctx context.Context, scan Scan) ([]model.CatalogItem, int64, error) {
	return findPage[model.CatalogItem](r.db.WithContext(ctx), catalogColumns, scan)
}

// Update applies a partial update and returns the stored record, or nil when id is unknown.
func (r *catalogRepo) Update(ctx context.Context, id string, body map[string]any) (*model.CatalogItem, error) {
	fields, err := catalogColumns.updates(body, "id", "createdAt", "updatedAt")
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if len(fields) > 0 {
		res := db.Model(&model.CatalogItem{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update catalog item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			r.log.Debug("update matched no catalog item", "id", id)
			return nil, nil
		}
	}
	return first[model.CatalogItem](db, "id = ?", id)
}
