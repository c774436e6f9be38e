package service

import (
	"context"
	"encoding/json"
	"errors"

	"go-bookstore-backoffice/internal/event"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/repository"
	"go-bookstore-backoffice/pkg/logger"
)

// CreateInStockInput is a catalog item plus the quantity of its first stock record.
type CreateInStockInput struct {
	model.CatalogItem
	Quantity int `json:"quantity" validate:"gte=0"`
}

// ItemInStock is the pair written by CreateInStock.
type ItemInStock struct {
	Item  *model.CatalogItem `json:"item"`
	Stock *model.StockRecord `json:"stock"`
}

type CatalogService interface {
	GetByID(ctx context.Context, id string) (*model.CatalogItem, error)
	GetByTitle(ctx context.Context, title string) (*model.CatalogItem, error)
	Create(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error)
	CreateInStock(ctx context.Context, in *CreateInStockInput) (*ItemInStock, error)
	GetPage(ctx context.Context, q model.PageQuery) (*model.Page[model.CatalogItem], error)
	Update(ctx context.Context, id string, body map[string]any) (*model.CatalogItem, error)
}

type catalogService struct {
	items     repository.CatalogRepository
	stocks    repository.StockRepository
	publisher event.Publisher
	log       *logger.Logger
}

func NewCatalogService(items repository.CatalogRepository, stocks repository.StockRepository, publisher event.Publisher, baseLog *logger.Logger) CatalogService {
	return &catalogService{
		items:     items,
		stocks:    stocks,
		publisher: publisher,
		log:       baseLog.With("service", "CatalogService"),
	}
}

func (s *catalogService) GetByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	return s.items.FindByID(ctx, id)
}

func (s *catalogService) GetByTitle(ctx context.Context, title string) (*model.CatalogItem, error) {
	return s.items.FindByTitle(ctx, title)
}

func (s *catalogService) Create(ctx context.Context, item *model.CatalogItem) (*model.CatalogItem, error) {
	// id and timestamps are store-assigned
	item.BaseModel = model.BaseModel{}
	if item.Status == "" {
		item.Status = model.StatusActive
	}
	if err := validate(item); err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateInStock writes the item, then its stock record with totalQuantity = quantity. The two
// writes are independent; a failed stock write leaves the item in place.
func (s *catalogService) CreateInStock(ctx context.Context, in *CreateInStockInput) (*ItemInStock, error) {
	in.BaseModel = model.BaseModel{}
	if in.Status == "" {
		in.Status = model.StatusActive
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	item := in.CatalogItem
	if err := s.items.Create(ctx, &item); err != nil {
		return nil, err
	}

	stock := &model.StockRecord{
		CatalogItemID: item.ID,
		Title:         item.Title,
		Quantity:      in.Quantity,
		TotalQuantity: in.Quantity,
		Status:        model.StatusActive,
	}
	if err := s.stocks.Create(ctx, stock); err != nil {
		s.log.Warn("catalog item created without stock record", "itemId", item.ID, "error", err)
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeStockUpdate, event.ActionItemStocked, stock.ID, stock))
	return &ItemInStock{Item: &item, Stock: stock}, nil
}

func (s *catalogService) GetPage(ctx context.Context, q model.PageQuery) (*model.Page[model.CatalogItem], error) {
	return storePage(ctx, q, s.items.FindPage)
}

// Update checks the patched record against the model's rules before writing only the given fields.
func (s *catalogService) Update(ctx context.Context, id string, body map[string]any) (*model.CatalogItem, error) {
	existing, err := s.items.FindByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	patched := *existing
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, &ValidationError{Field: "body", Reason: "json"}
	}
	if err := json.Unmarshal(raw, &patched); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Field: typeErr.Field, Reason: "type"}
		}
		return nil, &ValidationError{Field: "body", Reason: "invalid"}
	}
	if err := validate(&patched); err != nil {
		return nil, err
	}

	updated, err := s.items.Update(ctx, id, body)
	if err != nil {
		return nil, storeErr(err)
	}
	return updated, nil
}
