package service

import (
	"context"
	"time"

	"go-bookstore-backoffice/internal/event"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/repository"
	"go-bookstore-backoffice/pkg/logger"
)

type AddBookStockInput struct {
	CatalogItemID string `json:"catalogItemId" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Quantity      int    `json:"quantity" validate:"gte=0"`
}

type AddQuantityInput struct {
	StockID  string `json:"stockId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type UpdateStockInput struct {
	Quantity       int `json:"quantity" validate:"gte=0"`
	QuantityBought int `json:"quantityBought" validate:"gte=0"`
	TotalOrder     int `json:"totalOrder" validate:"gte=0"`
}

type StockService interface {
	GetByID(ctx context.Context, id string) (*model.StockRecord, error)
	GetByBookID(ctx context.Context, catalogItemID string) (*model.StockRecord, error)
	GetPage(ctx context.Context, q model.PageQuery) (*model.Page[model.StockRecord], error)
	AddBookStock(ctx context.Context, in *AddBookStockInput) (*model.StockRecord, error)
	AddQuantity(ctx context.Context, in *AddQuantityInput) (*model.StockRecord, error)
	GetRunningOut(ctx context.Context, q model.PageQuery) (*model.Page[model.StockRecord], error)
	UpdateStock(ctx context.Context, id string, in *UpdateStockInput) (*model.StockRecord, error)
}

type stockService struct {
	stocks       repository.StockRepository
	publisher    event.Publisher
	lowThreshold int
	now          func() time.Time
	log          *logger.Logger
}

func NewStockService(stocks repository.StockRepository, publisher event.Publisher, lowStockThreshold int, baseLog *logger.Logger) StockService {
	return &stockService{
		stocks:       stocks,
		publisher:    publisher,
		lowThreshold: lowStockThreshold,
		now:          func() time.Time { return time.Now().UTC() },
		log:          baseLog.With("service", "StockService"),
	}
}

func (s *stockService) GetByID(ctx context.Context, id string) (*model.StockRecord, error) {
	return s.stocks.FindByID(ctx, id)
}

func (s *stockService) GetByBookID(ctx context.Context, catalogItemID string) (*model.StockRecord, error) {
	return s.stocks.FindByCatalogItemID(ctx, catalogItemID)
}

func (s *stockService) GetPage(ctx context.Context, q model.PageQuery) (*model.Page[model.StockRecord], error) {
	return storePage(ctx, q, s.stocks.FindPage)
}

func (s *stockService) AddBookStock(ctx context.Context, in *AddBookStockInput) (*model.StockRecord, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	stock := &model.StockRecord{
		CatalogItemID: in.CatalogItemID,
		Title:         in.Title,
		Quantity:      in.Quantity,
		TotalQuantity: in.Quantity,
		Status:        model.StatusActive,
	}
	if err := s.stocks.Create(ctx, stock); err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, event.New(event.TypeStockUpdate, event.ActionStockAdded, stock.ID, stock))
	return stock, nil
}

// AddQuantity restocks: quantity and totalQuantity both grow by n. Unknown stock ids yield nil.
func (s *stockService) AddQuantity(ctx context.Context, in *AddQuantityInput) (*model.StockRecord, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	stock, err := s.stocks.AddQuantity(ctx, in.StockID, in.Quantity, s.now())
	if err != nil || stock == nil {
		return nil, err
	}
	s.publisher.Publish(ctx, event.New(event.TypeStockUpdate, event.ActionQuantityAdded, stock.ID, stock))
	return stock, nil
}

// GetRunningOut pages through stock at or below the low-stock threshold, narrowed by the caller's filter.
func (s *stockService) GetRunningOut(ctx context.Context, q model.PageQuery) (*model.Page[model.StockRecord], error) {
	return storePage(ctx, q, func(ctx context.Context, scan repository.Scan) ([]model.StockRecord, int64, error) {
		return s.stocks.FindRunningOut(ctx, s.lowThreshold, scan)
	})
}

// UpdateStock writes the post-order counters and stamps lastOrderAt. A quantity above the record's
// totalQuantity is rejected.
func (s *stockService) UpdateStock(ctx context.Context, id string, in *UpdateStockInput) (*model.StockRecord, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	current, err := s.stocks.FindByID(ctx, id)
	if err != nil || current == nil {
		return nil, err
	}
	if in.Quantity > current.TotalQuantity {
		return nil, &ValidationError{Field: "quantity", Reason: "ltefield=totalQuantity"}
	}

	stock, err := s.stocks.UpdateAfterOrder(ctx, id, repository.StockUpdate{
		Quantity:       in.Quantity,
		QuantityBought: in.QuantityBought,
		TotalOrder:     in.TotalOrder,
	}, s.now())
	if err != nil || stock == nil {
		return nil, err
	}

	s.publisher.Publish(ctx, event.New(event.TypeStockUpdate, event.ActionStockUpdated, stock.ID, stock))
	if stock.Quantity <= s.lowThreshold {
		s.log.Info("stock running out", "stockId", stock.ID, "quantity", stock.Quantity)
		s.publisher.Publish(ctx, event.New(event.TypeStockUpdate, event.ActionRunningOut, stock.ID, stock))
	}
	return stock, nil
}
