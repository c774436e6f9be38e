package service

import (
	"context"

	"go-bookstore-backoffice/internal/event"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/repository"
	"go-bookstore-backoffice/pkg/logger"
)

type CreateOrderInput struct {
	UserID       string  `json:"userId" validate:"required"`
	BookStockID  string  `json:"bookStockId" validate:"required"`
	Quantity     int     `json:"quantity" validate:"gt=0"`
	TotalPrice   float64 `json:"totalPrice" validate:"gte=0"`
	IncludingVat float64 `json:"includingVat" validate:"gte=0"`
	ExternalID   *string `json:"externalId" validate:"omitempty,max=64"`
}

// IdempotencyStore is a fast path in front of the database's unique external id.
type IdempotencyStore interface {
	Lookup(ctx context.Context, externalID string) (string, error)
	Remember(ctx context.Context, externalID, orderID string) error
}

type OrderService interface {
	GetPage(ctx context.Context, q model.PageQuery) (*model.Page[model.OrderRecord], error)
	CreateOrder(ctx context.Context, in *CreateOrderInput) (*model.OrderRecord, error)
}

type orderService struct {
	orders    repository.OrderRepository
	idem      IdempotencyStore
	publisher event.Publisher
	log       *logger.Logger
}

// NewOrderService wires the order facade. idem may be nil, in which case retries are
// de-duplicated by the database alone.
func NewOrderService(orders repository.OrderRepository, idem IdempotencyStore, publisher event.Publisher, baseLog *logger.Logger) OrderService {
	return &orderService{
		orders:    orders,
		idem:      idem,
		publisher: publisher,
		log:       baseLog.With("service", "OrderService"),
	}
}

func (s *orderService) GetPage(ctx context.Context, q model.PageQuery) (*model.Page[model.OrderRecord], error) {
	return storePage(ctx, q, s.orders.FindPage)
}

// CreateOrder appends one order. A retried request carrying the same externalId gets the
// originally created order back instead of a duplicate.
func (s *orderService) CreateOrder(ctx context.Context, in *CreateOrderInput) (*model.OrderRecord, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	if in.ExternalID != nil && *in.ExternalID != "" {
		existing, err := s.findExisting(ctx, *in.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	} else {
		in.ExternalID = nil
	}

	order := &model.OrderRecord{
		UserID:       in.UserID,
		BookStockID:  in.BookStockID,
		Quantity:     in.Quantity,
		TotalPrice:   in.TotalPrice,
		IncludingVat: in.IncludingVat,
		ExternalID:   in.ExternalID,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if order.ExternalID == nil {
			return nil, err
		}
		// a concurrent retry may have inserted the same externalId first
		winner, findErr := s.orders.FindByExternalID(ctx, *order.ExternalID)
		if findErr != nil || winner == nil {
			return nil, err
		}
		s.log.Info("duplicate order create resolved to existing order", "externalId", *order.ExternalID, "orderId", winner.ID)
		return winner, nil
	}

	if order.ExternalID != nil && s.idem != nil {
		if err := s.idem.Remember(ctx, *order.ExternalID, order.ID); err != nil {
			s.log.Warn("idempotency key not stored", "externalId", *order.ExternalID, "error", err)
		}
	}
	s.publisher.Publish(ctx, event.New(event.TypeOrderCreated, event.ActionOrderCreated, order.ID, order))
	return order, nil
}

// findExisting checks the cache first, then the database, which stays the source of truth.
func (s *orderService) findExisting(ctx context.Context, externalID string) (*model.OrderRecord, error) {
	if s.idem != nil {
		id, err := s.idem.Lookup(ctx, externalID)
		if err != nil {
			s.log.Warn("idempotency lookup failed, falling back to database", "externalId", externalID, "error", err)
		} else if id != "" {
			order, err := s.orders.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if order != nil {
				return order, nil
			}
		}
	}
	return s.orders.FindByExternalID(ctx, externalID)
}
