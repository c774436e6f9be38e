package service

import (
	"context"

	"go-bookstore-backoffice/internal/aggregate"
	"go-bookstore-backoffice/internal/repository"
)

// JoinResolver loads orders and the stock records and catalog items they reference, then
// inner-joins them. Orders whose references do not resolve are dropped without error.
type JoinResolver struct {
	orders repository.OrderRepository
	stocks repository.StockRepository
	items  repository.CatalogRepository
}

func NewJoinResolver(orders repository.OrderRepository, stocks repository.StockRepository, items repository.CatalogRepository) *JoinResolver {
	return &JoinResolver{orders: orders, stocks: stocks, items: items}
}

func (j *JoinResolver) Resolve(ctx context.Context, f repository.OrderFilter) ([]aggregate.Row, error) {
	orders, err := j.orders.FindForReport(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []aggregate.Row{}, nil
	}

	stocks, err := j.stocks.FindByIDs(ctx, aggregate.StockIDs(orders))
	if err != nil {
		return nil, err
	}
	items, err := j.items.FindByIDs(ctx, aggregate.CatalogItemIDs(stocks))
	if err != nil {
		return nil, err
	}
	return aggregate.Join(ctx, orders, stocks, items)
}
