package handler

import (
	"context"
	"encoding/json"

	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/service"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) Methods() map[string]CommandFunc {
	return map[string]CommandFunc{
		"getPagination": h.getPagination,
		"createOrder":   h.createOrder,
	}
}

func (h *OrderHandler) getPagination(ctx context.Context, payload json.RawMessage) (any, error) {
	var q model.PageQuery
	if err := decode(payload, &q); err != nil {
		return nil, err
	}
	return h.service.GetPage(ctx, q)
}

func (h *OrderHandler) createOrder(ctx context.Context, payload json.RawMessage) (any, error) {
	var in service.CreateOrderInput
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	return h.service.CreateOrder(ctx, &in)
}
