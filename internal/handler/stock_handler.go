package handler

import (
	"context"
	"encoding/json"

	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/service"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

func (h *StockHandler) Methods() map[string]CommandFunc {
	return map[string]CommandFunc{
		"getByObjectId": h.getByObjectID,
		"getByBookId":   h.getByBookID,
		"getPagination": h.getPagination,
		"addBookStock":  h.addBookStock,
		"addQuantity":   h.addQuantity,
		"getRunningOut": h.getRunningOut,
		"updateStock":   h.updateStock,
	}
}

func (h *StockHandler) getByObjectID(ctx context.Context, payload json.RawMessage) (any, error) {
	id, err := decodeID(payload)
	if err != nil {
		return nil, err
	}
	return h.service.GetByID(ctx, id)
}

func (h *StockHandler) getByBookID(ctx context.Context, payload json.RawMessage) (any, error) {
	var bookID string
	if err := json.Unmarshal(payload, &bookID); err != nil {
		var wrapped struct {
			CatalogItemID string `json:"catalogItemId"`
			BookID        string `json:"bookId"`
		}
		if err := json.Unmarshal(payload, &wrapped); err != nil {
			return nil, errPayload
		}
		bookID = wrapped.CatalogItemID
		if bookID == "" {
			bookID = wrapped.BookID
		}
	}
	if bookID == "" {
		return nil, &service.ValidationError{Field: "catalogItemId", Reason: "required"}
	}
	return h.service.GetByBookID(ctx, bookID)
}

func (h *StockHandler) getPagination(ctx context.Context, payload json.RawMessage) (any, error) {
	var q model.PageQuery
	if err := decode(payload, &q); err != nil {
		return nil, err
	}
	return h.service.GetPage(ctx, q)
}

func (h *StockHandler) addBookStock(ctx context.Context, payload json.RawMessage) (any, error) {
	var in struct {
		service.AddBookStockInput
		BookID string `json:"bookId"`
	}
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	if in.CatalogItemID == "" {
		in.CatalogItemID = in.BookID
	}
	return h.service.AddBookStock(ctx, &in.AddBookStockInput)
}

func (h *StockHandler) addQuantity(ctx context.Context, payload json.RawMessage) (any, error) {
	// older callers send the whole stock record instead of its id
	var in struct {
		service.AddQuantityInput
		Stock *struct {
			ID string `json:"id"`
		} `json:"stock"`
	}
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	if in.StockID == "" && in.Stock != nil {
		in.StockID = in.Stock.ID
	}
	return h.service.AddQuantity(ctx, &in.AddQuantityInput)
}

func (h *StockHandler) getRunningOut(ctx context.Context, payload json.RawMessage) (any, error) {
	var q model.PageQuery
	if err := decode(payload, &q); err != nil {
		return nil, err
	}
	return h.service.GetRunningOut(ctx, q)
}

func (h *StockHandler) updateStock(ctx context.Context, payload json.RawMessage) (any, error) {
	id, rawBody, err := decodeTarget(payload)
	if err != nil {
		return nil, err
	}
	var in service.UpdateStockInput
	if err := decode(rawBody, &in); err != nil {
		return nil, err
	}
	return h.service.UpdateStock(ctx, id, &in)
}
