package handler

import (
	"context"
	"encoding/json"

	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/service"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) Methods() map[string]CommandFunc {
	return map[string]CommandFunc{
		"getByObjectId": h.getByObjectID,
		"getByTitle":    h.getByTitle,
		"create":        h.create,
		"createInStock": h.createInStock,
		"getPagination": h.getPagination,
		"update":        h.update,
	}
}

func (h *CatalogHandler) getByObjectID(ctx context.Context, payload json.RawMessage) (any, error) {
	id, err := decodeID(payload)
	if err != nil {
		return nil, err
	}
	return h.service.GetByID(ctx, id)
}

func (h *CatalogHandler) getByTitle(ctx context.Context, payload json.RawMessage) (any, error) {
	var title string
	if err := json.Unmarshal(payload, &title); err != nil {
		var wrapped struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(payload, &wrapped); err != nil {
			return nil, errPayload
		}
		title = wrapped.Title
	}
	if title == "" {
		return nil, &service.ValidationError{Field: "title", Reason: "required"}
	}
	return h.service.GetByTitle(ctx, title)
}

func (h *CatalogHandler) create(ctx context.Context, payload json.RawMessage) (any, error) {
	var item model.CatalogItem
	if err := decode(payload, &item); err != nil {
		return nil, err
	}
	return h.service.Create(ctx, &item)
}

func (h *CatalogHandler) createInStock(ctx context.Context, payload json.RawMessage) (any, error) {
	var in service.CreateInStockInput
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	return h.service.CreateInStock(ctx, &in)
}

func (h *CatalogHandler) getPagination(ctx context.Context, payload json.RawMessage) (any, error) {
	var q model.PageQuery
	if err := decode(payload, &q); err != nil {
		return nil, err
	}
	return h.service.GetPage(ctx, q)
}

func (h *CatalogHandler) update(ctx context.Context, payload json.RawMessage) (any, error) {
	id, rawBody, err := decodeTarget(payload)
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := decode(rawBody, &body); err != nil {
		return nil, err
	}
	return h.service.Update(ctx, id, body)
}
