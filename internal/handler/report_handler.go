package handler

import (
	"context"
	"encoding/json"
	"strconv"

	"go-bookstore-backoffice/internal/service"
	"go-bookstore-backoffice/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler exposes the order reports both as order.* commands and as GET routes.
type ReportHandler struct {
	service service.ReportService
	log     *logger.Logger
}

func NewReportHandler(s service.ReportService, baseLog *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: s,
		log:     baseLog.With("component", "ReportHandler"),
	}
}

func (h *ReportHandler) Methods() map[string]CommandFunc {
	return map[string]CommandFunc{
		"topSeller":         h.topSeller,
		"topSellerByGenre":  h.topSellerByGenre,
		"getOrderByGenre":   h.orderByGenre,
		"getReportByWeek":   h.reportByWeek,
		"getTopUserBought":  h.topUserBought,
		"getUsersOrder":     h.usersOrder,
		"getHistoryByOrder": h.historyByOrder,
	}
}

func (h *ReportHandler) topSeller(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.TopSeller(ctx)
}

func (h *ReportHandler) topSellerByGenre(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.TopSellerByGenre(ctx)
}

func (h *ReportHandler) orderByGenre(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.OrderByGenre(ctx)
}

func (h *ReportHandler) reportByWeek(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.service.ReportByWeek(ctx)
}

func (h *ReportHandler) topUserBought(ctx context.Context, payload json.RawMessage) (any, error) {
	var req service.PageRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.TopUserBought(ctx, req)
}

func (h *ReportHandler) usersOrder(ctx context.Context, payload json.RawMessage) (any, error) {
	var req service.PageRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.UsersOrder(ctx, req)
}

// historyByOrder takes {userId, page, perPage} or the older {objectId, body: {page, perPage}}.
func (h *ReportHandler) historyByOrder(ctx context.Context, payload json.RawMessage) (any, error) {
	var in struct {
		service.HistoryRequest
		ObjectID string               `json:"objectId"`
		Body     *service.PageRequest `json:"body"`
	}
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	req := in.HistoryRequest
	if req.UserID == "" {
		req.UserID = in.ObjectID
	}
	if in.Body != nil {
		req.PageRequest = *in.Body
	}
	return h.service.HistoryByOrder(ctx, req)
}

// Register mounts the read-only report routes.
func (h *ReportHandler) Register(r fiber.Router) {
	r.Get("/top-seller", h.route("topSeller", func(c *fiber.Ctx) (any, error) {
		return h.service.TopSeller(c.UserContext())
	}))
	r.Get("/top-seller-by-genre", h.route("topSellerByGenre", func(c *fiber.Ctx) (any, error) {
		return h.service.TopSellerByGenre(c.UserContext())
	}))
	r.Get("/order-by-genre", h.route("getOrderByGenre", func(c *fiber.Ctx) (any, error) {
		return h.service.OrderByGenre(c.UserContext())
	}))
	r.Get("/weekly", h.route("getReportByWeek", func(c *fiber.Ctx) (any, error) {
		return h.service.ReportByWeek(c.UserContext())
	}))
	r.Get("/top-user-bought", h.route("getTopUserBought", func(c *fiber.Ctx) (any, error) {
		req, err := pageFromQuery(c)
		if err != nil {
			return nil, err
		}
		return h.service.TopUserBought(c.UserContext(), req)
	}))
	r.Get("/users-order", h.route("getUsersOrder", func(c *fiber.Ctx) (any, error) {
		req, err := pageFromQuery(c)
		if err != nil {
			return nil, err
		}
		return h.service.UsersOrder(c.UserContext(), req)
	}))
	r.Get("/history/:userId", h.route("getHistoryByOrder", func(c *fiber.Ctx) (any, error) {
		req, err := pageFromQuery(c)
		if err != nil {
			return nil, err
		}
		return h.service.HistoryByOrder(c.UserContext(), service.HistoryRequest{
			UserID:      c.Params("userId"),
			PageRequest: req,
		})
	}))
}

func (h *ReportHandler) route(op string, run func(c *fiber.Ctx) (any, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := run(c)
		if err != nil {
			return fail(c, h.log, op, err)
		}
		return ok(c, result)
	}
}

func pageFromQuery(c *fiber.Ctx) (service.PageRequest, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return service.PageRequest{}, err
	}
	perPage, err := queryInt(c, "perPage")
	if err != nil {
		return service.PageRequest{}, err
	}
	return service.PageRequest{Page: page, PerPage: perPage}, nil
}

// queryInt returns nil when the parameter is absent so the service default applies.
func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &service.ValidationError{Field: key, Reason: "numeric"}
	}
	return &n, nil
}
