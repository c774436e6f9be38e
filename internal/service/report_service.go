package service

import (
	"context"
	"fmt"
	"time"

	"go-bookstore-backoffice/internal/aggregate"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/repository"
	"go-bookstore-backoffice/pkg/logger"
)

type ReportConfig struct {
	Timeout         time.Duration
	WeekBackDays    int
	WeekForwardDays int
	Now             func() time.Time
}

type HistoryRequest struct {
	UserID string `json:"userId" validate:"required"`
	PageRequest
}

type ReportService interface {
	TopSeller(ctx context.Context) ([]aggregate.TopSellerRecord, error)
	TopSellerByGenre(ctx context.Context) ([]aggregate.GenreTopSellerRecord, error)
	OrderByGenre(ctx context.Context) ([]aggregate.GenreOrderRecord, error)
	ReportByWeek(ctx context.Context) ([]aggregate.WeeklyRevenueRecord, error)
	TopUserBought(ctx context.Context, req PageRequest) (*model.Page[aggregate.TopUserRecord], error)
	UsersOrder(ctx context.Context, req PageRequest) (*model.Page[aggregate.UserOrderRecord], error)
	HistoryByOrder(ctx context.Context, req HistoryRequest) (*model.Page[aggregate.HistoryRecord], error)
}

type reportService struct {
	resolver *JoinResolver
	cfg      ReportConfig
	log      *logger.Logger
}

func NewReportService(resolver *JoinResolver, cfg ReportConfig, baseLog *logger.Logger) ReportService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &reportService{
		resolver: resolver,
		cfg:      cfg,
		log:      baseLog.With("service", "ReportService"),
	}
}

// run resolves the joined rows under the report timeout and hands them to build.
func run[T any](ctx context.Context, s *reportService, name string, f repository.OrderFilter, build func(context.Context, []aggregate.Row) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	var zero T
	rows, err := s.resolver.Resolve(ctx, f)
	if err != nil {
		return zero, fmt.Errorf("%s: resolve orders: %w", name, err)
	}
	out, err := build(ctx, rows)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	s.log.Debug("report built", "report", name, "rows", len(rows), "took", time.Since(start))
	return out, nil
}

func (s *reportService) TopSeller(ctx context.Context) ([]aggregate.TopSellerRecord, error) {
	return run(ctx, s, "topSeller", repository.OrderFilter{}, aggregate.TopSeller)
}

func (s *reportService) TopSellerByGenre(ctx context.Context) ([]aggregate.GenreTopSellerRecord, error) {
	return run(ctx, s, "topSellerByGenre", repository.OrderFilter{}, aggregate.TopSellerByGenre)
}

func (s *reportService) OrderByGenre(ctx context.Context) ([]aggregate.GenreOrderRecord, error) {
	return run(ctx, s, "getOrderByGenre", repository.OrderFilter{}, aggregate.OrderByGenre)
}

// ReportByWeek buckets revenue by day over the configured window around now. The window is
// pushed down to the store and applied again by the pipeline.
func (s *reportService) ReportByWeek(ctx context.Context) ([]aggregate.WeeklyRevenueRecord, error) {
	w := aggregate.WeekWindow(s.cfg.Now().UTC(), s.cfg.WeekBackDays, s.cfg.WeekForwardDays)
	f := repository.OrderFilter{CreatedFrom: &w.From, CreatedBefore: &w.Before}
	return run(ctx, s, "getReportByWeek", f, func(ctx context.Context, rows []aggregate.Row) ([]aggregate.WeeklyRevenueRecord, error) {
		return aggregate.WeeklyRevenue(ctx, rows, w)
	})
}

func (s *reportService) TopUserBought(ctx context.Context, req PageRequest) (*model.Page[aggregate.TopUserRecord], error) {
	page, perPage, err := resolvePage(req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "getTopUserBought", repository.OrderFilter{}, func(ctx context.Context, rows []aggregate.Row) (*model.Page[aggregate.TopUserRecord], error) {
		users, err := aggregate.TopUserBought(ctx, rows)
		if err != nil {
			return nil, err
		}
		return reportPage(ctx, users, page, perPage)
	})
}

func (s *reportService) UsersOrder(ctx context.Context, req PageRequest) (*model.Page[aggregate.UserOrderRecord], error) {
	page, perPage, err := resolvePage(req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "getUsersOrder", repository.OrderFilter{}, func(ctx context.Context, rows []aggregate.Row) (*model.Page[aggregate.UserOrderRecord], error) {
		users, err := aggregate.UserOrders(ctx, rows)
		if err != nil {
			return nil, err
		}
		return reportPage(ctx, users, page, perPage)
	})
}

func (s *reportService) HistoryByOrder(ctx context.Context, req HistoryRequest) (*model.Page[aggregate.HistoryRecord], error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	page, perPage, err := resolvePage(req.Page, req.PerPage)
	if err != nil {
		return nil, err
	}
	f := repository.OrderFilter{UserID: req.UserID}
	return run(ctx, s, "getHistoryByOrder", f, func(ctx context.Context, rows []aggregate.Row) (*model.Page[aggregate.HistoryRecord], error) {
		history, err := aggregate.History(ctx, rows, req.UserID)
		if err != nil {
			return nil, err
		}
		return reportPage(ctx, history, page, perPage)
	})
}
