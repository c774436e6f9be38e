package service

import (
	"context"

	"go-bookstore-backoffice/internal/aggregate"
	"go-bookstore-backoffice/internal/model"
	"go-bookstore-backoffice/internal/repository"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
)

// PageRequest selects one page of a paged report. Nil fields take the defaults.
type PageRequest struct {
	Page    *int `json:"page"`
	PerPage *int `json:"perPage"`
}

// resolvePage applies defaults and rejects explicit non-positive values.
func resolvePage(page, perPage *int) (int, int, error) {
	p, pp := DefaultPage, DefaultPerPage
	if page != nil {
		if *page < 1 {
			return 0, 0, &ValidationError{Field: "page", Reason: "gte=1"}
		}
		p = *page
	}
	if perPage != nil {
		if *perPage < 1 {
			return 0, 0, &ValidationError{Field: "perPage", Reason: "gte=1"}
		}
		pp = *perPage
	}
	return p, pp, nil
}

func scanFrom(q model.PageQuery) (repository.Scan, int, int, error) {
	page, perPage, err := resolvePage(q.Page, q.PerPage)
	if err != nil {
		return repository.Scan{}, 0, 0, err
	}
	return repository.Scan{
		Filter: q.Filter,
		Sort:   q.Sort,
		Select: q.Select,
		Offset: aggregate.Offset(page, perPage),
		Limit:  perPage,
	}, page, perPage, nil
}

// storePage runs a repository page scan and wraps it in the response envelope.
func storePage[T any](ctx context.Context, q model.PageQuery, find func(context.Context, repository.Scan) ([]T, int64, error)) (*model.Page[T], error) {
	scan, page, perPage, err := scanFrom(q)
	if err != nil {
		return nil, err
	}
	records, count, err := find(ctx, scan)
	if err != nil {
		return nil, storeErr(err)
	}
	return &model.Page[T]{Page: page, PerPage: perPage, Count: count, Records: records}, nil
}

// reportPage cuts one page out of a fully evaluated report.
func reportPage[T any](ctx context.Context, rows []T, page, perPage int) (*model.Page[T], error) {
	count, records, err := aggregate.Paginate(ctx, rows, page, perPage)
	if err != nil {
		return nil, err
	}
	return &model.Page[T]{Page: page, PerPage: perPage, Count: count, Records: records}, nil
}
