// Package aggregate folds joined order rows into report views.
//
// A pipeline is a sequence of typed stages. Stages that keep the row type (match, sort, skip,
// limit) are Stage values composed by Run; stages that change the row type (join, group, project)
// are generic functions called between Run invocations. Every stage observes ctx so an abandoned
// request stops early and its partial accumulation is discarded.
package aggregate

import (
	"cmp"
	"context"
	"math"
	"slices"
)

// ctx is polled once per checkEvery rows inside row-by-row loops
const checkEvery = 256

// Stage transforms rows without changing their type.
type Stage[T any] func(ctx context.Context, rows []T) ([]T, error)

// Run applies stages in order.
func Run[T any](ctx context.Context, rows []T, stages ...Stage[T]) ([]T, error) {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		if rows, err = stage(ctx, rows); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Match keeps the rows for which keep returns true.
func Match[T any](keep func(T) bool) Stage[T] {
	return func(ctx context.Context, rows []T) ([]T, error) {
		out := make([]T, 0, len(rows))
		for i, row := range rows {
			if err := poll(ctx, i); err != nil {
				return nil, err
			}
			if keep(row) {
				out = append(out, row)
			}
		}
		return out, nil
	}
}

// SortBy orders rows with a stable sort: rows comparing equal keep their input order.
func SortBy[T any](compare func(a, b T) int) Stage[T] {
	return func(ctx context.Context, rows []T) ([]T, error) {
		out := slices.Clone(rows)
		slices.SortStableFunc(out, compare)
		return out, nil
	}
}

// Desc builds a descending comparison on an ordered key.
func Desc[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(b), key(a))
	}
}

// Skip drops the first n rows.
func Skip[T any](n int) Stage[T] {
	return func(ctx context.Context, rows []T) ([]T, error) {
		if n <= 0 {
			return rows, nil
		}
		if n >= len(rows) {
			return rows[:0], nil
		}
		return rows[n:], nil
	}
}

// Limit keeps at most n rows.
func Limit[T any](n int) Stage[T] {
	return func(ctx context.Context, rows []T) ([]T, error) {
		if n < 0 || n >= len(rows) {
			return rows, nil
		}
		return rows[:n], nil
	}
}

// Project maps every row to a new shape.
func Project[In, Out any](ctx context.Context, rows []In, fn func(In) Out) ([]Out, error) {
	out := make([]Out, 0, len(rows))
	for i, row := range rows {
		if err := poll(ctx, i); err != nil {
			return nil, err
		}
		out = append(out, fn(row))
	}
	return out, nil
}

// Offset converts a 1-indexed page into the number of rows to skip. It saturates at
// math.MaxInt instead of wrapping for pages far past any result.
func Offset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// Paginate counts a fully evaluated result and cuts one page out of it. Count and page come
// from the same evaluation, so len(page) == min(perPage, max(0, count-offset)) always holds.
func Paginate[T any](ctx context.Context, rows []T, page, perPage int) (int64, []T, error) {
	count := int64(len(rows))
	paged, err := Run(ctx, rows, Skip[T](Offset(page, perPage)), Limit[T](perPage))
	if err != nil {
		return 0, nil, err
	}
	if paged == nil {
		paged = []T{}
	}
	return count, paged, nil
}

func poll(ctx context.Context, i int) error {
	if i%checkEvery != 0 {
		return nil
	}
	return ctx.Err()
}
