package repository

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"go-bookstore-backoffice/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidQuery matches every *QueryError.
var ErrInvalidQuery = errors.New("invalid query")

// QueryError reports a filter, sort, select or update field the store does not accept.
type QueryError struct {
	Field  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// Scan is a filtered, sorted, projected page request already resolved to offset/limit.
type Scan struct {
	Filter map[string]any
	Sort   []model.SortField
	Select []string
	Offset int
	Limit  int
}

// columns maps API field names to database columns
type columns map[string]string

func (c columns) column(field string) (string, error) {
	col, ok := c[field]
	if !ok {
		return "", &QueryError{Field: field, Reason: "unknown field"}
	}
	return col, nil
}

// where applies equality filters. Keys are visited in sorted order so the generated SQL is stable.
func (c columns) where(db *gorm.DB, filter map[string]any) (*gorm.DB, error) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, err := c.column(k)
		if err != nil {
			return nil, err
		}
		v := filter[k]
		switch v.(type) {
		case map[string]any, []any:
			return nil, &QueryError{Field: k, Reason: "filter value must be a scalar"}
		case nil:
			db = db.Where(clause.Eq{Column: clause.Column{Name: col}, Value: nil})
		default:
			db = db.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
		}
	}
	return db, nil
}

func (c columns) order(db *gorm.DB, fields []model.SortField) (*gorm.DB, error) {
	if len(fields) == 0 {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}), nil
	}
	for _, f := range fields {
		col, err := c.column(f.Field)
		if err != nil {
			return nil, err
		}
		switch f.Order {
		case 1, -1:
		default:
			return nil, &QueryError{Field: f.Field, Reason: "sort order must be 1 or -1"}
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: f.Order < 0})
	}
	return db, nil
}

// project restricts the selected columns. id is always returned.
func (c columns) project(db *gorm.DB, fields []string) (*gorm.DB, error) {
	if len(fields) == 0 {
		return db, nil
	}
	cols := []string{"id"}
	for _, f := range fields {
		col, err := c.column(f)
		if err != nil {
			return nil, err
		}
		if col != "id" {
			cols = append(cols, col)
		}
	}
	return db.Select(cols), nil
}

// updates translates an update body into column assignments, rejecting read-only fields.
func (c columns) updates(body map[string]any, readOnly ...string) (map[string]any, error) {
	out := make(map[string]any, len(body))
	for k, v := range body {
		col, err := c.column(k)
		if err != nil {
			return nil, err
		}
		for _, ro := range readOnly {
			if k == ro {
				return nil, &QueryError{Field: k, Reason: "field is read-only"}
			}
		}
		out[col] = v
	}
	return out, nil
}

// findPage counts the filtered set, then loads one page of it.
func findPage[T any](db *gorm.DB, c columns, s Scan) ([]T, int64, error) {
	filtered, err := c.where(db.Model(new(T)), s.Filter)
	if err != nil {
		return nil, 0, err
	}
	filtered = filtered.Session(&gorm.Session{})

	q, err := c.order(filtered, s.Sort)
	if err != nil {
		return nil, 0, err
	}
	if q, err = c.project(q, s.Select); err != nil {
		return nil, 0, err
	}

	var count int64
	if err := filtered.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	records := []T{}
	if err := q.Offset(s.Offset).Limit(s.Limit).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("find page: %w", err)
	}
	return records, count, nil
}

// ids per IN query
const maxIDsPerQuery = 1000

func findByIDs[T any](db *gorm.DB, ids []string) ([]T, error) {
	records := []T{}
	for chunk := range slices.Chunk(ids, maxIDsPerQuery) {
		var batch []T
		if err := db.Where("id IN ?", chunk).Find(&batch).Error; err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

// first loads one record and maps "not found" to a nil result.
func first[T any](db *gorm.DB, query string, args ...any) (*T, error) {
	var record T
	err := db.Where(query, args...).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
