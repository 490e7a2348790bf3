// Package query translates untrusted list-query parameters into bounded,
// owner-scoped database queries with pagination metadata.
package query

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Sortable column allow-lists per resource. Keys are the API-facing field
// names, values the underlying columns. Anything not listed falls back to
// created_at rather than reaching the ORM's ordering clause.
var (
	NoteSortFields = map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"title":     "title",
		"topic":     "topic",
	}

	FlashcardSortFields = map[string]string{
		"createdAt":    "created_at",
		"reviewCount":  "review_count",
		"lastReviewed": "last_reviewed",
		"topic":        "topic",
		"difficulty":   "difficulty",
	}
)

// ListParams is the sanitized form of a list request's query string.
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	Topic     string
	sortCol   string
	sortOrder string
}

// Pagination is the metadata block accompanying every bounded list result.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// ParseListParams sanitizes raw query values. sortFields is the per-resource
// allow-list; unknown sortBy values fall back to created_at and unknown
// sortOrder values fall back to desc, so malformed input never errors.
func ParseListParams(values url.Values, sortFields map[string]string) ListParams {
	p := ListParams{
		Page:      1,
		Limit:     defaultLimit,
		Search:    values.Get("search"),
		Topic:     values.Get("topic"),
		sortCol:   "created_at",
		sortOrder: "desc",
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
		if p.Limit > maxLimit {
			p.Limit = maxLimit
		}
	}
	if col, ok := sortFields[values.Get("sortBy")]; ok {
		p.sortCol = col
	}
	if strings.EqualFold(values.Get("sortOrder"), "asc") {
		p.sortOrder = "asc"
	}

	return p
}

// Offset computes the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause returns the validated ORDER BY expression.
func (p ListParams) OrderClause() string {
	return p.sortCol + " " + p.sortOrder
}

// Paginate runs the count query and the bounded page query concurrently over
// the same filter shape and assembles pagination metadata. newQuery must
// return a fresh, fully filtered and owner-scoped query each call so the two
// goroutines never share ORM state.
func Paginate[T any](ctx context.Context, newQuery func() *gorm.DB, p ListParams) ([]T, Pagination, error) {
	var (
		records []T
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var model T
		return newQuery().WithContext(gctx).Model(&model).Count(&total).Error
	})
	g.Go(func() error {
		return newQuery().WithContext(gctx).
			Order(p.OrderClause()).
			Offset(p.Offset()).
			Limit(p.Limit).
			Find(&records).Error
	})
	if err := g.Wait(); err != nil {
		return nil, Pagination{}, err
	}

	if records == nil {
		records = []T{}
	}

	return records, Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
	}, nil
}
