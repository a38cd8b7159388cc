// Package store persists and queries records. Every backend evaluates the
// same filter.Predicate trees.
package store

import (
	"context"
	"strings"
	"unicode"

	"github.com/project-tktt/job-insight/internal/common/filter"
	"github.com/project-tktt/job-insight/internal/domain"
)

// Record is a row that can be read and written field by field.
type Record interface {
	filter.Fielder
	SetField(name, value string) bool
}

// Page bounds and orders a query. OrderBy must be one of the schema fields,
// otherwise the backend default order is used.
type Page struct {
	Limit   int
	Offset  int
	OrderBy string
	Desc    bool
}

// Store is implemented by the Postgres, Elasticsearch and memory backends.
type Store[T Record] interface {
	Query(ctx context.Context, p *filter.Predicate, page Page) ([]T, error)
	Count(ctx context.Context, p *filter.Predicate) (int64, error)
	BulkIndex(ctx context.Context, records []T) error
}

// Schema describes a record type to the backends.
type Schema[T Record] struct {
	// Name is the table or index name.
	Name    string
	Fields  []string
	Numeric map[string]bool
	New     func() T
}

func (s Schema[T]) has(field string) bool {
	for _, f := range s.Fields {
		if f == field {
			return true
		}
	}
	return false
}

func ListingSchema(name string) Schema[*domain.Listing] {
	return Schema[*domain.Listing]{
		Name:    name,
		Fields:  domain.ListingFields,
		Numeric: domain.ListingNumericFields,
		New:     func() *domain.Listing { return &domain.Listing{} },
	}
}

func PostingSchema(name string) Schema[*domain.Posting] {
	return Schema[*domain.Posting]{
		Name:    name,
		Fields:  domain.PostingFields,
		Numeric: domain.PostingNumericFields,
		New:     func() *domain.Posting { return &domain.Posting{} },
	}
}

// column maps a logical field name to its snake_case column name.
func column(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func key[T Record](r T) string {
	v, _ := r.Field("id")
	return v
}
