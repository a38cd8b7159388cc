package store

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/project-tktt/job-insight/internal/common/filter"
)

// MemoryStore keeps records in insertion order. Re-indexing an id replaces
// the record in place.
type MemoryStore[T Record] struct {
	schema Schema[T]

	mu      sync.RWMutex
	records []T
	index   map[string]int
}

func NewMemoryStore[T Record](schema Schema[T]) *MemoryStore[T] {
	return &MemoryStore[T]{
		schema: schema,
		index:  make(map[string]int),
	}
}

func (m *MemoryStore[T]) Query(_ context.Context, p *filter.Predicate, page Page) ([]T, error) {
	m.mu.RLock()
	matched := make([]T, 0)
	for _, r := range m.records {
		if p.Match(r) {
			matched = append(matched, r)
		}
	}
	m.mu.RUnlock()

	if m.schema.has(page.OrderBy) {
		m.sort(matched, page.OrderBy, page.Desc)
	}

	if page.Offset > 0 {
		if page.Offset >= len(matched) {
			return matched[:0], nil
		}
		matched = matched[page.Offset:]
	}
	if page.Limit > 0 && len(matched) > page.Limit {
		matched = matched[:page.Limit]
	}
	return matched, nil
}

func (m *MemoryStore[T]) sort(records []T, field string, desc bool) {
	numeric := m.schema.Numeric[field]
	less := func(a, b T) bool {
		va, _ := a.Field(field)
		vb, _ := b.Field(field)
		if numeric {
			na, _ := strconv.ParseInt(va, 10, 64)
			nb, _ := strconv.ParseInt(vb, 10, 64)
			return na < nb
		}
		return va < vb
	}
	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

func (m *MemoryStore[T]) Count(_ context.Context, p *filter.Predicate) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, r := range m.records {
		if p.Match(r) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore[T]) BulkIndex(_ context.Context, records []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range records {
		k := key(r)
		if i, ok := m.index[k]; ok {
			m.records[i] = r
			continue
		}
		m.index[k] = len(m.records)
		m.records = append(m.records, r)
	}
	return nil
}
