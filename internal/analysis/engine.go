// Package analysis turns a filtered sample of listings into chart data.
//
// Every routine works on at most MaxAnalysisRows records fetched from the
// store, never mutates them and returns an empty result for an empty sample.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/project-tktt/job-insight/internal/common/filter"
	"github.com/project-tktt/job-insight/internal/common/geo"
	"github.com/project-tktt/job-insight/internal/common/store"
	"github.com/project-tktt/job-insight/internal/domain"
)

//go:generate mockgen -source=./engine.go -destination=./mocks/source.mock.go -package=analysismocks ListingSource

const (
	// MaxAnalysisRows caps the sample fetched for one chart.
	MaxAnalysisRows = 5000
	// NetworkSampleSize caps the records paired by the skill network.
	NetworkSampleSize = 500
)

// ErrStoreUnavailable wraps failures of the record store, as opposed to an
// empty result.
var ErrStoreUnavailable = errors.New("record store unavailable")

// ListingSource is the read side of the listing store.
type ListingSource interface {
	Query(ctx context.Context, p *filter.Predicate, page store.Page) ([]*domain.Listing, error)
}

// CoordinateLookup resolves a city to map coordinates.
type CoordinateLookup interface {
	CoordinateOf(city string) (geo.Coordinate, bool)
}

type Engine struct {
	source  ListingSource
	builder *filter.Builder
	coords  CoordinateLookup
}

func NewEngine(source ListingSource, builder *filter.Builder, coords CoordinateLookup) *Engine {
	return &Engine{source: source, builder: builder, coords: coords}
}

// Sample fetches the filtered listings for req and applies the salary range.
func (e *Engine) Sample(ctx context.Context, req domain.SearchRequest) ([]*domain.Listing, error) {
	listings, err := e.source.Query(ctx, e.builder.Build(req), store.Page{Limit: MaxAnalysisRows})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return filter.RefineBySalary(listings, req.SalaryRange), nil
}

func (e *Engine) SalaryMatrix(ctx context.Context, req domain.SearchRequest) ([]domain.MatrixCell, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return SalaryMatrix(sample), nil
}

func (e *Engine) CompanyScatter(ctx context.Context, req domain.SearchRequest) ([]domain.ScatterPoint, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return CompanyScatter(sample, req.Industry), nil
}

func (e *Engine) WordCloud(ctx context.Context, req domain.SearchRequest) ([]domain.NameValue, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return WordCloud(sample), nil
}

func (e *Engine) SkillNetwork(ctx context.Context, req domain.SearchRequest) (domain.Graph, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return domain.Graph{}, err
	}
	return SkillNetwork(sample), nil
}

func (e *Engine) SalaryBoxPlot(ctx context.Context, req domain.SearchRequest) ([]domain.BoxPlot, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return SalaryBoxPlot(sample), nil
}

func (e *Engine) CityHierarchy(ctx context.Context, req domain.SearchRequest) ([]domain.TreeNode, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return CityHierarchy(sample), nil
}

func (e *Engine) AbilityRadar(ctx context.Context, req domain.SearchRequest) (domain.Radar, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return domain.Radar{}, err
	}
	return AbilityRadar(sample), nil
}

func (e *Engine) CityHeat(ctx context.Context, req domain.SearchRequest) ([]domain.HeatPoint, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return CityHeat(sample, e.coords), nil
}

func (e *Engine) TechStack(ctx context.Context, req domain.SearchRequest) ([]domain.NameValue, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return TechStack(sample), nil
}

func (e *Engine) FinanceDistribution(ctx context.Context, req domain.SearchRequest) ([]domain.NameValue, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return FinanceDistribution(sample), nil
}

func (e *Engine) SalaryTrend(ctx context.Context, req domain.SearchRequest) ([]domain.TrendPoint, error) {
	sample, err := e.Sample(ctx, req)
	if err != nil {
		return nil, err
	}
	return SalaryTrend(sample), nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

type ranked struct {
	name  string
	count int
}

// rank orders counts by count descending, then name ascending.
func rank(counts map[string]int) []ranked {
	res := make([]ranked, 0, len(counts))
	for name, n := range counts {
		res = append(res, ranked{name: name, count: n})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].count != res[j].count {
			return res[i].count > res[j].count
		}
		return res[i].name < res[j].name
	})
	return res
}

func topNameValues(counts map[string]int, limit int) []domain.NameValue {
	r := rank(counts)
	if len(r) > limit {
		r = r[:limit]
	}
	res := make([]domain.NameValue, len(r))
	for i, kv := range r {
		res[i] = domain.NameValue{Name: kv.name, Value: float64(kv.count)}
	}
	return res
}

// mean accumulates a running average.
type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
