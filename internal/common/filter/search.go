package filter

import (
	"strings"

	"github.com/project-tktt/job-insight/internal/common/salary"
	"github.com/project-tktt/job-insight/internal/domain"
)

// CityExpander turns a location name into the cities it covers.
type CityExpander interface {
	CitiesOf(name string) []string
}

// Builder compiles search requests into listing predicates.
type Builder struct {
	cities CityExpander
}

func NewBuilder(cities CityExpander) *Builder {
	return &Builder{cities: cities}
}

// Build returns the conjunction of every filter present in req. Salary range
// is not part of it, see RefineBySalary.
func (b *Builder) Build(req domain.SearchRequest) *Predicate {
	var terms []*Predicate

	if city := strings.TrimSpace(req.City); city != "" && city != domain.Nationwide {
		cities := b.cities.CitiesOf(city)
		likes := make([]*Predicate, 0, len(cities))
		for _, c := range cities {
			likes = append(likes, Like("city", c))
		}
		terms = append(terms, Or(likes...))
	}
	if industry := strings.TrimSpace(req.Industry); industry != "" {
		terms = append(terms, Like("industryField", industry))
	}
	if stage := strings.TrimSpace(req.FinanceStage); stage != "" {
		terms = append(terms, Eq("financeStage", stage))
	}
	if year := strings.TrimSpace(req.WorkYear); year != "" && year != domain.Unrestricted {
		terms = append(terms, Eq("workYear", year))
	}
	if key := strings.TrimSpace(req.Key); key != "" {
		terms = append(terms, Or(Like("positionName", key), Like("companyFullName", key)))
	}

	return And(terms...)
}

// SalaryRangeActive reports whether rng narrows the result at all. Anything
// but exactly two bounds, or the default [0,100], is a no-op.
func SalaryRangeActive(rng []int) bool {
	if len(rng) != 2 {
		return false
	}
	return !(rng[0] <= 0 && rng[1] >= 100)
}

// RefineBySalary keeps the listings whose parsed salary lies in rng,
// inclusive. Unparseable salaries are dropped whenever the range is active.
func RefineBySalary(listings []*domain.Listing, rng []int) []*domain.Listing {
	if !SalaryRangeActive(rng) {
		return listings
	}
	low, high := float64(rng[0]), float64(rng[1])
	res := make([]*domain.Listing, 0, len(listings))
	for _, l := range listings {
		s := salary.Parse(l.Salary)
		if s > 0 && s >= low && s <= high {
			res = append(res, l)
		}
	}
	return res
}
