package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/project-tktt/job-insight/internal/common/salary"
	"github.com/project-tktt/job-insight/internal/domain"
)

const (
	matrixIndustryLimit = 10
	otherIndustry       = "其他"
	allIndustries       = "全行业"
)

var primaryIndustrySep = regexp.MustCompile(`[,，、\s]`)

// primaryIndustry is the text before the first delimiter of the industry
// field.
func primaryIndustry(field string) string {
	first := strings.TrimSpace(primaryIndustrySep.Split(strings.TrimSpace(field), 2)[0])
	if first == "" {
		return otherIndustry
	}
	return first
}

// SalaryMatrix averages salary per (primary industry, work year) for the ten
// industries with the most priced listings. Cells are grouped by industry in
// rank order, work years ascending.
func SalaryMatrix(sample []*domain.Listing) []domain.MatrixCell {
	type cellKey struct{ industry, year string }

	cells := make(map[cellKey]*mean)
	counts := make(map[string]int)
	for _, l := range sample {
		year := strings.TrimSpace(l.WorkYear)
		s := salary.Parse(l.Salary)
		if year == "" || s <= 0 {
			continue
		}
		industry := primaryIndustry(l.IndustryField)
		k := cellKey{industry, year}
		if cells[k] == nil {
			cells[k] = &mean{}
		}
		cells[k].add(s)
		counts[industry]++
	}

	top := rank(counts)
	if len(top) > matrixIndustryLimit {
		top = top[:matrixIndustryLimit]
	}

	years := make(map[string][]string)
	for k := range cells {
		years[k.industry] = append(years[k.industry], k.year)
	}

	res := make([]domain.MatrixCell, 0)
	for _, ind := range top {
		ys := years[ind.name]
		sort.Strings(ys)
		for _, y := range ys {
			m := cells[cellKey{ind.name, y}]
			res = append(res, domain.MatrixCell{
				Industry:  ind.name,
				WorkYear:  y,
				AvgSalary: round1(m.value()),
				Count:     m.count,
			})
		}
	}
	return res
}
