package analysis

import (
	"sort"
	"strings"

	"github.com/project-tktt/job-insight/internal/common/keyword"
	"github.com/project-tktt/job-insight/internal/common/salary"
	"github.com/project-tktt/job-insight/internal/domain"
)

const techStackLimit = 10

// CityHeat counts listings per city and places them on the map. Cities
// without coordinates are left out.
func CityHeat(sample []*domain.Listing, coords CoordinateLookup) []domain.HeatPoint {
	counts := make(map[string]int)
	for _, l := range sample {
		if city := strings.TrimSpace(l.City); city != "" {
			counts[city]++
		}
	}

	res := make([]domain.HeatPoint, 0, len(counts))
	if coords == nil {
		return res
	}
	for _, r := range rank(counts) {
		c, ok := coords.CoordinateOf(r.name)
		if !ok {
			continue
		}
		res = append(res, domain.HeatPoint{
			Name:  r.name,
			Value: [3]float64{c.Lng(), c.Lat(), float64(r.count)},
		})
	}
	return res
}

// TechStack ranks keywords over the industry and detail text.
func TechStack(sample []*domain.Listing) []domain.NameValue {
	counts := make(map[string]int)
	for _, l := range sample {
		for _, w := range keyword.ExtractSignificant(l.IndustryField + " " + l.PositionDetail) {
			counts[w]++
		}
	}
	return topNameValues(counts, techStackLimit)
}

func FinanceDistribution(sample []*domain.Listing) []domain.NameValue {
	counts := make(map[string]int)
	for _, l := range sample {
		if stage := strings.TrimSpace(l.FinanceStage); stage != "" {
			counts[stage]++
		}
	}
	return topNameValues(counts, len(counts))
}

// SalaryTrend averages salary per posting month (yyyy-MM), oldest first.
func SalaryTrend(sample []*domain.Listing) []domain.TrendPoint {
	months := make(map[string]*mean)
	for _, l := range sample {
		month, ok := postingMonth(l.CreateTime)
		s := salary.Parse(l.Salary)
		if !ok || s <= 0 {
			continue
		}
		if months[month] == nil {
			months[month] = &mean{}
		}
		months[month].add(s)
	}

	res := make([]domain.TrendPoint, 0, len(months))
	for m, avg := range months {
		res = append(res, domain.TrendPoint{Month: m, AvgSalary: round1(avg.value())})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Month < res[j].Month })
	return res
}

// postingMonth reads the yyyy-MM prefix of createTime.
func postingMonth(createTime string) (string, bool) {
	t := strings.TrimSpace(createTime)
	if len(t) < 7 || t[4] != '-' {
		return "", false
	}
	for i := 0; i < 7; i++ {
		if i != 4 && (t[i] < '0' || t[i] > '9') {
			return "", false
		}
	}
	return t[:7], true
}
