package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/project-tktt/job-insight/internal/common/salary"
	"github.com/project-tktt/job-insight/internal/domain"
)

const (
	minBoxSamples = 10
	boxPlotLimit  = 15
)

var industryTokenSep = regexp.MustCompile(`[,，]`)

// SalaryBoxPlot summarises the salaries of every industry token with at
// least ten priced listings, highest median first. Every value is one of the
// parsed salaries.
func SalaryBoxPlot(sample []*domain.Listing) []domain.BoxPlot {
	groups := make(map[string][]float64)
	for _, l := range sample {
		s := salary.Parse(l.Salary)
		if s <= 0 {
			continue
		}
		for _, token := range industryTokenSep.Split(l.IndustryField, -1) {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			groups[token] = append(groups[token], s)
		}
	}

	res := make([]domain.BoxPlot, 0)
	for industry, values := range groups {
		if len(values) < minBoxSamples {
			continue
		}
		sort.Float64s(values)
		res = append(res, domain.BoxPlot{
			Industry: industry,
			Values: [5]float64{
				values[0],
				percentile(values, 0.25),
				percentile(values, 0.50),
				percentile(values, 0.75),
				values[len(values)-1],
			},
		})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Values[2] != res[j].Values[2] {
			return res[i].Values[2] > res[j].Values[2]
		}
		return res[i].Industry < res[j].Industry
	})
	if len(res) > boxPlotLimit {
		res = res[:boxPlotLimit]
	}
	return res
}

// percentile is the nearest-rank percentile of ascending values.
func percentile(sorted []float64, p float64) float64 {
	i := int(math.Ceil(p*float64(len(sorted)))) - 1
	if i < 0 {
		i = 0
	}
	return sorted[i]
}
