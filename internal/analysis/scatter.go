package analysis

import (
	"sort"
	"strings"

	"github.com/project-tktt/job-insight/internal/common/salary"
	"github.com/project-tktt/job-insight/internal/domain"
)

var companySizeOrder = map[string]int{
	"少于15人":     0,
	"15-50人":    1,
	"50-150人":   2,
	"150-500人":  3,
	"500-2000人": 4,
	"2000人以上":   5,
}

// CompanyScatter emits one point per company-size bucket with its mean
// salary and listing count. Known buckets come first in size order.
func CompanyScatter(sample []*domain.Listing, industry string) []domain.ScatterPoint {
	label := strings.TrimSpace(industry)
	if label == "" {
		label = allIndustries
	}

	buckets := make(map[string]*mean)
	for _, l := range sample {
		size := strings.TrimSpace(l.CompanySize)
		s := salary.Parse(l.Salary)
		if size == "" || s <= 0 {
			continue
		}
		if buckets[size] == nil {
			buckets[size] = &mean{}
		}
		buckets[size].add(s)
	}

	res := make([]domain.ScatterPoint, 0, len(buckets))
	for size, m := range buckets {
		res = append(res, domain.ScatterPoint{
			CompanySize: size,
			AvgSalary:   round1(m.value()),
			Count:       m.count,
			Industry:    label,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		oi, iKnown := companySizeOrder[res[i].CompanySize]
		oj, jKnown := companySizeOrder[res[j].CompanySize]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		}
		return res[i].CompanySize < res[j].CompanySize
	})
	return res
}
