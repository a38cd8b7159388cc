package analysis

import (
	"strings"

	"github.com/project-tktt/job-insight/internal/domain"
)

const hierarchyCityLimit = 5

// CityHierarchy counts listings per city and district for the five cities
// with the most located listings.
func CityHierarchy(sample []*domain.Listing) []domain.TreeNode {
	districts := make(map[string]map[string]int)
	totals := make(map[string]int)
	for _, l := range sample {
		city, district := strings.TrimSpace(l.City), strings.TrimSpace(l.District)
		if city == "" || district == "" {
			continue
		}
		if districts[city] == nil {
			districts[city] = make(map[string]int)
		}
		districts[city][district]++
		totals[city]++
	}

	cities := rank(totals)
	if len(cities) > hierarchyCityLimit {
		cities = cities[:hierarchyCityLimit]
	}

	res := make([]domain.TreeNode, 0, len(cities))
	for _, c := range cities {
		node := domain.TreeNode{Name: c.name, Value: c.count}
		for _, d := range rank(districts[c.name]) {
			node.Children = append(node.Children, domain.TreeNode{Name: d.name, Value: d.count})
		}
		res = append(res, node)
	}
	return res
}
