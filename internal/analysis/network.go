package analysis

import (
	"sort"
	"unicode/utf16"

	"github.com/project-tktt/job-insight/internal/common/keyword"
	"github.com/project-tktt/job-insight/internal/domain"
)

const (
	minNodeWeight = 2
	minLinkWeight = 3
)

// The legend is decorative: a node's bucket comes from a hash of its name.
var networkCategories = []domain.GraphCategory{
	{Name: "后端"}, {Name: "前端"}, {Name: "AI"}, {Name: "运维"}, {Name: "其他"},
}

// SkillNetwork builds the keyword co-occurrence graph over the first
// NetworkSampleSize listings. Nodes need weight > 2, links weight > 3 and
// both ends kept.
func SkillNetwork(sample []*domain.Listing) domain.Graph {
	if len(sample) > NetworkSampleSize {
		sample = sample[:NetworkSampleSize]
	}

	type pair struct{ a, b string }
	nodes := make(map[string]int)
	links := make(map[pair]int)
	for _, l := range sample {
		words := keyword.ExtractSignificant(l.PositionDetail)
		for i, w := range words {
			nodes[w]++
			for _, v := range words[i+1:] {
				p := pair{w, v}
				if v < w {
					p = pair{v, w}
				}
				links[p]++
			}
		}
	}

	g := domain.Graph{
		Nodes:      []domain.GraphNode{},
		Links:      []domain.GraphLink{},
		Categories: append([]domain.GraphCategory(nil), networkCategories...),
	}

	kept := make(map[string]bool)
	for _, r := range rank(nodes) {
		if r.count <= minNodeWeight {
			continue
		}
		kept[r.name] = true
		g.Nodes = append(g.Nodes, domain.GraphNode{
			Name:       r.name,
			Value:      r.count,
			SymbolSize: r.count * 2,
			Category:   category(r.name),
		})
	}

	for p, n := range links {
		if n > minLinkWeight && kept[p.a] && kept[p.b] {
			g.Links = append(g.Links, domain.GraphLink{Source: p.a, Target: p.b, Value: n})
		}
	}
	sort.Slice(g.Links, func(i, j int) bool {
		a, b := g.Links[i], g.Links[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Target < b.Target
	})
	return g
}

// category buckets a keyword by the 31-multiplier string hash of its UTF-16
// code units.
func category(name string) int {
	var h int32
	for _, u := range utf16.Encode([]rune(name)) {
		h = 31*h + int32(u)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs % int64(len(networkCategories)))
}
