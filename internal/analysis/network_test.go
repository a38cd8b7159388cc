package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project-tktt/job-insight/internal/domain"
)

func repeat(n int, detail string) []*domain.Listing {
	res := make([]*domain.Listing, n)
	for i := range res {
		res[i] = &domain.Listing{PositionDetail: detail}
	}
	return res
}

func TestSkillNetwork(t *testing.T) {
	var sample []*domain.Listing
	sample = append(sample, repeat(4, "熟悉 Java, Spring, Redis；java 优先")...)
	sample = append(sample, repeat(3, "Go Docker")...)
	sample = append(sample, repeat(2, "Kafka")...)

	g := SkillNetwork(sample)

	assert.Equal(t, []domain.GraphNode{
		{Name: "Java", Value: 4, SymbolSize: 8, Category: 1},
		{Name: "Redis", Value: 4, SymbolSize: 8, Category: 3},
		{Name: "Spring", Value: 4, SymbolSize: 8, Category: 4},
		{Name: "Docker", Value: 3, SymbolSize: 6, Category: 0},
		{Name: "Go", Value: 3, SymbolSize: 6, Category: 2},
	}, g.Nodes)
	assert.Equal(t, []domain.GraphLink{
		{Source: "Java", Target: "Redis", Value: 4},
		{Source: "Java", Target: "Spring", Value: 4},
		{Source: "Redis", Target: "Spring", Value: 4},
	}, g.Links)
	assert.Equal(t, []domain.GraphCategory{
		{Name: "后端"}, {Name: "前端"}, {Name: "AI"}, {Name: "运维"}, {Name: "其他"},
	}, g.Categories)
}

func TestSkillNetworkIsDeterministic(t *testing.T) {
	var sample []*domain.Listing
	sample = append(sample, repeat(5, "Vue React TypeScript JavaScript")...)
	sample = append(sample, repeat(5, "React Node.js TypeScript")...)

	assert.Equal(t, SkillNetwork(sample), SkillNetwork(sample))
}

func TestSkillNetworkCapsSample(t *testing.T) {
	sample := repeat(NetworkSampleSize, "没有关键词")
	sample = append(sample, repeat(100, "Java Go")...)

	g := SkillNetwork(sample)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Links)
}

func TestCategory(t *testing.T) {
	for _, name := range []string{"Java", "后端", "Scikit-learn", ""} {
		c := category(name)
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, 5)
	}
	assert.Equal(t, 4, category("后端"))
}

func TestWordCloud(t *testing.T) {
	var sample []*domain.Listing
	sample = append(sample, repeat(3, "Python, C, 熟悉 Linux")...)
	sample = append(sample, repeat(1, "Linux Git")...)

	assert.Equal(t, []domain.NameValue{
		{Name: "Linux", Value: 4},
		{Name: "Python", Value: 3},
		{Name: "Git", Value: 1},
	}, WordCloud(sample))
	assert.Empty(t, WordCloud(nil))
}
