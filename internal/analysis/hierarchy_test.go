package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-insight/internal/domain"
)

func TestCityHierarchy(t *testing.T) {
	sample := []*domain.Listing{
		{City: "北京", District: "海淀区"},
		{City: "北京", District: "朝阳区"},
		{City: "北京", District: "海淀区"},
		{City: "上海", District: "浦东新区"},
		{City: "上海", District: ""},
		{City: "", District: "天河区"},
	}

	assert.Equal(t, []domain.TreeNode{
		{Name: "北京", Value: 3, Children: []domain.TreeNode{
			{Name: "海淀区", Value: 2},
			{Name: "朝阳区", Value: 1},
		}},
		{Name: "上海", Value: 1, Children: []domain.TreeNode{
			{Name: "浦东新区", Value: 1},
		}},
	}, CityHierarchy(sample))
}

func TestCityHierarchyTopFive(t *testing.T) {
	var sample []*domain.Listing
	for i := 0; i < 8; i++ {
		for j := 0; j <= i; j++ {
			sample = append(sample, &domain.Listing{City: fmt.Sprintf("城市%d", i), District: fmt.Sprintf("区%d", j)})
		}
	}

	got := CityHierarchy(sample)
	require.Len(t, got, 5)
	assert.Equal(t, "城市7", got[0].Name)
	assert.Equal(t, 8, got[0].Value)
	assert.Len(t, got[0].Children, 8)
	assert.Equal(t, "城市3", got[4].Name)
	for _, c := range got {
		sum := 0
		for _, d := range c.Children {
			sum += d.Value
		}
		assert.Equal(t, c.Value, sum)
	}
}
