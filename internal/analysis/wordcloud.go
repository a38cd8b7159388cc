package analysis

import (
	"github.com/project-tktt/job-insight/internal/common/keyword"
	"github.com/project-tktt/job-insight/internal/domain"
)

const wordCloudLimit = 50

// WordCloud counts the listings mentioning each keyword in their detail
// text.
func WordCloud(sample []*domain.Listing) []domain.NameValue {
	counts := make(map[string]int)
	for _, l := range sample {
		for _, w := range keyword.ExtractSignificant(l.PositionDetail) {
			counts[w]++
		}
	}
	return topNameValues(counts, wordCloudLimit)
}
