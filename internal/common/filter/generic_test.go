package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/project-tktt/job-insight/internal/domain"
)

func TestGeneric(t *testing.T) {
	testCases := []struct {
		name   string
		target Target
		expr   string
		key    string
		want   *Predicate
	}{
		{name: "empty", target: &domain.Listing{}, want: nil},
		{
			name:   "pairs",
			target: &domain.Listing{},
			expr:   "city:北京, workYear : 3-5年",
			want:   And(Eq("city", "北京"), Eq("workYear", "3-5年")),
		},
		{
			name:   "unknown and malformed skipped",
			target: &domain.Listing{},
			expr:   "nope:1,city,education:本科",
			want:   Eq("education", "本科"),
		},
		{
			name:   "value may contain colon",
			target: &domain.Listing{},
			expr:   "createTime:2020-01-01 10:00",
			want:   Eq("createTime", "2020-01-01 10:00"),
		},
		{
			name:   "listing key fields",
			target: &domain.Listing{},
			key:    "字节",
			want: Or(
				Like("positionName", "字节"),
				Like("companyFullName", "字节"),
				Like("city", "字节"),
			),
		},
		{
			name:   "posting key fields",
			target: &domain.Posting{},
			expr:   "city:北京",
			key:    "Go",
			want:   Or(Like("positionName", "Go"), Like("companyName", "Go")),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Generic(tc.target, tc.expr, tc.key))
		})
	}
}
