package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanToText(t *testing.T) {
	c := NewCleaner()

	testCases := []struct {
		name string
		html string
		want string
	}{
		{name: "plain text", html: "  熟悉Java  ", want: "熟悉Java"},
		{
			name: "paragraphs and breaks",
			html: "<p>岗位职责：</p><p>1. 负责后端开发<br>2. 熟悉Go</p>",
			want: "岗位职责：\n1. 负责后端开发\n2. 熟悉Go",
		},
		{name: "entities", html: "C++ &amp; Go", want: "C++ & Go"},
		{name: "script dropped", html: "<div>ok<script>alert(1)</script></div>", want: "ok"},
		{name: "list", html: "<ul><li>Redis</li><li>Kafka</li></ul>", want: "Redis\nKafka"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.CleanToText(tc.html))
		})
	}
}

func TestCleanColumns(t *testing.T) {
	cols := map[string]string{"positionDetail": "<p>Go</p>", "city": "<b>北京</b>"}
	NewCleaner().CleanColumns(cols, "positionDetail", "missing")

	assert.Equal(t, "Go", cols["positionDetail"])
	assert.Equal(t, "<b>北京</b>", cols["city"])
	assert.NotContains(t, cols, "missing")
}

func TestClean(t *testing.T) {
	assert.Equal(t, "<p>hi</p>", NewCleaner().Clean(`<p onclick="x()">hi</p><iframe></iframe>`))
}
