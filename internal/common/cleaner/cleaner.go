package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var (
	blankRun  = regexp.MustCompile(`[ \t\x{3000}\x{a0}]+`)
	blankLine = regexp.MustCompile(`\n\s*\n+`)
)

// Cleaner sanitizes HTML fragments found in free-text columns.
type Cleaner struct {
	policy *bluemonday.Policy
}

// NewCleaner keeps block structure and basic formatting, drops everything
// else.
func NewCleaner() *Cleaner {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "div", "span")
	policy.AllowElements("strong", "b", "em", "i", "u")
	policy.AllowElements("ul", "ol", "li")
	policy.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &Cleaner{policy: policy}
}

// Clean sanitizes HTML content.
func (c *Cleaner) Clean(html string) string {
	return c.policy.Sanitize(html)
}

// CleanToText renders an HTML fragment as plain text with one line per block
// element. Text without markup is only trimmed.
func (c *Cleaner) CleanToText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.Clean(html)))
	if err != nil {
		return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(html))
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	text := blankRun.ReplaceAllString(doc.Text(), " ")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = blankLine.ReplaceAllString(strings.Join(lines, "\n"), "\n")
	return strings.TrimSpace(text)
}

// CleanColumns converts the named columns to plain text in place.
func (c *Cleaner) CleanColumns(cols map[string]string, names ...string) {
	for _, name := range names {
		if v, ok := cols[name]; ok {
			cols[name] = c.CleanToText(v)
		}
	}
}
