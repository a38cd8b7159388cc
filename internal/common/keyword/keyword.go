// Package keyword matches free text against a fixed technology dictionary.
package keyword

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var dictionary = build(
	"Java", "Python", "C++", "C", "C#", ".NET", "Go", "Golang",
	"Spring", "SpringBoot", "SpringCloud", "MyBatis", "MySQL", "Oracle", "SQLServer",
	"Redis", "MongoDB", "Elasticsearch", "Kafka", "RabbitMQ", "Dubbo", "Netty",
	"Docker", "Kubernetes", "K8s", "Linux", "Unix",
	"Vue", "React", "Angular", "Node.js", "Node", "TypeScript", "JavaScript", "HTML", "CSS",
	"Hadoop", "Spark", "Flink", "Hive", "Kylin",
	"AI", "AIGC", "NLP", "LLM", "Transformer", "Pytorch", "TensorFlow", "Scikit-learn",
	"Git", "SVN", "Jenkins",
)

// StopWords are generic verbs and qualifiers that never make it into a
// keyword-derived chart.
var StopWords = map[string]struct{}{
	"熟悉": {}, "精通": {}, "了解": {}, "开发": {}, "使用": {}, "相关": {}, "工作": {},
	"经验": {}, "优先": {}, "能力": {}, "负责": {}, "以及": {}, "具有": {},
}

var separators = regexp.MustCompile(`[^a-z0-9+#.\-]`)

func build(words ...string) map[string]string {
	m := make(map[string]string, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = w
	}
	return m
}

// Lookup returns the display form of a token, if it is in the dictionary.
func Lookup(token string) (string, bool) {
	w, ok := dictionary[strings.ToLower(token)]
	return w, ok
}

// Extract returns the distinct dictionary keywords found in text, in order of
// first appearance.
func Extract(text string) []string {
	res := []string{}
	if text == "" {
		return res
	}
	cleaned := separators.ReplaceAllString(strings.ToLower(text), " ")
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(cleaned) {
		w, ok := dictionary[token]
		if !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		res = append(res, w)
	}
	return res
}

// Significant reports whether a keyword may feed a chart: longer than one
// character and not a stop word.
func Significant(word string) bool {
	if utf8.RuneCountInString(word) <= 1 {
		return false
	}
	_, stop := StopWords[word]
	return !stop
}

// ExtractSignificant is Extract followed by the Significant filter.
func ExtractSignificant(text string) []string {
	words := Extract(text)
	res := words[:0]
	for _, w := range words {
		if Significant(w) {
			res = append(res, w)
		}
	}
	return res
}
