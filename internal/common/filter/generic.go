package filter

import "strings"

// Target reports which fields a record type carries.
type Target interface {
	HasField(name string) bool
}

// SearchableFields are matched by the free-text key of the generic filter,
// when the target has them.
var SearchableFields = []string{"positionName", "companyName", "companyFullName", "city"}

// Generic compiles "field:value,field:value" into exact matches and key into
// a substring match over SearchableFields. Unknown fields are skipped.
func Generic(target Target, expr, key string) *Predicate {
	var terms []*Predicate

	for _, pair := range strings.Split(expr, ",") {
		field, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		field = strings.TrimSpace(field)
		if field == "" || !target.HasField(field) {
			continue
		}
		terms = append(terms, Eq(field, strings.TrimSpace(value)))
	}

	if key = strings.TrimSpace(key); key != "" {
		var likes []*Predicate
		for _, f := range SearchableFields {
			if target.HasField(f) {
				likes = append(likes, Like(f, key))
			}
		}
		terms = append(terms, Or(likes...))
	}

	return And(terms...)
}
