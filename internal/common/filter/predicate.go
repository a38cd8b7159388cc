// Package filter builds predicate trees that every record store backend
// knows how to evaluate.
package filter

import "strings"

type Op int

const (
	// OpLike is a substring match.
	OpLike Op = iota + 1
	// OpEq is an exact match.
	OpEq
	OpAnd
	OpOr
)

// Predicate is a node of a filter tree. A nil *Predicate matches everything.
type Predicate struct {
	Op    Op
	Field string
	Value string
	Terms []*Predicate
}

// Fielder exposes record fields by logical name.
type Fielder interface {
	Field(name string) (string, bool)
}

func Like(field, value string) *Predicate {
	return &Predicate{Op: OpLike, Field: field, Value: value}
}

func Eq(field, value string) *Predicate {
	return &Predicate{Op: OpEq, Field: field, Value: value}
}

// And conjoins the non-nil terms. It returns nil when no term is left and the
// term itself when only one is.
func And(terms ...*Predicate) *Predicate {
	return combine(OpAnd, terms)
}

// Or disjoins the non-nil terms, collapsing like And.
func Or(terms ...*Predicate) *Predicate {
	return combine(OpOr, terms)
}

func combine(op Op, terms []*Predicate) *Predicate {
	kept := make([]*Predicate, 0, len(terms))
	for _, t := range terms {
		if t != nil {
			kept = append(kept, t)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Predicate{Op: op, Terms: kept}
}

// Match evaluates the predicate against an in-memory record. Unknown fields
// never match.
func (p *Predicate) Match(r Fielder) bool {
	if p == nil {
		return true
	}
	switch p.Op {
	case OpLike:
		v, ok := r.Field(p.Field)
		return ok && strings.Contains(v, p.Value)
	case OpEq:
		v, ok := r.Field(p.Field)
		return ok && v == p.Value
	case OpAnd:
		for _, t := range p.Terms {
			if !t.Match(r) {
				return false
			}
		}
		return true
	case OpOr:
		for _, t := range p.Terms {
			if t.Match(r) {
				return true
			}
		}
		return false
	}
	return false
}

// Walk visits every leaf of the tree.
func (p *Predicate) Walk(fn func(leaf *Predicate)) {
	if p == nil {
		return
	}
	if p.Op == OpAnd || p.Op == OpOr {
		for _, t := range p.Terms {
			t.Walk(fn)
		}
		return
	}
	fn(p)
}

func (p *Predicate) String() string {
	if p == nil {
		return "TRUE"
	}
	switch p.Op {
	case OpLike:
		return p.Field + " LIKE %" + p.Value + "%"
	case OpEq:
		return p.Field + " = " + p.Value
	}
	sep := " AND "
	if p.Op == OpOr {
		sep = " OR "
	}
	parts := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
