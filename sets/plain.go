package sets

import (
	"fmt"
	"sort"
	"strings"
)

// PlainSet is an opaque finite set of comparable values (strings, booleans,
// small integers). It carries no unit and no ordering semantics; it exists
// for parameters whose domain is a plain choice.
type PlainSet struct {
	members map[any]struct{}
}

// NewPlainSet builds a set from comparable values. Duplicates collapse.
func NewPlainSet(values ...any) *PlainSet {
	m := make(map[any]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}

	return &PlainSet{members: m}
}

// Values returns the members sorted by their rendered form, for
// deterministic output.
func (p *PlainSet) Values() []any {
	out := make([]any, 0, len(p.members))
	for v := range p.members {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})

	return out
}

// IsEmpty implements Set.
func (p *PlainSet) IsEmpty() bool { return len(p.members) == 0 }

// Contains implements Set.
func (p *PlainSet) Contains(v any) bool {
	_, ok := p.members[v]

	return ok
}

// Intersect implements Set; the other operand must be a PlainSet.
func (p *PlainSet) Intersect(other Set) (Set, error) {
	o, ok := other.(*PlainSet)
	if !ok {
		return nil, kindMismatch("intersect", p, other)
	}
	out := &PlainSet{members: make(map[any]struct{})}
	for v := range p.members {
		if _, ok := o.members[v]; ok {
			out.members[v] = struct{}{}
		}
	}

	return out, nil
}

// Union implements Set; the other operand must be a PlainSet.
func (p *PlainSet) Union(other Set) (Set, error) {
	o, ok := other.(*PlainSet)
	if !ok {
		return nil, kindMismatch("union", p, other)
	}
	out := &PlainSet{members: make(map[any]struct{}, len(p.members)+len(o.members))}
	for v := range p.members {
		out.members[v] = struct{}{}
	}
	for v := range o.members {
		out.members[v] = struct{}{}
	}

	return out, nil
}

// Equal implements Set.
func (p *PlainSet) Equal(other Set) bool {
	o, ok := other.(*PlainSet)
	if !ok || len(o.members) != len(p.members) {
		return false
	}
	for v := range p.members {
		if _, ok := o.members[v]; !ok {
			return false
		}
	}

	return true
}

// String renders like "{false, true}".
func (p *PlainSet) String() string {
	parts := make([]string, 0, len(p.members))
	for _, v := range p.Values() {
		parts = append(parts, fmt.Sprint(v))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
