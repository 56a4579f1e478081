package sets

import (
	"fmt"
	"sort"
	"strings"
)

// EnumSet is a subset of a named enumeration's members. Two EnumSets meet
// only when they belong to the same enumeration type; anything else is a
// kind mismatch.
type EnumSet struct {
	typeName string
	members  map[string]struct{}
}

// NewEnumSet builds a subset of the enumeration typeName. Duplicates
// collapse; zero members is the empty subset.
func NewEnumSet(typeName string, members ...string) *EnumSet {
	m := make(map[string]struct{}, len(members))
	for _, v := range members {
		m[v] = struct{}{}
	}

	return &EnumSet{typeName: typeName, members: m}
}

// TypeName returns the enumeration the subset belongs to.
func (e *EnumSet) TypeName() string { return e.typeName }

// Members returns the subset's members, sorted.
func (e *EnumSet) Members() []string {
	out := make([]string, 0, len(e.members))
	for v := range e.members {
		out = append(out, v)
	}
	sort.Strings(out)

	return out
}

// IsEmpty implements Set.
func (e *EnumSet) IsEmpty() bool { return len(e.members) == 0 }

// Contains implements Set for string values.
func (e *EnumSet) Contains(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = e.members[s]

	return ok
}

// Intersect implements Set; both operands must be EnumSets of one type.
func (e *EnumSet) Intersect(other Set) (Set, error) {
	o, err := e.sameEnum("intersect", other)
	if err != nil {
		return nil, err
	}
	out := &EnumSet{typeName: e.typeName, members: make(map[string]struct{})}
	for v := range e.members {
		if _, ok := o.members[v]; ok {
			out.members[v] = struct{}{}
		}
	}

	return out, nil
}

// Union implements Set; both operands must be EnumSets of one type.
func (e *EnumSet) Union(other Set) (Set, error) {
	o, err := e.sameEnum("union", other)
	if err != nil {
		return nil, err
	}
	out := &EnumSet{typeName: e.typeName, members: make(map[string]struct{}, len(e.members)+len(o.members))}
	for v := range e.members {
		out.members[v] = struct{}{}
	}
	for v := range o.members {
		out.members[v] = struct{}{}
	}

	return out, nil
}

// Equal implements Set.
func (e *EnumSet) Equal(other Set) bool {
	o, ok := other.(*EnumSet)
	if !ok || o.typeName != e.typeName || len(o.members) != len(e.members) {
		return false
	}
	for v := range e.members {
		if _, ok := o.members[v]; !ok {
			return false
		}
	}

	return true
}

// String renders like "Polarity{negative, positive}".
func (e *EnumSet) String() string {
	return fmt.Sprintf("%s{%s}", e.typeName, strings.Join(e.Members(), ", "))
}

func (e *EnumSet) sameEnum(op string, other Set) (*EnumSet, error) {
	o, ok := other.(*EnumSet)
	if !ok {
		return nil, kindMismatch(op, e, other)
	}
	if o.typeName != e.typeName {
		return nil, fmt.Errorf("%w: %s over enums %q and %q",
			ErrSetKindMismatch, op, e.typeName, o.typeName)
	}

	return o, nil
}
