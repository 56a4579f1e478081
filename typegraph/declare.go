// Package typegraph: type and field declaration.
//
// Declarations are ordinary calls made once per class identity at a
// well-defined registration point; GetOrCreateType memoizes them, so
// re-registration is idempotent and there is no reflection anywhere.

package typegraph

import (
	"fmt"

	"github.com/netlith/netlith/core"
)

// DeclareType registers a new class name and returns its handle.
// Returns ErrDuplicateTypeName when the name is taken and ErrNilType for a
// nil supertype handle passed via WithSuper.
// Complexity: O(1).
func (tg *TypeGraph) DeclareType(name string, opts ...TypeOption) (*TypeNode, error) {
	if _, taken := tg.byName[name]; taken {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTypeName, name)
	}
	var d typeDecl
	for _, opt := range opts {
		opt(&d)
	}

	id := tg.g.CreateNode(core.WithNodeAttrs(map[string]any{
		attrKind: "type",
		attrName: name,
	}))
	if d.super != nil {
		if d.super.tg == nil {
			_ = tg.g.RemoveNode(id)

			return nil, fmt.Errorf("%w: supertype of %q", ErrNilType, name)
		}
		// Supertype link; AddEdge cannot fail here (both nodes exist).
		if _, err := tg.g.AddEdge(core.Pointer, id, d.super.id, core.WithName(edgeSuper)); err != nil {
			_ = tg.g.RemoveNode(id)

			return nil, err
		}
	}
	tg.byName[name] = id

	return &TypeNode{tg: tg, id: id, name: name}, nil
}

// GetOrCreateType returns the memoized type of that name, running define
// exactly once to populate it. A repeated call is idempotent and does not
// re-run define. A failed define rolls the declaration back completely:
// the name is free again and no rule nodes remain.
//
// define may itself call GetOrCreateType (mutual recursion between class
// registrations); re-entry for a name whose define is still running
// returns the in-progress handle.
// Complexity: O(1) amortized after the first call.
func (tg *TypeGraph) GetOrCreateType(name string, define func(*TypeNode) error) (*TypeNode, error) {
	if id, exists := tg.byName[name]; exists {
		return &TypeNode{tg: tg, id: id, name: name}, nil
	}

	t, err := tg.DeclareType(name)
	if err != nil {
		return nil, err
	}
	if define == nil {
		tg.defined[t.id] = true

		return t, nil
	}
	if err := define(t); err != nil {
		// Roll back: drop the rule nodes, then the type, then the name.
		for _, e := range tg.g.ChildrenOf(t.id) {
			_ = tg.g.RemoveNode(e.To)
		}
		_ = tg.g.RemoveNode(t.id)
		delete(tg.byName, name)
		delete(tg.defined, t.id)

		return nil, fmt.Errorf("typegraph: define %q: %w", name, err)
	}
	tg.defined[t.id] = true

	return t, nil
}

// TypeByName returns the declared type handle for a name.
// Complexity: O(1).
func (tg *TypeGraph) TypeByName(name string) (*TypeNode, bool) {
	id, exists := tg.byName[name]
	if !exists {
		return nil, false
	}

	return &TypeNode{tg: tg, id: id, name: name}, true
}

// Super returns the direct supertype; ok is false for root types.
// Complexity: O(out-degree).
func (t *TypeNode) Super() (*TypeNode, bool) {
	for e := range t.tg.g.EdgesOf(t.id, core.Pointer, core.Outgoing) {
		if e.Name != edgeSuper {
			continue
		}
		name, _ := t.tg.g.Attr(e.To, attrName)

		return &TypeNode{tg: t.tg, id: e.To, name: name.(string)}, true
	}

	return nil, false
}

// IsSubtypeOf reports whether t is other or a descendant of other.
// Complexity: O(chain length).
func (t *TypeNode) IsSubtypeOf(other *TypeNode) bool {
	if other == nil {
		return false
	}
	for cur := t; cur != nil; {
		if cur.id == other.id {
			return true
		}
		super, ok := cur.Super()
		if !ok {
			return false
		}
		cur = super
	}

	return false
}

// DeclareField registers one "make child" rule on the type: the child's
// name, its declared type, defaults, trait marking, and dependent links.
// Shadowing a supertype field of the same name is allowed; re-declaring an
// own field fails ErrDuplicateFieldName.
// Complexity: O(own fields).
func (t *TypeNode) DeclareField(name string, fieldType *TypeNode, opts ...FieldOption) (*FieldRule, error) {
	if fieldType == nil {
		return nil, fmt.Errorf("%w: field %q of %q", ErrNilType, name, t.name)
	}
	if _, exists := t.tg.g.ChildByName(t.id, name); exists {
		return nil, fmt.Errorf("%w: %q on %q", ErrDuplicateFieldName, name, t.name)
	}
	var d fieldDecl
	for _, opt := range opts {
		opt(&d)
	}

	// 1) The rule node carries everything instantiation needs.
	rule := t.tg.g.CreateNode(core.WithNodeAttrs(map[string]any{
		attrKind:     "field",
		attrName:     name,
		attrTrait:    d.trait,
		attrPolicy:   d.policy,
		attrDefaults: d.defaults,
		attrLinks:    d.links,
	}))
	// 2) Own it (declaration order = auto order) and point at the type.
	if _, err := t.tg.g.AddEdge(core.Composition, t.id, rule, core.WithName(name)); err != nil {
		_ = t.tg.g.RemoveNode(rule)

		return nil, err
	}
	if _, err := t.tg.g.AddEdge(core.Pointer, rule, fieldType.id, core.WithName(edgeFieldType)); err != nil {
		_ = t.tg.g.RemoveNode(rule)

		return nil, err
	}

	return &FieldRule{tg: t.tg, id: rule, owner: t.id, name: name}, nil
}

// Fields returns the type's own rules in declaration order.
// Complexity: O(own fields log own fields).
func (t *TypeNode) Fields() []*FieldRule {
	edges := t.tg.g.ChildrenOf(t.id)
	out := make([]*FieldRule, 0, len(edges))
	for _, e := range edges {
		out = append(out, &FieldRule{tg: t.tg, id: e.To, owner: t.id, name: e.Name})
	}

	return out
}

// EffectiveFields returns the rules an instance of t materializes: own
// fields in declaration order, then inherited fields nearest-ancestor
// first, skipping names shadowed closer to t.
// Complexity: O(total fields in the chain).
func (t *TypeNode) EffectiveFields() []*FieldRule {
	var out []*FieldRule
	seen := make(map[string]bool)
	for cur, ok := t, true; ok; cur, ok = cur.Super() {
		for _, f := range cur.Fields() {
			if seen[f.name] {
				continue
			}
			seen[f.name] = true
			out = append(out, f)
		}
	}

	return out
}

// LookupField walks the own-then-supertype chain; the nearest match wins.
// Returns ErrFieldNotFound when the whole chain has no field of that name.
// Complexity: O(chain fields).
func (t *TypeNode) LookupField(name string) (*FieldRule, error) {
	for cur, ok := t, true; ok; cur, ok = cur.Super() {
		if rule, exists := cur.tg.g.ChildByName(cur.id, name); exists {
			return &FieldRule{tg: t.tg, id: rule, owner: cur.id, name: name}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q on %q", ErrFieldNotFound, name, t.name)
}

// Type returns the field's declared child type.
func (f *FieldRule) Type() *TypeNode {
	for e := range f.tg.g.EdgesOf(f.id, core.Pointer, core.Outgoing) {
		if e.Name == edgeFieldType {
			name, _ := f.tg.g.Attr(e.To, attrName)

			return &TypeNode{tg: f.tg, id: e.To, name: name.(string)}
		}
	}

	return nil // unreachable for rules built by DeclareField
}

// IsTrait reports whether the field doubles as a capability marker.
func (f *FieldRule) IsTrait() bool {
	v, _ := f.tg.g.Attr(f.id, attrTrait)
	b, _ := v.(bool)

	return b
}

// Policy returns the duplicate policy of a trait field.
func (f *FieldRule) Policy() core.TraitPolicy {
	v, _ := f.tg.g.Attr(f.id, attrPolicy)
	p, _ := v.(core.TraitPolicy)

	return p
}

// Defaults returns the declared child attribute defaults (may be nil).
func (f *FieldRule) Defaults() map[string]any {
	v, _ := f.tg.g.Attr(f.id, attrDefaults)
	m, _ := v.(map[string]any)

	return m
}

// Links returns the dependent rules resolved at instantiation.
func (f *FieldRule) Links() []LinkSpec {
	v, _ := f.tg.g.Attr(f.id, attrLinks)
	l, _ := v.([]LinkSpec)

	return l
}
