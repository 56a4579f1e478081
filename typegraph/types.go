// Package typegraph declares construction rules for component classes and
// materializes instances from them.
//
// A declared type is a node in a dedicated type store; each of its fields
// is one rule node ("make this child, of that type, with these defaults,
// then wire these links"). Subtypes point at their supertype and may
// shadow inherited fields by name. Instantiate walks a type, creates the
// instance tree in a target graph (the type store's own graph or another
// one), and resolves the declared links against the fresh subtree.
//
// This file declares the TypeGraph, TypeNode, FieldRule, Path, and
// LinkSpec types, their options, and the sentinel errors.
//
// Errors:
//
//	ErrDuplicateTypeName  - a type of that name is already declared.
//	ErrDuplicateFieldName - the type already declares that field itself.
//	ErrFieldNotFound      - no field of that name in the supertype chain.
//	ErrUnresolvedPath     - a link path names a child that does not exist.
//	ErrTypeCycle          - a type composes itself, directly or not.
//	ErrNotSubtype         - specialization target is not a subtype.
//	ErrNilType            - nil type handle passed in.
package typegraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/netlith/netlith/core"
)

// Sentinel errors for type declaration and instantiation.
var (
	// ErrDuplicateTypeName indicates DeclareType was called twice for one name.
	ErrDuplicateTypeName = errors.New("typegraph: duplicate type name")

	// ErrDuplicateFieldName indicates a type declared two own fields with
	// one name (shadowing a supertype field is allowed, re-declaring an own
	// field is not).
	ErrDuplicateFieldName = errors.New("typegraph: duplicate field name")

	// ErrFieldNotFound indicates LookupField found no field of that name in
	// the whole supertype chain.
	ErrFieldNotFound = errors.New("typegraph: field not found")

	// ErrUnresolvedPath indicates a dependent rule referenced a child path
	// that does not exist in the just-created subtree. Fatal: the partial
	// instance is discarded.
	ErrUnresolvedPath = errors.New("typegraph: unresolved path")

	// ErrTypeCycle indicates a type reaches itself through its own
	// composition fields. Fatal.
	ErrTypeCycle = errors.New("typegraph: type cycle")

	// ErrNotSubtype indicates Specialize was asked to narrow an instance to
	// a type outside its supertype chain.
	ErrNotSubtype = errors.New("typegraph: not a subtype")

	// ErrNilType indicates a nil *TypeNode was passed where a declared type
	// is required.
	ErrNilType = errors.New("typegraph: nil type")
)

// Node attribute keys used inside the type store.
const (
	attrKind     = "tg.kind" // "type" or "field"
	attrName     = "tg.name"
	attrTrait    = "tg.trait"    // bool: field materializes as a trait
	attrPolicy   = "tg.policy"   // core.TraitPolicy for trait fields
	attrDefaults = "tg.defaults" // map[string]any child attribute defaults
	attrLinks    = "tg.links"    // []LinkSpec dependent rules
)

// Edge names used inside the type store.
const (
	edgeSuper     = "super" // subtype -> supertype pointer
	edgeFieldType = "type"  // field rule -> field type pointer
)

// TypeGraph owns the type store: one class identity per name, populated
// once and never evicted. Like every store it is single-writer; declare
// everything before instantiating from other goroutines' graphs.
type TypeGraph struct {
	g       *core.Graph
	byName  map[string]core.NodeID
	defined map[core.NodeID]bool
}

// New creates an empty TypeGraph.
func New() *TypeGraph {
	return &TypeGraph{
		g:       core.NewGraph(),
		byName:  make(map[string]core.NodeID),
		defined: make(map[core.NodeID]bool),
	}
}

// Graph exposes the underlying type store for read-only traversal.
func (tg *TypeGraph) Graph() *core.Graph { return tg.g }

// TypeNode is a handle on one declared type.
type TypeNode struct {
	tg   *TypeGraph
	id   core.NodeID
	name string
}

// ID returns the node identity of the type inside the type store.
func (t *TypeNode) ID() core.NodeID { return t.id }

// Name returns the declared class name.
func (t *TypeNode) Name() string { return t.name }

// FieldRule is a handle on one declared field ("MakeChild" rule).
type FieldRule struct {
	tg    *TypeGraph
	id    core.NodeID
	owner core.NodeID
	name  string
}

// Name returns the field name.
func (f *FieldRule) Name() string { return f.name }

// TypeOption configures DeclareType.
type TypeOption func(*typeDecl)

type typeDecl struct {
	super *TypeNode
}

// WithSuper links the new type to its supertype.
func WithSuper(super *TypeNode) TypeOption {
	return func(d *typeDecl) { d.super = super }
}

// FieldOption configures DeclareField.
type FieldOption func(*fieldDecl)

type fieldDecl struct {
	defaults map[string]any
	trait    bool
	policy   core.TraitPolicy
	links    []LinkSpec
}

// WithDefaults sets attribute defaults stamped onto the materialized child.
func WithDefaults(defaults map[string]any) FieldOption {
	return func(d *fieldDecl) {
		if d.defaults == nil {
			d.defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			d.defaults[k] = v
		}
	}
}

// AsTrait marks the field as a capability: the child is still owned via
// Composition, and additionally announced with a Trait edge named after
// the field's type, deduplicated by the given policy.
func AsTrait(policy core.TraitPolicy) FieldOption {
	return func(d *fieldDecl) {
		d.trait = true
		d.policy = policy
	}
}

// WithLink appends one dependent rule, resolved at instantiation time
// against the freshly built subtree.
func WithLink(link LinkSpec) FieldOption {
	return func(d *fieldDecl) { d.links = append(d.links, link) }
}

// Step is one hop of a relative path: a named child or a positional one.
type Step struct {
	// Name selects a child by its composition edge name.
	Name string

	// Index selects a child by position among ordered children.
	Index int

	// Indexed distinguishes Index 0 from an empty name step.
	Indexed bool
}

// ByName returns a named path step.
func ByName(name string) Step { return Step{Name: name} }

// ByIndex returns a positional path step.
func ByIndex(i int) Step { return Step{Index: i, Indexed: true} }

// Path addresses a node relative to an instance root; the empty path is
// the root itself.
type Path []Step

// P builds a path of named steps, the common case.
func P(names ...string) Path {
	p := make(Path, len(names))
	for i, n := range names {
		p[i] = ByName(n)
	}

	return p
}

// String renders like "power.vcc" or "legs[0].pin".
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	var b strings.Builder
	for i, s := range p {
		if s.Indexed {
			fmt.Fprintf(&b, "[%d]", s.Index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Name)
	}

	return b.String()
}

// LinkSpec is one dependent rule on a field: create an edge between two
// nodes of the instance subtree, addressed relative to the instance root.
type LinkSpec struct {
	// Kind is the edge to create: Pointer, Operand, or InterfaceConnection.
	Kind core.EdgeKind

	// From and To address the endpoints relative to the instance root;
	// the empty path is the root itself.
	From Path
	To   Path

	// Name labels the created edge (pointer role, for instance).
	Name string

	// Attrs are stamped onto the created edge.
	Attrs map[string]any

	// Shallow and Pending mark InterfaceConnection edges.
	Shallow bool
	Pending bool
}
