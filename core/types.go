// Package core defines the typed Graph store shared by every engine layer:
// nodes with attribute maps, and six closed edge kinds (Composition, Trait,
// Pointer, InterfaceConnection, Operand, ImplementsType) with kind-specific
// insertion rules.
//
// A Graph is single-writer by convention: building completes before readers
// (pathfinder, solver, exporters) walk it, so there is no internal locking.
//
// This file declares Node, Edge, Graph, GraphOption, NodeOption, EdgeOption,
// sentinel errors, and the NewGraph constructor.
//
// Errors:
//
//	ErrNodeNotFound               - referenced node does not exist.
//	ErrEdgeNotFound               - referenced edge does not exist.
//	ErrInvalidEdge                - kind or option misuse on AddEdge.
//	ErrDuplicateCompositionParent - target node already has an owner.
//	ErrCompositionCycle           - edge would close an ownership cycle.
//	ErrDuplicateTrait             - trait already present under TraitReject.
//	ErrNilView                    - nil view passed to Merge.
package core

import (
	"errors"

	"github.com/google/uuid"
)

// Sentinel errors for core graph operations.
var (
	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrInvalidEdge indicates a kind-specific arity violation or an edge
	// option applied to a kind it does not belong to.
	ErrInvalidEdge = errors.New("core: invalid edge")

	// ErrDuplicateCompositionParent indicates the target of a Composition
	// edge is already owned by another parent.
	ErrDuplicateCompositionParent = errors.New("core: node already has a composition parent")

	// ErrCompositionCycle indicates a Composition edge would make a node its
	// own ancestor.
	ErrCompositionCycle = errors.New("core: composition cycle")

	// ErrDuplicateTrait indicates a second trait of the same name was added
	// to a node whose policy for that trait is TraitReject.
	ErrDuplicateTrait = errors.New("core: duplicate trait")

	// ErrNilView indicates a nil *View was passed to Merge.
	ErrNilView = errors.New("core: nil view")
)

// NodeID uniquely identifies a node across all graphs in the process, so a
// subgraph copied out of one store and merged into another keeps its
// identities without translation.
type NodeID string

// EdgeID uniquely identifies an edge within one Graph.
type EdgeID string

// EdgeKind is the closed set of edge semantics. The zero value KindAny is
// not a storable kind; it widens queries to every kind.
type EdgeKind uint8

const (
	// KindAny matches every kind in queries such as EdgesOf.
	KindAny EdgeKind = iota

	// Composition is the ownership tree: parent owns named/ordered child.
	// Single owner per node, no cycles.
	Composition

	// Trait marks "node implements capability"; duplicates are resolved by
	// the per-trait policy registered on the graph.
	Trait

	// Pointer is a non-owning reference (reference fields, type-identity
	// links, literal-to-constraint links).
	Pointer

	// InterfaceConnection is symmetric electrical adjacency. Deep
	// connections recurse into same-named child interfaces; shallow ones
	// (AttrShallow) do not.
	InterfaceConnection

	// Operand links an expression node to one ordered operand.
	Operand

	// ImplementsType links an instance to the type-graph node it was
	// materialized from. Exactly one per instance.
	ImplementsType
)

// String returns the kind name used in errors and rendered paths.
func (k EdgeKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case Composition:
		return "composition"
	case Trait:
		return "trait"
	case Pointer:
		return "pointer"
	case InterfaceConnection:
		return "connection"
	case Operand:
		return "operand"
	case ImplementsType:
		return "implements"
	default:
		return "unknown"
	}
}

// Direction selects which incident edges a query sees.
type Direction uint8

const (
	// Outgoing selects edges whose From is the queried node.
	Outgoing Direction = 1 << iota

	// Incoming selects edges whose To is the queried node.
	Incoming

	// Both selects edges regardless of orientation.
	Both = Outgoing | Incoming
)

// Well-known edge attribute keys.
const (
	// AttrPending marks a speculative InterfaceConnection created during
	// building; a finalize pass promotes or drops it.
	AttrPending = "pending"

	// AttrShallow marks an InterfaceConnection that does not recurse into
	// child interfaces.
	AttrShallow = "shallow"
)

// TraitPolicy decides what AddEdge does when a node already carries a trait
// of the same name.
type TraitPolicy uint8

const (
	// TraitReject fails the insertion with ErrDuplicateTrait. The default.
	TraitReject TraitPolicy = iota

	// TraitReplace removes the existing trait edge and inserts the new one.
	TraitReplace

	// TraitMerge keeps the existing edge and folds the new attributes into
	// it (new keys win).
	TraitMerge
)

// Node is one graph node: a process-unique identity plus an attribute map.
// Attrs is owned by the Graph; mutate it through SetAttr so missing nodes
// surface as errors.
type Node struct {
	// ID is the unique identifier of this node.
	ID NodeID

	// Attrs stores arbitrary key-value data attached at creation or later.
	Attrs map[string]any
}

// Edge is one typed, attributed connection between two nodes.
type Edge struct {
	// ID uniquely identifies this edge within its Graph.
	ID EdgeID

	// Kind is the edge semantics; never KindAny on a stored edge.
	Kind EdgeKind

	// From is the source node.
	From NodeID

	// To is the target node.
	To NodeID

	// Name is the child name (Composition), trait name (Trait), or role
	// label (Pointer). Empty when the kind carries no name.
	Name string

	// Order is the position among sibling edges of the same kind. Assigned
	// automatically for Composition and Operand when not set explicitly;
	// -1 on kinds without ordering.
	Order int

	// Attrs stores per-edge data such as AttrPending or AttrShallow.
	// Nil until the first attribute is set.
	Attrs map[string]any
}

// IsPending reports whether the edge carries the speculative marker.
func (e *Edge) IsPending() bool { return e != nil && e.Attrs[AttrPending] == true }

// IsShallow reports whether the connection is declared non-recursive.
func (e *Edge) IsShallow() bool { return e != nil && e.Attrs[AttrShallow] == true }

// GraphOption configures a Graph at construction.
type GraphOption func(*Graph)

// WithTraitPolicy registers the duplicate policy for one trait name.
func WithTraitPolicy(trait string, policy TraitPolicy) GraphOption {
	return func(g *Graph) { g.traitPolicy[trait] = policy }
}

// NodeOption attaches data to a node at creation.
type NodeOption func(*Node)

// WithNodeAttr sets one attribute on the new node.
func WithNodeAttr(key string, value any) NodeOption {
	return func(n *Node) { n.Attrs[key] = value }
}

// WithNodeAttrs sets several attributes on the new node.
func WithNodeAttrs(attrs map[string]any) NodeOption {
	return func(n *Node) {
		for k, v := range attrs {
			n.Attrs[k] = v
		}
	}
}

// EdgeOption configures one edge as it is added.
type EdgeOption func(*Edge)

// WithName labels the edge (child name, trait name, pointer role).
func WithName(name string) EdgeOption {
	return func(e *Edge) { e.Name = name }
}

// WithOrder fixes the edge position among same-kind siblings, overriding
// the automatic numbering of Composition and Operand edges.
func WithOrder(order int) EdgeOption {
	return func(e *Edge) { e.Order = order }
}

// WithEdgeAttr sets one attribute on the edge.
func WithEdgeAttr(key string, value any) EdgeOption {
	return func(e *Edge) {
		if e.Attrs == nil {
			e.Attrs = make(map[string]any)
		}
		e.Attrs[key] = value
	}
}

// WithEdgeAttrs sets several attributes on the edge.
func WithEdgeAttrs(attrs map[string]any) EdgeOption {
	return func(e *Edge) {
		if e.Attrs == nil {
			e.Attrs = make(map[string]any, len(attrs))
		}
		for k, v := range attrs {
			e.Attrs[k] = v
		}
	}
}

// WithPending marks an InterfaceConnection as speculative. Rejected with
// ErrInvalidEdge on other kinds.
func WithPending() EdgeOption {
	return WithEdgeAttr(AttrPending, true)
}

// WithShallow marks an InterfaceConnection as non-recursive. Rejected with
// ErrInvalidEdge on other kinds.
func WithShallow() EdgeOption {
	return WithEdgeAttr(AttrShallow, true)
}

// Graph is the in-memory typed graph store.
//
// Incident edges are kept per node, per kind, in insertion order, which
// makes every traversal deterministic for a fixed build sequence. The
// struct has no locks: one writer finishes building before readers start.
type Graph struct {
	// Storage
	nextEdgeID uint64
	nodes      map[NodeID]*Node
	edges      map[EdgeID]*Edge

	// out[node][kind] and in[node][kind] list incident edges in insertion
	// order.
	out map[NodeID]map[EdgeKind][]*Edge
	in  map[NodeID]map[EdgeKind][]*Edge

	// traitPolicy maps trait name to its duplicate policy; absent means
	// TraitReject.
	traitPolicy map[string]TraitPolicy
}

// NewGraph creates an empty Graph with the given options.
// Complexity: O(len(opts))
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		nodes:       make(map[NodeID]*Node),
		edges:       make(map[EdgeID]*Edge),
		out:         make(map[NodeID]map[EdgeKind][]*Edge),
		in:          make(map[NodeID]map[EdgeKind][]*Edge),
		traitPolicy: make(map[string]TraitPolicy),
	}
	// Apply options
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// newNodeID mints a process-unique identity.
func newNodeID() NodeID { return NodeID(uuid.NewString()) }
