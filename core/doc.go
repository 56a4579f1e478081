// Package core provides the typed in-memory Graph store every engine layer
// builds on: the type graph, the instantiator, the connectivity resolver,
// and the constraint solver all read and write this one representation.
//
// The Graph holds attributed nodes and six closed edge kinds:
//
//   - Composition — the ownership tree (named/ordered children; one parent
//     per node, no cycles, both enforced at insertion)
//   - Trait — capability markers with a per-trait duplicate policy
//     (TraitReject, TraitReplace, TraitMerge)
//   - Pointer — non-owning references (role-labelled)
//   - InterfaceConnection — symmetric electrical adjacency, deep by
//     default, WithShallow() to stop recursion, WithPending() for
//     speculative links awaiting a finalize pass
//   - Operand — expression → ordered operand
//   - ImplementsType — instance → originating type node (exactly one)
//
// Why use core.Graph?
//
//   - Kind-checked insertion — structural invariants (single owner,
//     acyclic ownership, one implemented type, trait policy) fail fast at
//     AddEdge with typed sentinel errors.
//   - Deterministic iteration — incident edges replay in insertion order;
//     EdgesOf is a lazy, finite, restartable iter.Seq.
//   - Detached views — SubgraphOf copies a composition closure (boundary
//     edges included), InducedView copies an explicit node set, and Merge
//     splices either into another store idempotently.
//   - Single-writer by design — building completes before readers start,
//     so there are no internal locks to contend with.
//
// Core Methods:
//
//	// Node lifecycle
//	CreateNode(opts ...NodeOption) NodeID        // O(1)
//	HasNode(id NodeID) bool                      // O(1)
//	RemoveNode(id NodeID) error                  // O(deg(v))
//	SetAttr(id, key, value) error                // O(1)
//	Attr(id, key) (any, bool)                    // O(1)
//
//	// Edge lifecycle
//	AddEdge(kind, from, to, opts ...EdgeOption) (EdgeID, error)
//	RemoveEdge(id EdgeID) error                  // O(deg)
//	SetEdgeAttr / DelEdgeAttr                    // O(1)
//
//	// Query
//	EdgesOf(id, kind, dir) iter.Seq[*Edge]       // lazy, restartable
//	Neighbors(id, kind, dir) []NodeID            // O(deg)
//	ParentOf / ChildrenOf / ChildByName          // composition tree
//	HasTrait / TraitsOf / TypeOf                 // capability + identity
//	Nodes() []NodeID                             // O(V log V), sorted
//
//	// Views
//	SubgraphOf(g, root) (*View, error)           // composition closure
//	InducedView(g, keep) (*View, error)          // explicit node set
//	(*Graph).Merge(*View) error                  // identity-preserving splice
//
// Errors:
//
//	ErrNodeNotFound               – missing node
//	ErrEdgeNotFound               – missing edge
//	ErrInvalidEdge                – kind/option misuse
//	ErrDuplicateCompositionParent – target already owned
//	ErrCompositionCycle           – ownership cycle attempt
//	ErrDuplicateTrait             – duplicate trait under TraitReject
//	ErrNilView                    – nil view passed to Merge
package core
