// Package core: Graph mutation methods.
//
// This file provides node and edge management for the Graph type defined
// in types.go. Incidence is stored per node, per kind, in insertion order
// (out[node][kind] and in[node][kind]), so existence checks are O(1) map
// hops and traversals replay in a fixed order for a fixed build sequence.

package core

import (
	"fmt"
	"sort"
)

const edgeIDPrefix = "e"

// CreateNode inserts a fresh node and returns its process-unique ID.
// Complexity: O(len(opts)).
func (g *Graph) CreateNode(opts ...NodeOption) NodeID {
	n := &Node{ID: newNodeID(), Attrs: make(map[string]any)}
	for _, opt := range opts {
		opt(n)
	}
	g.nodes[n.ID] = n

	return n.ID
}

// HasNode reports whether the node exists.
// Complexity: O(1).
func (g *Graph) HasNode(id NodeID) bool {
	_, exists := g.nodes[id]

	return exists
}

// Node returns the stored node. The pointer is live; treat it as read-only
// and mutate attributes through SetAttr.
// Complexity: O(1).
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, exists := g.nodes[id]

	return n, exists
}

// Nodes returns every node ID in lexicographic order.
// Complexity: O(V log V).
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// NodeCount returns the number of nodes.
// Complexity: O(1).
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
// Complexity: O(1).
func (g *Graph) EdgeCount() int { return len(g.edges) }

// SetAttr sets one attribute on a node.
// Returns ErrNodeNotFound for unknown nodes.
// Complexity: O(1).
func (g *Graph) SetAttr(id NodeID, key string, value any) error {
	n, exists := g.nodes[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.Attrs[key] = value

	return nil
}

// Attr reads one attribute off a node; ok is false when the node or the
// key is absent.
// Complexity: O(1).
func (g *Graph) Attr(id NodeID, key string) (any, bool) {
	n, exists := g.nodes[id]
	if !exists {
		return nil, false
	}
	v, ok := n.Attrs[key]

	return v, ok
}

// Edge returns the stored edge. The pointer is live; mutate attributes
// through SetEdgeAttr.
// Complexity: O(1).
func (g *Graph) Edge(id EdgeID) (*Edge, bool) {
	e, exists := g.edges[id]

	return e, exists
}

// SetEdgeAttr sets one attribute on an edge.
// Returns ErrEdgeNotFound for unknown edges.
// Complexity: O(1).
func (g *Graph) SetEdgeAttr(id EdgeID, key string, value any) error {
	e, exists := g.edges[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	if e.Attrs == nil {
		e.Attrs = make(map[string]any)
	}
	e.Attrs[key] = value

	return nil
}

// DelEdgeAttr removes one attribute from an edge (promoting a pending
// connection deletes AttrPending).
// Returns ErrEdgeNotFound for unknown edges.
// Complexity: O(1).
func (g *Graph) DelEdgeAttr(id EdgeID, key string) error {
	e, exists := g.edges[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	delete(e.Attrs, key)

	return nil
}

// SetTraitPolicy registers the duplicate policy for one trait name after
// construction (instantiators declare policies as they splice types in).
// Complexity: O(1).
func (g *Graph) SetTraitPolicy(trait string, policy TraitPolicy) {
	g.traitPolicy[trait] = policy
}

// TraitPolicyOf returns the registered policy for a trait name;
// TraitReject when none was registered.
// Complexity: O(1).
func (g *Graph) TraitPolicyOf(trait string) TraitPolicy {
	return g.traitPolicy[trait]
}

// AddEdge creates an edge of the given kind from one node to another and
// returns its ID. Kind-specific rules are enforced at insertion:
//
//   - Composition: target must be unowned (ErrDuplicateCompositionParent)
//     and must not be an ancestor of the source (ErrCompositionCycle).
//     Order auto-assigns to the next sibling index when not set.
//   - Trait: a duplicate trait name on the source resolves by the
//     registered TraitPolicy (reject, replace, or merge).
//   - ImplementsType: at most one outgoing per node (ErrInvalidEdge).
//   - Operand: Order auto-assigns like Composition.
//   - InterfaceConnection: the only kind accepting WithPending/WithShallow.
//
// Returns ErrNodeNotFound, ErrInvalidEdge, ErrDuplicateCompositionParent,
// ErrCompositionCycle, ErrDuplicateTrait.
// Complexity: O(depth) for Composition (ancestor walk), O(traits(from)) for
// Trait, O(1) otherwise.
func (g *Graph) AddEdge(kind EdgeKind, from, to NodeID, opts ...EdgeOption) (EdgeID, error) {
	// 1) Kind must be a storable member of the closed set.
	if kind == KindAny || kind > ImplementsType {
		return "", fmt.Errorf("%w: kind %d not storable", ErrInvalidEdge, kind)
	}
	// 2) Both endpoints must exist.
	if !g.HasNode(from) {
		return "", fmt.Errorf("%w: from %s", ErrNodeNotFound, from)
	}
	if !g.HasNode(to) {
		return "", fmt.Errorf("%w: to %s", ErrNodeNotFound, to)
	}

	// 3) Materialize the edge and apply options; Order -1 marks "unset".
	e := &Edge{Kind: kind, From: from, To: to, Order: -1}
	for _, opt := range opts {
		opt(e)
	}

	// 4) Pending/shallow markers belong to connections only.
	if kind != InterfaceConnection && (e.IsPending() || e.IsShallow()) {
		return "", fmt.Errorf("%w: pending/shallow on %s edge", ErrInvalidEdge, kind)
	}

	// 5) Kind-specific structural rules.
	switch kind {
	case Composition:
		if from == to {
			return "", fmt.Errorf("%w: %s would own itself", ErrCompositionCycle, from)
		}
		if _, _, owned := g.ParentOf(to); owned {
			return "", fmt.Errorf("%w: %s", ErrDuplicateCompositionParent, to)
		}
		// Walk up from the would-be parent; reaching the child closes a cycle.
		for cur, _, ok := g.ParentOf(from); ok; cur, _, ok = g.ParentOf(cur) {
			if cur == to {
				return "", fmt.Errorf("%w: %s is an ancestor of %s", ErrCompositionCycle, to, from)
			}
		}
		if e.Order < 0 {
			e.Order = len(g.out[from][Composition])
		}

	case Operand:
		if e.Order < 0 {
			e.Order = len(g.out[from][Operand])
		}

	case ImplementsType:
		if len(g.out[from][ImplementsType]) > 0 {
			return "", fmt.Errorf("%w: %s already implements a type", ErrInvalidEdge, from)
		}

	case Trait:
		if prev := g.traitEdge(from, e.Name); prev != nil {
			switch g.traitPolicy[e.Name] {
			case TraitReplace:
				_ = g.RemoveEdge(prev.ID) // verified present just above
			case TraitMerge:
				if len(e.Attrs) > 0 && prev.Attrs == nil {
					prev.Attrs = make(map[string]any, len(e.Attrs))
				}
				for k, v := range e.Attrs {
					prev.Attrs[k] = v
				}

				return prev.ID, nil
			default: // TraitReject
				return "", fmt.Errorf("%w: %q on %s", ErrDuplicateTrait, e.Name, from)
			}
		}
	}

	// 6) Assign the ID and wire both incidence directions.
	g.nextEdgeID++
	e.ID = EdgeID(fmt.Sprintf("%s%d", edgeIDPrefix, g.nextEdgeID))
	g.edges[e.ID] = e
	g.linkEdge(e)

	return e.ID, nil
}

// RemoveEdge deletes one edge from the catalog and both incidence lists.
// Returns ErrEdgeNotFound if the edge does not exist.
// Complexity: O(deg) on the endpoint incidence lists.
func (g *Graph) RemoveEdge(id EdgeID) error {
	e, exists := g.edges[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	g.unlinkEdge(e)
	delete(g.edges, id)

	return nil
}

// RemoveNode deletes the node and every incident edge (both directions).
// Children owned via Composition become parentless; callers tearing down a
// subtree remove nodes leaf-first.
// Returns ErrNodeNotFound if the node does not exist.
// Complexity: O(deg(v)).
func (g *Graph) RemoveNode(id NodeID) error {
	if !g.HasNode(id) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	// 1) Collect incident edge IDs first; unlink mutates the lists.
	var doomed []EdgeID
	for _, byKind := range [2]map[EdgeKind][]*Edge{g.out[id], g.in[id]} {
		for _, list := range byKind {
			for _, e := range list {
				doomed = append(doomed, e.ID)
			}
		}
	}
	// 2) Drop the edges; a self-loop appears twice and the second remove
	//    is a harmless miss.
	for _, eid := range doomed {
		if _, still := g.edges[eid]; still {
			_ = g.RemoveEdge(eid)
		}
	}
	// 3) Drop the node and its incidence buckets.
	delete(g.nodes, id)
	delete(g.out, id)
	delete(g.in, id)

	return nil
}

// traitEdge returns the existing trait edge of the given name on from,
// or nil.
func (g *Graph) traitEdge(from NodeID, name string) *Edge {
	for _, e := range g.out[from][Trait] {
		if e.Name == name {
			return e
		}
	}

	return nil
}

// linkEdge appends e to both incidence lists.
func (g *Graph) linkEdge(e *Edge) {
	if g.out[e.From] == nil {
		g.out[e.From] = make(map[EdgeKind][]*Edge)
	}
	g.out[e.From][e.Kind] = append(g.out[e.From][e.Kind], e)

	if g.in[e.To] == nil {
		g.in[e.To] = make(map[EdgeKind][]*Edge)
	}
	g.in[e.To][e.Kind] = append(g.in[e.To][e.Kind], e)
}

// unlinkEdge splices e out of both incidence lists, preserving the order
// of the remaining edges.
func (g *Graph) unlinkEdge(e *Edge) {
	g.out[e.From][e.Kind] = spliceEdge(g.out[e.From][e.Kind], e.ID)
	g.in[e.To][e.Kind] = spliceEdge(g.in[e.To][e.Kind], e.ID)
}

func spliceEdge(list []*Edge, id EdgeID) []*Edge {
	for i, e := range list {
		if e.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}

	return list
}
