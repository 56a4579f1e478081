// Package core: detached graph views.
//
// A View is a copied slice of a Graph: nodes are deep-copied (attribute
// maps cloned), so mutating the view's origin afterwards does not bleed
// into the copy, while node IDs are preserved so a later Merge can splice
// the view into another store and reconnect boundary edges by identity.

package core

import "fmt"

// View is a detached copy of part of a Graph.
//
// Interior edges have both endpoints inside the view; boundary edges have
// exactly one (ImplementsType links into a type graph are the common
// case). Merge re-wires boundary edges against the destination store.
type View struct {
	// Root is the subtree root for views built by SubgraphOf; empty for
	// induced views.
	Root NodeID

	nodes    []*Node
	edges    []*Edge
	boundary []*Edge
}

// Nodes returns the copied nodes in deterministic (discovery) order.
func (v *View) Nodes() []*Node { return v.nodes }

// Edges returns the interior edges in deterministic order.
func (v *View) Edges() []*Edge { return v.edges }

// Boundary returns the edges with exactly one endpoint inside the view.
func (v *View) Boundary() []*Edge { return v.boundary }

// SubgraphOf copies the composition closure of root: root itself plus
// every node reachable over outgoing Composition edges, with all edges
// among them and the boundary edges that leave the set. The copy is
// identity-preserving (same node IDs) and does not alias the source
// (attribute maps are cloned).
// Returns ErrNodeNotFound for an unknown root.
// Complexity: O(V' + E') over the closure.
func SubgraphOf(g *Graph, root NodeID) (*View, error) {
	if !g.HasNode(root) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, root)
	}
	// 1) Collect the composition closure breadth-first, children in
	//    (Order, Name) order.
	member := map[NodeID]bool{root: true}
	order := []NodeID{root}
	for queue := []NodeID{root}; len(queue) > 0; {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.ChildrenOf(cur) {
			if member[e.To] {
				continue
			}
			member[e.To] = true
			order = append(order, e.To)
			queue = append(queue, e.To)
		}
	}

	return newView(g, root, member, order, true), nil
}

// InducedView copies exactly the given nodes and the edges among them.
// Edges leaving the kept set are dropped, not captured as boundary, so an
// induced slice (a type closure, say) splices into an empty store without
// demanding its outside anchors. Duplicate IDs in keep collapse.
// Returns ErrNodeNotFound when any kept node is unknown.
// Complexity: O(V' + E') over the kept set.
func InducedView(g *Graph, keep []NodeID) (*View, error) {
	member := make(map[NodeID]bool, len(keep))
	order := make([]NodeID, 0, len(keep))
	for _, id := range keep {
		if !g.HasNode(id) {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		if member[id] {
			continue
		}
		member[id] = true
		order = append(order, id)
	}

	return newView(g, "", member, order, false), nil
}

// newView deep-copies the member nodes and splits their incident edges
// into interior and (when captured) boundary sets.
func newView(g *Graph, root NodeID, member map[NodeID]bool, order []NodeID, boundary bool) *View {
	v := &View{Root: root}

	// 1) Deep-copy nodes in discovery order.
	for _, id := range order {
		n, _ := g.Node(id)
		v.nodes = append(v.nodes, copyNode(n))
	}

	// 2) Walk each member's incident edges once; an interior edge shows up
	//    from both endpoints, so dedupe by ID.
	seen := make(map[EdgeID]bool)
	for _, id := range order {
		for e := range g.EdgesOf(id, KindAny, Both) {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			if member[e.From] && member[e.To] {
				v.edges = append(v.edges, copyEdge(e))
				continue
			}
			if boundary {
				v.boundary = append(v.boundary, copyEdge(e))
			}
		}
	}

	return v
}

// Merge splices a detached view into g.
//
// Nodes already present (same ID) are kept as-is: identity is global, so a
// node arriving twice is the same logical node. Edges equivalent to an
// existing edge (kind, endpoints, name, order) are skipped, which makes
// re-merging a type closure idempotent; new edges get fresh IDs from g.
// Boundary edges require their outside endpoint to exist in g already.
//
// Returns ErrNilView, ErrNodeNotFound (boundary endpoint missing; checked
// before any mutation), or an AddEdge validation error.
// Complexity: O(V' + E').
func (g *Graph) Merge(v *View) error {
	if v == nil {
		return ErrNilView
	}
	// 1) Preflight: every boundary edge must find its far endpoint either
	//    in g or among the arriving nodes.
	arriving := make(map[NodeID]bool, len(v.nodes))
	for _, n := range v.nodes {
		arriving[n.ID] = true
	}
	for _, e := range v.boundary {
		for _, end := range [2]NodeID{e.From, e.To} {
			if !arriving[end] && !g.HasNode(end) {
				return fmt.Errorf("%w: boundary endpoint %s", ErrNodeNotFound, end)
			}
		}
	}

	// 2) Insert missing nodes; existing IDs are the same logical node.
	for _, n := range v.nodes {
		if g.HasNode(n.ID) {
			continue
		}
		g.nodes[n.ID] = copyNode(n)
	}

	// 3) Insert edges, interior first, skipping structural duplicates.
	for _, e := range append(append([]*Edge{}, v.edges...), v.boundary...) {
		if g.hasEquivalentEdge(e) {
			continue
		}
		opts := []EdgeOption{WithName(e.Name), WithOrder(e.Order)}
		if len(e.Attrs) > 0 {
			opts = append(opts, WithEdgeAttrs(e.Attrs))
		}
		if _, err := g.AddEdge(e.Kind, e.From, e.To, opts...); err != nil {
			return fmt.Errorf("core: merge edge %s(%s): %w", e.Kind, e.Name, err)
		}
	}

	return nil
}

// hasEquivalentEdge reports whether g already stores an edge with the same
// kind, endpoints, name, and order.
func (g *Graph) hasEquivalentEdge(e *Edge) bool {
	for _, cand := range g.out[e.From][e.Kind] {
		if cand.To == e.To && cand.Name == e.Name && cand.Order == e.Order {
			return true
		}
	}

	return false
}

func copyNode(n *Node) *Node {
	attrs := make(map[string]any, len(n.Attrs))
	for k, val := range n.Attrs {
		attrs[k] = val
	}

	return &Node{ID: n.ID, Attrs: attrs}
}

func copyEdge(e *Edge) *Edge {
	ne := &Edge{ID: e.ID, Kind: e.Kind, From: e.From, To: e.To, Name: e.Name, Order: e.Order}
	if len(e.Attrs) > 0 {
		ne.Attrs = make(map[string]any, len(e.Attrs))
		for k, val := range e.Attrs {
			ne.Attrs[k] = val
		}
	}

	return ne
}
