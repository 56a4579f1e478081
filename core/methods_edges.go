// Package core: edge query methods.
//
// EdgesOf is the workhorse: a lazy, finite, restartable sequence over a
// node's incident edges filtered by kind and direction. Order is the
// insertion order of the underlying incidence lists, so iteration replays
// identically for a fixed build sequence.

package core

import (
	"iter"
	"sort"
)

// EdgesOf returns the incident edges of a node as a lazy sequence.
// kind may be KindAny to cover all kinds; dir selects orientation.
// A self-loop is yielded once even under Both. The sequence reads the
// live store: it restarts cleanly on each range, and callers must not
// mutate the graph mid-iteration.
// Complexity: O(deg(node)) per full drain.
func (g *Graph) EdgesOf(id NodeID, kind EdgeKind, dir Direction) iter.Seq[*Edge] {
	return func(yield func(*Edge) bool) {
		if dir&Outgoing != 0 {
			for _, e := range g.kindEdges(g.out[id], kind) {
				if !yield(e) {
					return
				}
			}
		}
		if dir&Incoming != 0 {
			for _, e := range g.kindEdges(g.in[id], kind) {
				if e.From == e.To && dir&Outgoing != 0 {
					continue // self-loop already yielded from the out list
				}
				if !yield(e) {
					return
				}
			}
		}
	}
}

// kindEdges flattens one incidence bucket to the requested kind(s) in
// deterministic order.
func (g *Graph) kindEdges(byKind map[EdgeKind][]*Edge, kind EdgeKind) []*Edge {
	if byKind == nil {
		return nil
	}
	if kind != KindAny {
		return byKind[kind]
	}
	// KindAny walks kinds in their declared order, each bucket already in
	// insertion order.
	var all []*Edge
	for k := Composition; k <= ImplementsType; k++ {
		all = append(all, byKind[k]...)
	}

	return all
}

// Neighbors returns the far endpoints of the matching incident edges, in
// edge order, duplicates preserved (two parallel connections mean two
// entries).
// Complexity: O(deg(node)).
func (g *Graph) Neighbors(id NodeID, kind EdgeKind, dir Direction) []NodeID {
	var out []NodeID
	for e := range g.EdgesOf(id, kind, dir) {
		if e.From == id {
			out = append(out, e.To)
			continue
		}
		out = append(out, e.From)
	}

	return out
}

// ParentOf returns the composition owner of a node and the owning edge;
// ok is false for roots and unknown nodes.
// Complexity: O(1).
func (g *Graph) ParentOf(id NodeID) (NodeID, *Edge, bool) {
	owners := g.in[id][Composition]
	if len(owners) == 0 {
		return "", nil, false
	}

	return owners[0].From, owners[0], true
}

// ChildrenOf returns the outgoing Composition edges of a node sorted by
// (Order, Name). The slice is a copy.
// Complexity: O(children log children).
func (g *Graph) ChildrenOf(id NodeID) []*Edge {
	src := g.out[id][Composition]
	children := make([]*Edge, len(src))
	copy(children, src)
	sort.SliceStable(children, func(i, j int) bool {
		if children[i].Order != children[j].Order {
			return children[i].Order < children[j].Order
		}

		return children[i].Name < children[j].Name
	})

	return children
}

// ChildByName returns the composition child with the given edge name;
// ok is false when no such child exists.
// Complexity: O(children).
func (g *Graph) ChildByName(id NodeID, name string) (NodeID, bool) {
	for _, e := range g.out[id][Composition] {
		if e.Name == name {
			return e.To, true
		}
	}

	return "", false
}

// HasTrait reports whether the node carries a trait edge of the given name.
// Complexity: O(traits(node)).
func (g *Graph) HasTrait(id NodeID, name string) bool {
	return g.traitEdge(id, name) != nil
}

// TraitsOf returns the node's outgoing trait edges in insertion order.
// The slice is a copy.
// Complexity: O(traits(node)).
func (g *Graph) TraitsOf(id NodeID) []*Edge {
	src := g.out[id][Trait]
	out := make([]*Edge, len(src))
	copy(out, src)

	return out
}

// TypeOf returns the type-graph node an instance implements; ok is false
// when the node carries no ImplementsType edge.
// Complexity: O(1).
func (g *Graph) TypeOf(id NodeID) (NodeID, bool) {
	links := g.out[id][ImplementsType]
	if len(links) == 0 {
		return "", false
	}

	return links[0].To, true
}
