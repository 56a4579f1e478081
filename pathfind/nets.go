// Package pathfind: net extraction and the pending-connection lifecycle.

package pathfind

import (
	"sort"

	"github.com/netlith/netlith/collect"
	"github.com/netlith/netlith/core"
)

// Nets returns every connectivity equivalence class with at least two
// members. Each net lists its member IDs in lexicographic order, and the
// nets themselves are ordered by their smallest member, so the output is
// stable across runs for a fixed graph.
//
// Classes of size one are omitted: an interface wired to nothing belongs
// to no net. Options apply to each per-class traversal.
//
// Returns ErrGraphNil, ErrOptionViolation, ErrExceededLimit, or the
// context's error.
// Complexity: O(V + E) visits across all classes combined.
func Nets(g *core.Graph, opts ...Option) ([]Net, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if g == nil {
		return nil, ErrGraphNil
	}

	seen := make(map[core.NodeID]bool)
	var nets []Net
	for _, id := range g.Nodes() {
		if seen[id] {
			continue
		}
		seen[id] = true
		res, err := GetConnected(g, id, opts...)
		if err != nil {
			return nil, err
		}
		if len(res.Paths) == 0 {
			continue
		}
		net := Net{id}
		for member := range res.Paths {
			seen[member] = true
			net = append(net, member)
		}
		sort.Slice(net, func(i, j int) bool { return net[i] < net[j] })
		nets = append(nets, net)
	}

	return nets, nil
}

// Finalize resolves the pending-connection lifecycle. decide is called
// once per pending connection edge: returning true promotes the edge
// (the pending attribute is cleared), returning false drops it (the edge
// is removed). A nil decide promotes everything. The walk order is
// deterministic: nodes in lexicographic order, each node's outgoing
// connection edges in insertion order.
//
// Returns the number of promoted and dropped edges. Failures while
// applying decisions are collected and joined rather than aborting the
// pass.
// Complexity: O(V + E).
func Finalize(g *core.Graph, decide func(e *core.Edge) bool) (kept, dropped int, err error) {
	if g == nil {
		return 0, 0, ErrGraphNil
	}

	// 1) Snapshot the pending edges; promotion and removal mutate the
	//    incidence lists being walked.
	var pending []*core.Edge
	for _, id := range g.Nodes() {
		for e := range g.EdgesOf(id, core.InterfaceConnection, core.Outgoing) {
			if e.IsPending() {
				pending = append(pending, e)
			}
		}
	}

	// 2) Apply the decisions outside the iteration.
	errs := collect.New()
	for _, e := range pending {
		if decide == nil || decide(e) {
			if aerr := g.DelEdgeAttr(e.ID, core.AttrPending); aerr != nil {
				errs.Add(aerr)
				continue
			}
			kept++
			continue
		}
		if rerr := g.RemoveEdge(e.ID); rerr != nil {
			errs.Add(rerr)
			continue
		}
		dropped++
	}

	return kept, dropped, errs.Err()
}
