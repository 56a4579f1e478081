// File: api.go
// Role: read-only diagnostics facade on top of the core types.
// No algorithms or hidden state here; everything is a deterministic
// snapshot of the store for assertions, logs, and admission checks.

package core

// GraphStats is a read-only snapshot of catalog sizes and edge-kind
// distribution.
type GraphStats struct {
	// NodeCount is the number of stored nodes.
	NodeCount int

	// EdgeCount is the number of stored edges.
	EdgeCount int

	// ByKind counts edges per kind; kinds with no edges are absent.
	ByKind map[EdgeKind]int

	// PendingConnections counts InterfaceConnection edges still carrying
	// the speculative marker (a finalize pass has not run yet).
	PendingConnections int

	// Roots counts nodes without a composition parent.
	Roots int
}

// Stats produces a deterministic snapshot of the store: catalog sizes,
// per-kind edge counts, pending-connection count, and composition roots.
//
// Complexity: O(V + E).
func (g *Graph) Stats() *GraphStats {
	stats := &GraphStats{
		NodeCount: len(g.nodes),
		EdgeCount: len(g.edges),
		ByKind:    make(map[EdgeKind]int),
	}
	// Single pass over the edge catalog.
	for _, e := range g.edges {
		stats.ByKind[e.Kind]++
		if e.Kind == InterfaceConnection && e.IsPending() {
			stats.PendingConnections++
		}
	}
	// Roots: nodes with no incoming Composition edge.
	for id := range g.nodes {
		if len(g.in[id][Composition]) == 0 {
			stats.Roots++
		}
	}

	return stats
}
