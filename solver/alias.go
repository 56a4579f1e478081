package solver

import (
	"sort"

	"github.com/netlith/netlith/core"
)

// unionFind tracks parameter alias classes as a disjoint-set forest with
// path compression and union by rank. Identities enter lazily on first
// use; a parameter never aliased is its own class.
type unionFind struct {
	// parent maps each parameter to its parent in the forest; roots map to
	// themselves.
	parent map[core.NodeID]core.NodeID

	// rank tracks tree depth to keep unions shallow.
	rank map[core.NodeID]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[core.NodeID]core.NodeID),
		rank:   make(map[core.NodeID]int),
	}
}

// find returns the class root of id, compressing the walked path.
// Unknown identities register as their own root.
func (u *unionFind) find(id core.NodeID) core.NodeID {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
		u.rank[id] = 0

		return id
	}
	// Walk up until the root, pointing each step at its grandparent.
	for u.parent[id] != id {
		u.parent[id] = u.parent[u.parent[id]]
		id = u.parent[id]
	}

	return id
}

// union merges the classes of a and b and returns the surviving root.
// Attaches the smaller-rank tree under the larger-rank root.
func (u *unionFind) union(a, b core.NodeID) core.NodeID {
	rootA := u.find(a)
	rootB := u.find(b)
	if rootA == rootB {
		return rootA
	}
	if u.rank[rootA] < u.rank[rootB] {
		rootA, rootB = rootB, rootA
	}
	u.parent[rootB] = rootA
	if u.rank[rootA] == u.rank[rootB] {
		u.rank[rootA]++
	}

	return rootA
}

// classes groups every registered parameter under its root, members in
// lexicographic order for deterministic iteration.
func (u *unionFind) classes() map[core.NodeID][]core.NodeID {
	out := make(map[core.NodeID][]core.NodeID)
	for id := range u.parent {
		root := u.find(id)
		out[root] = append(out[root], id)
	}
	for _, members := range out {
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	}

	return out
}
