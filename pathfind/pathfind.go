// Package pathfind: connectivity traversal.
//
// The walker runs an iterative breadth-first search over three neighbor
// sources: explicit InterfaceConnection edges, pass-through bridges, and
// deep connections mirrored from ancestors onto same-named children.
// Composition alone never connects.

package pathfind

import (
	"fmt"

	"github.com/netlith/netlith/core"
)

// GetConnected returns every node electrically connected to start, each
// paired with the hop path that witnessed the connection. The start node
// itself is not part of the result.
//
// Returns ErrGraphNil, ErrStartNotFound, ErrOptionViolation,
// ErrExceededLimit, or the context's error on cancellation.
// Complexity: O((V + E) · D) worst case, D the composition depth.
func GetConnected(g *core.Graph, start core.NodeID, opts ...Option) (*Result, error) {
	w, err := newWalker(g, start, opts)
	if err != nil {
		return nil, err
	}
	if err = w.loop(); err != nil {
		return nil, err
	}

	return w.res, nil
}

// IsConnected reports whether a and b are electrically connected. The
// relation is symmetric, and a node is connected to itself by the
// zero-length path. The traversal stops as soon as b enters the frontier.
//
// Returns ErrGraphNil, ErrStartNotFound (either endpoint absent),
// ErrOptionViolation, ErrExceededLimit, or the context's error.
func IsConnected(g *core.Graph, a, b core.NodeID, opts ...Option) (bool, error) {
	w, err := newWalker(g, a, opts)
	if err != nil {
		return false, err
	}
	if !g.HasNode(b) {
		return false, fmt.Errorf("%w: %s", ErrStartNotFound, b)
	}
	if a == b {
		return true, nil
	}
	w.target = b
	if err = w.loop(); err != nil {
		return false, err
	}

	return w.found, nil
}

// queueItem pairs a frontier node with the hop path that reached it.
type queueItem struct {
	id   core.NodeID
	path Path
}

// walker carries the traversal state for one connectivity query.
type walker struct {
	g       *core.Graph
	opts    Options
	queue   []queueItem
	visited map[core.NodeID]bool
	res     *Result
	target  core.NodeID // early-exit node; empty when unset
	found   bool
}

// newWalker validates inputs and seeds the frontier with start.
func newWalker(g *core.Graph, start core.NodeID, opts []Option) (*walker, error) {
	// 1) Apply options and surface any recorded violation.
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	// 2) Validate the graph and the start node.
	if g == nil {
		return nil, ErrGraphNil
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: %s", ErrStartNotFound, start)
	}

	// 3) Seed the frontier; the start is visited with an empty path.
	w := &walker{
		g:       g,
		opts:    o,
		visited: make(map[core.NodeID]bool),
		res: &Result{
			Start: start,
			Paths: make(map[core.NodeID]Path),
		},
	}
	if err := w.enqueue(start, nil); err != nil {
		return nil, err
	}

	return w, nil
}

// loop drains the frontier breadth-first. The context is consulted once
// per dequeue and again inside neighbor expansion.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		item := w.dequeue()
		w.visit(item)
		if err := w.expand(item); err != nil {
			return err
		}
		if w.found {
			return nil
		}
	}

	return nil
}

// dequeue pops the next frontier node.
func (w *walker) dequeue() queueItem {
	item := w.queue[0]
	w.queue = w.queue[1:]
	w.res.Counters.Visited++

	return item
}

// visit records the reached node; the start is counted but carries no
// path.
func (w *walker) visit(item queueItem) {
	if item.id == w.res.Start {
		return
	}
	w.res.Paths[item.id] = item.path
	w.res.Order = append(w.res.Order, item.id)
}

// expand enqueues every neighbor of item: explicit connection edges,
// pass-through bridges, then deep connections mirrored from ancestors.
func (w *walker) expand(item queueItem) error {
	if err := w.expandLinks(item); err != nil {
		return err
	}
	if err := w.expandBridges(item); err != nil {
		return err
	}

	return w.expandImplied(item)
}

// expandLinks crosses the connection edges incident on the node. Both
// deep and shallow edges bind their own endpoints.
func (w *walker) expandLinks(item queueItem) error {
	for e := range w.g.EdgesOf(item.id, core.InterfaceConnection, core.Both) {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}
		if w.skip(e) {
			continue
		}
		far := otherEnd(e, item.id)
		if w.visited[far] {
			continue
		}
		if err := w.enqueue(far, extend(item.path, Hop{Kind: HopLink, Edge: e, Node: far})); err != nil {
			return err
		}
	}

	return nil
}

// expandBridges hops through bridge traits: an incoming Pointer edge
// named BridgeA or BridgeB leads to the trait node, whose paired Pointer
// edge names the far interface.
func (w *walker) expandBridges(item queueItem) error {
	for in := range w.g.EdgesOf(item.id, core.Pointer, core.Incoming) {
		var exitName string
		switch in.Name {
		case BridgeA:
			exitName = BridgeB
		case BridgeB:
			exitName = BridgeA
		default:
			continue
		}
		if !w.opts.FilterEdge(in) {
			continue
		}
		for out := range w.g.EdgesOf(in.From, core.Pointer, core.Outgoing) {
			if out.Name != exitName || !w.opts.FilterEdge(out) {
				continue
			}
			if w.visited[out.To] {
				continue
			}
			if err := w.enqueue(out.To, extend(item.path, Hop{Kind: HopBridge, Edge: out, Node: out.To})); err != nil {
				return err
			}
			w.res.Counters.Bridged++
		}
	}

	return nil
}

// expandImplied mirrors deep connections declared on ancestors. For the
// ancestor at relative depth k, the k composition names climbed so far
// are replayed on the far side of each deep edge; the connection exists
// only when the full path resolves. Shallow edges bind only their own
// endpoints, and an unnamed composition slot stops the climb because it
// cannot be replayed by name.
func (w *walker) expandImplied(item queueItem) error {
	var climb []*core.Edge // owning edges from item.id upward, nearest first
	cur := item.id
	for {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		anc, owning, ok := w.g.ParentOf(cur)
		if !ok || owning.Name == "" {
			return nil
		}
		climb = append(climb, owning)

		for e := range w.g.EdgesOf(anc, core.InterfaceConnection, core.Both) {
			if e.IsShallow() || w.skip(e) {
				continue
			}
			far := otherEnd(e, anc)
			dest, down, resolved := w.mirror(far, climb)
			if !resolved || w.visited[dest] {
				continue
			}
			if err := w.enqueue(dest, impliedPath(item.path, climb, e, far, down)); err != nil {
				return err
			}
			w.res.Counters.Implied++
		}
		cur = anc
	}
}

// mirror replays the climbed composition names from far downward and
// returns the destination with the composition edges descended.
func (w *walker) mirror(far core.NodeID, climb []*core.Edge) (core.NodeID, []*core.Edge, bool) {
	down := make([]*core.Edge, 0, len(climb))
	cur := far
	for i := len(climb) - 1; i >= 0; i-- {
		ce := w.childEdge(cur, climb[i].Name)
		if ce == nil {
			return "", nil, false
		}
		down = append(down, ce)
		cur = ce.To
	}

	return cur, down, true
}

// childEdge returns the outgoing composition edge with the given name,
// or nil.
func (w *walker) childEdge(id core.NodeID, name string) *core.Edge {
	for e := range w.g.EdgesOf(id, core.Composition, core.Outgoing) {
		if e.Name == name {
			return e
		}
	}

	return nil
}

// enqueue admits one node to the frontier, enforcing the visit bound.
// Nodes are marked visited at enqueue time so each enters at most once;
// callers check the visited set before building the hop path.
func (w *walker) enqueue(id core.NodeID, path Path) error {
	if w.opts.MaxVisited > 0 && len(w.visited) >= w.opts.MaxVisited {
		return fmt.Errorf("%w: more than %d nodes reached", ErrExceededLimit, w.opts.MaxVisited)
	}
	w.visited[id] = true
	w.res.Counters.Enqueued++
	w.queue = append(w.queue, queueItem{id: id, path: path})
	if id == w.target {
		w.found = true
	}

	return nil
}

// skip applies the pending and filter options to a connection edge.
func (w *walker) skip(e *core.Edge) bool {
	if w.opts.SkipPending && e.IsPending() {
		return true
	}

	return !w.opts.FilterEdge(e)
}

// extend copies base and appends one hop; paths never share backing
// arrays across frontier entries.
func extend(base Path, hop Hop) Path {
	next := make(Path, len(base), len(base)+1)
	copy(next, base)

	return append(next, hop)
}

// impliedPath renders a mirrored connection as up-hops, the link hop,
// then down-hops.
func impliedPath(base Path, climb []*core.Edge, link *core.Edge, far core.NodeID, down []*core.Edge) Path {
	next := make(Path, len(base), len(base)+2*len(climb)+1)
	copy(next, base)
	for _, e := range climb {
		next = append(next, Hop{Kind: HopUp, Edge: e, Node: e.From})
	}
	next = append(next, Hop{Kind: HopLink, Edge: link, Node: far})
	for _, e := range down {
		next = append(next, Hop{Kind: HopDown, Edge: e, Node: e.To})
	}

	return next
}

// otherEnd returns the endpoint of e that is not id.
func otherEnd(e *core.Edge, id core.NodeID) core.NodeID {
	if e.From == id {
		return e.To
	}

	return e.From
}
