// Package pathfind resolves electrical connectivity over a core.Graph,
// answering which interface nodes are wired together across arbitrarily
// deep composition.
//
// What
//
//   - GetConnected(g, start): every node connected to start, each paired
//     with the hop path that witnessed the connection (explainability).
//   - IsConnected(g, a, b): early-exit reachability; symmetric, and a
//     node is connected to itself by the zero-length path.
//   - Nets(g): all connectivity equivalence classes with at least two
//     members, as sorted, deterministic node lists.
//   - Finalize(g, decide): resolves the pending-connection lifecycle by
//     promoting or dropping each pending connection edge.
//
// Connectivity model
//
//	Three mechanisms connect nodes:
//	  - An explicit InterfaceConnection edge binds its two endpoints.
//	  - A deep connection mirrors onto children: when an ancestor at
//	    relative depth k of node n connects deep to m, and m resolves the
//	    same k composition names, the far child is an implied neighbor.
//	    Shallow edges bind only their own endpoints.
//	  - A bridge trait passes through: a trait node pointing at two
//	    interfaces via Pointer edges named BridgeA and BridgeB makes them
//	    electrically identical.
//	Composition alone never connects: a parent is not connected to its
//	own child, and siblings are not connected through their shared owner.
//
// Determinism
//
//	Incidence lists replay in insertion order and node scans run in
//	lexicographic ID order, so visit sequences, paths, and net lists are
//	fully reproducible for a fixed build sequence.
//
// Complexity (V = |Nodes|, E = |Edges|, D = composition depth)
//
//   - Time:   O((V + E) · D) worst case (each visit climbs its ancestors)
//   - Memory: O(V) for the queue, the visited set, and recorded paths
//
// Usage
//
//	res, err := pathfind.GetConnected(g, vcc)
//	if err != nil {
//	    // handle one of:
//	    // ErrGraphNil, ErrStartNotFound, ErrOptionViolation, ErrExceededLimit
//	}
//	for id, path := range res.Paths {
//	    fmt.Println(id, path)
//	}
//
//	nets, err := pathfind.Nets(g, pathfind.SkipPending())
//
// Options
//
//   - DefaultOptions(): background Context, MaxVisited == DefaultMaxVisited,
//     pending edges traversed, no filtering.
//   - WithContext(ctx):   set a custom context for cancellation.
//   - MaxVisited(n):      cap frontier admissions (n>0); 0 disables.
//   - SkipPending():      ignore connection edges still pending.
//   - WithFilterEdge(fn): skip routes for which fn(edge)==false.
//
// Errors
//
//   - ErrGraphNil        if the graph pointer is nil.
//   - ErrStartNotFound   if a queried node does not exist.
//   - ErrExceededLimit   if a traversal outgrows MaxVisited.
//   - ErrOptionViolation if an invalid Option is supplied.
package pathfind
