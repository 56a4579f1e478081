// Package solver records constraints against parameter nodes of a
// core.Graph and narrows each parameter's admissible set by phased
// simplification, down to a single value or an explicit contradiction.
//
// What
//
//   - Store: per-graph constraint recorder; ConstrainSubset and AliasIs
//     write declarative constraint nodes into the graph and narrow a
//     cached per-class set immediately.
//   - Simplify: iterates three phases to a fixpoint within a step budget
//     (algebraic folding, forward interval propagation, predicate
//     resolution); Terminal() additionally adopts singleton values onto
//     parameter nodes and accounts for every recorded predicate.
//   - ExtractSuperset / State: read the current admissible set and the
//     state-machine position without mutating anything.
//   - TryFulfill: speculate whether a predicate can still hold; Lock()
//     commits the fulfilling constraint (part-picker handshake).
//
// Model
//
//	Each parameter moves through Unconstrained → Narrowed → {Resolved |
//	Contradiction}; transitions only narrow within one Store. Parameters
//	aliased by AliasIs(p, Ref(q)) share one class (union-find) and one
//	set. Constraints are recorded twice, deliberately: as graph nodes
//	(the declarative record exporters can walk) and as the cached class
//	set (the working state phases narrow). A narrowing that empties a
//	set records a Contradiction and keeps accepting constraints; the
//	contradiction surfaces when Simplify runs. Multiple literals
//	satisfying a subset constraint are never tie-broken here: the store
//	narrows and leaves the choice to the caller; only an explicit
//	equality adopts a single value.
//
// Determinism
//
//	Rules propagate in record order, predicates resolve in name order,
//	and terminal adoption sweeps classes in root order, so reports and
//	logs are reproducible for a fixed call sequence.
//
// Failure modes
//
//	Exhausting the step budget or the context fails ErrSolverTimeout and
//	restores the pre-call narrowing state (unless a Lock() commit already
//	completed). A contradiction fails *ContradictionError naming the
//	offending parameters and does not roll back: the emptied sets are the
//	true state. Evaluation failures (sets.ErrUnitMismatch,
//	sets.ErrDivisionByZeroInSet, sets.ErrSetKindMismatch) are collected
//	across rules and returned joined, with sound narrowings kept.
//
// Usage
//
//	st := solver.NewStore(g)
//	_ = st.ConstrainSubset(a, sets.MustInterval(1, 2, units.Ohm))
//	_ = st.ConstrainSubset(b, sets.MustInterval(3, 4, units.Ohm))
//	_ = st.AliasIs(x, solver.Add(solver.Ref(a), solver.Ref(b)))
//	rep, err := st.Simplify(solver.Terminal())
//	if err != nil {
//	    // *ContradictionError, ErrSolverTimeout, or a joined
//	    // evaluation failure
//	}
//	fmt.Println(st.ExtractSuperset(x)) // [4, 6] Ω
//
// Errors
//
//   - ErrContradiction   class of every *ContradictionError.
//   - ErrSolverTimeout   step budget or context exhausted; state restored.
//   - ErrParamNotFound   constraint references a node absent from the graph.
//   - ErrNilSet          subset constraint with a nil set.
//   - ErrNilExpr         nil or malformed equality expression.
//   - ErrNilPred         nil predicate recorded or fulfilled.
//   - ErrOptionViolation invalid SolveOption supplied.
package solver
