package solver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/netlith/netlith/collect"
	"github.com/netlith/netlith/core"
	"github.com/netlith/netlith/sets"
)

// phase is one simplification algorithm with its declared invariants. The
// invariants gate scheduling: a terminal pass skips any phase that may
// introduce predicates (new ones would escape the strict accounting), and
// terminal-only phases run once after the fixpoint instead of inside the
// iteration.
type phase struct {
	name                 string
	introducesPredicates bool
	terminalOnly         bool
	run                  func(*solveRun) (bool, error)
}

// phases is the fixed schedule. Order matters: algebraic rewrites feed
// propagation, propagation feeds predicate proofs, adoption trails the
// fixpoint.
var phases = []phase{
	{name: "algebraic", run: (*solveRun).foldRules},
	{name: "propagate", run: (*solveRun).propagate},
	{name: "predicates", run: (*solveRun).resolvePredicates},
	{name: "adopt", terminalOnly: true, run: (*solveRun).adoptSingletons},
}

// solveRun carries the per-call state of one Simplify.
type solveRun struct {
	s   *Store
	cfg solveConfig
	rep *Report

	// folded memoizes phase-1 output per rule index, so later iterations
	// and phase 2 reuse the rewritten trees.
	folded map[int]*Expr

	// adopted marks parameters already stamped by the terminal pass.
	adopted map[core.NodeID]bool
}

// Simplify iterates the phase schedule to a fixpoint within the step
// budget:
//
//	phase 1 algebraic:  fold and flatten queued equality expressions;
//	phase 2 propagate:  evaluate equalities forward, intersect into the
//	                    aliased parameter;
//	phase 3 predicates: prove recorded predicates true or false from the
//	                    current supersets, or leave them unknown.
//
// With Terminal(), singleton classes are then adopted onto their
// parameter nodes (AttrValue) and the Report accounts for every recorded
// predicate.
//
// Failure modes are distinct: exhausting the budget or the context fails
// ErrSolverTimeout and restores the pre-call narrowing state; a recorded
// contradiction fails *ContradictionError naming the parameters and keeps
// the store as-is (the emptied sets are the true state); evaluation
// failures (unit mismatch, zero-spanning divisor) are collected across
// rules and returned joined, with sound narrowings from other rules kept.
func (s *Store) Simplify(opts ...SolveOption) (*Report, error) {
	// 1) Apply options.
	cfg := defaultSolveConfig(s.maxSteps)
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	// 2) Surface contradictions recorded before this call.
	if len(s.contradicted) > 0 {
		return nil, s.contradictionError()
	}

	run := &solveRun{
		s:       s,
		cfg:     cfg,
		rep:     &Report{Terminal: cfg.terminal},
		folded:  make(map[int]*Expr),
		adopted: make(map[core.NodeID]bool),
	}
	saved := s.save()

	// 3) Iterate to a fixpoint.
	for {
		changed, err := run.iteration()
		if err != nil {
			if errors.Is(err, ErrSolverTimeout) {
				s.restore(saved)
			}

			return nil, err
		}
		run.rep.Iterations++
		if !changed {
			break
		}
	}

	// 4) Terminal extras after the fixpoint. Adoption is bounded by the
	// number of resolved parameters and not charged against the budget, so
	// a pass that converged cannot die mid-stamp.
	if cfg.terminal {
		for _, ph := range phases {
			if !ph.terminalOnly {
				continue
			}
			if _, err := ph.run(run); err != nil {
				return nil, err
			}
		}
	}

	// 5) Account for unresolved predicates.
	run.fillUnknown()
	s.log.Debug("simplify done",
		"iterations", run.rep.Iterations,
		"steps", run.rep.Steps,
		"folded", run.rep.Folded,
		"propagated", run.rep.Propagated,
		"proven", run.rep.Proven,
		"unknown", len(run.rep.Unknown))

	return run.rep, nil
}

// iteration runs one pass over the scheduled phases and reports whether
// any of them changed state. Contradictions surface after the phase that
// recorded them.
func (r *solveRun) iteration() (bool, error) {
	changed := false
	for _, ph := range phases {
		if ph.terminalOnly {
			continue
		}
		if r.cfg.terminal && ph.introducesPredicates {
			// Declared invariant: a terminal pass accounts for every
			// predicate, so a phase that may add new ones cannot run.
			continue
		}
		did, err := ph.run(r)
		if err != nil {
			return false, err
		}
		if did {
			changed = true
		}
		if len(r.s.contradicted) > 0 {
			return false, r.s.contradictionError()
		}
	}

	return changed, nil
}

// tick charges n steps against the budget and checks cancellation.
func (r *solveRun) tick(n int) error {
	r.rep.Steps += n
	if r.cfg.budget > 0 && r.rep.Steps > r.cfg.budget {
		return fmt.Errorf("%w: step budget %d exhausted", ErrSolverTimeout, r.cfg.budget)
	}
	select {
	case <-r.cfg.ctx.Done():
		return fmt.Errorf("%w: %v", ErrSolverTimeout, r.cfg.ctx.Err())
	default:
	}

	return nil
}

// foldRules is phase 1: rewrite every queued equality's rhs into its
// algebraically simplest form. Each rule folds once per call; later
// iterations see the memoized tree.
func (r *solveRun) foldRules() (bool, error) {
	changed := false
	for i, rule := range r.s.rules {
		if _, done := r.folded[i]; done {
			continue
		}
		if !r.s.inScope(rule.param, r.cfg.scope) {
			continue
		}
		if err := r.tick(1); err != nil {
			return false, err
		}
		fe, n := rule.expr.fold()
		r.folded[i] = fe
		if n > 0 {
			r.rep.Folded += n
			changed = true
			r.s.log.Debug("folded", "param", r.s.nameOf(rule.param), "expr", fe.String(), "rewrites", n)
		}
	}

	return changed, nil
}

// propagate is phase 2: evaluate every queued equality forward and
// intersect the result into the aliased parameter. Evaluation failures
// are collected across rules so one sweep surfaces every modeling error;
// narrowings from sound rules stay applied.
func (r *solveRun) propagate() (bool, error) {
	changed := false
	errs := collect.New()
	for i, rule := range r.s.rules {
		if !r.s.inScope(rule.param, r.cfg.scope) {
			continue
		}
		expr := rule.expr
		if fe, ok := r.folded[i]; ok {
			expr = fe
		}
		val, err := r.eval(expr)
		if err != nil {
			if errors.Is(err, ErrSolverTimeout) {
				return false, err
			}
			if !errs.Add(fmt.Errorf("%s: %w", r.s.nameOf(rule.param), err)) {
				break
			}
			continue
		}
		cur := r.s.ExtractSuperset(rule.param)
		next, err := cur.Intersect(val)
		if err != nil {
			if !errs.Add(fmt.Errorf("%s: %w", r.s.nameOf(rule.param), err)) {
				break
			}
			continue
		}
		if next.Equal(cur) {
			continue
		}
		r.s.commit(rule.param, next)
		r.rep.Propagated++
		changed = true
	}
	if err := errs.Err(); err != nil {
		return false, err
	}

	return changed, nil
}

// eval computes the admissible set of an expression bottom-up. Each node
// costs one step. Ref leaves read the current superset; arithmetic is
// interval arithmetic over the numeric variants.
func (r *solveRun) eval(e *Expr) (*sets.DisjointIntervals, error) {
	if err := r.tick(1); err != nil {
		return nil, err
	}
	switch e.op {
	case opRef:
		d, ok := asNumeric(r.s.ExtractSuperset(e.ref))
		if !ok {
			return nil, fmt.Errorf("%w: arithmetic over non-numeric parameter %s",
				sets.ErrSetKindMismatch, r.s.nameOf(e.ref))
		}

		return d, nil

	case opLit:
		d, ok := asNumeric(e.lit)
		if !ok {
			return nil, fmt.Errorf("%w: arithmetic over non-numeric literal %s",
				sets.ErrSetKindMismatch, e.lit)
		}

		return d, nil

	case opNeg:
		x, err := r.eval(e.xs[0])
		if err != nil {
			return nil, err
		}

		return x.Neg(), nil

	case opSub, opDiv:
		a, err := r.eval(e.xs[0])
		if err != nil {
			return nil, err
		}
		b, err := r.eval(e.xs[1])
		if err != nil {
			return nil, err
		}
		if e.op == opSub {
			return a.Sub(b)
		}

		return a.Div(b)

	case opAdd, opMul:
		acc, err := r.eval(e.xs[0])
		if err != nil {
			return nil, err
		}
		for _, x := range e.xs[1:] {
			v, err := r.eval(x)
			if err != nil {
				return nil, err
			}
			if e.op == opAdd {
				acc, err = acc.Add(v)
			} else {
				acc, err = acc.Mul(v)
			}
			if err != nil {
				return nil, err
			}
		}

		return acc, nil

	default:
		return nil, ErrNilExpr
	}
}

// resolvePredicates is phase 3: prove recorded predicates from the
// current supersets. superset ⊆ test proves true, an empty meet proves
// false, anything else stays unknown for a later, narrower pass.
func (r *solveRun) resolvePredicates() (bool, error) {
	changed := false
	names := make([]string, 0, len(r.s.preds))
	for name := range r.s.preds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := r.s.preds[name]
		if p.outcome != OutcomeUnknown {
			continue
		}
		if !r.s.inScope(p.pred.param, r.cfg.scope) {
			continue
		}
		if err := r.tick(1); err != nil {
			return false, err
		}
		out := prove(r.s.ExtractSuperset(p.pred.param), p.pred.set)
		if out == OutcomeUnknown {
			continue
		}
		p.outcome = out
		r.rep.Proven++
		changed = true
		r.s.log.Debug("predicate resolved", "name", name, "outcome", out.String())
	}

	return changed, nil
}

// prove tests one predicate set against a superset. A kind mismatch
// between the sets is not provable either way.
func prove(sup, test sets.Set) Outcome {
	meet, err := sup.Intersect(test)
	if err != nil {
		return OutcomeUnknown
	}
	switch {
	case meet.IsEmpty():
		return OutcomeFalse
	case meet.Equal(sup):
		return OutcomeTrue
	default:
		return OutcomeUnknown
	}
}

// adoptSingletons is the terminal-only pass: stamp AttrValue onto every
// in-scope parameter of a class whose admissible set narrowed to exactly
// one value. Idempotent; runs once, after the fixpoint.
func (r *solveRun) adoptSingletons() (bool, error) {
	changed := false
	classes := r.s.uf.classes()
	roots := make([]core.NodeID, 0, len(classes))
	for root := range classes {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	for _, root := range roots {
		set, ok := r.s.params[root]
		if !ok {
			continue
		}
		v, ok := singletonValue(set)
		if !ok {
			continue
		}
		for _, member := range classes[root] {
			if r.adopted[member] || !r.s.inScope(member, r.cfg.scope) {
				continue
			}
			if err := r.s.g.SetAttr(member, AttrValue, v); err != nil {
				return false, err
			}
			r.adopted[member] = true
			changed = true
			r.s.log.Debug("adopted", "param", r.s.nameOf(member), "value", v)
		}
	}

	return changed, nil
}

// fillUnknown lists recorded predicates still unresolved, sorted by name.
func (r *solveRun) fillUnknown() {
	for name, p := range r.s.preds {
		if p.outcome == OutcomeUnknown {
			r.rep.Unknown = append(r.rep.Unknown, name)
		}
	}
	sort.Strings(r.rep.Unknown)
}
