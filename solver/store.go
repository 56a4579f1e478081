package solver

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/netlith/netlith/core"
	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/units"
)

// Store records constraints against parameter nodes of one instance graph
// and caches the narrowed admissible set per alias class.
//
// Every recording call is synchronous and local: ConstrainSubset and
// AliasIs write the declarative constraint into the graph and narrow the
// cached set immediately (local canonicalization), but cross-parameter
// consequences are only drawn by Simplify. A narrowing that empties a set
// records a Contradiction and keeps accepting constraints; the
// contradiction surfaces when Simplify runs.
//
// A Store is single-writer, like the graph underneath it.
type Store struct {
	g        *core.Graph
	log      *slog.Logger
	maxSteps int

	// uf groups parameters aliased by AliasIs(p, Ref(q)).
	uf *unionFind

	// params caches the admissible set per class root. Absent means
	// unconstrained.
	params map[core.NodeID]sets.Set

	// rules holds expression equalities awaiting phase-2 propagation, in
	// record order.
	rules []aliasRule

	// preds holds named predicates for phase-3 resolution.
	preds map[string]*predicate

	// contradicted lists parameters whose narrowing hit empty, in record
	// order. Surfaced (deduplicated) by Simplify.
	contradicted []core.NodeID
}

// aliasRule is one recorded "param = expr" equality with a compound rhs.
type aliasRule struct {
	param core.NodeID
	expr  *Expr
}

// predicate is one recorded named predicate and its current proof status.
type predicate struct {
	pred    *Pred
	outcome Outcome
}

// NewStore wraps g as the constraint-recording target. A nil g gets a
// fresh private graph, so standalone parameter nodes can be created
// directly on Graph().
func NewStore(g *core.Graph, opts ...Option) *Store {
	if g == nil {
		g = core.NewGraph()
	}
	s := &Store{
		g:        g,
		log:      discardLogger(),
		maxSteps: DefaultMaxSteps,
		uf:       newUnionFind(),
		params:   make(map[core.NodeID]sets.Set),
		preds:    make(map[string]*predicate),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Graph returns the instance graph the store records into.
func (s *Store) Graph() *core.Graph { return s.g }

// ConstrainSubset records "param ⊆ set": a constraint node wired to the
// parameter and a literal node, and an immediate intersection of the
// cached admissible set. An empty intersection records a Contradiction
// (surfaced by Simplify), not an error; a set-kind mismatch fails without
// touching the store.
//
// Complexity: O(members(set) + members(current)).
func (s *Store) ConstrainSubset(param core.NodeID, set sets.Set) error {
	// 1) Validate inputs.
	if set == nil {
		return ErrNilSet
	}
	if !s.g.HasNode(param) {
		return fmt.Errorf("%w: %q", ErrParamNotFound, param)
	}

	// 2) Dry-run the narrowing so a kind mismatch leaves no trace.
	next, err := s.narrowedBy(param, set)
	if err != nil {
		return err
	}

	// 3) Record the constraint in the graph.
	lit := s.litNode(set)
	if _, err = s.constraintNode(RelSubset, param, lit, true); err != nil {
		return err
	}

	// 4) Commit.
	s.commit(param, next)

	return nil
}

// AliasIs records "param = rhs". Three shapes:
//
//   - Ref(q): the two parameters join one alias class; their cached sets
//     intersect (union-find merge).
//   - Lit(set): narrows exactly like a subset constraint; an explicit
//     singleton adopts the value (Resolved).
//   - compound expression: materialized as an expression node with ordered
//     Operand edges and queued for phase-2 propagation by Simplify.
//
// A kind mismatch between the joined sets fails without touching the
// store.
func (s *Store) AliasIs(param core.NodeID, rhs *Expr) error {
	// 1) Validate inputs.
	if err := rhs.validate(); err != nil {
		return err
	}
	if !s.g.HasNode(param) {
		return fmt.Errorf("%w: %q", ErrParamNotFound, param)
	}
	for _, ref := range rhs.refs(nil) {
		if !s.g.HasNode(ref) {
			return fmt.Errorf("%w: %q", ErrParamNotFound, ref)
		}
	}

	switch rhs.op {
	case opRef:
		// 2a) Alias classes: dry-merge first so a mismatch leaves no trace.
		merged, err := s.mergedClassSet(param, rhs.ref)
		if err != nil {
			return err
		}
		if _, err = s.constraintNode(RelIs, param, rhs.ref, false); err != nil {
			return err
		}
		s.unite(param, rhs.ref, merged)

	case opLit:
		// 2b) Equality with a literal.
		next, err := s.narrowedBy(param, rhs.lit)
		if err != nil {
			return err
		}
		lit := s.litNode(rhs.lit)
		if _, err = s.constraintNode(RelIs, param, lit, true); err != nil {
			return err
		}
		s.commit(param, next)

	default:
		// 2c) Compound rhs: materialize and queue for propagation.
		root, err := s.exprNode(rhs)
		if err != nil {
			return err
		}
		if _, err = s.constraintNode(RelIs, param, root, false); err != nil {
			return err
		}
		s.rules = append(s.rules, aliasRule{param: param, expr: rhs})
	}

	return nil
}

// ExtractSuperset returns the current admissible set of param: the cached
// class set when any constraint touched it, otherwise the universal set
// of the parameter's declared unit (AttrUnit, dimensionless fallback).
// Never fails, never mutates.
func (s *Store) ExtractSuperset(param core.NodeID) sets.Set {
	if set, ok := s.params[s.uf.find(param)]; ok {
		return set
	}

	return s.universalOf(param)
}

// State reports the state-machine position of param. Unknown parameters
// are Unconstrained.
func (s *Store) State(param core.NodeID) State {
	set, ok := s.params[s.uf.find(param)]
	if !ok {
		return Unconstrained
	}
	if set.IsEmpty() {
		return Contradiction
	}
	if _, ok = singletonValue(set); ok {
		return Resolved
	}

	return Narrowed
}

// Record registers a named predicate for phase-3 resolution and Outcome
// queries. Recording under an existing name replaces the previous
// predicate and resets its outcome to unknown.
func (s *Store) Record(name string, pred *Pred) error {
	if pred == nil {
		return ErrNilPred
	}
	if pred.err != nil {
		return pred.err
	}
	if !s.g.HasNode(pred.param) {
		return fmt.Errorf("%w: %q", ErrParamNotFound, pred.param)
	}
	s.preds[name] = &predicate{pred: pred}

	return nil
}

// Outcome reports the proof status of a recorded predicate; ok is false
// for names never recorded.
func (s *Store) Outcome(name string) (Outcome, bool) {
	p, ok := s.preds[name]
	if !ok {
		return OutcomeUnknown, false
	}

	return p.outcome, true
}

// ConstraintsOf returns the constraint nodes recorded against param, in
// insertion order. Exporters use it to enumerate the declarative record
// behind a narrowed set.
func (s *Store) ConstraintsOf(param core.NodeID) []core.NodeID {
	var out []core.NodeID
	for e := range s.g.EdgesOf(param, core.Operand, core.Incoming) {
		if e.Order != 0 {
			continue
		}
		if _, ok := s.g.Attr(e.From, AttrRel); ok {
			out = append(out, e.From)
		}
	}

	return out
}

// --- narrowing internals ---------------------------------------------------

// narrowedBy computes the class set after intersecting set, without
// committing. A first numeric constraint starts from the declared
// universal, so a dimension clash with the parameter's unit shows up as
// an empty result rather than passing silently.
func (s *Store) narrowedBy(param core.NodeID, set sets.Set) (sets.Set, error) {
	cur := s.params[s.uf.find(param)]
	if cur == nil {
		if d, ok := asNumeric(set); ok {
			return s.universalOf(param).Intersect(d)
		}

		return set, nil
	}

	return cur.Intersect(set)
}

// commit stores the narrowed class set. Empty results record a
// contradiction for Simplify to surface.
func (s *Store) commit(param core.NodeID, next sets.Set) {
	s.params[s.uf.find(param)] = next
	if next.IsEmpty() {
		s.contradict(param)

		return
	}
	s.log.Debug("narrowed", "param", s.nameOf(param), "set", next.String(), "state", s.State(param).String())
}

// mergedClassSet dry-runs the alias merge of a's and b's classes.
// A nil result means neither class is constrained yet.
func (s *Store) mergedClassSet(a, b core.NodeID) (sets.Set, error) {
	sa := s.params[s.uf.find(a)]
	sb := s.params[s.uf.find(b)]
	switch {
	case sa == nil:
		return sb, nil
	case sb == nil:
		return sa, nil
	default:
		return sa.Intersect(sb)
	}
}

// unite merges the alias classes of a and b and installs the pre-computed
// class set.
func (s *Store) unite(a, b core.NodeID, merged sets.Set) {
	ra, rb := s.uf.find(a), s.uf.find(b)
	delete(s.params, ra)
	delete(s.params, rb)
	root := s.uf.union(ra, rb)
	if merged == nil {
		return
	}
	s.params[root] = merged
	if merged.IsEmpty() {
		s.contradict(a, b)
	}
}

// contradict records parameters whose admissible set became empty.
func (s *Store) contradict(params ...core.NodeID) {
	for _, p := range params {
		s.contradicted = append(s.contradicted, p)
		s.log.Debug("admissible set emptied", "param", s.nameOf(p))
	}
}

// contradictionError builds the surfaced error: involved parameters in
// first-recorded order, deduplicated, with their dotted names.
func (s *Store) contradictionError() *ContradictionError {
	seen := make(map[core.NodeID]bool, len(s.contradicted))
	e := &ContradictionError{}
	for _, p := range s.contradicted {
		if seen[p] {
			continue
		}
		seen[p] = true
		e.Params = append(e.Params, p)
		e.Names = append(e.Names, s.nameOf(p))
	}

	return e
}

// universalOf returns the nothing-excluded-yet set of param's declared
// unit.
func (s *Store) universalOf(param core.NodeID) *sets.DisjointIntervals {
	return sets.Universal(s.paramUnit(param))
}

// paramUnit resolves the parameter's AttrUnit through units.ByName;
// absent or unrecognized names fall back to dimensionless.
func (s *Store) paramUnit(param core.NodeID) units.Unit {
	if v, ok := s.g.Attr(param, AttrUnit); ok {
		if name, ok := v.(string); ok {
			if u, ok := units.ByName(name); ok {
				return u
			}
		}
	}

	return units.Dimensionless
}

// --- graph materialization --------------------------------------------------

// constraintNode writes one constraint node carrying rel, with param as
// operand 0 and rhs as operand 1. A literal rhs points back at the
// constraint node, so the record can be walked from either side.
func (s *Store) constraintNode(rel string, param, rhs core.NodeID, rhsIsLit bool) (core.NodeID, error) {
	c := s.g.CreateNode(core.WithNodeAttr(AttrRel, rel))
	if _, err := s.g.AddEdge(core.Operand, c, param, core.WithOrder(0)); err != nil {
		return "", err
	}
	if _, err := s.g.AddEdge(core.Operand, c, rhs, core.WithOrder(1)); err != nil {
		return "", err
	}
	if rhsIsLit {
		if _, err := s.g.AddEdge(core.Pointer, rhs, c, core.WithName(litEdgeName)); err != nil {
			return "", err
		}
	}

	return c, nil
}

// litNode materializes a literal set as a graph node.
func (s *Store) litNode(set sets.Set) core.NodeID {
	return s.g.CreateNode(core.WithNodeAttr(AttrLit, set))
}

// exprNode materializes an expression tree: operator nodes with ordered
// Operand edges. Ref leaves resolve to their parameter nodes, so no node
// is created for them.
func (s *Store) exprNode(e *Expr) (core.NodeID, error) {
	switch e.op {
	case opRef:
		return e.ref, nil
	case opLit:
		return s.litNode(e.lit), nil
	default:
		n := s.g.CreateNode(core.WithNodeAttr(AttrOp, e.op.opName()))
		for i, x := range e.xs {
			cid, err := s.exprNode(x)
			if err != nil {
				return "", err
			}
			if _, err = s.g.AddEdge(core.Operand, n, cid, core.WithOrder(i)); err != nil {
				return "", err
			}
		}

		return n, nil
	}
}

// --- snapshotting ------------------------------------------------------------

// snapshot captures the narrowing state of one solve call: class sets,
// recorded contradictions and predicate outcomes. Set values are
// immutable, so the copy is shallow. Alias classes are not captured: no
// phase unites classes, only recording calls do.
type snapshot struct {
	params       map[core.NodeID]sets.Set
	outcomes     map[string]Outcome
	contradicted []core.NodeID
}

func (s *Store) save() snapshot {
	params := make(map[core.NodeID]sets.Set, len(s.params))
	for k, v := range s.params {
		params[k] = v
	}
	outcomes := make(map[string]Outcome, len(s.preds))
	for name, p := range s.preds {
		outcomes[name] = p.outcome
	}

	return snapshot{
		params:       params,
		outcomes:     outcomes,
		contradicted: append([]core.NodeID(nil), s.contradicted...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.params = snap.params
	s.contradicted = snap.contradicted
	for name, out := range snap.outcomes {
		if p, ok := s.preds[name]; ok {
			p.outcome = out
		}
	}
}

// --- helpers ------------------------------------------------------------------

// inScope reports whether param lies inside the composition subtree
// rooted at scope; an empty scope admits everything.
func (s *Store) inScope(param, scope core.NodeID) bool {
	if scope == "" {
		return true
	}
	for cur := param; ; {
		if cur == scope {
			return true
		}
		parent, _, ok := s.g.ParentOf(cur)
		if !ok {
			return false
		}
		cur = parent
	}
}

// nameOf renders a parameter for errors and logs: the instance root's
// designator (when stamped) followed by the dotted composition path.
// Unowned nodes render as their raw identity.
func (s *Store) nameOf(id core.NodeID) string {
	var parts []string
	cur := id
	for {
		parent, owning, ok := s.g.ParentOf(cur)
		if !ok {
			break
		}
		if owning.Name != "" {
			parts = append(parts, owning.Name)
		}
		cur = parent
	}
	if v, ok := s.g.Attr(cur, "designator"); ok {
		if d, ok := v.(string); ok && d != "" {
			parts = append(parts, d)
		}
	}
	if len(parts) == 0 {
		return string(id)
	}
	// Collected leaf-first; reverse into root-to-leaf order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, ".")
}

// asNumeric coerces the numeric set variants to their normalized form.
func asNumeric(set sets.Set) (*sets.DisjointIntervals, bool) {
	switch v := set.(type) {
	case *sets.DisjointIntervals:
		return v, true
	case sets.Interval:
		return v.AsDisjoint(), true
	default:
		return nil, false
	}
}

// singletonValue extracts the single admissible value when exactly one
// remains. Numeric singletons are base-unit float64s.
func singletonValue(set sets.Set) (any, bool) {
	switch v := set.(type) {
	case *sets.DisjointIntervals:
		if x, ok := v.IsSingleton(); ok {
			return x, true
		}
	case sets.Interval:
		if v.IsSingleton() {
			return v.Min, true
		}
	case *sets.EnumSet:
		if m := v.Members(); len(m) == 1 {
			return m[0], true
		}
	case *sets.PlainSet:
		if vals := v.Values(); len(vals) == 1 {
			return vals[0], true
		}
	}

	return nil, false
}
