package solver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/netlith/netlith/core"
	"github.com/netlith/netlith/eseries"
	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/solver"
	"github.com/netlith/netlith/typegraph"
	"github.com/netlith/netlith/units"
)

// SolverSuite exercises the constraint store and the phased solver on
// whole-workflow scenarios.
type SolverSuite struct {
	suite.Suite
}

func TestSolverSuite(t *testing.T) {
	suite.Run(t, new(SolverSuite))
}

// ohmParam creates a standalone parameter node declared in ohms.
func ohmParam(g *core.Graph) core.NodeID {
	return g.CreateNode(core.WithNodeAttr(solver.AttrUnit, "ohm"))
}

// ohms builds a closed interval in ohms.
func ohms(min, max float64) sets.Interval {
	return sets.MustInterval(min, max, units.Ohm)
}

// plain builds a dimensionless closed interval.
func plain(min, max float64) sets.Interval {
	return sets.MustInterval(min, max, units.Dimensionless)
}

// declareResistor registers the canonical two-pin component with an
// ohm-typed resistance parameter.
func declareResistor(t *testing.T, tg *typegraph.TypeGraph) *typegraph.TypeNode {
	t.Helper()
	pin, err := tg.GetOrCreateType("Pin", nil)
	require.NoError(t, err)
	electrical, err := tg.GetOrCreateType("Electrical", func(tn *typegraph.TypeNode) error {
		_, err := tn.DeclareField("pin", pin)

		return err
	})
	require.NoError(t, err)
	param, err := tg.GetOrCreateType("Parameter", nil)
	require.NoError(t, err)
	resistor, err := tg.GetOrCreateType("Resistor", func(tn *typegraph.TypeNode) error {
		if _, err := tn.DeclareField("p1", electrical); err != nil {
			return err
		}
		if _, err := tn.DeclareField("p2", electrical); err != nil {
			return err
		}
		_, err := tn.DeclareField("resistance", param,
			typegraph.WithDefaults(map[string]any{"unit": "ohm"}))

		return err
	})
	require.NoError(t, err)

	return resistor
}

// TestInstanceIsolation: constraining one instance's parameter leaves the
// sibling instance untouched.
func (s *SolverSuite) TestInstanceIsolation() {
	tg := typegraph.New()
	resistor := declareResistor(s.T(), tg)

	b1, err := tg.Instantiate(resistor, nil, map[string]any{"designator": "R1"})
	require.NoError(s.T(), err)
	b2, err := tg.Instantiate(resistor, nil, map[string]any{"designator": "R2"})
	require.NoError(s.T(), err)

	r1res, ok := b1.Child("resistance")
	require.True(s.T(), ok)
	r2res, ok := b2.Child("resistance")
	require.True(s.T(), ok)

	st := solver.NewStore(b1.Graph())
	require.NoError(s.T(), st.ConstrainSubset(r1res, ohms(900, 1100)))

	require.Equal(s.T(), solver.Narrowed, st.State(r1res))
	require.Equal(s.T(), solver.Unconstrained, st.State(r2res))
	require.True(s.T(), st.ExtractSuperset(r2res).Equal(sets.Universal(units.Ohm)),
		"sibling instance must stay universal")
}

// TestSumPropagation: x = a + b with a ⊆ [1,2] and b ⊆ [3,4] narrows x to
// [4,6] after one Simplify.
func (s *SolverSuite) TestSumPropagation() {
	st := solver.NewStore(nil)
	g := st.Graph()
	a, b, x := ohmParam(g), ohmParam(g), ohmParam(g)

	require.NoError(s.T(), st.ConstrainSubset(a, ohms(1, 2)))
	require.NoError(s.T(), st.ConstrainSubset(b, ohms(3, 4)))
	require.NoError(s.T(), st.AliasIs(x, solver.Add(solver.Ref(a), solver.Ref(b))))

	rep, err := st.Simplify()
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, rep.Propagated)

	want, err := sets.NewDisjoint(ohms(4, 6))
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(x).Equal(want))
	require.Equal(s.T(), solver.Narrowed, st.State(x))
}

// TestContradictionNamesParameter: two disjoint subset constraints on one
// parameter surface as a contradiction naming it, and the emptied state
// is kept (contradictions never roll back).
func (s *SolverSuite) TestContradictionNamesParameter() {
	tg := typegraph.New()
	resistor := declareResistor(s.T(), tg)
	b, err := tg.Instantiate(resistor, nil, map[string]any{"designator": "R1"})
	require.NoError(s.T(), err)
	res, ok := b.Child("resistance")
	require.True(s.T(), ok)

	st := solver.NewStore(b.Graph())
	require.NoError(s.T(), st.ConstrainSubset(res, ohms(900, 1100)))
	require.NoError(s.T(), st.ConstrainSubset(res, ohms(2000, 3000)),
		"recording keeps accepting; the contradiction surfaces at Simplify")
	require.Equal(s.T(), solver.Contradiction, st.State(res))

	_, err = st.Simplify()
	require.ErrorIs(s.T(), err, solver.ErrContradiction)
	var ce *solver.ContradictionError
	require.ErrorAs(s.T(), err, &ce)
	require.Equal(s.T(), []core.NodeID{res}, ce.Params)
	require.Equal(s.T(), []string{"R1.resistance"}, ce.Names)

	require.Equal(s.T(), solver.Contradiction, st.State(res))
	require.True(s.T(), st.ExtractSuperset(res).IsEmpty())
}

// TestPropagationContradiction: a propagated equality that misses the
// parameter's own subset constraint empties the set and names the
// parameter.
func (s *SolverSuite) TestPropagationContradiction() {
	st := solver.NewStore(nil)
	g := st.Graph()
	a, b, x := ohmParam(g), ohmParam(g), ohmParam(g)

	require.NoError(s.T(), st.ConstrainSubset(a, ohms(1, 2)))
	require.NoError(s.T(), st.ConstrainSubset(b, ohms(3, 4)))
	require.NoError(s.T(), st.ConstrainSubset(x, ohms(10, 20)))
	require.NoError(s.T(), st.AliasIs(x, solver.Add(solver.Ref(a), solver.Ref(b))))

	_, err := st.Simplify()
	require.ErrorIs(s.T(), err, solver.ErrContradiction)
	var ce *solver.ContradictionError
	require.ErrorAs(s.T(), err, &ce)
	require.Equal(s.T(), []core.NodeID{x}, ce.Params)
	require.Equal(s.T(), solver.Contradiction, st.State(x))
}

// TestAliasClassesShareOneSet: aliased parameters narrow together, in
// both directions.
func (s *SolverSuite) TestAliasClassesShareOneSet() {
	st := solver.NewStore(nil)
	g := st.Graph()
	p, q := ohmParam(g), ohmParam(g)

	require.NoError(s.T(), st.ConstrainSubset(p, ohms(1, 10)))
	require.NoError(s.T(), st.AliasIs(q, solver.Ref(p)))

	want, err := sets.NewDisjoint(ohms(1, 10))
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(q).Equal(want), "alias adopts the class set")

	require.NoError(s.T(), st.ConstrainSubset(q, ohms(5, 20)))
	narrowed, err := sets.NewDisjoint(ohms(5, 10))
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(p).Equal(narrowed), "narrowing flows back through the class")
	require.Equal(s.T(), solver.Narrowed, st.State(p))
	require.Equal(s.T(), solver.Narrowed, st.State(q))
}

// TestAliasContradictionNamesBothParameters: aliasing two parameters with
// disjoint sets empties the merged class and names both.
func (s *SolverSuite) TestAliasContradictionNamesBothParameters() {
	st := solver.NewStore(nil)
	g := st.Graph()
	p, q := ohmParam(g), ohmParam(g)

	require.NoError(s.T(), st.ConstrainSubset(p, ohms(1, 2)))
	require.NoError(s.T(), st.ConstrainSubset(q, ohms(5, 6)))
	require.NoError(s.T(), st.AliasIs(p, solver.Ref(q)))

	_, err := st.Simplify()
	var ce *solver.ContradictionError
	require.ErrorAs(s.T(), err, &ce)
	require.ElementsMatch(s.T(), []core.NodeID{p, q}, ce.Params)
}

// TestIdentityFoldingDropsNeutralOperands: x = a + 0 folds to x = a
// before evaluation; the dimensionless zero would otherwise fail the
// unit check against ohms, so success proves the rewrite ran.
func (s *SolverSuite) TestIdentityFoldingDropsNeutralOperands() {
	st := solver.NewStore(nil)
	g := st.Graph()
	a, x, y := ohmParam(g), ohmParam(g), ohmParam(g)

	zero, err := sets.Discrete(units.Dimensionless, 0)
	require.NoError(s.T(), err)
	one, err := sets.Discrete(units.Dimensionless, 1)
	require.NoError(s.T(), err)

	require.NoError(s.T(), st.ConstrainSubset(a, ohms(5, 6)))
	require.NoError(s.T(), st.AliasIs(x, solver.Add(solver.Ref(a), solver.Lit(zero))))
	require.NoError(s.T(), st.AliasIs(y, solver.Mul(solver.Ref(a), solver.Lit(one))))

	rep, err := st.Simplify()
	require.NoError(s.T(), err)
	require.GreaterOrEqual(s.T(), rep.Folded, 2, "both identities must fold away")

	want, err := sets.NewDisjoint(ohms(5, 6))
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(x).Equal(want))
	require.True(s.T(), st.ExtractSuperset(y).Equal(want))
}

// TestConstantFolding: literal-only subtrees collapse in phase 1 and
// nested sums flatten.
func (s *SolverSuite) TestConstantFolding() {
	st := solver.NewStore(nil)
	g := st.Graph()
	x, w := ohmParam(g), g.CreateNode()
	a, b, c := g.CreateNode(), g.CreateNode(), g.CreateNode()

	require.NoError(s.T(), st.AliasIs(x, solver.Sub(solver.Lit(ohms(10, 10).AsDisjoint()), solver.Lit(ohms(1, 2).AsDisjoint()))))

	require.NoError(s.T(), st.ConstrainSubset(a, plain(1, 1)))
	require.NoError(s.T(), st.ConstrainSubset(b, plain(2, 2)))
	require.NoError(s.T(), st.ConstrainSubset(c, plain(3, 3)))
	require.NoError(s.T(), st.AliasIs(w, solver.Add(solver.Add(solver.Ref(a), solver.Ref(b)), solver.Ref(c))))

	rep, err := st.Simplify()
	require.NoError(s.T(), err)
	require.GreaterOrEqual(s.T(), rep.Folded, 2, "Sub of literals folds, nested Add flattens")

	wantX, err := sets.NewDisjoint(ohms(8, 9))
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(x).Equal(wantX))

	wantW, err := sets.NewDisjoint(plain(6, 6))
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(w).Equal(wantW))
	require.Equal(s.T(), solver.Resolved, st.State(w))
}

// TestPredicateResolution: phase 3 proves what the supersets decide and
// leaves the rest unknown.
func (s *SolverSuite) TestPredicateResolution() {
	st := solver.NewStore(nil)
	g := st.Graph()
	r := ohmParam(g)
	require.NoError(s.T(), st.ConstrainSubset(r, ohms(950, 1050)))

	require.NoError(s.T(), st.Record("floor", solver.GE(r, 900, units.Ohm)))
	require.NoError(s.T(), st.Record("midpoint", solver.LE(r, 1000, units.Ohm)))
	require.NoError(s.T(), st.Record("oversized", solver.GE(r, 2000, units.Ohm)))

	rep, err := st.Simplify()
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, rep.Proven)
	require.Equal(s.T(), []string{"midpoint"}, rep.Unknown)

	out, ok := st.Outcome("floor")
	require.True(s.T(), ok)
	require.Equal(s.T(), solver.OutcomeTrue, out)
	out, ok = st.Outcome("oversized")
	require.True(s.T(), ok)
	require.Equal(s.T(), solver.OutcomeFalse, out)
	out, ok = st.Outcome("midpoint")
	require.True(s.T(), ok)
	require.Equal(s.T(), solver.OutcomeUnknown, out)

	_, ok = st.Outcome("never-recorded")
	require.False(s.T(), ok)
}

// TestTerminalAdoptionStampsValues: only a Terminal pass writes AttrValue,
// and it stamps every member of a resolved alias class.
func (s *SolverSuite) TestTerminalAdoptionStampsValues() {
	st := solver.NewStore(nil)
	g := st.Graph()
	p, q := ohmParam(g), ohmParam(g)

	require.NoError(s.T(), st.AliasIs(q, solver.Ref(p)))
	require.NoError(s.T(), st.AliasIs(p, solver.Lit(ohms(1000, 1000).AsDisjoint())))
	require.Equal(s.T(), solver.Resolved, st.State(p))
	require.Equal(s.T(), solver.Resolved, st.State(q))

	rep, err := st.Simplify()
	require.NoError(s.T(), err)
	require.False(s.T(), rep.Terminal)
	_, ok := g.Attr(p, solver.AttrValue)
	require.False(s.T(), ok, "ordinary passes never stamp values")

	rep, err = st.Simplify(solver.Terminal())
	require.NoError(s.T(), err)
	require.True(s.T(), rep.Terminal)
	for _, param := range []core.NodeID{p, q} {
		v, ok := g.Attr(param, solver.AttrValue)
		require.True(s.T(), ok)
		require.Equal(s.T(), 1000.0, v)
	}
}

// TestTimeoutRestoresNarrowingState: every budget too small to converge
// fails ErrSolverTimeout and rolls the store back; a large enough budget
// succeeds with the same narrowing an unbounded call produces.
func (s *SolverSuite) TestTimeoutRestoresNarrowingState() {
	st := solver.NewStore(nil)
	g := st.Graph()
	a, b, x := ohmParam(g), ohmParam(g), ohmParam(g)
	require.NoError(s.T(), st.ConstrainSubset(a, ohms(1, 2)))
	require.NoError(s.T(), st.ConstrainSubset(b, ohms(3, 4)))
	require.NoError(s.T(), st.AliasIs(x, solver.Add(solver.Ref(a), solver.Ref(b))))

	want, err := sets.NewDisjoint(ohms(4, 6))
	require.NoError(s.T(), err)

	for budget := 1; ; budget++ {
		require.Less(s.T(), budget, 100, "converges within a small budget")
		rep, err := st.Simplify(solver.WithStepBudget(budget))
		if err == nil {
			require.True(s.T(), st.ExtractSuperset(x).Equal(want))
			require.Positive(s.T(), rep.Steps)

			break
		}
		require.ErrorIs(s.T(), err, solver.ErrSolverTimeout)
		require.True(s.T(), st.ExtractSuperset(x).Equal(sets.Universal(units.Ohm)),
			"budget %d: timeout must restore the pre-call state", budget)
		require.Equal(s.T(), solver.Unconstrained, st.State(x))
	}
}

// TestCancelledContextFailsTimeout: cancellation is the same resource
// failure as budget exhaustion, distinct from contradiction.
func (s *SolverSuite) TestCancelledContextFailsTimeout() {
	st := solver.NewStore(nil)
	g := st.Graph()
	a, x := ohmParam(g), ohmParam(g)
	require.NoError(s.T(), st.ConstrainSubset(a, ohms(1, 2)))
	require.NoError(s.T(), st.AliasIs(x, solver.Add(solver.Ref(a), solver.Lit(ohms(1, 1).AsDisjoint()))))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.Simplify(solver.WithContext(ctx))
	require.ErrorIs(s.T(), err, solver.ErrSolverTimeout)
	require.False(s.T(), errors.Is(err, solver.ErrContradiction))
	require.Equal(s.T(), solver.Unconstrained, st.State(x))
}

// TestDivisionByZeroSurfaces: a zero-spanning divisor fails evaluation
// with the sets error, not a silent skip.
func (s *SolverSuite) TestDivisionByZeroSurfaces() {
	st := solver.NewStore(nil)
	g := st.Graph()
	a, x := g.CreateNode(), g.CreateNode()
	require.NoError(s.T(), st.ConstrainSubset(a, plain(-1, 1)))
	require.NoError(s.T(), st.AliasIs(x, solver.Div(solver.Lit(plain(1, 1).AsDisjoint()), solver.Ref(a))))

	_, err := st.Simplify()
	require.ErrorIs(s.T(), err, sets.ErrDivisionByZeroInSet)
}

// TestScopeRestrictsPhases: a scoped Simplify propagates only rules whose
// parameter lives under the scope root.
func (s *SolverSuite) TestScopeRestrictsPhases() {
	st := solver.NewStore(nil)
	g := st.Graph()
	rootA, rootB := g.CreateNode(), g.CreateNode()
	pa, pb := g.CreateNode(), g.CreateNode()
	xa, xb := g.CreateNode(), g.CreateNode()
	for _, e := range []struct {
		parent, child core.NodeID
		name          string
	}{
		{rootA, pa, "p"}, {rootA, xa, "sum"},
		{rootB, pb, "p"}, {rootB, xb, "sum"},
	} {
		_, err := g.AddEdge(core.Composition, e.parent, e.child, core.WithName(e.name))
		require.NoError(s.T(), err)
	}

	one, err := sets.Discrete(units.Dimensionless, 1)
	require.NoError(s.T(), err)
	require.NoError(s.T(), st.ConstrainSubset(pa, plain(1, 2)))
	require.NoError(s.T(), st.ConstrainSubset(pb, plain(1, 2)))
	require.NoError(s.T(), st.AliasIs(xa, solver.Add(solver.Ref(pa), solver.Lit(one))))
	require.NoError(s.T(), st.AliasIs(xb, solver.Add(solver.Ref(pb), solver.Lit(one))))

	_, err = st.Simplify(solver.WithScope(rootA))
	require.NoError(s.T(), err)

	want, err := sets.NewDisjoint(plain(2, 3))
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(xa).Equal(want))
	require.Equal(s.T(), solver.Unconstrained, st.State(xb), "out-of-scope rule must not run")

	// An unscoped pass then catches the rest up.
	_, err = st.Simplify()
	require.NoError(s.T(), err)
	require.True(s.T(), st.ExtractSuperset(xb).Equal(want))
}

// TestPartPickerFlow: narrow a resistance, probe the preferred-value
// series, commit the only candidate, adopt it terminally.
func (s *SolverSuite) TestPartPickerFlow() {
	tg := typegraph.New()
	resistor := declareResistor(s.T(), tg)
	b, err := tg.Instantiate(resistor, nil, map[string]any{"designator": "R1"})
	require.NoError(s.T(), err)
	res, ok := b.Child("resistance")
	require.True(s.T(), ok)

	st := solver.NewStore(b.Graph())
	require.NoError(s.T(), st.ConstrainSubset(res, ohms(900, 1100)))

	// No E12 value sits in [1010, 1090]: the probe must refuse.
	none, err := eseries.Candidates(eseries.E12, ohms(1010, 1090))
	require.NoError(s.T(), err)
	err = st.TryFulfill(solver.SubsetOf(res, none))
	require.ErrorIs(s.T(), err, solver.ErrContradiction)
	require.Equal(s.T(), solver.Narrowed, st.State(res), "failed probe leaves the store untouched")

	// Exactly 1 kΩ fits [900, 1100]; probe, then commit.
	cands, err := eseries.Candidates(eseries.E12, ohms(900, 1100))
	require.NoError(s.T(), err)
	require.NoError(s.T(), st.TryFulfill(solver.SubsetOf(res, cands)))
	require.Equal(s.T(), solver.Narrowed, st.State(res), "speculation must not commit")

	require.NoError(s.T(), st.TryFulfill(solver.SubsetOf(res, cands), solver.Lock()))
	require.Equal(s.T(), solver.Resolved, st.State(res))

	_, err = st.Simplify(solver.Terminal())
	require.NoError(s.T(), err)
	v, ok := b.Graph().Attr(res, solver.AttrValue)
	require.True(s.T(), ok)
	require.Equal(s.T(), 1000.0, v)
}

// TestEmptyStoreConverges: nothing recorded, one clean iteration.
func (s *SolverSuite) TestEmptyStoreConverges() {
	st := solver.NewStore(nil)
	rep, err := st.Simplify()
	require.NoError(s.T(), err)
	require.Equal(s.T(), 1, rep.Iterations)
	require.Zero(s.T(), rep.Steps)
	require.Empty(s.T(), rep.Unknown)
}
