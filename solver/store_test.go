package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netlith/netlith/core"
	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/solver"
	"github.com/netlith/netlith/units"
)

func TestNewStoreNilGraph(t *testing.T) {
	st := solver.NewStore(nil)
	require.NotNil(t, st.Graph(), "nil graph gets a private one")

	p := st.Graph().CreateNode()
	require.NoError(t, st.ConstrainSubset(p, sets.MustInterval(1, 2, units.Dimensionless)))
}

func TestConstrainSubsetValidation(t *testing.T) {
	st := solver.NewStore(nil)
	p := st.Graph().CreateNode()

	require.ErrorIs(t, st.ConstrainSubset(p, nil), solver.ErrNilSet)
	require.ErrorIs(t, st.ConstrainSubset("ghost", sets.MustInterval(1, 2, units.Ohm)),
		solver.ErrParamNotFound)
}

func TestStateMachine(t *testing.T) {
	st := solver.NewStore(nil)
	p := ohmParam(st.Graph())

	require.Equal(t, solver.Unconstrained, st.State(p))

	require.NoError(t, st.ConstrainSubset(p, ohms(1, 100)))
	require.Equal(t, solver.Narrowed, st.State(p))

	require.NoError(t, st.ConstrainSubset(p, ohms(47, 47)))
	require.Equal(t, solver.Resolved, st.State(p))

	require.NoError(t, st.ConstrainSubset(p, ohms(100, 200)))
	require.Equal(t, solver.Contradiction, st.State(p))
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "unconstrained", solver.Unconstrained.String())
	require.Equal(t, "narrowed", solver.Narrowed.String())
	require.Equal(t, "resolved", solver.Resolved.String())
	require.Equal(t, "contradiction", solver.Contradiction.String())
	require.Equal(t, "unknown", solver.OutcomeUnknown.String())
	require.Equal(t, "true", solver.OutcomeTrue.String())
	require.Equal(t, "false", solver.OutcomeFalse.String())
}

func TestExtractSupersetUnits(t *testing.T) {
	st := solver.NewStore(nil)
	g := st.Graph()

	withUnit := g.CreateNode(core.WithNodeAttr(solver.AttrUnit, "volt"))
	bare := g.CreateNode()
	exotic := g.CreateNode(core.WithNodeAttr(solver.AttrUnit, "parsec"))

	require.True(t, st.ExtractSuperset(withUnit).Equal(sets.Universal(units.Volt)))
	require.True(t, st.ExtractSuperset(bare).Equal(sets.Universal(units.Dimensionless)))
	require.True(t, st.ExtractSuperset(exotic).Equal(sets.Universal(units.Dimensionless)),
		"unknown unit names degrade to dimensionless")
	require.True(t, st.ExtractSuperset("ghost").Equal(sets.Universal(units.Dimensionless)),
		"extraction never fails, even for unknown nodes")
}

// TestExtractSupersetMonotone: each accepted constraint may only shrink
// the admissible set.
func TestExtractSupersetMonotone(t *testing.T) {
	st := solver.NewStore(nil)
	p := ohmParam(st.Graph())

	prev := st.ExtractSuperset(p)
	for _, iv := range []sets.Interval{ohms(1, 1e6), ohms(100, 5000), ohms(900, 1100)} {
		require.NoError(t, st.ConstrainSubset(p, iv))
		cur, ok := st.ExtractSuperset(p).(*sets.DisjointIntervals)
		require.True(t, ok)
		require.True(t, cur.SubsetOf(prev.(*sets.DisjointIntervals)))
		prev = cur
	}
}

// TestDeclaredUnitGuardsConstraints: the first numeric constraint lands
// against the declared-unit universal, so a wrong-dimension set empties
// the parameter instead of silently adopting.
func TestDeclaredUnitGuardsConstraints(t *testing.T) {
	st := solver.NewStore(nil)
	p := ohmParam(st.Graph())

	require.NoError(t, st.ConstrainSubset(p, sets.MustInterval(1, 2, units.Volt)))
	require.Equal(t, solver.Contradiction, st.State(p))
}

func TestKindMismatchLeavesStoreUntouched(t *testing.T) {
	st := solver.NewStore(nil)
	p := st.Graph().CreateNode()
	require.NoError(t, st.ConstrainSubset(p, sets.MustInterval(1, 2, units.Dimensionless)))

	err := st.ConstrainSubset(p, sets.NewEnumSet("Polarity", "positive"))
	require.ErrorIs(t, err, sets.ErrSetKindMismatch)

	require.Equal(t, solver.Narrowed, st.State(p), "rejected constraint must not touch state")
	require.Len(t, st.ConstraintsOf(p), 1, "rejected constraint must not be recorded")
}

func TestEnumNarrowing(t *testing.T) {
	st := solver.NewStore(nil)
	p := st.Graph().CreateNode()

	require.NoError(t, st.ConstrainSubset(p, sets.NewEnumSet("Polarity", "positive", "negative")))
	require.Equal(t, solver.Narrowed, st.State(p))

	require.NoError(t, st.ConstrainSubset(p, sets.NewEnumSet("Polarity", "positive")))
	require.Equal(t, solver.Resolved, st.State(p))

	_, err := st.Simplify(solver.Terminal())
	require.NoError(t, err)
	v, ok := st.Graph().Attr(p, solver.AttrValue)
	require.True(t, ok)
	require.Equal(t, "positive", v)
}

// TestConstraintMaterialization: every accepted constraint leaves a
// declarative record in the graph: a relation node with ordered operand
// edges, and literals pointing back at their constraint.
func TestConstraintMaterialization(t *testing.T) {
	st := solver.NewStore(nil)
	g := st.Graph()
	p := ohmParam(g)

	require.NoError(t, st.ConstrainSubset(p, ohms(1, 100)))
	require.NoError(t, st.ConstrainSubset(p, ohms(10, 50)))

	cons := st.ConstraintsOf(p)
	require.Len(t, cons, 2)

	for _, c := range cons {
		rel, ok := g.Attr(c, solver.AttrRel)
		require.True(t, ok)
		require.Equal(t, solver.RelSubset, rel)

		var operands []*core.Edge
		for e := range g.EdgesOf(c, core.Operand, core.Outgoing) {
			operands = append(operands, e)
		}
		require.Len(t, operands, 2)

		var param, lit core.NodeID
		for _, e := range operands {
			switch e.Order {
			case 0:
				param = e.To
			case 1:
				lit = e.To
			}
		}
		require.Equal(t, p, param)

		_, ok = g.Attr(lit, solver.AttrLit)
		require.True(t, ok, "second operand holds the literal")

		var back []*core.Edge
		for e := range g.EdgesOf(lit, core.Pointer, core.Outgoing) {
			back = append(back, e)
		}
		require.Len(t, back, 1)
		require.Equal(t, c, back[0].To)
		require.Equal(t, "constrains", back[0].Name)
	}
}

func TestAliasMaterialization(t *testing.T) {
	st := solver.NewStore(nil)
	g := st.Graph()
	a, b, x := ohmParam(g), ohmParam(g), ohmParam(g)

	require.NoError(t, st.AliasIs(x, solver.Add(solver.Ref(a), solver.Ref(b))))

	cons := st.ConstraintsOf(x)
	require.Len(t, cons, 1)
	rel, ok := g.Attr(cons[0], solver.AttrRel)
	require.True(t, ok)
	require.Equal(t, solver.RelIs, rel)
}

func TestAliasIsValidation(t *testing.T) {
	st := solver.NewStore(nil)
	g := st.Graph()
	p := ohmParam(g)

	require.ErrorIs(t, st.AliasIs(p, nil), solver.ErrNilExpr)
	require.ErrorIs(t, st.AliasIs(p, solver.Add()), solver.ErrNilExpr)
	require.ErrorIs(t, st.AliasIs(p, solver.Lit(nil)), solver.ErrNilExpr)
	require.ErrorIs(t, st.AliasIs(p, solver.Ref("ghost")), solver.ErrParamNotFound)
	require.ErrorIs(t, st.AliasIs("ghost", solver.Ref(p)), solver.ErrParamNotFound)
	require.Empty(t, st.ConstraintsOf(p), "rejected aliases leave no record")
}

// TestAliasKindMismatch: merging an interval class with an enum class is
// refused up front and mutates nothing.
func TestAliasKindMismatch(t *testing.T) {
	st := solver.NewStore(nil)
	g := st.Graph()
	p, q := g.CreateNode(), g.CreateNode()
	require.NoError(t, st.ConstrainSubset(p, sets.MustInterval(1, 2, units.Dimensionless)))
	require.NoError(t, st.ConstrainSubset(q, sets.NewEnumSet("Polarity", "positive")))

	err := st.AliasIs(p, solver.Ref(q))
	require.ErrorIs(t, err, sets.ErrSetKindMismatch)

	require.Equal(t, solver.Narrowed, st.State(p))
	require.Equal(t, solver.Resolved, st.State(q))
	require.Len(t, st.ConstraintsOf(p), 1)
}

func TestRecordValidation(t *testing.T) {
	st := solver.NewStore(nil)
	p := ohmParam(st.Graph())

	require.ErrorIs(t, st.Record("broken", nil), solver.ErrNilPred)
	require.ErrorIs(t, st.Record("ghost", solver.GE("ghost", 1, units.Ohm)), solver.ErrParamNotFound)
	require.ErrorIs(t, st.Record("bad-set", solver.SubsetOf(p, nil)), solver.ErrNilSet)

	_, ok := st.Outcome("broken")
	require.False(t, ok, "rejected predicates are not recorded")
}

// TestRecordReplaces: re-recording a name forgets the previous proof.
func TestRecordReplaces(t *testing.T) {
	st := solver.NewStore(nil)
	p := ohmParam(st.Graph())
	require.NoError(t, st.ConstrainSubset(p, ohms(10, 20)))

	require.NoError(t, st.Record("bound", solver.GE(p, 5, units.Ohm)))
	_, err := st.Simplify()
	require.NoError(t, err)
	out, ok := st.Outcome("bound")
	require.True(t, ok)
	require.Equal(t, solver.OutcomeTrue, out)

	require.NoError(t, st.Record("bound", solver.GE(p, 15, units.Ohm)))
	out, ok = st.Outcome("bound")
	require.True(t, ok)
	require.Equal(t, solver.OutcomeUnknown, out, "replacement resets the outcome")
}

// TestContradictionNameFallback: parameters outside any ownership tree
// are named by their raw id.
func TestContradictionNameFallback(t *testing.T) {
	st := solver.NewStore(nil)
	p := ohmParam(st.Graph())
	require.NoError(t, st.ConstrainSubset(p, ohms(1, 2)))
	require.NoError(t, st.ConstrainSubset(p, ohms(5, 6)))

	_, err := st.Simplify()
	var ce *solver.ContradictionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, []string{string(p)}, ce.Names)
}

func TestSolveOptionViolations(t *testing.T) {
	st := solver.NewStore(nil)

	_, err := st.Simplify(solver.WithStepBudget(-1))
	require.ErrorIs(t, err, solver.ErrOptionViolation)

	_, err = st.Simplify(solver.WithScope(""))
	require.ErrorIs(t, err, solver.ErrOptionViolation)

	_, err = st.Simplify(solver.WithContext(nil)) //nolint:staticcheck // nil keeps the default
	require.NoError(t, err)
}
