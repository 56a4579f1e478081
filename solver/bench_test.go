package solver_test

import (
	"testing"

	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/solver"
	"github.com/netlith/netlith/units"
)

// BenchmarkSimplify measures one propagation sweep over a chain of 64
// summed parameters.
func BenchmarkSimplify(b *testing.B) {
	st := solver.NewStore(nil) // pre-build the constraint store once
	g := st.Graph()
	prev := g.CreateNode()
	if err := st.ConstrainSubset(prev, sets.MustInterval(1, 2, units.Dimensionless)); err != nil {
		b.Fatal(err)
	}
	step := sets.MustInterval(1, 1, units.Dimensionless)
	for i := 0; i < 64; i++ {
		next := g.CreateNode()
		if err := st.AliasIs(next, solver.Add(solver.Ref(prev), solver.Lit(step))); err != nil {
			b.Fatal(err)
		}
		prev = next
	}
	b.ResetTimer() // reset timer to exclude store construction
	for i := 0; i < b.N; i++ {
		if _, err := st.Simplify(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTryFulfill measures pure speculation against a narrowed window.
func BenchmarkTryFulfill(b *testing.B) {
	st := solver.NewStore(nil)
	r := ohmParam(st.Graph())
	if err := st.ConstrainSubset(r, sets.MustInterval(900, 1100, units.Ohm)); err != nil {
		b.Fatal(err)
	}
	pred := solver.GE(r, 1000, units.Ohm)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := st.TryFulfill(pred); err != nil {
			b.Fatal(err)
		}
	}
}
