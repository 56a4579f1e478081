package eseries_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netlith/netlith/eseries"
	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/units"
)

func TestSeriesTables(t *testing.T) {
	require.Len(t, eseries.E3.Mantissas(), 3)
	require.Len(t, eseries.E6.Mantissas(), 6)
	require.Len(t, eseries.E12.Mantissas(), 12)
	require.Len(t, eseries.E24.Mantissas(), 24)
	require.Len(t, eseries.E48.Mantissas(), 48)
	require.Len(t, eseries.E96.Mantissas(), 96)
	require.Len(t, eseries.E192.Mantissas(), 192)

	require.Equal(t, "E24", eseries.E24.Name())

	// The classic 10% decade.
	require.Equal(t,
		[]float64{1.0, 1.2, 1.5, 1.8, 2.2, 2.7, 3.3, 3.9, 4.7, 5.6, 6.8, 8.2},
		eseries.E12.Mantissas())

	// Mantissas returns a copy: mutating it must not corrupt the table.
	m := eseries.E12.Mantissas()
	m[0] = 99
	require.Equal(t, 1.0, eseries.E12.Mantissas()[0])
}

func TestE192CarriesTheStandardsAnomaly(t *testing.T) {
	// IEC 60063 lists 9.20 where the pure geometric formula gives 9.19.
	m := eseries.E192.Mantissas()
	require.Equal(t, 9.20, m[185])
	require.NotContains(t, m, 9.19)
}

func TestE96NestsInE192(t *testing.T) {
	in192 := make(map[float64]bool, 192)
	for _, v := range eseries.E192.Mantissas() {
		in192[v] = true
	}
	for _, v := range eseries.E96.Mantissas() {
		require.Truef(t, in192[v], "E96 value %g missing from E192", v)
	}
}

func TestCandidatesWithinDecade(t *testing.T) {
	iv := sets.MustInterval(200, 500, units.Ohm)

	got, err := eseries.Candidates(eseries.E12, iv)
	require.NoError(t, err)

	want, err := sets.Discrete(units.Ohm, 220, 270, 330, 390, 470)
	require.NoError(t, err)
	require.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestCandidatesAcrossDecades(t *testing.T) {
	iv := sets.MustInterval(80, 130, units.Ohm)

	got, err := eseries.Candidates(eseries.E12, iv)
	require.NoError(t, err)

	want, err := sets.Discrete(units.Ohm, 82, 100, 120)
	require.NoError(t, err)
	require.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestCandidatesNormalizesScaledUnits(t *testing.T) {
	// [0.2, 0.5] kΩ is [200, 500] Ω after construction.
	iv := sets.MustInterval(0.2, 0.5, units.Kilo(units.Ohm))

	got, err := eseries.Candidates(eseries.E12, iv)
	require.NoError(t, err)
	require.True(t, got.Contains(220.0))
	require.True(t, got.Contains(470.0))
	require.False(t, got.Contains(560.0))
}

func TestCandidatesIncludesExactBounds(t *testing.T) {
	iv := sets.MustInterval(220, 470, units.Ohm)

	got, err := eseries.Candidates(eseries.E12, iv)
	require.NoError(t, err)
	require.True(t, got.Contains(220.0))
	require.True(t, got.Contains(470.0))
}

func TestCandidatesEmptyWhenNoPreferredValueFits(t *testing.T) {
	// E3 jumps 220 -> 470; nothing lands in [230, 460].
	iv := sets.MustInterval(230, 460, units.Ohm)

	got, err := eseries.Candidates(eseries.E3, iv)
	require.NoError(t, err)
	require.True(t, got.IsEmpty())
}

func TestCandidatesRejectsUnboundedRanges(t *testing.T) {
	for _, iv := range []sets.Interval{
		sets.MustInterval(0, 100, units.Ohm),
		sets.MustInterval(-5, 100, units.Ohm),
		sets.MustInterval(math.Inf(-1), 100, units.Ohm),
		sets.MustInterval(100, math.Inf(+1), units.Ohm),
		sets.UniversalInterval(units.Ohm),
	} {
		_, err := eseries.Candidates(eseries.E24, iv)
		require.ErrorIs(t, err, eseries.ErrUnboundedRange, "interval %s", iv)
	}
}

func TestClosestTo(t *testing.T) {
	tests := []struct {
		name   string
		series eseries.Series
		in     float64
		want   float64
	}{
		{"exact hit", eseries.E12, 470, 470},
		{"rounds down", eseries.E24, 3140, 3000},
		{"rounds up", eseries.E12, 5000, 4700},
		{"small values", eseries.E12, 0.00145, 0.0015},
		{"decade boundary up", eseries.E12, 9.9, 10},
		{"decade boundary down", eseries.E24, 0.95, 0.91},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := eseries.ClosestTo(tc.series, tc.in)
			require.NoError(t, err)
			require.InEpsilon(t, tc.want, got, 1e-9)
		})
	}
}

func TestClosestToRejectsBadValues(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(+1)} {
		_, err := eseries.ClosestTo(eseries.E24, v)
		require.ErrorIs(t, err, eseries.ErrBadValue)
	}
}
