package sets_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/units"
)

func TestNewIntervalValidation(t *testing.T) {
	_, err := sets.NewInterval(2, 1, units.Ohm)
	require.ErrorIs(t, err, sets.ErrInvalidInterval)

	_, err = sets.NewInterval(math.NaN(), 1, units.Ohm)
	require.ErrorIs(t, err, sets.ErrInvalidInterval)

	_, err = sets.NewInterval(math.Inf(+1), math.Inf(+1), units.Ohm)
	require.ErrorIs(t, err, sets.ErrInvalidInterval)

	_, err = sets.NewInterval(math.Inf(-1), math.Inf(-1), units.Ohm)
	require.ErrorIs(t, err, sets.ErrInvalidInterval)

	iv, err := sets.NewInterval(math.Inf(-1), math.Inf(+1), units.Volt)
	require.NoError(t, err)
	require.True(t, iv.ContainsValue(0))
}

func TestIntervalScalesToBase(t *testing.T) {
	iv, err := sets.NewInterval(1, 2, units.Kilo(units.Ohm))
	require.NoError(t, err)
	require.Equal(t, 1000.0, iv.Min)
	require.Equal(t, 2000.0, iv.Max)
	require.Equal(t, "Ω", iv.Unit.Symbol)

	// Same set expressed in base units compares equal.
	base := sets.MustInterval(1000, 2000, units.Ohm)
	require.True(t, iv.Equal(base))
}

func TestFromCenter(t *testing.T) {
	iv, err := sets.FromCenter(1000, 100, units.Ohm)
	require.NoError(t, err)
	require.Equal(t, 900.0, iv.Min)
	require.Equal(t, 1100.0, iv.Max)

	_, err = sets.FromCenter(1000, -1, units.Ohm)
	require.ErrorIs(t, err, sets.ErrInvalidInterval)
}

func TestFromCenterRel(t *testing.T) {
	iv, err := sets.FromCenterRel(100, 0.05, units.Ohm)
	require.NoError(t, err)
	require.Equal(t, 95.0, iv.Min)
	require.Equal(t, 105.0, iv.Max)

	// Negative nominal values keep bounds ordered.
	iv, err = sets.FromCenterRel(-100, 0.05, units.Volt)
	require.NoError(t, err)
	require.Equal(t, -105.0, iv.Min)
	require.Equal(t, -95.0, iv.Max)
}

func TestIntervalContains(t *testing.T) {
	iv := sets.MustInterval(900, 1100, units.Ohm)
	require.True(t, iv.Contains(900.0))
	require.True(t, iv.Contains(1100))
	require.True(t, iv.Contains(int64(1000)))
	require.False(t, iv.Contains(899.99))
	require.False(t, iv.Contains("1000"))
	require.False(t, iv.IsEmpty())
}

func TestSingletonAndString(t *testing.T) {
	s, err := sets.Singleton(42, units.Volt)
	require.NoError(t, err)
	require.True(t, s.IsSingleton())
	require.Equal(t, "[42, 42] V", s.String())

	u := sets.UniversalInterval(units.Dimensionless)
	require.Equal(t, "[-Inf, +Inf]", u.String())
}
