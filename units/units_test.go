package units_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netlith/netlith/units"
)

func TestCompatibleIgnoresScale(t *testing.T) {
	require.True(t, units.Ohm.Compatible(units.Kilo(units.Ohm)))
	require.True(t, units.Kilo(units.Ohm).Compatible(units.Milli(units.Ohm)))
	require.False(t, units.Ohm.Compatible(units.Volt))
	require.True(t, units.Dimensionless.Compatible(units.Percent))
}

func TestDerivedDimensions(t *testing.T) {
	// Ohm's law: V / A = Ω.
	require.Equal(t, units.Ohm.Dim, units.Volt.Div(units.Ampere).Dim)
	// RC time constant: Ω · F = s.
	require.Equal(t, units.Second.Dim, units.Ohm.Mul(units.Farad).Dim)
	// Power: V · A = W.
	require.Equal(t, units.Watt.Dim, units.Volt.Mul(units.Ampere).Dim)
	// Frequency inverts time.
	require.Equal(t, units.Hertz.Dim, units.Dimensionless.Div(units.Second).Dim)
}

func TestPrefixScale(t *testing.T) {
	kOhm := units.Kilo(units.Ohm)
	require.Equal(t, 1e3, kOhm.Scale)
	require.Equal(t, "kΩ", kOhm.Symbol)
	require.Equal(t, "Ω", kOhm.Canon)
	require.Equal(t, units.Ohm, kOhm.Base())

	nF := units.Nano(units.Farad)
	require.InEpsilon(t, 1e-9, nF.Scale, 1e-12)
}

func TestDimensionAlgebra(t *testing.T) {
	d := units.Ohm.Dim
	require.True(t, d.Mul(d.Pow(-1)).IsZero())
	require.Equal(t, d.Mul(d), d.Pow(2))
	require.Equal(t, "kg·m^2·s^-3·A^-2", d.String())
	require.Equal(t, "1", units.Dimension{}.String())
}

func TestUnitStrings(t *testing.T) {
	require.Equal(t, "Ω", units.Ohm.String())
	require.Equal(t, "", units.Dimensionless.String())
	require.Equal(t, "V/A", units.Volt.Div(units.Ampere).String())
	require.Equal(t, "1/s", units.Dimensionless.Div(units.Second).String())
}

func TestByName(t *testing.T) {
	for name, want := range map[string]units.Unit{
		"ohm":  units.Ohm,
		"Ohm":  units.Ohm,
		"Ω":    units.Ohm,
		"volt": units.Volt,
		"V":    units.Volt,
		"Hz":   units.Hertz,
		"%":    units.Percent,
		"":     units.Dimensionless,
	} {
		got, ok := units.ByName(name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}

	_, ok := units.ByName("parsec")
	require.False(t, ok)
}
