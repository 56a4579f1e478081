// Package units provides SI dimension vectors and scaled unit symbols for
// the parameter domain.
//
// A Dimension is the exponent vector over the seven SI base quantities; a
// Unit pairs a dimension with a scale factor to base units and a display
// symbol. Units with equal dimensions are Compatible regardless of scale,
// so kΩ and Ω meet in the same algebra. All value normalization (scaling
// to base) happens in package sets; this package only describes units.
package units

import (
	"fmt"
	"strings"
)

// Dimension is the exponent vector over the SI base quantities.
// The zero value is dimensionless.
type Dimension struct {
	Length      int8 // metre
	Mass        int8 // kilogram
	Time        int8 // second
	Current     int8 // ampere
	Temperature int8 // kelvin
	Amount      int8 // mole
	Luminosity  int8 // candela
}

// Mul returns the dimension of a product: exponents add.
func (d Dimension) Mul(o Dimension) Dimension {
	return Dimension{
		Length:      d.Length + o.Length,
		Mass:        d.Mass + o.Mass,
		Time:        d.Time + o.Time,
		Current:     d.Current + o.Current,
		Temperature: d.Temperature + o.Temperature,
		Amount:      d.Amount + o.Amount,
		Luminosity:  d.Luminosity + o.Luminosity,
	}
}

// Div returns the dimension of a quotient: exponents subtract.
func (d Dimension) Div(o Dimension) Dimension {
	return Dimension{
		Length:      d.Length - o.Length,
		Mass:        d.Mass - o.Mass,
		Time:        d.Time - o.Time,
		Current:     d.Current - o.Current,
		Temperature: d.Temperature - o.Temperature,
		Amount:      d.Amount - o.Amount,
		Luminosity:  d.Luminosity - o.Luminosity,
	}
}

// Pow returns the dimension raised to an integer power: exponents scale.
func (d Dimension) Pow(n int) Dimension {
	k := int8(n)

	return Dimension{
		Length:      d.Length * k,
		Mass:        d.Mass * k,
		Time:        d.Time * k,
		Current:     d.Current * k,
		Temperature: d.Temperature * k,
		Amount:      d.Amount * k,
		Luminosity:  d.Luminosity * k,
	}
}

// IsZero reports whether the dimension is dimensionless.
func (d Dimension) IsZero() bool {
	return d == Dimension{}
}

// String renders the dimension in base symbols, e.g. "kg·m^2·s^-3·A^-2".
// Dimensionless renders as "1".
func (d Dimension) String() string {
	parts := make([]string, 0, 7)
	appendAxis := func(sym string, exp int8) {
		switch {
		case exp == 0:
		case exp == 1:
			parts = append(parts, sym)
		default:
			parts = append(parts, fmt.Sprintf("%s^%d", sym, exp))
		}
	}
	appendAxis("kg", d.Mass)
	appendAxis("m", d.Length)
	appendAxis("s", d.Time)
	appendAxis("A", d.Current)
	appendAxis("K", d.Temperature)
	appendAxis("mol", d.Amount)
	appendAxis("cd", d.Luminosity)
	if len(parts) == 0 {
		return "1"
	}

	return strings.Join(parts, "·")
}

// Unit pairs a dimension with a scale to base units and a display symbol.
//
// Symbol is what the unit prints as; Canon is the symbol of the base unit
// of the same dimension (Kilo(Ohm) has Symbol "kΩ" and Canon "Ω"). Scale
// is the factor converting a value in this unit to base units.
type Unit struct {
	Symbol string
	Canon  string
	Dim    Dimension
	Scale  float64
}

// Compatible reports whether two units share a dimension (scale ignored).
func (u Unit) Compatible(v Unit) bool {
	return u.Dim == v.Dim
}

// Base returns the scale-1 base unit of u's dimension.
func (u Unit) Base() Unit {
	return Unit{Symbol: u.Canon, Canon: u.Canon, Dim: u.Dim, Scale: 1}
}

// Mul returns the product unit: dimensions add, scales multiply.
// The symbol is the joined canonical symbols; the result is base-relative
// only through its Scale.
func (u Unit) Mul(v Unit) Unit {
	sym := joinMul(u.Canon, v.Canon)

	return Unit{Symbol: sym, Canon: sym, Dim: u.Dim.Mul(v.Dim), Scale: u.Scale * v.Scale}
}

// Div returns the quotient unit: dimensions subtract, scales divide.
func (u Unit) Div(v Unit) Unit {
	sym := joinDiv(u.Canon, v.Canon)

	return Unit{Symbol: sym, Canon: sym, Dim: u.Dim.Div(v.Dim), Scale: u.Scale / v.Scale}
}

// String returns the display symbol, or the dimension rendering when the
// unit carries no symbol.
func (u Unit) String() string {
	if u.Symbol != "" {
		return u.Symbol
	}
	if u.Dim.IsZero() {
		return ""
	}

	return u.Dim.String()
}

func joinMul(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "·" + b
	}
}

func joinDiv(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return "1/" + b
	default:
		return a + "/" + b
	}
}

// Canonical base and derived units. All carry Scale 1 except Percent.
var (
	// Dimensionless is the unit of bare numbers and ratios.
	Dimensionless = Unit{Scale: 1}

	// Percent is dimensionless with scale 1/100, for tolerances.
	Percent = Unit{Symbol: "%", Scale: 0.01}

	Meter    = base("m", Dimension{Length: 1})
	Kilogram = base("kg", Dimension{Mass: 1})
	Second   = base("s", Dimension{Time: 1})
	Ampere   = base("A", Dimension{Current: 1})
	Kelvin   = base("K", Dimension{Temperature: 1})
	Mole     = base("mol", Dimension{Amount: 1})
	Candela  = base("cd", Dimension{Luminosity: 1})

	Hertz   = base("Hz", Dimension{Time: -1})
	Coulomb = base("C", Dimension{Time: 1, Current: 1})
	Volt    = base("V", Dimension{Mass: 1, Length: 2, Time: -3, Current: -1})
	Ohm     = base("Ω", Dimension{Mass: 1, Length: 2, Time: -3, Current: -2})
	Farad   = base("F", Dimension{Mass: -1, Length: -2, Time: 4, Current: 2})
	Henry   = base("H", Dimension{Mass: 1, Length: 2, Time: -2, Current: -2})
	Watt    = base("W", Dimension{Mass: 1, Length: 2, Time: -3})
)

func base(sym string, d Dimension) Unit {
	return Unit{Symbol: sym, Canon: sym, Dim: d, Scale: 1}
}

// SI prefix helpers. Each derives a new unit from u, keeping its canonical
// base symbol so values still normalize to the same base.

// Kilo scales u by 1e3.
func Kilo(u Unit) Unit { return prefixed("k", 1e3, u) }

// Mega scales u by 1e6.
func Mega(u Unit) Unit { return prefixed("M", 1e6, u) }

// Giga scales u by 1e9.
func Giga(u Unit) Unit { return prefixed("G", 1e9, u) }

// Milli scales u by 1e-3.
func Milli(u Unit) Unit { return prefixed("m", 1e-3, u) }

// Micro scales u by 1e-6.
func Micro(u Unit) Unit { return prefixed("µ", 1e-6, u) }

// Nano scales u by 1e-9.
func Nano(u Unit) Unit { return prefixed("n", 1e-9, u) }

// Pico scales u by 1e-12.
func Pico(u Unit) Unit { return prefixed("p", 1e-12, u) }

func prefixed(p string, factor float64, u Unit) Unit {
	return Unit{Symbol: p + u.Symbol, Canon: u.Canon, Dim: u.Dim, Scale: u.Scale * factor}
}

// byName maps spelled-out names and bare symbols to canonical units.
// Names are matched case-insensitively; symbols exactly.
var byName = map[string]Unit{
	"dimensionless": Dimensionless,
	"percent":       Percent,
	"%":             Percent,
	"meter":         Meter,
	"metre":         Meter,
	"m":             Meter,
	"kilogram":      Kilogram,
	"kg":            Kilogram,
	"second":        Second,
	"s":             Second,
	"ampere":        Ampere,
	"amp":           Ampere,
	"A":             Ampere,
	"kelvin":        Kelvin,
	"K":             Kelvin,
	"mole":          Mole,
	"mol":           Mole,
	"candela":       Candela,
	"cd":            Candela,
	"hertz":         Hertz,
	"Hz":            Hertz,
	"coulomb":       Coulomb,
	"C":             Coulomb,
	"volt":          Volt,
	"V":             Volt,
	"ohm":           Ohm,
	"Ω":             Ohm,
	"farad":         Farad,
	"F":             Farad,
	"henry":         Henry,
	"H":             Henry,
	"watt":          Watt,
	"W":             Watt,
}

// ByName resolves a unit from its spelled-out name ("ohm", "volt") or its
// symbol ("Ω", "V"). Symbol lookup is exact; name lookup is
// case-insensitive. The empty string resolves to Dimensionless.
func ByName(name string) (Unit, bool) {
	if name == "" {
		return Dimensionless, true
	}
	if u, ok := byName[name]; ok {
		return u, true
	}
	u, ok := byName[strings.ToLower(name)]

	return u, ok
}
