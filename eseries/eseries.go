// Package eseries provides the IEC 60063 preferred-value series (E3…E192)
// and helpers to narrow a numeric interval to the discrete preferred values
// inside it. Part pickers intersect these candidates with a parameter's
// admissible set before committing a concrete component value.
package eseries

import (
	"errors"
	"fmt"
	"math"

	"github.com/netlith/netlith/sets"
)

// Sentinel errors.
var (
	// ErrUnboundedRange is returned when asked to enumerate preferred values
	// over a range without positive finite bounds: such ranges hold
	// infinitely many candidates.
	ErrUnboundedRange = errors.New("eseries: range unbounded for discrete candidates")

	// ErrBadValue is returned for non-positive or non-finite inputs to
	// ClosestTo.
	ErrBadValue = errors.New("eseries: value must be positive and finite")
)

// Series is one preferred-value series: a name plus the mantissas covering
// one decade [1, 10).
type Series struct {
	name      string
	mantissas []float64
}

// Name returns the series designation, e.g. "E24".
func (s Series) Name() string { return s.name }

// Mantissas returns a copy of the one-decade values.
func (s Series) Mantissas() []float64 {
	out := make([]float64, len(s.mantissas))
	copy(out, s.mantissas)

	return out
}

// The classic series use two significant digits with the historic
// exceptions baked in (2.7, 3.0, 3.3, … instead of the pure geometric
// progression); E48 and up are computed, three significant digits.
var (
	E3  = Series{name: "E3", mantissas: []float64{1.0, 2.2, 4.7}}
	E6  = Series{name: "E6", mantissas: []float64{1.0, 1.5, 2.2, 3.3, 4.7, 6.8}}
	E12 = Series{name: "E12", mantissas: []float64{
		1.0, 1.2, 1.5, 1.8, 2.2, 2.7, 3.3, 3.9, 4.7, 5.6, 6.8, 8.2,
	}}
	E24 = Series{name: "E24", mantissas: []float64{
		1.0, 1.1, 1.2, 1.3, 1.5, 1.6, 1.8, 2.0, 2.2, 2.4, 2.7, 3.0,
		3.3, 3.6, 3.9, 4.3, 4.7, 5.1, 5.6, 6.2, 6.8, 7.5, 8.2, 9.1,
	}}
	E48  = computed("E48", 48)
	E96  = computed("E96", 96)
	E192 = computed("E192", 192)
)

// computed builds the three-significant-digit geometric series
// round(10^(i/n), 2). IEC 60063 lists 9.20 where the E192 formula yields
// 9.19; that entry is patched to match the standard.
func computed(name string, n int) Series {
	m := make([]float64, n)
	for i := 0; i < n; i++ {
		m[i] = math.Round(math.Pow(10, float64(i)/float64(n))*100) / 100
	}
	if n == 192 {
		m[185] = 9.20
	}

	return Series{name: name, mantissas: m}
}

// Candidates returns the preferred values of s inside iv (bounds in base
// units) as a discrete set in iv's unit. The interval must have positive
// finite bounds; anything else fails ErrUnboundedRange.
func Candidates(s Series, iv sets.Interval) (*sets.DisjointIntervals, error) {
	// 1) Only positive finite ranges enumerate to finitely many values.
	if iv.Min <= 0 || math.IsInf(iv.Max, +1) {
		return nil, fmt.Errorf("%w: %s", ErrUnboundedRange, iv)
	}
	// 2) Walk the decades the range overlaps.
	loDec := int(math.Floor(math.Log10(iv.Min)))
	hiDec := int(math.Ceil(math.Log10(iv.Max)))
	var vals []float64
	for dec := loDec; dec <= hiDec; dec++ {
		for _, m := range s.mantissas {
			v := roundSig3(m * math.Pow(10, float64(dec)))
			if iv.Min <= v && v <= iv.Max {
				vals = append(vals, v)
			}
		}
	}

	// 3) Discrete normalizes and dedupes; unit is already base.
	return sets.Discrete(iv.Unit, vals...)
}

// ClosestTo returns the preferred value of s nearest to v by relative
// error; ties resolve to the smaller value. Fails ErrBadValue for
// non-positive or non-finite v.
func ClosestTo(s Series, v float64) (float64, error) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %g", ErrBadValue, v)
	}
	dec := math.Floor(math.Log10(v))
	best, bestErr := 0.0, math.Inf(+1)
	for _, shift := range []float64{dec - 1, dec, dec + 1} {
		for _, m := range s.mantissas {
			c := roundSig3(m * math.Pow(10, shift))
			rel := math.Abs(c-v) / v
			if rel < bestErr {
				best, bestErr = c, rel
			}
		}
	}

	return best, nil
}

// roundSig3 rounds to three significant digits, washing out the float
// noise of mantissa·10^dec products so 2.2·100 is exactly 220.
func roundSig3(v float64) float64 {
	if v == 0 {
		return 0
	}
	mag := math.Floor(math.Log10(math.Abs(v)))
	scale := math.Pow(10, mag-2)

	return math.Round(v/scale) * scale
}
