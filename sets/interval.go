package sets

import (
	"fmt"
	"math"

	"github.com/netlith/netlith/units"
)

// Interval is a closed numeric interval [Min, Max] in base units of Unit.
// Bounds may be ±Inf, but at least one point must be admissible: min = +Inf
// and max = -Inf are rejected at construction. An Interval is never empty;
// the empty numeric set is a DisjointIntervals with no members.
type Interval struct {
	Min  float64
	Max  float64
	Unit units.Unit
}

// NewInterval builds the closed interval [min, max] expressed in unit.
// Values are normalized to base units (min and max are multiplied by
// unit.Scale; the stored unit is unit.Base()).
//
// Returns ErrInvalidInterval when a bound is NaN, min > max, min = +Inf,
// or max = -Inf.
func NewInterval(min, max float64, unit units.Unit) (Interval, error) {
	// 1) Reject NaN bounds outright.
	if math.IsNaN(min) || math.IsNaN(max) {
		return Interval{}, fmt.Errorf("%w: NaN bound", ErrInvalidInterval)
	}
	// 2) Bounds must be ordered.
	if min > max {
		return Interval{}, fmt.Errorf("%w: min %g > max %g", ErrInvalidInterval, min, max)
	}
	// 3) An interval pinned entirely at one infinity has no admissible value.
	if math.IsInf(min, +1) || math.IsInf(max, -1) {
		return Interval{}, fmt.Errorf("%w: bound at wrong infinity", ErrInvalidInterval)
	}
	// 4) Normalize to base units. Infinities survive scaling unchanged.
	return Interval{Min: scaleToBase(min, unit), Max: scaleToBase(max, unit), Unit: unit.Base()}, nil
}

// MustInterval is NewInterval for statically known bounds; it panics on
// invalid input. Intended for tests and literal tables.
func MustInterval(min, max float64, unit units.Unit) Interval {
	iv, err := NewInterval(min, max, unit)
	if err != nil {
		panic(err)
	}

	return iv
}

// Singleton returns the degenerate interval [v, v] in unit.
func Singleton(v float64, unit units.Unit) (Interval, error) {
	return NewInterval(v, v, unit)
}

// UniversalInterval returns [-Inf, +Inf] in unit: every value admissible.
func UniversalInterval(unit units.Unit) Interval {
	return Interval{Min: math.Inf(-1), Max: math.Inf(+1), Unit: unit.Base()}
}

// FromCenter returns [center-pm, center+pm] in unit: the absolute-tolerance
// interval of a nominal value.
func FromCenter(center, pm float64, unit units.Unit) (Interval, error) {
	if math.IsNaN(pm) || pm < 0 {
		return Interval{}, fmt.Errorf("%w: negative tolerance %g", ErrInvalidInterval, pm)
	}

	return NewInterval(center-pm, center+pm, unit)
}

// FromCenterRel returns [center·(1-rel), center·(1+rel)] in unit: the
// relative-tolerance interval of a nominal value (rel = 0.05 for ±5%).
func FromCenterRel(center, rel float64, unit units.Unit) (Interval, error) {
	if math.IsNaN(rel) || rel < 0 {
		return Interval{}, fmt.Errorf("%w: negative relative tolerance %g", ErrInvalidInterval, rel)
	}
	lo, hi := center*(1-rel), center*(1+rel)
	if lo > hi { // negative center flips the bounds
		lo, hi = hi, lo
	}

	return NewInterval(lo, hi, unit)
}

func scaleToBase(v float64, unit units.Unit) float64 {
	if math.IsInf(v, 0) {
		return v
	}

	return v * unit.Scale
}

// IsSingleton reports whether the interval admits exactly one value.
func (iv Interval) IsSingleton() bool { return iv.Min == iv.Max }

// ContainsValue reports v ∈ [Min, Max], v in base units.
func (iv Interval) ContainsValue(v float64) bool {
	return !math.IsNaN(v) && iv.Min <= v && v <= iv.Max
}

// overlapsOrTouches reports whether two intervals share at least a point
// (the normalization merge criterion).
func (iv Interval) overlapsOrTouches(o Interval) bool {
	return iv.Min <= o.Max && o.Min <= iv.Max
}

// String renders like "[900, 1100] Ω"; infinite bounds render as -Inf/+Inf.
func (iv Interval) String() string {
	if sym := iv.Unit.String(); sym != "" {
		return fmt.Sprintf("[%g, %g] %s", iv.Min, iv.Max, sym)
	}

	return fmt.Sprintf("[%g, %g]", iv.Min, iv.Max)
}

// Interval participates in the Set interface by delegating to its
// single-member DisjointIntervals form.

// AsDisjoint wraps the interval as a one-member DisjointIntervals.
func (iv Interval) AsDisjoint() *DisjointIntervals {
	return &DisjointIntervals{unit: iv.Unit, ivs: []Interval{iv}}
}

// IsEmpty implements Set; an Interval is never empty.
func (iv Interval) IsEmpty() bool { return false }

// Contains implements Set for float64 and integer kinds.
func (iv Interval) Contains(v any) bool {
	n, ok := asNumber(v)
	if !ok {
		return false
	}

	return iv.ContainsValue(n)
}

// Intersect implements Set.
func (iv Interval) Intersect(other Set) (Set, error) {
	return iv.AsDisjoint().Intersect(other)
}

// Union implements Set.
func (iv Interval) Union(other Set) (Set, error) {
	return iv.AsDisjoint().Union(other)
}

// Equal implements Set.
func (iv Interval) Equal(other Set) bool {
	return iv.AsDisjoint().Equal(other)
}
