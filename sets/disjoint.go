package sets

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/netlith/netlith/units"
)

// DisjointIntervals is a normalized union of closed intervals sharing one
// unit dimension: members are sorted by lower bound and pairwise separated
// (overlapping or touching members were merged by the producing operation).
// The zero-member form is the empty numeric set. Values are in base units.
type DisjointIntervals struct {
	unit units.Unit
	ivs  []Interval
}

// NewDisjoint builds a normalized set from one or more intervals. All
// intervals must share a unit dimension; returns ErrUnitMismatch otherwise.
func NewDisjoint(ivs ...Interval) (*DisjointIntervals, error) {
	if len(ivs) == 0 {
		return nil, fmt.Errorf("%w: no intervals", ErrInvalidInterval)
	}
	unit := ivs[0].Unit
	for _, iv := range ivs[1:] {
		if !iv.Unit.Compatible(unit) {
			return nil, &UnitError{Op: "disjoint union", A: unit, B: iv.Unit}
		}
	}

	return newNormalized(unit.Base(), ivs), nil
}

// Empty returns the numeric set with no admissible values in unit.
func Empty(unit units.Unit) *DisjointIntervals {
	return &DisjointIntervals{unit: unit.Base()}
}

// Universal returns [-Inf, +Inf] in unit: nothing is excluded yet.
func Universal(unit units.Unit) *DisjointIntervals {
	return UniversalInterval(unit).AsDisjoint()
}

// Discrete builds the set of isolated values (zero-width intervals),
// expressed in unit. Duplicate values collapse; NaN fails
// ErrInvalidInterval.
func Discrete(unit units.Unit, values ...float64) (*DisjointIntervals, error) {
	ivs := make([]Interval, 0, len(values))
	for _, v := range values {
		iv, err := Singleton(v, unit)
		if err != nil {
			return nil, err
		}
		ivs = append(ivs, iv)
	}

	return newNormalized(unit.Base(), ivs), nil
}

// newNormalized sorts and merges; input intervals must already share the
// dimension of unit and be base-scaled.
func newNormalized(unit units.Unit, ivs []Interval) *DisjointIntervals {
	if len(ivs) == 0 {
		return &DisjointIntervals{unit: unit}
	}
	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Min != sorted[j].Min {
			return sorted[i].Min < sorted[j].Min
		}

		return sorted[i].Max < sorted[j].Max
	})

	merged := sorted[:1]
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if last.overlapsOrTouches(next) {
			last.Max = math.Max(last.Max, next.Max)
			continue
		}
		merged = append(merged, next)
	}
	for i := range merged {
		merged[i].Unit = unit
	}

	return &DisjointIntervals{unit: unit, ivs: merged}
}

// Unit returns the base unit of the set's dimension.
func (d *DisjointIntervals) Unit() units.Unit { return d.unit }

// Intervals returns a copy of the normalized members.
func (d *DisjointIntervals) Intervals() []Interval {
	out := make([]Interval, len(d.ivs))
	copy(out, d.ivs)

	return out
}

// Min returns the least admissible bound; ok is false when empty.
func (d *DisjointIntervals) Min() (float64, bool) {
	if len(d.ivs) == 0 {
		return 0, false
	}

	return d.ivs[0].Min, true
}

// Max returns the greatest admissible bound; ok is false when empty.
func (d *DisjointIntervals) Max() (float64, bool) {
	if len(d.ivs) == 0 {
		return 0, false
	}

	return d.ivs[len(d.ivs)-1].Max, true
}

// IsSingleton reports whether exactly one value is admissible, and which.
func (d *DisjointIntervals) IsSingleton() (float64, bool) {
	if len(d.ivs) == 1 && d.ivs[0].IsSingleton() {
		return d.ivs[0].Min, true
	}

	return 0, false
}

// SubsetOf reports whether every admissible value of d is admissible in o.
// The empty set is a subset of anything; sets of different dimensions are
// never subsets (except the empty set).
func (d *DisjointIntervals) SubsetOf(o *DisjointIntervals) bool {
	if len(d.ivs) == 0 {
		return true
	}
	if !d.unit.Compatible(o.unit) {
		return false
	}
	j := 0
	for _, a := range d.ivs {
		for j < len(o.ivs) && o.ivs[j].Max < a.Min {
			j++
		}
		if j == len(o.ivs) || o.ivs[j].Min > a.Min || a.Max > o.ivs[j].Max {
			return false
		}
	}

	return true
}

// IsEmpty implements Set.
func (d *DisjointIntervals) IsEmpty() bool { return len(d.ivs) == 0 }

// Contains implements Set for float64 and integer kinds, in base units.
func (d *DisjointIntervals) Contains(v any) bool {
	n, ok := asNumber(v)
	if !ok {
		return false
	}
	for _, iv := range d.ivs {
		if iv.ContainsValue(n) {
			return true
		}
		if iv.Min > n {
			break
		}
	}

	return false
}

// Intersect implements Set. Numeric sets of different dimensions intersect
// to the empty set (there is no shared value to keep); non-numeric
// operands fail ErrSetKindMismatch.
func (d *DisjointIntervals) Intersect(other Set) (Set, error) {
	o, err := asDisjoint("intersect", d, other)
	if err != nil {
		return nil, err
	}
	if !d.unit.Compatible(o.unit) {
		return Empty(d.unit), nil
	}

	// Two-pointer sweep over both normalized member lists.
	out := make([]Interval, 0, len(d.ivs))
	i, j := 0, 0
	for i < len(d.ivs) && j < len(o.ivs) {
		lo := math.Max(d.ivs[i].Min, o.ivs[j].Min)
		hi := math.Min(d.ivs[i].Max, o.ivs[j].Max)
		if lo <= hi {
			out = append(out, Interval{Min: lo, Max: hi, Unit: d.unit})
		}
		if d.ivs[i].Max < o.ivs[j].Max {
			i++
		} else {
			j++
		}
	}

	return newNormalized(d.unit, out), nil
}

// Union implements Set. Numeric sets of different dimensions cannot be
// united into one set and fail ErrUnitMismatch.
func (d *DisjointIntervals) Union(other Set) (Set, error) {
	o, err := asDisjoint("union", d, other)
	if err != nil {
		return nil, err
	}
	if len(d.ivs) == 0 {
		return newNormalized(o.unit, o.ivs), nil
	}
	if len(o.ivs) == 0 {
		return newNormalized(d.unit, d.ivs), nil
	}
	if !d.unit.Compatible(o.unit) {
		return nil, &UnitError{Op: "union", A: d.unit, B: o.unit}
	}

	return newNormalized(d.unit, append(d.Intervals(), o.ivs...)), nil
}

// Equal implements Set: equal dimension and identical normalized bounds.
// Two empty sets are equal regardless of dimension.
func (d *DisjointIntervals) Equal(other Set) bool {
	o, err := asDisjoint("equal", d, other)
	if err != nil {
		return false
	}
	if len(d.ivs) == 0 && len(o.ivs) == 0 {
		return true
	}
	if !d.unit.Compatible(o.unit) || len(d.ivs) != len(o.ivs) {
		return false
	}
	for i := range d.ivs {
		if d.ivs[i].Min != o.ivs[i].Min || d.ivs[i].Max != o.ivs[i].Max {
			return false
		}
	}

	return true
}

// String renders like "[1, 2] ∪ [4, 5] Ω" or "∅ Ω".
func (d *DisjointIntervals) String() string {
	var b strings.Builder
	if len(d.ivs) == 0 {
		b.WriteString("∅")
	}
	for i, iv := range d.ivs {
		if i > 0 {
			b.WriteString(" ∪ ")
		}
		fmt.Fprintf(&b, "[%g, %g]", iv.Min, iv.Max)
	}
	if sym := d.unit.String(); sym != "" {
		b.WriteString(" ")
		b.WriteString(sym)
	}

	return b.String()
}

// asDisjoint coerces the numeric Set variants; anything else is a kind
// mismatch.
func asDisjoint(op string, d *DisjointIntervals, other Set) (*DisjointIntervals, error) {
	switch o := other.(type) {
	case *DisjointIntervals:
		return o, nil
	case Interval:
		return o.AsDisjoint(), nil
	default:
		return nil, kindMismatch(op, d, other)
	}
}

// Arithmetic. All operations are pairwise over members with the result
// normalized; an empty operand yields an empty result.

// Add returns the sums of all member pairs. Requires matching dimensions.
func (d *DisjointIntervals) Add(o *DisjointIntervals) (*DisjointIntervals, error) {
	if !d.unit.Compatible(o.unit) {
		return nil, &UnitError{Op: "add", A: d.unit, B: o.unit}
	}
	out := make([]Interval, 0, len(d.ivs)*len(o.ivs))
	for _, a := range d.ivs {
		for _, b := range o.ivs {
			out = append(out, Interval{Min: a.Min + b.Min, Max: a.Max + b.Max, Unit: d.unit})
		}
	}

	return newNormalized(d.unit, out), nil
}

// Sub returns the differences of all member pairs. Requires matching
// dimensions.
func (d *DisjointIntervals) Sub(o *DisjointIntervals) (*DisjointIntervals, error) {
	if !d.unit.Compatible(o.unit) {
		return nil, &UnitError{Op: "sub", A: d.unit, B: o.unit}
	}

	return d.Add(o.Neg())
}

// Neg returns the negated set.
func (d *DisjointIntervals) Neg() *DisjointIntervals {
	out := make([]Interval, 0, len(d.ivs))
	for _, iv := range d.ivs {
		out = append(out, Interval{Min: -iv.Max, Max: -iv.Min, Unit: d.unit})
	}

	return newNormalized(d.unit, out)
}

// Abs returns the set of absolute values.
func (d *DisjointIntervals) Abs() *DisjointIntervals {
	out := make([]Interval, 0, len(d.ivs))
	for _, iv := range d.ivs {
		switch {
		case iv.Min >= 0:
			out = append(out, iv)
		case iv.Max <= 0:
			out = append(out, Interval{Min: -iv.Max, Max: -iv.Min, Unit: d.unit})
		default:
			out = append(out, Interval{Min: 0, Max: math.Max(-iv.Min, iv.Max), Unit: d.unit})
		}
	}

	return newNormalized(d.unit, out)
}

// Mul returns the products of all member pairs, four-corner rule per pair.
// Dimensions combine.
func (d *DisjointIntervals) Mul(o *DisjointIntervals) (*DisjointIntervals, error) {
	return mulInto(d.ivs, o.ivs, d.unit.Mul(o.unit)), nil
}

// Div divides by o using interval inversion. A divisor member spanning
// zero (negative and positive values in one interval) fails
// ErrDivisionByZeroInSet; a divisor touching zero at a bound is allowed
// and yields an unbounded side; the exact singleton {0} inverts to the
// empty set. Dimensions combine.
func (d *DisjointIntervals) Div(o *DisjointIntervals) (*DisjointIntervals, error) {
	for _, iv := range o.ivs {
		if iv.Min < 0 && iv.Max > 0 {
			return nil, fmt.Errorf("%w: divisor %s", ErrDivisionByZeroInSet, iv)
		}
	}

	return mulInto(d.ivs, invertMembers(o.ivs), d.unit.Div(o.unit)), nil
}

// DivTwoSided divides by o accepting zero-spanning divisors: each such
// member contributes the two-sided result (-Inf, 1/min] ∪ [1/max, +Inf).
func (d *DisjointIntervals) DivTwoSided(o *DisjointIntervals) *DisjointIntervals {
	return mulInto(d.ivs, invertMembers(o.ivs), d.unit.Div(o.unit))
}

func mulInto(a, b []Interval, unit units.Unit) *DisjointIntervals {
	unit = unit.Base()
	out := make([]Interval, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			lo, hi := fourCorner(x, y)
			out = append(out, Interval{Min: lo, Max: hi, Unit: unit})
		}
	}

	return newNormalized(unit, out)
}

// fourCorner evaluates all four bound products and returns their extremes.
// The 0·Inf corner resolves to 0 (bounded factor wins).
func fourCorner(a, b Interval) (lo, hi float64) {
	corners := [4]float64{
		mulBound(a.Min, b.Min),
		mulBound(a.Min, b.Max),
		mulBound(a.Max, b.Min),
		mulBound(a.Max, b.Max),
	}
	lo, hi = corners[0], corners[0]
	for _, c := range corners[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}

	return lo, hi
}

func mulBound(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}

	return a * b
}

// invertMembers maps each interval to its reciprocal pieces:
//
//	[0,0]        -> nothing (no finite reciprocal)
//	[0,b]  b>0   -> [1/b, +Inf]
//	[a,0]  a<0   -> [-Inf, 1/a]
//	[a,b]  a<0<b -> [-Inf, 1/a] ∪ [1/b, +Inf]
//	same sign    -> [1/b, 1/a]
//
// 1/±Inf collapses to 0. Units are handled by the caller.
func invertMembers(ivs []Interval) []Interval {
	out := make([]Interval, 0, len(ivs)+1)
	for _, iv := range ivs {
		switch {
		case iv.Min == 0 && iv.Max == 0:
		case iv.Min == 0:
			out = append(out, Interval{Min: 1 / iv.Max, Max: math.Inf(+1)})
		case iv.Max == 0:
			out = append(out, Interval{Min: math.Inf(-1), Max: 1 / iv.Min})
		case iv.Min < 0 && iv.Max > 0:
			out = append(out,
				Interval{Min: math.Inf(-1), Max: 1 / iv.Min},
				Interval{Min: 1 / iv.Max, Max: math.Inf(+1)})
		default:
			out = append(out, Interval{Min: 1 / iv.Max, Max: 1 / iv.Min})
		}
	}

	return out
}
