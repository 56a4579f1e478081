package sets

import (
	"errors"
	"fmt"

	"github.com/netlith/netlith/units"
)

// Sentinel errors for set construction and algebra.
var (
	// ErrInvalidInterval indicates malformed interval bounds: NaN, min > max,
	// or a bound pinned at the wrong infinity (min = +Inf or max = -Inf).
	ErrInvalidInterval = errors.New("sets: invalid interval bounds")

	// ErrUnitMismatch indicates an operation over sets whose unit dimensions
	// are required to match but do not (Add, Sub, Union).
	ErrUnitMismatch = errors.New("sets: unit dimensions differ")

	// ErrDivisionByZeroInSet indicates division by a set containing an
	// interval that spans zero. Use DivTwoSided to opt into the disjoint
	// two-sided result.
	ErrDivisionByZeroInSet = errors.New("sets: division by a set spanning zero")

	// ErrSetKindMismatch indicates a set operation across incompatible
	// variants (interval vs. enum vs. plain) or across distinct enum types.
	ErrSetKindMismatch = errors.New("sets: incompatible set kinds")
)

// Set is the closed interface over all parameter domain variants:
// Interval, *DisjointIntervals, *EnumSet, *PlainSet.
//
// Intersect and Union fail ErrSetKindMismatch across variants (and across
// distinct enum types); numeric Union additionally fails ErrUnitMismatch
// across dimensions. All implementations are non-mutating.
type Set interface {
	// IsEmpty reports whether no value is admissible.
	IsEmpty() bool

	// Contains reports membership of a concrete value. Numeric variants
	// accept float64 or integer kinds (interpreted in base units); EnumSet
	// and PlainSet compare their own member types.
	Contains(v any) bool

	// Intersect returns the set of values admissible in both sets.
	Intersect(other Set) (Set, error)

	// Union returns the set of values admissible in either set.
	Union(other Set) (Set, error)

	// Equal reports whether both sets admit exactly the same values.
	Equal(other Set) bool

	// String renders the set for diagnostics.
	String() string
}

// UnitError details a unit dimension conflict. It unwraps to
// ErrUnitMismatch so errors.Is works across the boundary.
type UnitError struct {
	Op   string
	A, B units.Unit
}

// Error implements error.
func (e *UnitError) Error() string {
	return fmt.Sprintf("%v: %s over %q and %q", ErrUnitMismatch, e.Op, e.A.Dim, e.B.Dim)
}

// Unwrap exposes the sentinel.
func (e *UnitError) Unwrap() error { return ErrUnitMismatch }

func kindMismatch(op string, a, b Set) error {
	return fmt.Errorf("%w: %s over %T and %T", ErrSetKindMismatch, op, a, b)
}

// Variant conformance.
var (
	_ Set = Interval{}
	_ Set = (*DisjointIntervals)(nil)
	_ Set = (*EnumSet)(nil)
	_ Set = (*PlainSet)(nil)
)

// asNumber widens the numeric kinds Contains accepts.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
