// Package sets implements the parameter value domain: closed intervals,
// normalized disjoint interval unions, enumeration subsets, and opaque
// finite sets, with unit-aware set algebra and interval arithmetic.
//
// Every variant implements Set (IsEmpty, Contains, Intersect, Union, Equal,
// String). All operations are non-mutating: a Set value never changes after
// construction, producing operations return fresh sets. Numeric sets store
// their bounds in base units (scaling happens once, at construction), so
// [1,2] kΩ and [1000,2000] Ω are the same set.
//
// Normalization contract: DisjointIntervals is always sorted by lower
// bound with overlapping or touching members merged — [1,2] ∪ [2,3]
// normalizes to [1,3] — and normalization is idempotent.
//
// Arithmetic contract: Add and Sub require matching unit dimensions and
// fail ErrUnitMismatch otherwise. Mul and Div combine dimensions and use
// the four-corner rule for sign-dependent bounds. Dividing by a set whose
// member spans zero fails ErrDivisionByZeroInSet; DivTwoSided opts into
// the disjoint two-sided unbounded result instead. Intersecting numeric
// sets of different dimensions yields the empty set; union of different
// dimensions is an error (no single set can represent it).
package sets
