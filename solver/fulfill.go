package solver

import (
	"fmt"
	"math"

	"github.com/netlith/netlith/core"
	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/units"
)

// Pred is one comparison or membership claim over a parameter, built with
// GE, LE, SubsetOf or MemberOf. Malformed inputs (NaN bounds, nil sets)
// are recorded internally and surfaced as errors by Record or TryFulfill.
type Pred struct {
	param core.NodeID
	set   sets.Set
	desc  string
	err   error
}

// String renders the claim for logs and reports.
func (p *Pred) String() string {
	if p == nil {
		return "<nil>"
	}
	if p.err != nil {
		return fmt.Sprintf("invalid predicate: %v", p.err)
	}

	return p.desc
}

// GE claims every admissible value of param is at least min, expressed in
// unit.
func GE(param core.NodeID, min float64, unit units.Unit) *Pred {
	iv, err := sets.NewInterval(min, math.Inf(+1), unit)
	if err != nil {
		return &Pred{param: param, err: err}
	}

	return &Pred{param: param, set: iv.AsDisjoint(), desc: fmt.Sprintf(">= %g %s", min, unit)}
}

// LE claims every admissible value of param is at most max, expressed in
// unit.
func LE(param core.NodeID, max float64, unit units.Unit) *Pred {
	iv, err := sets.NewInterval(math.Inf(-1), max, unit)
	if err != nil {
		return &Pred{param: param, err: err}
	}

	return &Pred{param: param, set: iv.AsDisjoint(), desc: fmt.Sprintf("<= %g %s", max, unit)}
}

// SubsetOf claims every admissible value of param lies in set. This is
// the general form: enum membership is SubsetOf with a one-member
// EnumSet.
func SubsetOf(param core.NodeID, set sets.Set) *Pred {
	if set == nil {
		return &Pred{param: param, err: ErrNilSet}
	}

	return &Pred{param: param, set: set, desc: fmt.Sprintf("subset of %s", set)}
}

// MemberOf claims param takes exactly the value v. Numeric values build a
// singleton interval in unit; strings and booleans build a one-member
// plain set (unit ignored).
func MemberOf(param core.NodeID, v any, unit units.Unit) *Pred {
	if f, ok := toFloat(v); ok {
		iv, err := sets.Singleton(f, unit)
		if err != nil {
			return &Pred{param: param, err: err}
		}

		return &Pred{param: param, set: iv.AsDisjoint(), desc: fmt.Sprintf("= %g %s", f, unit)}
	}

	return &Pred{param: param, set: sets.NewPlainSet(v), desc: fmt.Sprintf("= %v", v)}
}

// toFloat widens the numeric kinds predicates accept.
func toFloat(v any) (float64, bool) {
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

// TryFulfill checks whether pred can still hold and, with Lock(), commits
// the subset constraint that makes it hold. Without Lock the store is
// left untouched: the call is pure speculation, the shape a part picker
// uses to probe candidates before committing one. An unsatisfiable
// predicate fails *ContradictionError naming the parameter.
//
// Honors WithContext; the step budget and scope do not apply to this
// call.
func (s *Store) TryFulfill(pred *Pred, opts ...SolveOption) error {
	// 1) Apply options.
	cfg := defaultSolveConfig(s.maxSteps)
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return cfg.err
	}
	select {
	case <-cfg.ctx.Done():
		return fmt.Errorf("%w: %v", ErrSolverTimeout, cfg.ctx.Err())
	default:
	}

	// 2) Validate the predicate.
	if pred == nil {
		return ErrNilPred
	}
	if pred.err != nil {
		return pred.err
	}
	if !s.g.HasNode(pred.param) {
		return fmt.Errorf("%w: %q", ErrParamNotFound, pred.param)
	}

	// 3) Speculate: would the fulfilling constraint leave any value?
	needed, err := s.narrowedBy(pred.param, pred.set)
	if err != nil {
		return err
	}
	if needed.IsEmpty() {
		return &ContradictionError{
			Params: []core.NodeID{pred.param},
			Names:  []string{s.nameOf(pred.param)},
		}
	}
	if !cfg.lock {
		s.log.Debug("fulfillable", "param", s.nameOf(pred.param), "pred", pred.desc)

		return nil
	}

	// 4) Commit.
	return s.ConstrainSubset(pred.param, pred.set)
}
