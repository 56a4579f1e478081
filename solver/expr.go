package solver

import (
	"fmt"
	"strings"

	"github.com/netlith/netlith/core"
	"github.com/netlith/netlith/sets"
	"github.com/netlith/netlith/units"
)

// exprOp identifies the node variant of an expression tree.
type exprOp uint8

const (
	opRef exprOp = iota + 1
	opLit
	opAdd
	opSub
	opMul
	opDiv
	opNeg
)

// opName returns the operator label stored under AttrOp and used in
// rendering. Ref and Lit are leaves and carry no operator.
func (op exprOp) opName() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	case opNeg:
		return "neg"
	default:
		return "?"
	}
}

// Expr is one node of an equality right-hand side: a parameter reference,
// a literal set, or an arithmetic combination. Build trees with the
// Ref/Lit/Add/Sub/Mul/Div/Neg constructors; malformed shapes (nil
// operands, empty operand lists) are detected by AliasIs, not by the
// constructors.
type Expr struct {
	op  exprOp
	ref core.NodeID
	lit sets.Set
	xs  []*Expr
}

// Ref references the admissible set of a parameter node.
func Ref(param core.NodeID) *Expr {
	return &Expr{op: opRef, ref: param}
}

// Lit embeds a literal set.
func Lit(set sets.Set) *Expr {
	return &Expr{op: opLit, lit: set}
}

// Add sums its operands. Requires at least one operand and matching unit
// dimensions at evaluation time.
func Add(xs ...*Expr) *Expr {
	return &Expr{op: opAdd, xs: xs}
}

// Sub subtracts b from a.
func Sub(a, b *Expr) *Expr {
	return &Expr{op: opSub, xs: []*Expr{a, b}}
}

// Mul multiplies its operands. Requires at least one operand; unit
// dimensions combine.
func Mul(xs ...*Expr) *Expr {
	return &Expr{op: opMul, xs: xs}
}

// Div divides a by b; unit dimensions combine. A divisor spanning zero
// fails sets.ErrDivisionByZeroInSet at evaluation time.
func Div(a, b *Expr) *Expr {
	return &Expr{op: opDiv, xs: []*Expr{a, b}}
}

// Neg negates x.
func Neg(x *Expr) *Expr {
	return &Expr{op: opNeg, xs: []*Expr{x}}
}

// String renders the tree for logs: "(ref(a) + [3, 4] Ω)".
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.op {
	case opRef:
		return fmt.Sprintf("ref(%s)", e.ref)
	case opLit:
		if e.lit == nil {
			return "lit(<nil>)"
		}
		return e.lit.String()
	case opNeg:
		return fmt.Sprintf("-%s", e.xs[0])
	default:
		parts := make([]string, len(e.xs))
		for i, x := range e.xs {
			parts[i] = x.String()
		}
		var sep string
		switch e.op {
		case opAdd:
			sep = " + "
		case opSub:
			sep = " - "
		case opMul:
			sep = " * "
		case opDiv:
			sep = " / "
		}

		return "(" + strings.Join(parts, sep) + ")"
	}
}

// validate walks the tree and reports the first malformed node. Parameter
// existence is checked separately against the graph.
func (e *Expr) validate() error {
	if e == nil {
		return ErrNilExpr
	}
	switch e.op {
	case opRef:
		if e.ref == "" {
			return fmt.Errorf("%w: empty parameter reference", ErrNilExpr)
		}
	case opLit:
		if e.lit == nil {
			return fmt.Errorf("%w: nil literal set", ErrNilExpr)
		}
	case opAdd, opMul:
		if len(e.xs) == 0 {
			return fmt.Errorf("%w: %s with no operands", ErrNilExpr, e.op.opName())
		}
	case opSub, opDiv:
		if len(e.xs) != 2 {
			return fmt.Errorf("%w: %s needs two operands", ErrNilExpr, e.op.opName())
		}
	case opNeg:
		if len(e.xs) != 1 {
			return fmt.Errorf("%w: neg needs one operand", ErrNilExpr)
		}
	default:
		return fmt.Errorf("%w: unknown operator", ErrNilExpr)
	}
	for _, x := range e.xs {
		if err := x.validate(); err != nil {
			return err
		}
	}

	return nil
}

// refs appends every parameter the tree references.
func (e *Expr) refs(out []core.NodeID) []core.NodeID {
	if e == nil {
		return out
	}
	if e.op == opRef {
		return append(out, e.ref)
	}
	for _, x := range e.xs {
		out = x.refs(out)
	}

	return out
}

// fold rewrites the tree into an algebraically simpler copy and counts the
// rewrites applied. Rules, innermost first:
//
//  1. nested Add/Mul operands flatten into their parent;
//  2. adjacent literal operands of Add/Mul fold into one literal
//     (numeric sets only; a folding error leaves the pair for phase 2);
//  3. additive zero and dimensionless multiplicative one vanish;
//  4. Sub/Div/Neg over literals fold to a literal;
//  5. a single surviving operand unwraps.
//
// The receiver is never mutated.
func (e *Expr) fold() (*Expr, int) {
	if e == nil {
		return nil, 0
	}
	switch e.op {
	case opRef, opLit:
		return e, 0

	case opNeg:
		x, n := e.xs[0].fold()
		// -(-x) unwraps; -lit folds.
		if x.op == opNeg {
			return x.xs[0], n + 1
		}
		if d, ok := numericLit(x); ok {
			return Lit(d.Neg()), n + 1
		}

		return &Expr{op: opNeg, xs: []*Expr{x}}, n

	case opSub, opDiv:
		a, na := e.xs[0].fold()
		b, nb := e.xs[1].fold()
		n := na + nb
		da, aok := numericLit(a)
		db, bok := numericLit(b)
		if aok && bok {
			var (
				d   *sets.DisjointIntervals
				err error
			)
			if e.op == opSub {
				d, err = da.Sub(db)
			} else {
				d, err = da.Div(db)
			}
			if err == nil {
				return Lit(d), n + 1
			}
			// Leave the pair in place; evaluation surfaces the error.
		}

		return &Expr{op: e.op, xs: []*Expr{a, b}}, n

	case opAdd, opMul:
		return foldVariadic(e.op, e.xs)

	default:
		return e, 0
	}
}

// foldVariadic flattens, merges literals and strips identities for one
// Add or Mul node.
func foldVariadic(op exprOp, xs []*Expr) (*Expr, int) {
	folds := 0

	// 1) Fold operands, splicing nested nodes of the same operator.
	flat := make([]*Expr, 0, len(xs))
	for _, x := range xs {
		fx, n := x.fold()
		folds += n
		if fx.op == op {
			flat = append(flat, fx.xs...)
			folds++
			continue
		}
		flat = append(flat, fx)
	}

	// 2) Merge literal operands pairwise; non-numeric or unit-incompatible
	//    literals stay in place for phase 2 to report.
	var acc *sets.DisjointIntervals
	rest := make([]*Expr, 0, len(flat))
	for _, x := range flat {
		d, ok := numericLit(x)
		if !ok {
			rest = append(rest, x)
			continue
		}
		if acc == nil {
			acc = d
			continue
		}
		var (
			merged *sets.DisjointIntervals
			err    error
		)
		if op == opAdd {
			merged, err = acc.Add(d)
		} else {
			merged, err = acc.Mul(d)
		}
		if err != nil {
			rest = append(rest, Lit(d))
			continue
		}
		acc = merged
		folds++
	}

	// 3) Identity removal: x+0 and x·1 contribute nothing.
	if acc != nil {
		if len(rest) > 0 && isIdentityLit(op, acc) {
			acc = nil
			folds++
		}
	}
	if acc != nil {
		rest = append(rest, Lit(acc))
	}

	// 4) Single operand unwraps; an emptied node folds to its identity.
	switch len(rest) {
	case 0:
		return Lit(identityOf(op)), folds
	case 1:
		return rest[0], folds + 1
	default:
		return &Expr{op: op, xs: rest}, folds
	}
}

// numericLit extracts the numeric set of a literal operand.
func numericLit(e *Expr) (*sets.DisjointIntervals, bool) {
	if e == nil || e.op != opLit {
		return nil, false
	}

	return asNumeric(e.lit)
}

// isIdentityLit reports whether lit is the operator's identity element:
// the exact zero for Add, the dimensionless one for Mul. Zero is treated
// as unit-neutral; a dimensioned one is not (it would change the result's
// dimension).
func isIdentityLit(op exprOp, lit *sets.DisjointIntervals) bool {
	v, ok := lit.IsSingleton()
	if !ok {
		return false
	}
	switch op {
	case opAdd:
		return v == 0
	case opMul:
		return v == 1 && lit.Unit().Dim.IsZero()
	default:
		return false
	}
}

// identityOf returns the literal an emptied variadic node collapses to.
func identityOf(op exprOp) *sets.DisjointIntervals {
	v := 0.0
	if op == opMul {
		v = 1.0
	}
	d, _ := sets.Discrete(units.Dimensionless, v)

	return d
}
