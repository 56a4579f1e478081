// Package solver provides tunable options, error definitions and the
// per-parameter state machine for constraint recording and phased
// simplification over a core.Graph.
package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/netlith/netlith/core"
)

// Sentinel errors for constraint recording and solving.
var (
	// ErrContradiction is the class of every contradiction failure; the
	// carried value is a *ContradictionError naming the parameters whose
	// admissible sets became empty.
	ErrContradiction = errors.New("solver: contradiction")

	// ErrSolverTimeout is returned when a solve call exhausts its step
	// budget or its context is cancelled. The store is restored to its
	// pre-call state.
	ErrSolverTimeout = errors.New("solver: timeout")

	// ErrParamNotFound is returned when a constraint references a node
	// absent from the graph.
	ErrParamNotFound = errors.New("solver: parameter not found")

	// ErrNilSet is returned when a subset constraint carries a nil set.
	ErrNilSet = errors.New("solver: nil set")

	// ErrNilExpr is returned when an equality constraint carries a nil or
	// malformed expression.
	ErrNilExpr = errors.New("solver: nil expression")

	// ErrNilPred is returned when a nil predicate is recorded or fulfilled.
	ErrNilPred = errors.New("solver: nil predicate")

	// ErrOptionViolation is returned when an invalid SolveOption is
	// supplied.
	ErrOptionViolation = errors.New("solver: invalid option supplied")
)

// DefaultMaxSteps bounds one Simplify call unless WithStepBudget overrides
// it. A step is one unit of phase work (a fold attempt, an expression node
// evaluation, a predicate check); typical boards converge within hundreds.
const DefaultMaxSteps = 1 << 14

// Node and parameter attribute keys the solver reads and writes.
const (
	// AttrRel marks a constraint node and names its relation:
	// RelSubset or RelIs.
	AttrRel = "solver.rel"

	// AttrOp marks an expression node and names its operator
	// ("add", "sub", "mul", "div", "neg").
	AttrOp = "solver.op"

	// AttrLit carries the sets.Set payload of a literal node.
	AttrLit = "solver.lit"

	// AttrValue carries the adopted singleton value, stamped onto resolved
	// parameter nodes by a Terminal pass. Numeric values are in base units.
	AttrValue = "solver.value"

	// AttrUnit names a parameter's unit ("ohm", "V"); stamped by type
	// defaults at instantiation and resolved through units.ByName.
	AttrUnit = "unit"
)

// Relation values stored under AttrRel.
const (
	// RelSubset records "parameter ⊆ set".
	RelSubset = "subset"

	// RelIs records "parameter = rhs" (literal, alias or expression).
	RelIs = "is"
)

// Name of the Pointer edge tying a literal node back to the constraint it
// feeds.
const litEdgeName = "constrains"

// State is the per-parameter position in the narrowing state machine.
// Transitions only narrow within one Store: Unconstrained → Narrowed →
// {Resolved | Contradiction}.
type State uint8

const (
	// Unconstrained means no constraint has touched the parameter; its
	// admissible set is the universal set of its unit.
	Unconstrained State = iota

	// Narrowed means the admissible set is a proper, non-empty, non-
	// singleton subset of the universal set.
	Narrowed

	// Resolved means exactly one admissible value remains.
	Resolved

	// Contradiction means the admissible set is empty.
	Contradiction
)

// String returns the state name used in logs and reports.
func (s State) String() string {
	switch s {
	case Unconstrained:
		return "unconstrained"
	case Narrowed:
		return "narrowed"
	case Resolved:
		return "resolved"
	case Contradiction:
		return "contradiction"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Outcome is the proof status of a recorded predicate.
type Outcome uint8

const (
	// OutcomeUnknown means the current supersets neither prove nor refute
	// the predicate.
	OutcomeUnknown Outcome = iota

	// OutcomeTrue means every admissible value satisfies the predicate.
	OutcomeTrue

	// OutcomeFalse means no admissible value satisfies the predicate.
	OutcomeFalse
)

// String returns the outcome label used in reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeUnknown:
		return "unknown"
	case OutcomeTrue:
		return "true"
	case OutcomeFalse:
		return "false"
	default:
		return fmt.Sprintf("Outcome(%d)", o)
	}
}

// ContradictionError names the parameters whose admissible sets became
// empty. Params holds node identities, Names their human-readable dotted
// composition paths, index-aligned.
type ContradictionError struct {
	Params []core.NodeID
	Names  []string
}

// Error implements error.
func (e *ContradictionError) Error() string {
	return fmt.Sprintf("solver: contradiction over %s", strings.Join(e.Names, ", "))
}

// Unwrap lets errors.Is match ErrContradiction.
func (e *ContradictionError) Unwrap() error { return ErrContradiction }

// Option configures a Store at construction.
type Option func(*Store)

// WithLogger directs iteration tracing to l. The store is silent by
// default; hot loops log at Debug.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxSteps sets the default step budget for solve calls on this store.
// Non-positive values keep DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// SolveOption configures one Simplify or TryFulfill call.
// If a SolveOption is invalid (e.g. a negative step budget), it is
// recorded internally and surfaced as ErrOptionViolation by the call.
type SolveOption func(*solveConfig)

// solveConfig holds parameters that customize one solve call.
type solveConfig struct {
	// ctx allows cancellation and deadlines; checked at every step.
	ctx context.Context

	// budget bounds phase work in steps. 0 disables the bound.
	budget int

	// terminal enables the exporter-facing extras: singleton adoption and
	// strict predicate accounting.
	terminal bool

	// lock makes TryFulfill commit the fulfilling constraint instead of
	// speculating. Ignored by Simplify.
	lock bool

	// scope restricts phase work to parameters inside the composition
	// subtree rooted here. Empty means the whole graph.
	scope core.NodeID

	// internal error recorded during option parsing
	err error
}

// defaultSolveConfig returns a config with sane defaults:
//   - context.Background()
//   - the store's step budget
//   - non-terminal, speculative, unscoped.
func defaultSolveConfig(budget int) solveConfig {
	return solveConfig{
		ctx:    context.Background(),
		budget: budget,
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) SolveOption {
	return func(c *solveConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithStepBudget bounds how much phase work one solve call may perform.
//
//	n > 0: at most n steps
//	n == 0: explicit no limit
//	n < 0: invalid option → ErrOptionViolation
func WithStepBudget(n int) SolveOption {
	return func(c *solveConfig) {
		switch {
		case n < 0:
			c.err = fmt.Errorf("%w: step budget cannot be negative (%d)", ErrOptionViolation, n)
		case n == 0:
			// explicit "no limit"
			c.budget = 0
		default:
			c.budget = n
		}
	}
}

// Terminal marks the solve as exporter-facing: after the phases reach a
// fixpoint, singleton classes are adopted onto their parameter nodes
// (AttrValue) and every recorded predicate is accounted for in the Report.
func Terminal() SolveOption {
	return func(c *solveConfig) {
		c.terminal = true
	}
}

// Lock makes TryFulfill commit the fulfilling constraint to the store
// instead of leaving it untouched. Simplify ignores it.
func Lock() SolveOption {
	return func(c *solveConfig) {
		c.lock = true
	}
}

// WithScope restricts phase work to parameters owned, directly or
// transitively, by root.
func WithScope(root core.NodeID) SolveOption {
	return func(c *solveConfig) {
		if root == "" {
			c.err = fmt.Errorf("%w: empty scope root", ErrOptionViolation)
		} else {
			c.scope = root
		}
	}
}

// Report summarizes one Simplify call.
type Report struct {
	// Iterations counts full passes over the phase table until fixpoint.
	Iterations int

	// Steps counts units of phase work consumed against the budget.
	Steps int

	// Folded counts algebraic rewrites applied in phase 1.
	Folded int

	// Propagated counts parameter narrowings applied in phase 2.
	Propagated int

	// Proven counts predicates newly resolved to true or false.
	Proven int

	// Unknown lists recorded predicates still unresolved, sorted by name.
	Unknown []string

	// Terminal reports whether the exporter-facing extras ran.
	Terminal bool
}

// discardLogger returns the silent default logger.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
