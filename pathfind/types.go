// Package pathfind provides tunable options and error definitions
// for connectivity resolution over a core.Graph.
package pathfind

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/netlith/netlith/core"
)

// Sentinel errors for connectivity resolution.
var (
	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("pathfind: graph is nil")

	// ErrStartNotFound is returned when a queried node is absent: the
	// start of GetConnected, or either endpoint of IsConnected.
	ErrStartNotFound = errors.New("pathfind: start node not found")

	// ErrExceededLimit is returned when a traversal admits more nodes
	// than MaxVisited allows.
	ErrExceededLimit = errors.New("pathfind: exploration limit exceeded")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("pathfind: invalid option supplied")
)

// DefaultMaxVisited bounds a single traversal unless MaxVisited overrides
// it. Interconnect graphs reach tens of thousands of nodes; the default
// stays far above that while still refusing runaway expansions.
const DefaultMaxVisited = 1 << 20

// Pointer edge names that declare a pass-through bridge. A trait node
// carrying one Pointer edge named BridgeA and one named BridgeB makes the
// two pointed-at interfaces electrically identical.
const (
	BridgeA = "bridge.a"
	BridgeB = "bridge.b"
)

// HopKind labels one step of a connectivity path.
type HopKind uint8

const (
	// HopLink crosses an explicit InterfaceConnection edge.
	HopLink HopKind = iota

	// HopUp climbs a Composition edge from child to owner while mirroring
	// a deep connection declared on an ancestor.
	HopUp

	// HopDown descends a Composition edge on the far side of a mirrored
	// deep connection.
	HopDown

	// HopBridge passes through a bridge trait (paired BridgeA/BridgeB
	// Pointer edges).
	HopBridge
)

// String returns a short label for the hop kind.
func (k HopKind) String() string {
	switch k {
	case HopLink:
		return "link"
	case HopUp:
		return "up"
	case HopDown:
		return "down"
	case HopBridge:
		return "bridge"
	default:
		return fmt.Sprintf("HopKind(%d)", k)
	}
}

// Hop is one traversal step: the edge crossed and the node it lands on.
// For HopBridge, Edge is the exit Pointer edge, so its From names the
// trait node the hop passed through.
type Hop struct {
	Kind HopKind
	Edge *core.Edge
	Node core.NodeID
}

// Path is the hop sequence that witnesses one connection. A mirrored deep
// connection renders as up-hops, the link hop, then down-hops.
type Path []Hop

// String renders the path as a compact route: "^name" climbs out of a
// composition slot, "~name" (or a bare "~") crosses a connection edge,
// ".name" descends into a slot, and "=" passes through a bridge.
func (p Path) String() string {
	var b strings.Builder
	for _, h := range p {
		switch h.Kind {
		case HopUp:
			b.WriteString("^")
			b.WriteString(h.Edge.Name)
		case HopDown:
			b.WriteString(".")
			b.WriteString(h.Edge.Name)
		case HopLink:
			b.WriteString("~")
			b.WriteString(h.Edge.Name)
		case HopBridge:
			b.WriteString("=")
		}
	}

	return b.String()
}

// Option configures traversal behavior via functional arguments.
// If an Option is invalid (e.g. a negative visit limit), it is recorded
// internally and surfaced as ErrOptionViolation by the consuming call.
type Option func(*Options)

// Options holds parameters that customize connectivity traversals.
type Options struct {
	// Ctx allows cancellation and deadlines; checked at every dequeue and
	// inside neighbor expansion.
	Ctx context.Context

	// MaxVisited bounds how many nodes may enter the frontier, the start
	// included. 0 disables the bound.
	MaxVisited int

	// SkipPending excludes connection edges still carrying the pending
	// attribute, so only finalized wiring contributes.
	SkipPending bool

	// FilterEdge can skip individual routes by returning false. It is
	// consulted for every edge a traversal crosses: connection edges and
	// the Pointer edges of a bridge.
	FilterEdge func(e *core.Edge) bool

	// internal error recorded during option parsing
	err error
}

// DefaultOptions returns Options with sane defaults:
//   - context.Background()
//   - MaxVisited == DefaultMaxVisited
//   - pending edges traversed
//   - no filtering (all edges allowed).
func DefaultOptions() Options {
	return Options{
		Ctx:         context.Background(),
		MaxVisited:  DefaultMaxVisited,
		SkipPending: false,
		FilterEdge:  func(*core.Edge) bool { return true },
		err:         nil,
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// MaxVisited bounds how many nodes a traversal may admit to its frontier.
//
//	n > 0: admit at most n nodes, the start included
//	n == 0: explicit no limit
//	n < 0: invalid option → ErrOptionViolation
func MaxVisited(n int) Option {
	return func(o *Options) {
		switch {
		case n < 0:
			o.err = fmt.Errorf("%w: MaxVisited cannot be negative (%d)", ErrOptionViolation, n)
		case n == 0:
			// explicit "no limit"
			o.MaxVisited = 0
		default:
			o.MaxVisited = n
		}
	}
}

// SkipPending excludes pending connection edges from the traversal.
func SkipPending() Option {
	return func(o *Options) {
		o.SkipPending = true
	}
}

// WithFilterEdge skips routes when fn returns false.
func WithFilterEdge(fn func(e *core.Edge) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterEdge = fn
		}
	}
}

// Counters reports traversal effort.
type Counters struct {
	// Visited counts dequeued nodes, the start included.
	Visited int

	// Enqueued counts nodes admitted to the frontier, the start included.
	Enqueued int

	// Implied counts neighbors reached by mirroring a deep connection
	// declared on an ancestor.
	Implied int

	// Bridged counts neighbors reached through a pass-through bridge.
	Bridged int
}

// Result holds the outcome of a connectivity traversal:
//   - Paths: reached node → the hop path that witnessed the connection.
//     The start node itself is not in Paths.
//   - Order: reached nodes in visit sequence (start excluded).
//   - Counters: traversal effort.
//
// Paths are breadth-first witnesses counted in connection steps, not
// minimal hop sequences: a mirrored deep connection is one step but
// renders as 2k+1 hops.
type Result struct {
	Start    core.NodeID
	Paths    map[core.NodeID]Path
	Order    []core.NodeID
	Counters Counters
}

// Has reports whether the traversal reached id.
func (r *Result) Has(id core.NodeID) bool {
	_, ok := r.Paths[id]

	return ok
}

// Connected returns the reached node IDs in lexicographic order.
func (r *Result) Connected() []core.NodeID {
	out := make([]core.NodeID, 0, len(r.Paths))
	for id := range r.Paths {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// PathTo returns the hop path that reached dest.
// Returns an error if dest was not reached.
func (r *Result) PathTo(dest core.NodeID) (Path, error) {
	p, ok := r.Paths[dest]
	if !ok {
		return nil, fmt.Errorf("pathfind: no path to %q", dest)
	}

	return p, nil
}

// Net is one connectivity equivalence class: the IDs of the nodes that
// are electrically identical, in lexicographic order.
type Net []core.NodeID
