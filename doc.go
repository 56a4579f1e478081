// Package netlith is an in-memory typed-graph engine for hardware
// description: declare circuit modules as composable types, materialize
// consistent instances, resolve which pins are electrically one net, and
// ask what values a physical parameter may still take.
//
// 🚀 What is netlith?
//
//	A single-writer, in-memory compiler core that brings together:
//		• Core primitives: typed nodes & six edge kinds under one ownership discipline
//		• Type graph: declarative construction rules with inheritance & shadowing
//		• Instantiation: deterministic, isolated materialization of declared types
//		• Connectivity: net computation across arbitrarily deep composition
//		• Parameter domain: intervals, disjoint unions, enums — all unit-aware
//		• Solver: phased narrowing of admissible sets, explicit contradictions
//
// ✨ Why netlith?
//
//   - Explicit over clever – declarations are ordinary calls, memoized once
//   - Typed errors everywhere – sentinel values, never stringly failures
//   - Pure Go – no cgo, no services, no hidden state beyond the store you hold
//   - Explainable – every connectivity answer carries the path that proves it
//
// Everything is organized under focused subpackages:
//
//	core/      — graph store: nodes, attributed typed edges, views, merge
//	typegraph/ — type declarations, field rules, instantiator, specialization
//	pathfind/  — connectivity resolver: nets, bridging, pending finalize
//	units/     — SI dimension vectors and canonical electrical units
//	sets/      — interval/enum/plain value sets with unit-aware algebra
//	eseries/   — IEC 60063 preferred-value series (E3…E192)
//	solver/    — constraint store, expressions, phased simplification
//	collect/   — error accumulation for long build passes
//
// Quick ASCII example:
//
//	    Board
//	    ├── r1: Resistor ── resistance ∈ [900, 1100] Ω
//	    └── r2: Resistor ── pin1 ═══ r1.pin2   (one net)
//
//	a board owning two resistors, one shared net, one narrowed parameter.
//
// Start at typegraph.New to declare types, core.NewGraph to hold instances,
// and solver.NewStore once the build settles.
//
//	go get github.com/netlith/netlith
package netlith
