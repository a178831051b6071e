// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Tally is a deterministic vote tabulation and allocation engine. Given a
// Division Registry, a Ballot Tally, and a Parameter Set, it runs a
// strictly ordered, single-threaded pipeline — load, validate, build the
// Normative Manifest, then per unit in ascending order: gate, evaluate the
// frontier, allocate seats, and resolve ties — and emits three
// hash-addressed, byte-identical-across-platforms artifacts: a Result, a
// Run Record, and an optional Frontier Map.
//
// Package layout follows the teacher's flat-plus-internal convention:
// small root-level glue files (this one, engine.go, errors.go), one
// package per pipeline component (canon, ids, registry, gates, frontier,
// allocate, tiebreak, result, runrecord, verify), a loader and validate
// package for input handling, a cmd/tally CLI, and internal/ packages
// (ratio, rng, obslog, obsmetrics, atomicfile) that are implementation
// detail rather than public surface.
package tally
