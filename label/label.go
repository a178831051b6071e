// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package label derives a unit's presentation status — Decisive, Marginal,
// or Invalid — from its gate outcome and winning margin (spec §4.9). A
// label never influences allocation and never contributes to the Formula
// ID: every VM-VAR it consults (VM-VAR-070 through VM-VAR-072) is Excluded
// by the parameter registry (package registry). This mirrors the
// teacher's block Status enum (Unknown/Processing/Rejected/Accepted) in
// shape — a small closed status set with a String() and a predicate
// method — generalized from consensus-decision status to tabulation
// presentation status.
package label

import (
	"github.com/lux-divisions/tally/internal/ratio"
	"github.com/lux-divisions/tally/registry"
)

// Status is a unit's presentation label.
type Status uint8

const (
	Invalid Status = iota
	Marginal
	Decisive
)

func (s Status) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case Marginal:
		return "Marginal"
	case Decisive:
		return "Decisive"
	default:
		return "Invalid"
	}
}

// Valid reports whether s is one of the three defined Status values.
func (s Status) Valid() bool {
	switch s {
	case Invalid, Marginal, Decisive:
		return true
	default:
		return false
	}
}

// Derive computes a unit's label. gatePassed is the gate engine's verdict
// for the unit (package gates); margin is the exact winner-minus-runner-up
// vote share; optionCount is the number of options contesting the unit
// (used only by the dynamic_margin policy). A unit that failed its gates
// is always Invalid, regardless of margin.
func Derive(resolved registry.Resolved, gatePassed bool, margin ratio.Ratio, optionCount int) Status {
	if !gatePassed {
		return Invalid
	}

	decisive := registry.PctRatio(resolved.Int("VM-VAR-070"))

	if resolved.String("VM-VAR-072") == registry.LabelPolicyDynamicMargin && optionCount > 2 {
		// More contesting options dilute what counts as a decisive margin:
		// scale the decisive threshold down by the option count beyond a
		// two-way race.
		scale, _ := ratio.New(2, int64(optionCount))
		decisive = decisive.Mul(scale)
	}

	if margin.Cmp(decisive) >= 0 {
		return Decisive
	}
	// A passed unit is Decisive or Marginal only — Invalid is reserved for
	// a failed gate. The marginal band (VM-VAR-071) narrows how close to
	// the decisive threshold a margin must be to still read as Marginal
	// rather than a wide miss; WithinMarginalBand exposes that distinction
	// to callers without adding a fourth Status.
	return Marginal
}

// WithinMarginalBand reports whether margin sits inside the marginal band
// below the decisive threshold (VM-VAR-071), as opposed to missing the
// threshold by a wide margin. It does not change the Status Derive
// returns; it is a finer-grained fact the result builder may surface in a
// unit's diagnostic notes.
func WithinMarginalBand(resolved registry.Resolved, margin ratio.Ratio) bool {
	decisive := registry.PctRatio(resolved.Int("VM-VAR-070"))
	band := registry.PctRatio(resolved.Int("VM-VAR-071"))
	floor := decisive.Sub(band)
	return margin.Cmp(floor) >= 0 && margin.Cmp(decisive) < 0
}
