// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package frontier implements the frontier evaluator (spec §4.7): given a
// unit's measured band value and a mode ("none", "banded", "ladder"), it
// decides whether the unit meets its configured band, applying window,
// backoff, and strictness refinements. The evaluator never reorders any
// input array and treats an invalid configuration as a validity failure,
// never as a panic or error return — exactly as it never reorders a
// confidence streak when recording an unsuccessful poll (the pattern this
// package generalizes from the teacher's confidence-streak counter,
// gates/threshold.go before this repo's adaptation).
package frontier

import (
	"github.com/lux-divisions/tally/internal/ratio"
	"github.com/lux-divisions/tally/registry"
)

// Outcome is one unit's frontier evaluation result (spec §4.7's
// "{band_met: bool, band_value, notes?}").
type Outcome struct {
	BandMet   bool
	BandValue ratio.Ratio
	Notes     string
	Valid     bool
}

// Config is the subset of a Resolved parameter set the evaluator consults,
// narrowed to a typed struct so callers don't re-parse VM-VAR strings per
// unit.
type Config struct {
	Model       string
	BandWidth   ratio.Ratio
	WindowSize  int64
	Backoff     string
	Strictness  ratio.Ratio
}

// LoadConfig extracts a Config from a Resolved parameter set.
func LoadConfig(resolved registry.Resolved) Config {
	return Config{
		Model:      resolved.String("VM-VAR-040"),
		BandWidth:  registry.PctRatio(resolved.Int("VM-VAR-041")),
		WindowSize: resolved.Int("VM-VAR-042"),
		Backoff:    resolved.String("VM-VAR-043"),
		Strictness: registry.PctRatio(resolved.Int("VM-VAR-044")),
	}
}

// Evaluate applies cfg to one unit's measured value against its cut point.
// measured and cut are both exact ratios (e.g. a vote share and its
// required threshold) — never floats, per the engine-wide no-float rule.
// streak is the unit's running count of consecutive qualifying periods
// carried in from a prior evaluation window (0 for a single-shot run);
// Evaluate returns the updated streak alongside the Outcome so a caller
// evaluating a time series can thread it through.
func Evaluate(cfg Config, measured, cut ratio.Ratio, streak int64) (Outcome, int64) {
	switch cfg.Model {
	case registry.FrontierModelNone:
		return Outcome{BandMet: true, BandValue: measured, Valid: true}, streak
	case registry.FrontierModelBanded:
		return evaluateBanded(cfg, measured, cut, streak)
	case registry.FrontierModelLadder:
		return evaluateLadder(cfg, measured, cut, streak)
	default:
		return Outcome{Valid: false, Notes: "unrecognized frontier model"}, streak
	}
}

// evaluateBanded checks whether measured falls within [cut-width, cut+width]
// after backoff softens or hardens the width at the border, and whether the
// unit has sustained that membership for WindowSize consecutive calls.
func evaluateBanded(cfg Config, measured, cut ratio.Ratio, streak int64) (Outcome, int64) {
	if cfg.WindowSize < 1 {
		return Outcome{Valid: false, Notes: "frontier_window_size must be >= 1"}, streak
	}
	width := adjustedWidth(cfg, measured, cut)
	lower := cut.Sub(width)
	upper := cut.Add(width)
	within := measured.Cmp(lower) >= 0 && measured.Cmp(upper) <= 0

	if !within {
		return Outcome{BandMet: false, BandValue: measured, Valid: true}, 0
	}
	streak++
	met := streak >= cfg.WindowSize
	out := Outcome{BandMet: met, BandValue: measured, Valid: true}
	if !met {
		out.Notes = "within band, awaiting window"
	}
	return out, streak
}

// evaluateLadder treats cut as the first of a sequence of rungs spaced
// BandWidth apart; a unit meets the ladder once measured clears the rung
// at or above its current streak, scaled by Strictness.
func evaluateLadder(cfg Config, measured, cut ratio.Ratio, streak int64) (Outcome, int64) {
	if cfg.BandWidth.Num == 0 {
		return Outcome{Valid: false, Notes: "frontier_band_width_pct must be > 0 for ladder mode"}, streak
	}
	rung := cut.Add(cfg.BandWidth.Mul(ratio.FromInt(streak)).Mul(cfg.Strictness))
	met := measured.Cmp(rung) >= 0
	if met {
		streak++
	}
	return Outcome{BandMet: met, BandValue: measured, Valid: true}, streak
}

// adjustedWidth applies the backoff policy to the band width scaled by
// Strictness: "soften" widens it by a tenth, "harden" narrows it by a
// tenth, "none" leaves it unchanged. measured and cut do not affect the
// result, and the width is not clamped.
func adjustedWidth(cfg Config, measured, cut ratio.Ratio) ratio.Ratio {
	base := cfg.BandWidth.Mul(cfg.Strictness)
	switch cfg.Backoff {
	case registry.FrontierBackoffSoften:
		return base.Add(base.Mul(registry.PctRatio(100)))
	case registry.FrontierBackoffHarden:
		return base.Sub(base.Mul(registry.PctRatio(100)))
	default:
		return base
	}
}
