// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gates implements the gate engine (spec §4.6): the strictly
// ordered, non-short-circuiting Sanity → Scope → Eligibility → Overrides →
// Integrity Floor → Frontier-precheck evaluation run once per unit ahead
// of the frontier and allocation stages.
package gates

// Status is a unit's outcome from the gate engine.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Reason is one failing check. ParamID is set for parameter-ID-based
// reasons (e.g. "VM-VAR-031") and empty for purely symbolic reasons (e.g.
// "frontier_missing_inputs"); Code is always the stable symbolic suffix
// used in reasons[] strings.
type Reason struct {
	ParamID string
	Code    string
}

// String renders a Reason the way reasons[] entries are spec'd: either
// "VM-VAR-031:integrity_floor" or a bare symbolic code.
func (r Reason) String() string {
	if r.ParamID == "" {
		return r.Code
	}
	return r.ParamID + ":" + r.Code
}

// Record is one unit's full gate evaluation outcome (spec §4.6's per-unit
// gate record).
type Record struct {
	UnitID            string
	Status            Status
	Reasons           []Reason
	ProtectedBypass   bool
	AppliedExceptions []string
	FrontierReady     bool
}
