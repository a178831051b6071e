// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package gates

import (
	"sort"

	"github.com/lux-divisions/tally/internal/ratio"
	"github.com/lux-divisions/tally/model"
	"github.com/lux-divisions/tally/registry"
	"github.com/lux-divisions/tally/utils/set"
)

// SymmetryException is one parsed entry of VM-VAR-029 (spec §4.6, §9's
// Open Question on the exact grammar): it narrowly bypasses one named
// eligibility gate for one unit. The grammar is declared here, in the
// engine that consumes it, rather than in package registry, which only
// carries the raw list through untouched.
type SymmetryException struct {
	UnitID string
	Gate   string
}

const (
	gateEligibilityThreshold = "eligibility_threshold"
	gateEligibilityMinBallots = "eligibility_min_ballots"
)

// ParseSymmetryExceptions converts VM-VAR-029's raw []any (each element a
// {"unit_id": "...", "gate": "..."} map) into SymmetryExceptions. The
// loader's JSON Schema for params.json does not constrain the shape of
// these entries; malformed entries are skipped here rather than erroring.
func ParseSymmetryExceptions(raw []any) []SymmetryException {
	out := make([]SymmetryException, 0, len(raw))
	for _, elt := range raw {
		m, ok := elt.(map[string]any)
		if !ok {
			continue
		}
		unitID, _ := m["unit_id"].(string)
		gate, _ := m["gate"].(string)
		if unitID == "" || gate == "" {
			continue
		}
		out = append(out, SymmetryException{UnitID: unitID, Gate: gate})
	}
	return out
}

// Evaluate runs the full Sanity → Scope → Eligibility → Overrides →
// Integrity Floor → Frontier-precheck sequence for one unit (spec §4.6).
// It never short-circuits: every stage runs and every failing reason is
// recorded before Status is decided.
func Evaluate(unit model.Unit, tally model.BallotTally, resolved registry.Resolved, overrides []model.Override, exceptions []SymmetryException, selectedUnits set.Set[string]) Record {
	rec := Record{UnitID: unit.UnitID}
	var reasons []Reason

	// --- Sanity (never bypassable) ---
	if tally.BallotsCast < 0 || tally.InvalidOrBlank < 0 || tally.ValidBallots < 0 {
		reasons = append(reasons, Reason{Code: "sanity_negative_value"})
	}
	var optionSum int64
	for _, v := range tally.PerOption {
		optionSum += v
	}
	if optionSum+tally.InvalidOrBlank > tally.BallotsCast {
		reasons = append(reasons, Reason{Code: "sanity_vote_sum_exceeds_ballots"})
	}

	// --- Scope ---
	runScope := resolved.String("VM-VAR-001")
	inScope := true
	if runScope == registry.RunScopeSelectedUnits {
		inScope = selectedUnits.Contains(unit.UnitID)
		if !inScope {
			reasons = append(reasons, Reason{Code: "scope_excluded"})
		}
	}

	// --- Overrides (consulted ahead of Eligibility; override > symmetry
	// exception > default gate, per spec §4.6) ---
	var overrideMode string
	for _, o := range overrides {
		if o.UnitID == unit.UnitID {
			overrideMode = o.Mode
			break
		}
	}

	protectedOverrideAllowed := unit.ProtectedArea && resolved.Bool("VM-VAR-012")
	bypassed := func(gate string) (bypass bool, via string) {
		switch overrideMode {
		case "force_eligible":
			return true, "override"
		case "force_ineligible":
			return false, ""
		}
		for _, ex := range exceptions {
			if ex.UnitID == unit.UnitID && ex.Gate == gate {
				return true, "symmetry_exception:" + gate
			}
		}
		if protectedOverrideAllowed {
			return true, "protected_bypass"
		}
		return false, ""
	}

	// --- Eligibility ---
	// Bypass bookkeeping (ProtectedBypass, AppliedExceptions) is recorded
	// only when the underlying check would otherwise have failed: a
	// protected unit that simply clears its threshold is not "bypassed,"
	// it passed outright (spec §4.6 scenario 2).
	if inScope {
		if overrideMode == "force_ineligible" {
			reasons = append(reasons, Reason{ParamID: "VM-VAR-010", Code: "override_force_ineligible"})
		} else {
			thresholdFails := false
			if unit.EligibleRoll != nil && *unit.EligibleRoll > 0 {
				roll, _ := ratio.New(*unit.EligibleRoll, 1)
				cast, _ := ratio.New(tally.BallotsCast, 1)
				turnout, err := cast.Div(roll)
				threshold := registry.PctRatio(resolved.Int("VM-VAR-010"))
				thresholdFails = err == nil && turnout.Cmp(threshold) < 0
			}
			if thresholdFails {
				if ok, via := bypassed(gateEligibilityThreshold); ok {
					rec.ProtectedBypass = rec.ProtectedBypass || via == "protected_bypass"
					if via == "symmetry_exception:"+gateEligibilityThreshold {
						rec.AppliedExceptions = append(rec.AppliedExceptions, via)
					}
				} else {
					reasons = append(reasons, Reason{ParamID: "VM-VAR-010", Code: "eligibility_threshold"})
				}
			}

			minBallotsFails := tally.BallotsCast < resolved.Int("VM-VAR-011")
			if minBallotsFails {
				if ok, via := bypassed(gateEligibilityMinBallots); ok {
					rec.ProtectedBypass = rec.ProtectedBypass || via == "protected_bypass"
					if via == "symmetry_exception:"+gateEligibilityMinBallots {
						rec.AppliedExceptions = append(rec.AppliedExceptions, via)
					}
				} else {
					reasons = append(reasons, Reason{ParamID: "VM-VAR-011", Code: "eligibility_min_ballots"})
				}
			}
		}
	}

	// --- Integrity Floor (never bypassable, irrespective of any override
	// or protected-area allowance) ---
	var kpi int64
	if tally.IntegrityKPIPct != nil {
		kpi = *tally.IntegrityKPIPct
	}
	if registry.PctRatio(kpi).Cmp(registry.PctRatio(resolved.Int("VM-VAR-031"))) < 0 {
		reasons = append(reasons, Reason{ParamID: "VM-VAR-031", Code: "integrity_floor"})
	}

	// --- Frontier-precheck ---
	rec.FrontierReady = true
	if resolved.String("VM-VAR-040") == registry.FrontierModelBanded && unit.PopulationBaseline == nil {
		rec.FrontierReady = false
		reasons = append(reasons, Reason{Code: "frontier_missing_inputs"})
	}

	rec.Reasons = orderReasons(reasons)
	if len(rec.Reasons) == 0 {
		rec.Status = StatusPass
	} else {
		rec.Status = StatusFail
	}
	sort.Strings(rec.AppliedExceptions)
	return rec
}

// orderReasons sorts parameter-ID-based reasons ahead of purely symbolic
// ones, each group in ascending order, per spec §4.6's "Reason ordering".
func orderReasons(reasons []Reason) []Reason {
	var paramBased, symbolic []Reason
	for _, r := range reasons {
		if r.ParamID == "" {
			symbolic = append(symbolic, r)
		} else {
			paramBased = append(paramBased, r)
		}
	}
	sort.Slice(paramBased, func(i, j int) bool { return paramBased[i].ParamID < paramBased[j].ParamID })
	sort.Slice(symbolic, func(i, j int) bool { return symbolic[i].Code < symbolic[j].Code })
	return append(paramBased, symbolic...)
}
