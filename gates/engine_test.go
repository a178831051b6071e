// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package gates

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lux-divisions/tally/model"
	"github.com/lux-divisions/tally/registry"
	"github.com/lux-divisions/tally/utils/set"
)

func kpi(n int64) *int64 { return &n }
func roll(n int64) *int64 { return &n }

func TestEvaluatePassesCleanUnit(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{
		"VM-VAR-010": int64(0),
		"VM-VAR-011": int64(0),
		"VM-VAR-031": int64(0),
	})
	unit := model.Unit{UnitID: "u1"}
	tally := model.BallotTally{BallotsCast: 100, ValidBallots: 90, InvalidOrBlank: 10,
		PerOption: map[string]int64{"a": 90}, IntegrityKPIPct: kpi(1000)}

	rec := Evaluate(unit, tally, resolved, nil, nil, set.NewSet[string](0))
	require.Equal(StatusPass, rec.Status)
	require.Empty(rec.Reasons)
}

func TestEvaluateIntegrityFloorCannotBeBypassed(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{
		"VM-VAR-012": true,
		"VM-VAR-031": int64(800),
	})
	unit := model.Unit{UnitID: "u1", ProtectedArea: true}
	tally := model.BallotTally{BallotsCast: 10, ValidBallots: 10, IntegrityKPIPct: kpi(100)}

	rec := Evaluate(unit, tally, resolved, nil, nil, set.NewSet[string](0))
	require.Equal(StatusFail, rec.Status)
	require.Contains(rec.Reasons, Reason{ParamID: "VM-VAR-031", Code: "integrity_floor"})
	require.False(rec.ProtectedBypass)
}

func TestEvaluateProtectedBypassSkipsEligibility(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{
		"VM-VAR-010": int64(900),
		"VM-VAR-011": int64(1000),
		"VM-VAR-012": true,
		"VM-VAR-031": int64(0),
	})
	unit := model.Unit{UnitID: "u1", ProtectedArea: true, EligibleRoll: roll(100)}
	tally := model.BallotTally{BallotsCast: 5, ValidBallots: 5, IntegrityKPIPct: kpi(1000)}

	rec := Evaluate(unit, tally, resolved, nil, nil, set.NewSet[string](0))
	require.Equal(StatusPass, rec.Status)
	require.True(rec.ProtectedBypass)
}

func TestEvaluateOverrideForceIneligible(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(nil)
	unit := model.Unit{UnitID: "u1"}
	tally := model.BallotTally{BallotsCast: 100, ValidBallots: 100, IntegrityKPIPct: kpi(1000)}

	rec := Evaluate(unit, tally, resolved, []model.Override{{UnitID: "u1", Mode: "force_ineligible"}}, nil, set.NewSet[string](0))
	require.Equal(StatusFail, rec.Status)
	require.Equal("VM-VAR-010:override_force_ineligible", rec.Reasons[0].String())
}

func TestEvaluateReasonOrderingParamBeforeSymbolic(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{
		"VM-VAR-011": int64(1000),
		"VM-VAR-040": registry.FrontierModelBanded,
	})
	unit := model.Unit{UnitID: "u1"}
	tally := model.BallotTally{BallotsCast: 1, ValidBallots: 1, IntegrityKPIPct: kpi(1000)}

	rec := Evaluate(unit, tally, resolved, nil, nil, set.NewSet[string](0))
	require.GreaterOrEqual(len(rec.Reasons), 2)
	require.Equal("VM-VAR-011", rec.Reasons[0].ParamID)
	require.Equal("frontier_missing_inputs", rec.Reasons[len(rec.Reasons)-1].Code)
}

func TestParseSymmetryExceptionsSkipsMalformed(t *testing.T) {
	require := require.New(t)

	out := ParseSymmetryExceptions([]any{
		map[string]any{"unit_id": "u1", "gate": "eligibility_min_ballots"},
		"not-a-map",
		map[string]any{"unit_id": "u2"},
	})
	require.Len(out, 1)
	require.Equal("u1", out[0].UnitID)
}
