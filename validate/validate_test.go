// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lux-divisions/tally/model"
	"github.com/lux-divisions/tally/registry"
)

func ctxFor(units []model.Unit, options []model.Option, tallies map[string]model.BallotTally) *model.LoadedContext {
	return model.Build(units, options, nil, tallies, model.ParameterSet{}, nil, model.InputsDigest{})
}

func baseUnitsOptions() ([]model.Unit, []model.Option) {
	units := []model.Unit{{UnitID: "u1", Magnitude: 1}}
	options := []model.Option{
		{OptionID: "o1", UnitID: "u1", OrderIndex: 0},
		{OptionID: "o2", UnitID: "u1", OrderIndex: 1},
	}
	return units, options
}

func TestValidatePassesCleanInput(t *testing.T) {
	require := require.New(t)

	units, options := baseUnitsOptions()
	tallies := map[string]model.BallotTally{
		"u1": {UnitID: "u1", BallotsCast: 100, InvalidOrBlank: 0, ValidBallots: 100, PerOption: map[string]int64{"o1": 60, "o2": 40}},
	}
	ctx := ctxFor(units, options, tallies)
	resolved, _ := registry.Resolve(nil)

	report := Validate(ctx, resolved, nil)
	require.True(report.Pass)
	require.Empty(report.Issues)
}

func TestValidateFlagsTreeViolation(t *testing.T) {
	require := require.New(t)

	units := []model.Unit{{UnitID: "u1", ParentID: "ghost", Magnitude: 1}}
	ctx := ctxFor(units, nil, map[string]model.BallotTally{
		"u1": {UnitID: "u1"},
	})
	resolved, _ := registry.Resolve(nil)

	report := Validate(ctx, resolved, nil)
	require.False(report.Pass)
	require.Contains(codes(report.Issues), CodeTreeViolation)
}

func TestValidateFlagsDuplicateOrderIndex(t *testing.T) {
	require := require.New(t)

	units := []model.Unit{{UnitID: "u1", Magnitude: 1}}
	options := []model.Option{
		{OptionID: "o1", UnitID: "u1", OrderIndex: 0},
		{OptionID: "o2", UnitID: "u1", OrderIndex: 0},
	}
	ctx := ctxFor(units, options, map[string]model.BallotTally{"u1": {UnitID: "u1"}})
	resolved, _ := registry.Resolve(nil)

	report := Validate(ctx, resolved, nil)
	require.False(report.Pass)
	require.Contains(codes(report.Issues), CodeDuplicateOrderIndex)
}

func TestValidateFlagsSumExceedsValid(t *testing.T) {
	require := require.New(t)

	units, options := baseUnitsOptions()
	tallies := map[string]model.BallotTally{
		"u1": {UnitID: "u1", BallotsCast: 100, InvalidOrBlank: 0, ValidBallots: 50, PerOption: map[string]int64{"o1": 60, "o2": 40}},
	}
	ctx := ctxFor(units, options, tallies)
	resolved, _ := registry.Resolve(nil)

	report := Validate(ctx, resolved, nil)
	require.False(report.Pass)
	require.Contains(codes(report.Issues), CodeSumExceedsValid)
}

func TestValidateFlagsWtaMagnitude(t *testing.T) {
	require := require.New(t)

	units := []model.Unit{{UnitID: "u1", Magnitude: 3}}
	options := []model.Option{{OptionID: "o1", UnitID: "u1", OrderIndex: 0}}
	tallies := map[string]model.BallotTally{"u1": {UnitID: "u1", PerOption: map[string]int64{"o1": 1}}}
	ctx := ctxFor(units, options, tallies)
	resolved, _ := registry.Resolve(map[string]any{"VM-VAR-050": registry.AllocationFamilyWTA})

	report := Validate(ctx, resolved, nil)
	require.False(report.Pass)
	require.Contains(codes(report.Issues), CodeWtaMagnitude)
}

func TestValidateFlagsQuorumRollTooSmall(t *testing.T) {
	require := require.New(t)

	roll := int64(10)
	units := []model.Unit{{UnitID: "u1", Magnitude: 1, EligibleRoll: &roll}}
	tallies := map[string]model.BallotTally{"u1": {UnitID: "u1", BallotsCast: 50}}
	ctx := ctxFor(units, nil, tallies)
	resolved, _ := registry.Resolve(map[string]any{"VM-VAR-020": int64(100)})

	report := Validate(ctx, resolved, nil)
	require.False(report.Pass)
	require.Contains(codes(report.Issues), CodeQuorumRoll)
}

func TestValidatePropagatesRegistryIssues(t *testing.T) {
	require := require.New(t)

	units, options := baseUnitsOptions()
	tallies := map[string]model.BallotTally{
		"u1": {UnitID: "u1", BallotsCast: 100, ValidBallots: 100, PerOption: map[string]int64{"o1": 60, "o2": 40}},
	}
	ctx := ctxFor(units, options, tallies)
	resolved, regIssues := registry.Resolve(map[string]any{"VM-VAR-050": "not_a_family"})

	report := Validate(ctx, resolved, regIssues)
	require.False(report.Pass)
	require.Contains(codes(report.Issues), CodeParameterDomain)
}

func codes(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, iss := range issues {
		out[i] = iss.Code
	}
	return out
}
