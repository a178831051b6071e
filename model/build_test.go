// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleUnits() []Unit {
	return []Unit{
		{UnitID: "root", Magnitude: 1},
		{UnitID: "childA", ParentID: "root", Magnitude: 1},
		{UnitID: "childB", ParentID: "root", Magnitude: 1},
	}
}

func TestTreePropertyValid(t *testing.T) {
	require := require.New(t)

	ok, cause := TreeProperty(sampleUnits())
	require.True(ok, cause)
}

func TestTreePropertyRejectsOrphan(t *testing.T) {
	require := require.New(t)

	units := sampleUnits()
	units = append(units, Unit{UnitID: "orphan", ParentID: "missing", Magnitude: 1})
	ok, _ := TreeProperty(units)
	require.False(ok)
}

func TestTreePropertyRejectsCycle(t *testing.T) {
	require := require.New(t)

	units := []Unit{
		{UnitID: "a", ParentID: "b", Magnitude: 1},
		{UnitID: "b", ParentID: "a", Magnitude: 1},
	}
	ok, _ := TreeProperty(units)
	require.False(ok)
}

func TestTreePropertyRejectsMultipleRoots(t *testing.T) {
	require := require.New(t)

	units := []Unit{
		{UnitID: "r1", Magnitude: 1},
		{UnitID: "r2", Magnitude: 1},
	}
	ok, _ := TreeProperty(units)
	require.False(ok)
}

func TestBuildOrdersOptionsAndUnits(t *testing.T) {
	require := require.New(t)

	units := sampleUnits()
	options := []Option{
		{OptionID: "optZ", UnitID: "root", OrderIndex: 2},
		{OptionID: "optA", UnitID: "root", OrderIndex: 1},
		{OptionID: "optB", UnitID: "root", OrderIndex: 1},
	}
	ctx := Build(units, options, nil, map[string]BallotTally{}, ParameterSet{}, nil, InputsDigest{})

	require.Equal([]string{"childA", "childB", "root"}, ctx.OrderedUnitIDs)
	require.Equal([]string{"root"}, ctx.Roots)

	rootOpts := ctx.OptionsByUnit["root"]
	require.Len(rootOpts, 3)
	require.Equal("optA", rootOpts[0].OptionID)
	require.Equal("optB", rootOpts[1].OptionID)
	require.Equal("optZ", rootOpts[2].OptionID)
}

func TestBuildAdjacency(t *testing.T) {
	require := require.New(t)

	ctx := Build(sampleUnits(), nil, []AdjacencyEdge{
		{UnitA: "childA", UnitB: "childB", Type: "border"},
	}, map[string]BallotTally{}, ParameterSet{}, nil, InputsDigest{})

	adjA := ctx.AdjacentUnits["childA"]
	adjB := ctx.AdjacentUnits["childB"]
	require.True(adjA.Contains("childB"))
	require.True(adjB.Contains("childA"))
}
