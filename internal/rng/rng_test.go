// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	require := require.New(t)

	a := New(424242)
	b := New(424242)
	for i := 0; i < 32; i++ {
		require.Equal(a.NextU64(), b.NextU64())
	}
}

func TestDifferentSeedDifferentSequence(t *testing.T) {
	require := require.New(t)

	a := New(1)
	b := New(2)

	diff := false
	for i := 0; i < 8; i++ {
		if a.NextU64() != b.NextU64() {
			diff = true
		}
	}
	require.True(diff)
}

func TestNotDegenerate(t *testing.T) {
	require := require.New(t)

	g := New(7)
	seen := map[uint64]bool{}
	for i := 0; i < 64; i++ {
		v := g.NextU64()
		require.False(seen[v], "draw repeated within 64 draws: %d", v)
		seen[v] = true
	}
}

func TestZeroSeedDoesNotProduceAllZeroState(t *testing.T) {
	require := require.New(t)

	g := New(0)
	sum := uint64(0)
	for i := 0; i < 4; i++ {
		sum |= g.NextU64()
	}
	require.NotZero(sum)
}
