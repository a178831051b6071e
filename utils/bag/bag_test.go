// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package bag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBagCounts(t *testing.T) {
	require := require.New(t)

	b := Of("optA", "optB", "optA", "optA")
	require.Equal(3, b.Count("optA"))
	require.Equal(1, b.Count("optB"))
	require.Equal(4, b.Len())
}

func TestBagMode(t *testing.T) {
	require := require.New(t)

	b := Of("optA", "optB", "optA")
	mode, count := b.Mode()
	require.Equal("optA", mode)
	require.Equal(2, count)
}

func TestBagEquals(t *testing.T) {
	require := require.New(t)

	a := Of("x", "x", "y")
	b := Of("y", "x", "x")
	require.True(a.Equals(b))

	c := Of("x", "y")
	require.False(a.Equals(c))
}
