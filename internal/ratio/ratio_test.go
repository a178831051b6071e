// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package ratio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReduces(t *testing.T) {
	require := require.New(t)

	r, err := New(4, 8)
	require.NoError(err)
	require.Equal(Ratio{Num: 1, Den: 2}, r)
}

func TestNewNormalizesNegativeDenominator(t *testing.T) {
	require := require.New(t)

	r, err := New(3, -4)
	require.NoError(err)
	require.Equal(Ratio{Num: -3, Den: 4}, r)
}

func TestCmp(t *testing.T) {
	require := require.New(t)

	a, _ := New(1, 3)
	b, _ := New(1, 2)
	require.Equal(-1, a.Cmp(b))
	require.Equal(1, b.Cmp(a))
	require.Equal(0, a.Cmp(a))
}

func TestRoundHalfEven(t *testing.T) {
	require := require.New(t)

	cases := []struct {
		r    Ratio
		want int64
	}{
		{Ratio{Num: 5, Den: 2}, 2},  // 2.5 -> 2 (even)
		{Ratio{Num: 7, Den: 2}, 4},  // 3.5 -> 4 (even)
		{Ratio{Num: 9, Den: 4}, 2},  // 2.25 -> 2
		{Ratio{Num: 11, Den: 4}, 3}, // 2.75 -> 3
		{Ratio{Num: -5, Den: 2}, -2},
	}
	for _, c := range cases {
		require.Equal(c.want, c.r.RoundHalfEven(), "%+v", c.r)
	}
}

func TestArithmetic(t *testing.T) {
	require := require.New(t)

	a, _ := New(1, 3)
	b, _ := New(1, 6)
	require.Equal(0, a.Add(b).Cmp(mustRatio(1, 2)))
	require.Equal(0, a.Sub(b).Cmp(mustRatio(1, 6)))
	require.Equal(0, a.Mul(FromInt(3)).Cmp(FromInt(1)))

	d, err := a.Div(b)
	require.NoError(err)
	require.Equal(0, d.Cmp(FromInt(2)))
}

func mustRatio(n, d int64) Ratio {
	r, err := New(n, d)
	if err != nil {
		panic(err)
	}
	return r
}
