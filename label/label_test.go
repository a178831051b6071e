// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package label

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lux-divisions/tally/internal/ratio"
	"github.com/lux-divisions/tally/registry"
)

func TestDeriveFailedGateIsInvalid(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(nil)
	status := Derive(resolved, false, ratio.FromInt(1), 2)
	require.Equal(Invalid, status)
}

func TestDeriveAboveThresholdIsDecisive(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{"VM-VAR-070": int64(550)})
	margin := registry.PctRatio(600)
	require.Equal(Decisive, Derive(resolved, true, margin, 2))
}

func TestDeriveBelowThresholdIsMarginal(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{"VM-VAR-070": int64(550)})
	margin := registry.PctRatio(100)
	require.Equal(Marginal, Derive(resolved, true, margin, 2))
}

func TestDeriveDynamicMarginScalesWithOptionCount(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{
		"VM-VAR-070": int64(600),
		"VM-VAR-072": registry.LabelPolicyDynamicMargin,
	})
	margin := registry.PctRatio(300)
	// fixed policy: 300 < 600 -> Marginal
	fixed, _ := registry.Resolve(map[string]any{"VM-VAR-070": int64(600)})
	require.Equal(Marginal, Derive(fixed, true, margin, 4))
	// dynamic_margin with 4 options scales 600 down to 300 -> exactly Decisive
	require.Equal(Decisive, Derive(resolved, true, margin, 4))
}

func TestWithinMarginalBand(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{
		"VM-VAR-070": int64(550),
		"VM-VAR-071": int64(50),
	})
	require.True(WithinMarginalBand(resolved, registry.PctRatio(520)))
	require.False(WithinMarginalBand(resolved, registry.PctRatio(100)))
}

func TestStatusStringAndValid(t *testing.T) {
	require := require.New(t)

	require.Equal("Decisive", Decisive.String())
	require.True(Marginal.Valid())
	require.False(Status(99).Valid())
}
