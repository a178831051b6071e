// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package frontier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lux-divisions/tally/internal/ratio"
	"github.com/lux-divisions/tally/registry"
)

func TestEvaluateNoneAlwaysMeets(t *testing.T) {
	require := require.New(t)

	cfg := Config{Model: registry.FrontierModelNone}
	out, streak := Evaluate(cfg, ratio.FromInt(1), ratio.FromInt(100), 0)
	require.True(out.Valid)
	require.True(out.BandMet)
	require.Equal(int64(0), streak)
}

func TestEvaluateBandedRequiresWindow(t *testing.T) {
	require := require.New(t)

	cfg := Config{Model: registry.FrontierModelBanded, WindowSize: 2, BandWidth: registry.PctRatio(50), Strictness: registry.PctRatio(1000)}
	cut := registry.PctRatio(500)
	measured := registry.PctRatio(510)

	out1, streak1 := Evaluate(cfg, measured, cut, 0)
	require.True(out1.Valid)
	require.False(out1.BandMet)
	require.Equal(int64(1), streak1)

	out2, streak2 := Evaluate(cfg, measured, cut, streak1)
	require.True(out2.BandMet)
	require.Equal(int64(2), streak2)
}

func TestEvaluateBandedResetsStreakOutsideBand(t *testing.T) {
	require := require.New(t)

	cfg := Config{Model: registry.FrontierModelBanded, WindowSize: 2, BandWidth: registry.PctRatio(10), Strictness: registry.PctRatio(1000)}
	cut := registry.PctRatio(500)
	far := registry.PctRatio(900)

	out, streak := Evaluate(cfg, far, cut, 5)
	require.True(out.Valid)
	require.False(out.BandMet)
	require.Equal(int64(0), streak)
}

func TestEvaluateBandedRejectsInvalidWindow(t *testing.T) {
	require := require.New(t)

	cfg := Config{Model: registry.FrontierModelBanded, WindowSize: 0}
	out, _ := Evaluate(cfg, ratio.FromInt(1), ratio.FromInt(1), 0)
	require.False(out.Valid)
}

func TestEvaluateLadderAdvancesRungs(t *testing.T) {
	require := require.New(t)

	cfg := Config{Model: registry.FrontierModelLadder, BandWidth: registry.PctRatio(100), Strictness: registry.PctRatio(1000)}
	cut := registry.PctRatio(500)

	out, streak := Evaluate(cfg, registry.PctRatio(500), cut, 0)
	require.True(out.BandMet)
	require.Equal(int64(1), streak)

	out2, _ := Evaluate(cfg, registry.PctRatio(500), cut, streak)
	require.False(out2.BandMet)
}

func TestEvaluateUnrecognizedModelIsInvalid(t *testing.T) {
	require := require.New(t)

	cfg := Config{Model: "triangle"}
	out, _ := Evaluate(cfg, ratio.FromInt(1), ratio.FromInt(1), 0)
	require.False(out.Valid)
}

func TestLoadConfigFromResolved(t *testing.T) {
	require := require.New(t)

	resolved, _ := registry.Resolve(map[string]any{
		"VM-VAR-040": registry.FrontierModelBanded,
		"VM-VAR-041": int64(25),
		"VM-VAR-042": int64(3),
	})
	cfg := LoadConfig(resolved)
	require.Equal(registry.FrontierModelBanded, cfg.Model)
	require.Equal(int64(3), cfg.WindowSize)
}
