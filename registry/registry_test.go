// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDefaultsEverything(t *testing.T) {
	require := require.New(t)

	resolved, issues := Resolve(nil)
	require.Empty(issues)
	require.Equal(RunScopeWholeSystem, resolved.String("VM-VAR-001"))
	require.Equal(int64(1), resolved.Int("VM-VAR-052"))
	require.False(resolved.Bool("VM-VAR-012"))
}

func TestResolveFlagsUnknownParameter(t *testing.T) {
	require := require.New(t)

	_, issues := Resolve(map[string]any{"VM-VAR-999": int64(1)})
	require.Len(issues, 1)
	require.Equal("unknown_parameter", issues[0].Code)
	require.Equal("VM-VAR-999", issues[0].ParamID)
}

func TestResolveFlagsWrongKindAndEnum(t *testing.T) {
	require := require.New(t)

	_, issues := Resolve(map[string]any{
		"VM-VAR-012": "not-a-bool",
		"VM-VAR-040": "triangle",
	})
	require.Len(issues, 2)
	// Ascending VM-VAR-ID order.
	require.Equal("VM-VAR-012", issues[0].ParamID)
	require.Equal("wrong_kind", issues[0].Code)
	require.Equal("VM-VAR-040", issues[1].ParamID)
	require.Equal("not_in_enum", issues[1].Code)
}

func TestResolveAcceptsFloatWholeNumberJSON(t *testing.T) {
	require := require.New(t)

	// encoding/json unmarshals numbers from a map[string]any as float64;
	// Resolve must still accept a whole-number float for an int/pct kind.
	resolved, issues := Resolve(map[string]any{"VM-VAR-010": float64(250)})
	require.Empty(issues)
	require.Equal(int64(250), resolved.Int("VM-VAR-010"))
}

func TestFormulaIDStableAcrossExcludedChanges(t *testing.T) {
	require := require.New(t)

	base, issues := Resolve(map[string]any{"VM-VAR-050": AllocationFamilyWTA})
	require.Empty(issues)
	withSeed, issues := Resolve(map[string]any{
		"VM-VAR-050": AllocationFamilyWTA,
		"VM-VAR-090": int64(42),
	})
	require.Empty(issues)

	fidBase, err := FormulaID(BuildManifest(base, "v1", "1.0"))
	require.NoError(err)
	fidSeed, err := FormulaID(BuildManifest(withSeed, "v1", "1.0"))
	require.NoError(err)
	require.Equal(fidBase, fidSeed, "rng_seed is Excluded and must not affect FID")
}

func TestFormulaIDChangesWithIncludedValue(t *testing.T) {
	require := require.New(t)

	a, _ := Resolve(map[string]any{"VM-VAR-060": TiePolicyStatusQuo})
	b, _ := Resolve(map[string]any{"VM-VAR-060": TiePolicyRandom})

	fidA, err := FormulaID(BuildManifest(a, "v1", "1.0"))
	require.NoError(err)
	fidB, err := FormulaID(BuildManifest(b, "v1", "1.0"))
	require.NoError(err)
	require.NotEqual(fidA, fidB, "tie_policy is Included and must change the FID")
}

func TestFormulaIDLooksLikeHex64(t *testing.T) {
	require := require.New(t)

	resolved, _ := Resolve(nil)
	fid, err := FormulaID(BuildManifest(resolved, "v1", "1.0"))
	require.NoError(err)
	require.Len(fid, 64)
}
