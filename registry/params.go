// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry is the engine's declarative parameter registry (spec
// §4.5). It defines every VM-VAR-### the pipeline consults, classifies each
// as Included (outcome-affecting, contributes to the Formula ID) or Excluded
// (presentation/seed, never contributes), resolves a caller's partial
// ParameterSet against documented defaults, and builds the Normative
// Manifest the Formula ID is computed over.
package registry

import "github.com/lux-divisions/tally/internal/ratio"

// Kind names a VM-VAR's value shape.
type Kind string

const (
	KindInt    Kind = "int"
	KindPct    Kind = "pct"    // integer parts-per-thousand, exact
	KindBool   Kind = "bool"
	KindEnum   Kind = "enum"
	KindString Kind = "string"
	KindList   Kind = "list"
)

// Class records whether a VM-VAR participates in the Formula ID (spec
// §4.5's Included/Excluded split).
type Class string

const (
	Included Class = "included"
	Excluded Class = "excluded"
)

// RunScope values (VM-VAR-001).
const (
	RunScopeWholeSystem    = "whole_system"
	RunScopeSelectedUnits  = "selected_units"
)

// FrontierModel values (VM-VAR-040).
const (
	FrontierModelNone   = "none"
	FrontierModelBanded = "banded"
	FrontierModelLadder = "ladder"
)

// FrontierBackoff values (VM-VAR-043).
const (
	FrontierBackoffNone   = "none"
	FrontierBackoffSoften = "soften"
	FrontierBackoffHarden = "harden"
)

// AllocationFamily values (VM-VAR-050).
const (
	AllocationFamilyLargestRemainder = "largest_remainder"
	AllocationFamilyHighestAverages  = "highest_averages"
	AllocationFamilyWTA              = "wta"
)

// DivisorMethod values (VM-VAR-051), consulted only when
// VM-VAR-050=highest_averages.
const (
	DivisorMethodDHondt      = "dhondt"
	DivisorMethodSainteLague = "sainte_lague"
)

// LabelPolicy values (VM-VAR-072, Excluded — presentation only).
const (
	LabelPolicyFixed         = "fixed"
	LabelPolicyDynamicMargin = "dynamic_margin"
)

// TiePolicy values (VM-VAR-060).
const (
	TiePolicyStatusQuo         = "status_quo"
	TiePolicyDeterministicOrder = "deterministic_order"
	TiePolicyRandom            = "random"
)

// Definition describes one VM-VAR: its identity, shape, FID classification,
// documented default, and the enum domain it is restricted to (if any).
type Definition struct {
	ID       string
	Name     string
	Kind     Kind
	Class    Class
	Default  any
	EnumVals []string
}

// Definitions lists every VM-VAR the engine recognizes, in ascending ID
// order — the order gate/parameter validation errors are reported in
// (spec §4.6's "ascending parameter-ID reason ordering").
var Definitions = []Definition{
	{ID: "VM-VAR-001", Name: "run_scope", Kind: KindEnum, Class: Included,
		Default: RunScopeWholeSystem, EnumVals: []string{RunScopeWholeSystem, RunScopeSelectedUnits}},
	{ID: "VM-VAR-010", Name: "eligibility_threshold_pct", Kind: KindPct, Class: Included, Default: int64(0)},
	{ID: "VM-VAR-011", Name: "eligibility_min_ballots", Kind: KindInt, Class: Included, Default: int64(0)},
	{ID: "VM-VAR-012", Name: "protected_area_override", Kind: KindBool, Class: Included, Default: false},
	{ID: "VM-VAR-020", Name: "quorum_threshold_pct", Kind: KindPct, Class: Included, Default: int64(0)},
	{ID: "VM-VAR-021", Name: "quorum_min_ballots", Kind: KindInt, Class: Included, Default: int64(0)},
	{ID: "VM-VAR-029", Name: "symmetry_exceptions", Kind: KindList, Class: Included, Default: []any{}},
	{ID: "VM-VAR-030", Name: "integrity_kpi_min_samples", Kind: KindInt, Class: Included, Default: int64(0)},
	{ID: "VM-VAR-031", Name: "integrity_floor_pct", Kind: KindPct, Class: Included, Default: int64(0)},
	{ID: "VM-VAR-040", Name: "frontier_model", Kind: KindEnum, Class: Included,
		Default: FrontierModelNone, EnumVals: []string{FrontierModelNone, FrontierModelBanded, FrontierModelLadder}},
	{ID: "VM-VAR-041", Name: "frontier_band_width_pct", Kind: KindPct, Class: Included, Default: int64(0)},
	{ID: "VM-VAR-042", Name: "frontier_window_size", Kind: KindInt, Class: Included, Default: int64(1)},
	{ID: "VM-VAR-043", Name: "frontier_backoff", Kind: KindEnum, Class: Included,
		Default: FrontierBackoffNone, EnumVals: []string{FrontierBackoffNone, FrontierBackoffSoften, FrontierBackoffHarden}},
	{ID: "VM-VAR-044", Name: "frontier_strictness_pct", Kind: KindPct, Class: Included, Default: int64(1000)},
	{ID: "VM-VAR-050", Name: "allocation_family", Kind: KindEnum, Class: Included,
		Default: AllocationFamilyLargestRemainder,
		EnumVals: []string{AllocationFamilyLargestRemainder, AllocationFamilyHighestAverages, AllocationFamilyWTA}},
	{ID: "VM-VAR-051", Name: "allocation_divisor_method", Kind: KindEnum, Class: Included,
		Default: DivisorMethodDHondt, EnumVals: []string{DivisorMethodDHondt, DivisorMethodSainteLague}},
	{ID: "VM-VAR-052", Name: "allocation_seat_count", Kind: KindInt, Class: Included, Default: int64(1)},
	{ID: "VM-VAR-060", Name: "tie_policy", Kind: KindEnum, Class: Included,
		Default: TiePolicyDeterministicOrder,
		EnumVals: []string{TiePolicyStatusQuo, TiePolicyDeterministicOrder, TiePolicyRandom}},
	{ID: "VM-VAR-070", Name: "label_decisive_threshold_pct", Kind: KindPct, Class: Excluded, Default: int64(550)},
	{ID: "VM-VAR-071", Name: "label_marginal_band_pct", Kind: KindPct, Class: Excluded, Default: int64(30)},
	{ID: "VM-VAR-072", Name: "label_policy", Kind: KindEnum, Class: Excluded,
		Default: LabelPolicyFixed, EnumVals: []string{LabelPolicyFixed, LabelPolicyDynamicMargin}},
	{ID: "VM-VAR-080", Name: "frontier_map_enabled", Kind: KindBool, Class: Excluded, Default: false},
	{ID: "VM-VAR-090", Name: "rng_seed", Kind: KindInt, Class: Excluded, Default: int64(0)},
}

// ByID indexes Definitions by VM-VAR ID.
var ByID = func() map[string]Definition {
	m := make(map[string]Definition, len(Definitions))
	for _, d := range Definitions {
		m[d.ID] = d
	}
	return m
}()

// PctRatio converts a KindPct value (parts-per-thousand) to an exact Ratio
// in [0,1], so threshold comparisons downstream never touch float64.
func PctRatio(partsPerThousand int64) ratio.Ratio {
	r, _ := ratio.New(partsPerThousand, 1000)
	return r
}
