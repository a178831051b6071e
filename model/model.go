// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package model defines the engine's data entities — Unit, Option,
// AdjacencyEdge, BallotTally, ParameterSet — and the read-only LoadedContext
// that bundles them once validated (spec §3). Every component downstream of
// the loader (package loader) treats a LoadedContext as immutable.
package model

import "github.com/lux-divisions/tally/utils/set"

// Unit is one node of the jurisdictional division tree.
type Unit struct {
	UnitID                 string `json:"unit_id"`
	ParentID               string `json:"parent_id,omitempty"`
	Magnitude              int    `json:"magnitude"`
	ProtectedArea          bool   `json:"protected_area,omitempty"`
	PopulationBaseline     *int64 `json:"population_baseline,omitempty"`
	PopulationBaselineYear *int   `json:"population_baseline_year,omitempty"`
	EligibleRoll           *int64 `json:"eligible_roll,omitempty"`
}

// Option is a candidate/choice within a Unit.
type Option struct {
	OptionID   string `json:"option_id"`
	UnitID     string `json:"unit_id"`
	OrderIndex int    `json:"order_index"`
	Name       string `json:"name,omitempty"`
}

// AdjacencyEdgeType names the kind of relationship an AdjacencyEdge
// records. The frontier evaluator is the only consumer of adjacency data.
type AdjacencyEdgeType string

// AdjacencyEdge is an undirected edge between two units, used by frontier
// models that reason about neighboring units.
type AdjacencyEdge struct {
	UnitA string            `json:"unit_a"`
	UnitB string            `json:"unit_b"`
	Type  AdjacencyEdgeType `json:"type"`
}

// BallotTally is one unit's vote counts.
type BallotTally struct {
	UnitID          string           `json:"unit_id"`
	BallotsCast     int64            `json:"ballots_cast"`
	InvalidOrBlank  int64            `json:"invalid_or_blank"`
	ValidBallots    int64            `json:"valid_ballots"`
	PerOption       map[string]int64 `json:"per_option"`
	// IntegrityKPIPct is the unit's integrity KPI in parts-per-thousand
	// (e.g. ballot-chain-of-custody or audit-match rate), compared against
	// VM-VAR-031 by the Integrity Floor gate (spec §4.6). Nil means the
	// unit reported no KPI, which the Integrity Floor gate treats as 0.
	IntegrityKPIPct *int64 `json:"integrity_kpi_pct,omitempty"`
}

// Override is one entry of the explicit {unit_id, mode} override list the
// gate engine consults before symmetry exceptions (spec §4.6). Mode
// "force_eligible" bypasses every bypassable eligibility gate for the
// unit; "force_ineligible" fails the unit at the Eligibility stage
// regardless of its computed turnout/share.
type Override struct {
	UnitID string `json:"unit_id"`
	Mode   string `json:"mode"`
}

// ParameterSet is the raw "VM-VAR-###" → value mapping read from
// params.json, before the registry (package registry) substitutes defaults
// for any absent Included parameter.
type ParameterSet struct {
	SchemaVersion string         `json:"schema_version"`
	Vars          map[string]any `json:"vars"`
}

// LoadedContext bundles a validated Registry, Options, optional Adjacency,
// Tally, and ParameterSet, plus a precomputed unit ordering. It is built
// once by the loader and never mutated afterward.
type LoadedContext struct {
	Units         []Unit
	Options       []Option
	Adjacency     []AdjacencyEdge
	Tallies       map[string]BallotTally
	Params        ParameterSet
	Overrides     []Override
	InputsSHA256  InputsDigest

	// UnitsByID indexes Units by UnitID for O(1) lookup.
	UnitsByID map[string]Unit
	// OptionsByUnit lists each unit's options already sorted by
	// (order_index, option_id) — the order the allocator and result
	// builder must emit allocations in (spec §4.8).
	OptionsByUnit map[string][]Option
	// Children maps a unit to its direct children's IDs, built once at
	// load time (spec §3's "ownership and lifecycle").
	Children map[string][]string
	// Roots lists unit IDs with no parent. A valid tree has exactly one.
	Roots []string
	// OrderedUnitIDs lists every unit ID in ascending order — the order
	// the gate/frontier/allocate/tiebreak pipeline runs in per unit
	// (spec §2) and the order the result/run-record builder emits
	// per-unit records in.
	OrderedUnitIDs []string
	// AdjacentUnits maps a unit ID to the de-duplicated set of unit IDs
	// connected to it by an AdjacencyEdge.
	AdjacentUnits map[string]set.Set[string]
}

// InputsDigest holds the SHA-256 of each canonicalized input file (spec
// §4.3), echoed into the Run Record's inputs.{registry,tally,params}_sha256
// fields.
type InputsDigest struct {
	RegistrySHA256 string
	TallySHA256    string
	ParamsSHA256   string
}
