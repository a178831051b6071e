// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runrecord builds the Run Record artifact (the second half of
// C10): engine identity, input digests, effective parameters, the tie
// log, and timestamps, content-addressed the same way package result
// content-addresses the Result — hash the record with its own id field
// blanked, then stamp the id in for the copy that gets written out.
package runrecord

import (
	"encoding/json"

	"github.com/lux-divisions/tally/canon"
	"github.com/lux-divisions/tally/errs"
	"github.com/lux-divisions/tally/ids"
	"github.com/lux-divisions/tally/model"
	"github.com/lux-divisions/tally/tiebreak"
)

// Engine names the implementation producing a run, echoed verbatim into
// every Run Record (spec §4.10).
type Engine struct {
	Vendor  string `json:"vendor"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build,omitempty"`
}

// Inputs holds the three input digests the loader computed (spec §4.3,
// §4.10).
type Inputs struct {
	RegistrySHA256 string `json:"registry_sha256"`
	TallySHA256    string `json:"tally_sha256"`
	ParamsSHA256   string `json:"params_sha256"`
}

// Determinism records the tie policy in effect and, only if at least one
// random draw was consumed, the seed that produced it (spec §4.9).
type Determinism struct {
	TiePolicy string `json:"tie_policy"`
	RNGSeed   *int64 `json:"rng_seed,omitempty"`
}

// TieEvent is one recorded tie resolution, unit-ascending (spec §4.9).
type TieEvent struct {
	UnitID   string   `json:"unit_id"`
	OptionID string   `json:"option_id"`
	Type     string   `json:"type"`
	Policy   string   `json:"policy"`
	Seed     *int64   `json:"seed,omitempty"`
	Winner   string   `json:"winner"`
}

// Timestamps are supplied by the caller; the core never reads the wall
// clock itself (spec §1).
type Timestamps struct {
	StartedUTC  string `json:"started_utc"`
	FinishedUTC string `json:"finished_utc"`
}

// RunRecord is the full artifact.
type RunRecord struct {
	ID            string      `json:"id"`
	Engine        Engine      `json:"engine"`
	FormulaID     string      `json:"formula_id"`
	Inputs        Inputs      `json:"inputs"`
	VarsEffective map[string]any `json:"vars_effective"`
	Determinism   Determinism `json:"determinism"`
	Ties          []TieEvent  `json:"ties"`
	Timestamps    Timestamps  `json:"timestamps"`
	ResultID      string      `json:"result_id"`
	FrontierMapID *string     `json:"frontier_map_id,omitempty"`
}

// Build assembles a RunRecord with a zero-value ID. seed is nil unless at
// least one random tie event occurred (spec §4.9's "the run's seed is
// echoed only if at least one random tie occurred").
func Build(engine Engine, formulaID string, inputs model.InputsDigest, varsEffective map[string]any, tiePolicy string, seed *int64, events []tiebreak.Event, started, finished, resultID string, frontierMapID *string) (RunRecord, error) {
	if !ids.ValidRFC3339UTC(started) || !ids.ValidRFC3339UTC(finished) {
		return RunRecord{}, errs.Newf(errs.KindConfig, "runrecord: timestamps must satisfy the RFC3339-UTC grammar")
	}
	randomTie := false
	for _, ev := range events {
		if ev.Policy == "random" {
			randomTie = true
			break
		}
	}
	if randomTie && seed == nil {
		return RunRecord{}, errs.Newf(errs.KindConfig, "runrecord: a random tie occurred but rng_seed is nil")
	}

	ties := make([]TieEvent, len(events))
	for i, ev := range events {
		var s *int64
		if ev.Policy == "random" {
			s = seed
		}
		ties[i] = TieEvent{UnitID: ev.UnitID, OptionID: ev.OptionID, Type: "tie", Policy: ev.Policy, Seed: s, Winner: ev.Winner}
	}

	rr := RunRecord{
		Engine:        engine,
		FormulaID:     formulaID,
		Inputs:        Inputs{RegistrySHA256: inputs.RegistrySHA256, TallySHA256: inputs.TallySHA256, ParamsSHA256: inputs.ParamsSHA256},
		VarsEffective: varsEffective,
		Determinism:   Determinism{TiePolicy: tiePolicy, RNGSeed: seed},
		Ties:          ties,
		Timestamps:    Timestamps{StartedUTC: started, FinishedUTC: finished},
		ResultID:      resultID,
		FrontierMapID: frontierMapID,
	}
	return rr, nil
}

// Finalize computes rr.ID from the canonical encoding of every field
// except ID, using the "RUN:<started_utc>-<hash>" grammar (spec §4.2),
// then returns the Run Record with ID set and the canonical bytes of that
// form — the bytes written to run_record.json. The hash inside ID binds
// to the id-blanked encoding, not to these returned bytes; package verify
// re-blanks id before re-deriving the hash a run_id or run_record_sha256
// is checked against (see verify.Produced).
func Finalize(rr RunRecord) (RunRecord, []byte, error) {
	rr.ID = ""
	raw, err := json.Marshal(rr)
	if err != nil {
		return RunRecord{}, nil, err
	}
	canonical, err := canon.Canonicalize(raw)
	if err != nil {
		return RunRecord{}, nil, err
	}
	id, err := ids.RunID(rr.Timestamps.StartedUTC, canonical)
	if err != nil {
		return RunRecord{}, nil, err
	}
	rr.ID = id

	raw2, err := json.Marshal(rr)
	if err != nil {
		return RunRecord{}, nil, err
	}
	canonicalFinal, err := canon.Canonicalize(raw2)
	if err != nil {
		return RunRecord{}, nil, err
	}
	return rr, canonicalFinal, nil
}
