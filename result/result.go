// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package result builds the Result artifact (the first half of C10): one
// record per unit naming its label and final allocations, a national
// summary, and the content-addressed result_id computed over the
// canonical encoding of everything else in the struct.
package result

import (
	"encoding/json"

	"github.com/lux-divisions/tally/allocate"
	"github.com/lux-divisions/tally/canon"
	"github.com/lux-divisions/tally/ids"
	"github.com/lux-divisions/tally/label"
)

// AllocationEntry is one option's outcome within a unit. Seats is the
// expansion beyond spec.md's literal {option_id, votes, share?} shape: the
// spec's "allocations" already means seat/weight allocations in the
// multi-family sense (§4.8), so the Result needs to carry the allocator's
// actual Seats count, not just the raw vote tally, for any reader that
// wants seat counts without recomputing them.
type AllocationEntry struct {
	OptionID  string `json:"option_id"`
	Votes     int64  `json:"votes"`
	Seats     int64  `json:"seats"`
	SharePctX *int64 `json:"share_pct_x10,omitempty"`
}

// UnitResult is one unit's labeled outcome.
type UnitResult struct {
	UnitID      string            `json:"unit_id"`
	Label       string            `json:"label"`
	Allocations []AllocationEntry `json:"allocations"`
}

// Summary is the national/aggregate roll-up across every unit in the run.
type Summary struct {
	UnitCount     int            `json:"unit_count"`
	DecisiveCount int            `json:"decisive_count"`
	MarginalCount int            `json:"marginal_count"`
	InvalidCount  int            `json:"invalid_count"`
	TotalSeats    map[string]int64 `json:"total_seats"`
}

// Result is the full artifact: formula_id and created_at are supplied by
// the caller (the pipeline and an external clock, respectively — the core
// never reads the wall clock itself, spec §1); ID is computed last, once
// every other field is final.
type Result struct {
	ID         string       `json:"id"`
	FormulaID  string       `json:"formula_id"`
	CreatedAt  string       `json:"created_at"`
	Summary    Summary      `json:"summary"`
	Units      []UnitResult `json:"units"`
}

// UnitInput is everything Build needs for one unit: its status, the
// allocator's final per-option seats (post Finalize), and raw vote counts
// keyed by option_id for the votes/share fields.
type UnitInput struct {
	UnitID      string
	Status      label.Status
	Allocations []allocate.Allocation
	Votes       map[string]int64
}

// Build assembles a Result with a zero-value ID; callers must call
// Finalize once FormulaID and CreatedAt are set, to compute ID.
func Build(units []UnitInput, formulaID, createdAt string) Result {
	r := Result{FormulaID: formulaID, CreatedAt: createdAt}
	totalSeats := map[string]int64{}

	for _, u := range units {
		var validTotal int64
		for _, v := range u.Votes {
			validTotal += v
		}

		entries := make([]AllocationEntry, len(u.Allocations))
		for i, a := range u.Allocations {
			votes := u.Votes[a.OptionID]
			entry := AllocationEntry{OptionID: a.OptionID, Votes: votes, Seats: a.Seats}
			if validTotal > 0 {
				x10 := (votes * 1000) / validTotal
				entry.SharePctX = &x10
			}
			entries[i] = entry
			totalSeats[a.OptionID] += a.Seats
		}

		r.Units = append(r.Units, UnitResult{UnitID: u.UnitID, Label: u.Status.String(), Allocations: entries})

		switch u.Status {
		case label.Decisive:
			r.Summary.DecisiveCount++
		case label.Marginal:
			r.Summary.MarginalCount++
		default:
			r.Summary.InvalidCount++
		}
	}
	r.Summary.UnitCount = len(units)
	r.Summary.TotalSeats = totalSeats
	return r
}

// Finalize computes r.ID from the canonical encoding of every field except
// ID itself, then returns the updated Result and the canonical bytes of
// that Result with ID populated — the form written to result.json. ID's
// hash binds to the id-blanked encoding, not to these returned bytes;
// package verify re-blanks id before re-deriving the hash a result_id or
// result_sha256 is checked against (see verify.Produced).
func Finalize(r Result) (Result, []byte, error) {
	r.ID = ""
	raw, err := json.Marshal(r)
	if err != nil {
		return Result{}, nil, err
	}
	canonical, err := canon.Canonicalize(raw)
	if err != nil {
		return Result{}, nil, err
	}
	r.ID = ids.ResultID(canonical)

	raw2, err := json.Marshal(r)
	if err != nil {
		return Result{}, nil, err
	}
	canonicalFinal, err := canon.Canonicalize(raw2)
	if err != nil {
		return Result{}, nil, err
	}
	return r, canonicalFinal, nil
}
