// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tiebreak implements the tie resolver (spec §4.9's C9): given a
// set of candidates tied for the last available seat or for a unit's
// winning option, it picks one winner according status_quo,
// deterministic_order, or random policy, consuming exactly k RNG draws
// for a k-way tie. It is grounded in the teacher's poll.Set — a keyed
// collection of independent decisions that must resolve deterministically
// from recorded votes — generalized from many concurrent network polls to
// one deterministic per-unit tie.
package tiebreak

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/lux-divisions/tally/internal/rng"
	"github.com/lux-divisions/tally/registry"
)

// Event records one tie resolution for the run record's audit trail (spec
// §4.2's tie events).
type Event struct {
	UnitID    string
	OptionID  string
	Candidates []string
	Policy    string
	Draws     []uint64
	Winner    string
}

// Resolve picks a winner among candidates (already known to be tied) per
// policy. candidates must be non-empty and is never reordered by this
// function — any stable ordering callers need (e.g. ascending option_id)
// must already hold before Resolve is called, since
// deterministic_order picks candidates[0].
//
//   - status_quo: statusQuoWinner must be one of candidates; it always
//     wins. An empty statusQuoWinner, or one absent from candidates, is an
//     error — the caller configured status_quo without a prior incumbent.
//   - deterministic_order: the first candidate (by the caller's ordering)
//     wins; no RNG draw is consumed.
//   - random: exactly len(candidates) draws are consumed from src, one
//     per candidate in order, and the candidate with the highest draw
//     wins (ties in the draw itself, astronomically unlikely with a
//     64-bit draw, break toward the earliest candidate).
func Resolve(unitID, optionID string, candidates []string, policy, statusQuoWinner string, src rng.Source) (Event, error) {
	if len(candidates) == 0 {
		return Event{}, errors.New("tiebreak: candidates must be non-empty")
	}
	ev := Event{UnitID: unitID, OptionID: optionID, Candidates: candidates, Policy: policy}

	switch policy {
	case registry.TiePolicyStatusQuo:
		found := false
		for _, c := range candidates {
			if c == statusQuoWinner {
				found = true
				break
			}
		}
		if !found {
			return Event{}, errors.Newf("tiebreak: status_quo winner %q is not among tied candidates %v", statusQuoWinner, candidates)
		}
		ev.Winner = statusQuoWinner
		return ev, nil

	case registry.TiePolicyDeterministicOrder:
		ev.Winner = candidates[0]
		return ev, nil

	case registry.TiePolicyRandom:
		draws := make([]uint64, len(candidates))
		bestIdx := 0
		for i := range candidates {
			draws[i] = src.NextU64()
			if draws[i] > draws[bestIdx] {
				bestIdx = i
			}
		}
		ev.Draws = draws
		ev.Winner = candidates[bestIdx]
		return ev, nil

	default:
		return Event{}, errors.Newf("tiebreak: unrecognized tie policy %q", policy)
	}
}

// SortCandidates returns a copy of candidates in ascending lexicographic
// order, the stable ordering deterministic_order and the random policy's
// draw-assignment order both rely on.
func SortCandidates(candidates []string) []string {
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)
	return sorted
}
