// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package allocate implements the allocator (spec §4.8): for one valid
// unit, it converts per-option vote counts into per-option seat
// allocations under the configured family (largest_remainder,
// highest_averages, or wta) and divisor method. Every comparison uses
// exact integer or rational arithmetic (package internal/ratio); rounding
// happens at exactly one documented point per value.
//
// The allocator never resolves a tie itself — where two or more options
// are exactly tied for a contested seat, it reports a TieGroup and leaves
// the decision to package tiebreak, the way the gate engine leaves
// symmetry-exception interpretation to its caller rather than deciding it
// inline.
package allocate

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/lux-divisions/tally/internal/ratio"
	"github.com/lux-divisions/tally/registry"
	"github.com/lux-divisions/tally/utils/bag"
)

// Allocation is one option's final seat count, before any order_index is
// attached by the caller (the allocator only knows option IDs and votes;
// package result attaches order_index when building the Result artifact).
type Allocation struct {
	OptionID string
	Seats    int64
}

// TieGroup names the candidates tied for one contested seat. SeatIndex is
// 1-based: "the Nth seat awarded in this unit."
type TieGroup struct {
	SeatIndex  int
	Candidates []string
}

// Result is one unit's full allocation outcome: the seats every option
// would receive if every TieGroup breaks toward its first candidate
// (Candidates[0]: ascending option_id for largest_remainder and
// highest_averages, the caller's option order for wta), plus the TieGroups themselves so the
// caller can resolve each one and adjust Allocations accordingly.
type Result struct {
	Allocations []Allocation
	Ties        []TieGroup
}

// Allocate computes seats for optionIDs (already sorted by the caller into
// (order_index, option_id) order — Allocate preserves that order in its
// output and never reorders it) given votes and a Resolved parameter set.
func Allocate(optionIDs []string, votes map[string]int64, resolved registry.Resolved) (Result, error) {
	seats := resolved.Int("VM-VAR-052")
	if seats < 1 {
		return Result{}, errors.New("allocate: VM-VAR-052 allocation_seat_count must be >= 1")
	}
	if len(optionIDs) == 0 {
		return Result{}, errors.New("allocate: no options to allocate among")
	}

	// Bag normalizes the raw int64 tally into one counted form, rather
	// than re-reading the votes map directly in every family's
	// implementation.
	counted := bag.New[string]()
	for _, id := range optionIDs {
		counted.AddCount(id, int(votes[id]))
	}

	switch resolved.String("VM-VAR-050") {
	case registry.AllocationFamilyWTA:
		return allocateWTA(optionIDs, counted, seats)
	case registry.AllocationFamilyLargestRemainder:
		return allocateLargestRemainder(optionIDs, counted, seats)
	case registry.AllocationFamilyHighestAverages:
		return allocateHighestAverages(optionIDs, counted, seats, resolved.String("VM-VAR-051"))
	default:
		return Result{}, errors.Newf("allocate: unrecognized allocation family %q", resolved.String("VM-VAR-050"))
	}
}

func allocateWTA(optionIDs []string, counted bag.Bag[string], seats int64) (Result, error) {
	best := optionIDs[0]
	var tied []string
	for _, id := range optionIDs {
		switch {
		case counted.Count(id) > counted.Count(best):
			best = id
			tied = nil
		case counted.Count(id) == counted.Count(best) && id != best:
			tied = append(tied, id)
		}
	}

	allocations := make([]Allocation, len(optionIDs))
	for i, id := range optionIDs {
		allocations[i] = Allocation{OptionID: id}
	}
	if len(tied) == 0 {
		setSeats(allocations, best, seats)
		return Result{Allocations: allocations}, nil
	}

	candidates := append([]string{best}, tied...)
	setSeats(allocations, best, seats)
	return Result{Allocations: allocations, Ties: []TieGroup{{SeatIndex: 1, Candidates: candidates}}}, nil
}

// allocateLargestRemainder implements the Hare-quota largest-remainder
// method: each option first receives floor(votes_i * seats / total) seats
// (an exact integer division, since both operands are non-negative), then
// remaining seats go one at a time to the options with the largest
// fractional remainder, largest first.
func allocateLargestRemainder(optionIDs []string, counted bag.Bag[string], seats int64) (Result, error) {
	var total int64
	for _, id := range optionIDs {
		total += int64(counted.Count(id))
	}
	allocations := make([]Allocation, len(optionIDs))
	remainders := make(map[string]ratio.Ratio, len(optionIDs))
	var assigned int64

	for i, id := range optionIDs {
		v := int64(counted.Count(id))
		base := int64(0)
		if total > 0 {
			base = (v * seats) / total
		}
		allocations[i] = Allocation{OptionID: id, Seats: base}
		assigned += base
		if total > 0 {
			frac, _ := ratio.New(v*seats-base*total, total)
			remainders[id] = frac
		} else {
			remainders[id] = ratio.FromInt(0)
		}
	}

	remaining := seats - assigned
	if remaining == 0 {
		return Result{Allocations: allocations}, nil
	}

	order := make([]string, len(optionIDs))
	copy(order, optionIDs)
	sort.SliceStable(order, func(i, j int) bool {
		return remainders[order[i]].Cmp(remainders[order[j]]) > 0
	})

	idx := map[string]int{}
	for i, a := range allocations {
		idx[a.OptionID] = i
	}

	var ties []TieGroup
	seatNumber := int(assigned) + 1
	for remaining > 0 {
		// Find every option tied for the next remainder slot.
		top := remainders[order[0]]
		var group []string
		for _, id := range order {
			if remainders[id].Cmp(top) == 0 {
				group = append(group, id)
			}
		}
		sorted := append([]string(nil), group...)
		sort.Strings(sorted)

		switch {
		case int64(len(group)) <= remaining:
			// Every tied option fits within the remaining seats: each gets
			// exactly one, no contested seat, no tie to resolve.
			for _, id := range group {
				allocations[idx[id]].Seats++
			}
			seatNumber += len(group)
			remaining -= int64(len(group))
		default:
			// More candidates are tied than seats remain: the seat(s) are
			// genuinely contested. Tentatively award to the first
			// (ascending) candidates; the caller overrides this once the
			// tie is resolved via package tiebreak.
			ties = append(ties, TieGroup{SeatIndex: seatNumber, Candidates: sorted})
			for i := int64(0); i < remaining; i++ {
				allocations[idx[sorted[i]]].Seats++
			}
			seatNumber += int(remaining)
			remaining = 0
		}
		order = order[len(group):]
	}

	return Result{Allocations: allocations, Ties: ties}, nil
}

// allocateHighestAverages runs seats successive rounds, each awarding one
// seat to whichever option currently has the highest votes/divisor(n+1)
// average, compared exactly via cross-multiplication.
func allocateHighestAverages(optionIDs []string, counted bag.Bag[string], seats int64, method string) (Result, error) {
	allocations := make([]Allocation, len(optionIDs))
	idx := map[string]int{}
	for i, id := range optionIDs {
		allocations[i] = Allocation{OptionID: id}
		idx[id] = i
	}

	var ties []TieGroup
	for round := int64(1); round <= seats; round++ {
		var best string
		var bestAvg ratio.Ratio
		var group []string
		for _, id := range optionIDs {
			divisor := divisorFor(method, allocations[idx[id]].Seats)
			avg, _ := ratio.New(int64(counted.Count(id)), divisor)
			switch {
			case best == "" || avg.Cmp(bestAvg) > 0:
				best, bestAvg = id, avg
				group = []string{id}
			case avg.Cmp(bestAvg) == 0:
				group = append(group, id)
			}
		}
		if len(group) > 1 {
			sorted := append([]string(nil), group...)
			sort.Strings(sorted)
			ties = append(ties, TieGroup{SeatIndex: int(round), Candidates: sorted})
			best = sorted[0]
		}
		allocations[idx[best]].Seats++
	}

	return Result{Allocations: allocations, Ties: ties}, nil
}

// divisorFor returns the divisor used to compute the average for an
// option's (seatsSoFar+1)-th seat: d'Hondt uses 1,2,3,...; Sainte-Laguë
// uses 1,3,5,....
func divisorFor(method string, seatsSoFar int64) int64 {
	if method == registry.DivisorMethodSainteLague {
		return 2*seatsSoFar + 1
	}
	return seatsSoFar + 1
}

// Finalize applies resolved tie winners to r.Allocations: for each
// TieGroup in r.Ties, it moves the seat tentatively awarded to the
// group's first (ascending) candidate onto winners[i] instead, where
// winners is indexed the same way as r.Ties. It is a no-op for any
// TieGroup whose winner already matches the tentative assignment.
func Finalize(r Result, winners []string) ([]Allocation, error) {
	if len(winners) != len(r.Ties) {
		return nil, errors.Newf("allocate: expected %d tie winners, got %d", len(r.Ties), len(winners))
	}
	idx := map[string]int{}
	for i, a := range r.Allocations {
		idx[a.OptionID] = i
	}
	final := make([]Allocation, len(r.Allocations))
	copy(final, r.Allocations)

	for i, tie := range r.Ties {
		winner := winners[i]
		tentative := tie.Candidates[0]
		if winner == tentative {
			continue
		}
		if _, ok := idx[winner]; !ok {
			return nil, errors.Newf("allocate: tie winner %q is not a known option", winner)
		}
		final[idx[tentative]].Seats--
		final[idx[winner]].Seats++
	}
	return final, nil
}

func setSeats(allocations []Allocation, optionID string, seats int64) {
	for i := range allocations {
		if allocations[i].OptionID == optionID {
			allocations[i].Seats = seats
			return
		}
	}
}
