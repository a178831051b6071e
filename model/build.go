// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"sort"

	"github.com/lux-divisions/tally/utils/set"
)

// Build derives the indices a LoadedContext needs from raw Units, Options,
// and Adjacency. It performs no semantic validation itself (that is
// package validate's job, §4.4) — it only assembles lookup structures, the
// way the loader's "ownership and lifecycle" note in spec §3 describes.
func Build(units []Unit, options []Option, adjacency []AdjacencyEdge, tallies map[string]BallotTally, params ParameterSet, overrides []Override, digest InputsDigest) *LoadedContext {
	ctx := &LoadedContext{
		Units:         units,
		Options:       options,
		Adjacency:     adjacency,
		Tallies:       tallies,
		Params:        params,
		Overrides:     overrides,
		InputsSHA256:  digest,
		UnitsByID:     make(map[string]Unit, len(units)),
		OptionsByUnit: make(map[string][]Option),
		Children:      make(map[string][]string),
		AdjacentUnits: make(map[string]set.Set[string]),
	}

	for _, u := range units {
		ctx.UnitsByID[u.UnitID] = u
		ctx.OrderedUnitIDs = append(ctx.OrderedUnitIDs, u.UnitID)
		if u.ParentID == "" {
			ctx.Roots = append(ctx.Roots, u.UnitID)
		} else {
			ctx.Children[u.ParentID] = append(ctx.Children[u.ParentID], u.UnitID)
		}
	}
	sort.Strings(ctx.OrderedUnitIDs)
	sort.Strings(ctx.Roots)

	for _, o := range options {
		ctx.OptionsByUnit[o.UnitID] = append(ctx.OptionsByUnit[o.UnitID], o)
	}
	for unitID, opts := range ctx.OptionsByUnit {
		sorted := make([]Option, len(opts))
		copy(sorted, opts)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].OrderIndex != sorted[j].OrderIndex {
				return sorted[i].OrderIndex < sorted[j].OrderIndex
			}
			return sorted[i].OptionID < sorted[j].OptionID
		})
		ctx.OptionsByUnit[unitID] = sorted
	}

	for _, e := range adjacency {
		addAdjacent(ctx.AdjacentUnits, e.UnitA, e.UnitB)
		addAdjacent(ctx.AdjacentUnits, e.UnitB, e.UnitA)
	}

	return ctx
}

func addAdjacent(m map[string]set.Set[string], from, to string) {
	s, ok := m[from]
	if !ok {
		s = set.NewSet[string](4)
		m[from] = s
	}
	s.Add(to)
}

// TreeProperty reports whether units form a single-rooted tree with no
// cycles and no orphaned parent references: exactly one root, every
// ParentID (if set) refers to an existing unit, and no unit is its own
// ancestor. It walks each unit's parent chain iteratively, with a visited
// set, rather than by recursion so depth is bounded only by available
// memory, matching the teacher's iterative traversal style (graph/, dag/)
// rather than naive recursion.
func TreeProperty(units []Unit) (ok bool, cause string) {
	byID := make(map[string]Unit, len(units))
	for _, u := range units {
		byID[u.UnitID] = u
	}

	roots := 0
	for _, u := range units {
		if u.ParentID == "" {
			roots++
			continue
		}
		if _, exists := byID[u.ParentID]; !exists {
			return false, "orphan: " + u.UnitID + " references missing parent " + u.ParentID
		}
	}
	if roots != 1 {
		return false, "expected exactly one root"
	}

	// Cycle detection: walk every unit's ancestor chain iteratively,
	// bailing out if a chain revisits a unit before reaching a root.
	for _, u := range units {
		seen := set.NewSet[string](8)
		cur := u.UnitID
		for {
			if seen.Contains(cur) {
				return false, "cycle detected at " + cur
			}
			seen.Add(cur)
			parent := byID[cur].ParentID
			if parent == "" {
				break
			}
			cur = parent
		}
	}

	return true, ""
}
