// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package frontier

import (
	"encoding/json"

	"github.com/lux-divisions/tally/canon"
	"github.com/lux-divisions/tally/ids"
)

// UnitBand is one unit's row in the Frontier Map (spec §6's
// "units[{unit_id, band_met, band_value, notes?}]"). BandValue is carried
// as a reduced fraction string ("num/den") rather than a float, preserving
// the engine-wide no-float serialization rule.
type UnitBand struct {
	UnitID    string `json:"unit_id"`
	BandMet   bool   `json:"band_met"`
	BandValue string `json:"band_value"`
	Notes     string `json:"notes,omitempty"`
}

// Map is the optional Frontier Map artifact, emitted only when
// VM-VAR-080 (frontier_map_enabled) is true (spec §8's VM-TST-212A/B).
type Map struct {
	ID    string     `json:"id"`
	Units []UnitBand `json:"units"`
}

// BuildMap assembles a Map with a zero-value ID from outcomes and returns
// it and the canonical bytes of that Map with ID stamped in — the bytes
// written to frontier_map.json — following the same hash-then-stamp
// convention as package result and package runrecord. ID's hash binds to
// the id-blanked encoding, not to these returned bytes; package verify
// re-blanks id before re-deriving the hash a frontier_map_id or
// frontier_map_sha256 is checked against (see verify.Produced).
func BuildMap(units []UnitBand) (Map, []byte, error) {
	m := Map{Units: units}
	raw, err := json.Marshal(m)
	if err != nil {
		return Map{}, nil, err
	}
	canonical, err := canon.Canonicalize(raw)
	if err != nil {
		return Map{}, nil, err
	}
	m.ID = ids.FrontierID(canonical)

	raw2, err := json.Marshal(m)
	if err != nil {
		return Map{}, nil, err
	}
	canonicalFinal, err := canon.Canonicalize(raw2)
	if err != nil {
		return Map{}, nil, err
	}
	return m, canonicalFinal, nil
}
