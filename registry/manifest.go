// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"encoding/json"
	"sort"

	"github.com/lux-divisions/tally/canon"
	"github.com/lux-divisions/tally/ids"
)

// Manifest is the Normative Manifest (spec §4.5): the subset of a
// Resolved parameter set that is Included in outcome determination, plus
// the schema/engine version identifiers that also shape the Formula ID.
// Excluded parameters (rng_seed, label thresholds, frontier_map_enabled)
// are deliberately omitted — the whole point of the Included/Excluded
// split is that two runs differing only in Excluded values share an FID.
type Manifest struct {
	EngineVersion string         `json:"engine_version"`
	SchemaVersion string         `json:"schema_version"`
	Included      map[string]any `json:"included"`
}

// BuildManifest extracts the Included subset of resolved, in ascending
// VM-VAR-ID order inside the map (canon.Encode sorts object keys anyway,
// but building it this way keeps JSON round-trips through non-canon
// encoders stable too).
func BuildManifest(resolved Resolved, engineVersion, schemaVersion string) Manifest {
	included := make(map[string]any)
	includedIDs := make([]string, 0, len(Definitions))
	for _, def := range Definitions {
		if def.Class == Included {
			includedIDs = append(includedIDs, def.ID)
		}
	}
	sort.Strings(includedIDs)
	for _, id := range includedIDs {
		included[id] = resolved.Values[id]
	}
	return Manifest{EngineVersion: engineVersion, SchemaVersion: schemaVersion, Included: included}
}

// FormulaID canonicalizes m and returns its bare hex64 SHA-256 digest, the
// FID (spec §4.5: "FID = sha256(canonical(NormativeManifest))", unprefixed
// unlike Result/Run/Frontier IDs). Two Manifests that are deeply equal —
// same Included values, same engine/schema version — always produce the
// same FID, regardless of Go map iteration order or field order in the
// marshaled struct, because canon.Encode re-marshals through its own
// sorted-key encoder before hashing.
func FormulaID(m Manifest) (string, error) {
	raw, err := json.Marshal(struct {
		EngineVersion string         `json:"engine_version"`
		SchemaVersion string         `json:"schema_version"`
		Included      map[string]any `json:"included"`
	}{m.EngineVersion, m.SchemaVersion, m.Included})
	if err != nil {
		return "", err
	}
	canonical, err := canon.Canonicalize(raw)
	if err != nil {
		return "", err
	}
	return ids.Sum256Hex(canonical), nil
}
