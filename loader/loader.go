// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package loader implements the input loader and schema validator (C3):
// it reads registry.json, tally.json, and params.json, validates each
// against its embedded JSON Schema, canonicalizes the raw bytes and hashes
// them, and assembles a model.LoadedContext. It performs no semantic
// cross-entity validation itself — that is package validate's job (C4).
//
// Schema validation is grounded in the retrieval pack's convention of using
// github.com/santhosh-tekuri/jsonschema/v6 rather than hand-rolled type
// assertions; the teacher itself does not validate external JSON against a
// schema, so this package's shape follows the pack's convention instead
// (see DESIGN.md).
package loader

import (
	"bytes"
	"encoding/json"
	"os"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/lux-divisions/tally"
	"github.com/lux-divisions/tally/canon"
	"github.com/lux-divisions/tally/ids"
	"github.com/lux-divisions/tally/loader/schema"
	"github.com/lux-divisions/tally/model"
)

// Paths names the input files a run consumes. Adjacency and overrides, if
// present, are nested inside registry.json rather than separate files
// (spec §6).
type Paths struct {
	Registry string
	Tally    string
	Params   string
}

var compiler = newCompiler()

func newCompiler() *jsonschema.Compiler {
	c := jsonschema.NewCompiler()
	for _, id := range []string{schema.RegistryID, schema.TallyID, schema.ParamsID} {
		data, err := schema.FS.ReadFile(id)
		if err != nil {
			panic("loader: embedded schema missing: " + id)
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			panic("loader: embedded schema invalid: " + id)
		}
		if err := c.AddResource(id, doc); err != nil {
			panic("loader: embedded schema rejected: " + id + ": " + err.Error())
		}
	}
	return c
}

type registryDoc struct {
	SchemaVersion string                `json:"schema_version"`
	Units         []model.Unit          `json:"units"`
	Options       []model.Option        `json:"options"`
	Adjacency     []model.AdjacencyEdge `json:"adjacency"`
	Overrides     []model.Override      `json:"overrides"`
}

type tallyDoc struct {
	SchemaVersion string              `json:"schema_version"`
	Units         []model.BallotTally `json:"units"`
}

// Load reads and validates the three input files and returns an assembled
// LoadedContext whose Params field holds the raw ParameterSet (not yet
// defaulted or resolved against the parameter registry).
func Load(paths Paths) (*model.LoadedContext, error) {
	registryBytes, err := os.ReadFile(paths.Registry)
	if err != nil {
		return nil, tally.WithKind(tally.KindIO, err)
	}
	tallyBytes, err := os.ReadFile(paths.Tally)
	if err != nil {
		return nil, tally.WithKind(tally.KindIO, err)
	}
	paramsBytes, err := os.ReadFile(paths.Params)
	if err != nil {
		return nil, tally.WithKind(tally.KindIO, err)
	}

	registryCanon, err := validateAndCanonicalize(schema.RegistryID, registryBytes)
	if err != nil {
		return nil, err
	}
	tallyCanon, err := validateAndCanonicalize(schema.TallyID, tallyBytes)
	if err != nil {
		return nil, err
	}
	paramsCanon, err := validateAndCanonicalize(schema.ParamsID, paramsBytes)
	if err != nil {
		return nil, err
	}

	var rdoc registryDoc
	if err := json.Unmarshal(registryBytes, &rdoc); err != nil {
		return nil, tally.WithKind(tally.KindSchema, err)
	}
	var tdoc tallyDoc
	if err := json.Unmarshal(tallyBytes, &tdoc); err != nil {
		return nil, tally.WithKind(tally.KindSchema, err)
	}
	var pdoc model.ParameterSet
	if err := json.Unmarshal(paramsBytes, &pdoc); err != nil {
		return nil, tally.WithKind(tally.KindSchema, err)
	}

	tallies := make(map[string]model.BallotTally, len(tdoc.Units))
	for _, bt := range tdoc.Units {
		if _, exists := tallies[bt.UnitID]; exists {
			return nil, tally.Newf(tally.KindReference, "loader: duplicate tally unit_id %q", bt.UnitID)
		}
		tallies[bt.UnitID] = bt
	}

	unitIDs := make(map[string]struct{}, len(rdoc.Units))
	for _, u := range rdoc.Units {
		unitIDs[u.UnitID] = struct{}{}
	}
	for _, o := range rdoc.Options {
		if _, ok := unitIDs[o.UnitID]; !ok {
			return nil, tally.Newf(tally.KindReference, "loader: option %q references unknown unit %q", o.OptionID, o.UnitID)
		}
	}
	for unitID, bt := range tallies {
		if _, ok := unitIDs[unitID]; !ok {
			return nil, tally.Newf(tally.KindReference, "loader: tally references unknown unit %q", unitID)
		}
		for optionID := range bt.PerOption {
			found := false
			for _, o := range rdoc.Options {
				if o.UnitID == unitID && o.OptionID == optionID {
					found = true
					break
				}
			}
			if !found {
				return nil, tally.Newf(tally.KindReference, "loader: tally for unit %q references unknown option %q", unitID, optionID)
			}
		}
	}

	digest := model.InputsDigest{
		RegistrySHA256: ids.Sum256Hex(registryCanon),
		TallySHA256:    ids.Sum256Hex(tallyCanon),
		ParamsSHA256:   ids.Sum256Hex(paramsCanon),
	}

	ctx := model.Build(rdoc.Units, rdoc.Options, rdoc.Adjacency, tallies, pdoc, rdoc.Overrides, digest)
	return ctx, nil
}

// validateAndCanonicalize validates raw against the embedded schema named
// by id, then returns the canonical form of raw (package canon) so its
// hash is stable regardless of the input file's key order or whitespace.
func validateAndCanonicalize(id string, raw []byte) ([]byte, error) {
	compiled, err := compiler.Compile(id)
	if err != nil {
		return nil, tally.WithKind(tally.KindInternal, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, tally.WithKind(tally.KindSchema, err)
	}
	if err := compiled.Validate(inst); err != nil {
		return nil, tally.WithKind(tally.KindSchema, err)
	}
	canonical, err := canon.Canonicalize(raw)
	if err != nil {
		return nil, tally.WithKind(tally.KindCanon, err)
	}
	return canonical, nil
}
