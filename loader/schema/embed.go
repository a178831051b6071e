// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package schema embeds the three input schemas (registry, tally, params)
// the loader validates against, the same way the teacher embeds its static
// network presets (config/presets.go) rather than reading them from disk
// at runtime — schemas ship inside the binary, so validation never depends
// on the working directory.
package schema

import "embed"

//go:embed registry.schema.json tally.schema.json params.schema.json
var FS embed.FS

const (
	RegistryID = "registry.schema.json"
	TallyID    = "tally.schema.json"
	ParamsID   = "params.schema.json"
)
