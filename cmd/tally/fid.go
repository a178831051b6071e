// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tally "github.com/lux-divisions/tally"
	"github.com/lux-divisions/tally/registry"
)

func fidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fid",
		Short: "Print the Formula ID for a Parameter Set without running the pipeline",
		RunE:  runFID,
	}
	cmd.Flags().String("params", "", "path to params.json")
	cmd.Flags().String("engine-version", "dev", "engine version recorded in the Normative Manifest")
	cmd.Flags().String("schema-version", "1.0", "schema_version recorded in the Normative Manifest")
	return cmd
}

func runFID(cmd *cobra.Command, args []string) error {
	paramsPath, _ := cmd.Flags().GetString("params")
	engineVersion, _ := cmd.Flags().GetString("engine-version")
	schemaVersion, _ := cmd.Flags().GetString("schema-version")

	raw, err := os.ReadFile(paramsPath)
	if err != nil {
		return tally.WithKind(tally.KindIO, err)
	}
	var doc struct {
		Vars map[string]any `json:"vars"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return tally.WithKind(tally.KindSchema, err)
	}

	resolved, issues := registry.Resolve(doc.Vars)
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "parameter: [%s] %s\n", iss.ParamID, iss.Message)
	}
	manifest := registry.BuildManifest(resolved, engineVersion, schemaVersion)
	fid, err := registry.FormulaID(manifest)
	if err != nil {
		return tally.WithKind(tally.KindInternal, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), fid)
	return nil
}
