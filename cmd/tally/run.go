// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	tally "github.com/lux-divisions/tally"
	"github.com/lux-divisions/tally/internal/atomicfile"
	"github.com/lux-divisions/tally/loader"
	"github.com/lux-divisions/tally/runrecord"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline over a registry, tally, and parameter set",
		RunE:  runRun,
	}
	cmd.Flags().String("registry", "", "path to registry.json")
	cmd.Flags().String("tally", "", "path to tally.json")
	cmd.Flags().String("params", "", "path to params.json")
	cmd.Flags().String("out", ".", "output directory for result.json, run_record.json, frontier_map.json")
	cmd.Flags().String("started-utc", "", "RFC3339 UTC run start timestamp")
	cmd.Flags().String("finished-utc", "", "RFC3339 UTC run finish timestamp")
	cmd.Flags().String("engine-version", "dev", "engine version recorded in the Run Record")
	cmd.Flags().String("schema-version", "1.0", "schema_version recorded in the Normative Manifest")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	registryPath, _ := cmd.Flags().GetString("registry")
	tallyPath, _ := cmd.Flags().GetString("tally")
	paramsPath, _ := cmd.Flags().GetString("params")
	outDir, _ := cmd.Flags().GetString("out")
	startedUTC, _ := cmd.Flags().GetString("started-utc")
	finishedUTC, _ := cmd.Flags().GetString("finished-utc")
	engineVersion, _ := cmd.Flags().GetString("engine-version")
	schemaVersion, _ := cmd.Flags().GetString("schema-version")

	ctx, err := loader.Load(loader.Paths{Registry: registryPath, Tally: tallyPath, Params: paramsPath})
	if err != nil {
		return err
	}

	out, err := tally.Run(tally.Request{
		Context: ctx,
		Engine: runrecord.Engine{
			Vendor: "lux-divisions", Name: "tally", Version: engineVersion, Build: engineVersion,
		},
		EngineVersion: engineVersion,
		SchemaVersion: schemaVersion,
		StartedUTC:    startedUTC,
		FinishedUTC:   finishedUTC,
	})
	if err != nil {
		return err
	}

	if err := atomicfile.Write(filepath.Join(outDir, "result.json"), out.ResultBytes, 0o644); err != nil {
		return tally.WithKind(tally.KindIO, err)
	}
	if err := atomicfile.Write(filepath.Join(outDir, "run_record.json"), out.RunRecordBytes, 0o644); err != nil {
		return tally.WithKind(tally.KindIO, err)
	}
	if out.FrontierMap != nil {
		if err := atomicfile.Write(filepath.Join(outDir, "frontier_map.json"), out.FrontierMapBytes, 0o644); err != nil {
			return tally.WithKind(tally.KindIO, err)
		}
	}

	if !out.ValidationReport.Pass {
		for _, issue := range out.ValidationReport.Issues {
			fmt.Fprintf(cmd.ErrOrStderr(), "validation: [%s] %s (%s)\n", issue.Code, issue.Message, issue.Where)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "formula_id=%s result_id=%s run_id=%s\n", out.Result.FormulaID, out.Result.ID, out.RunRecord.ID)
	return nil
}
