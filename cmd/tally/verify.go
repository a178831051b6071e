// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tally "github.com/lux-divisions/tally"
	"github.com/lux-divisions/tally/verify"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-check a produced artifact set against an expected-hashes oracle",
		RunE:  runVerify,
	}
	cmd.Flags().String("produced", "", "path to a produced.json (verify.Produced encoding)")
	cmd.Flags().String("oracle", "", "path to expected/hashes.json (verify.Oracle encoding)")
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	producedPath, _ := cmd.Flags().GetString("produced")
	oraclePath, _ := cmd.Flags().GetString("oracle")

	producedRaw, err := os.ReadFile(producedPath)
	if err != nil {
		return tally.WithKind(tally.KindIO, err)
	}
	oracleRaw, err := os.ReadFile(oraclePath)
	if err != nil {
		return tally.WithKind(tally.KindIO, err)
	}

	var produced verify.Produced
	if err := json.Unmarshal(producedRaw, &produced); err != nil {
		return tally.WithKind(tally.KindSchema, err)
	}
	var oracle verify.Oracle
	if err := json.Unmarshal(oracleRaw, &oracle); err != nil {
		return tally.WithKind(tally.KindSchema, err)
	}

	report := verify.Check(produced, oracle)
	fmt.Fprintln(cmd.OutOrStdout(), report.String())
	if !report.Pass {
		return tally.WithKind(tally.KindValidation, fmt.Errorf("verification failed with %d finding(s)", len(report.Findings)))
	}
	return nil
}
