// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package tally

import (
	"github.com/luxfi/log"

	"github.com/lux-divisions/tally/allocate"
	"github.com/lux-divisions/tally/frontier"
	"github.com/lux-divisions/tally/gates"
	"github.com/lux-divisions/tally/internal/obslog"
	"github.com/lux-divisions/tally/internal/ratio"
	"github.com/lux-divisions/tally/internal/rng"
	"github.com/lux-divisions/tally/label"
	"github.com/lux-divisions/tally/model"
	"github.com/lux-divisions/tally/registry"
	"github.com/lux-divisions/tally/result"
	"github.com/lux-divisions/tally/runrecord"
	"github.com/lux-divisions/tally/tiebreak"
	"github.com/lux-divisions/tally/utils/set"
	"github.com/lux-divisions/tally/validate"
)

// Request bundles everything Run needs beyond the already-loaded context:
// engine identity for the Run Record, the two caller-supplied timestamps
// (the core never reads the wall clock itself, spec §1), and an optional
// logger (defaults to a no-op).
type Request struct {
	Context       *model.LoadedContext
	Engine        runrecord.Engine
	EngineVersion string
	SchemaVersion string
	StartedUTC    string
	FinishedUTC   string
	Logger        log.Logger
}

// Outcome is everything a completed Run produces.
type Outcome struct {
	Result       result.Result
	ResultBytes  []byte
	RunRecord    runrecord.RunRecord
	RunRecordBytes []byte
	FrontierMap  *frontier.Map
	FrontierMapBytes []byte
	ValidationReport validate.Report
}

// Run executes the full pipeline: C4 (validate) → C5 (Normative Manifest
// & FID) → per unit in ascending order (C6 gates → C7 frontier → C8
// allocate → C9 tiebreak) → C10 (Result & Run Record) → optional Frontier
// Map. It never runs C3 (package loader already produced req.Context) and
// never runs C11 (the caller invokes package verify separately, spec
// §4.11's "Runs the engine" step belongs to the caller, not the core).
func Run(req Request) (Outcome, error) {
	logger := req.Logger
	if logger == nil {
		logger = obslog.NewNoOp()
	}
	ctx := req.Context

	resolved, regIssues := registry.Resolve(ctx.Params.Vars)
	report := validate.Validate(ctx, resolved, regIssues)
	obslog.StageTransition(logger, "validate", "*", statusWord(report.Pass))

	manifest := registry.BuildManifest(resolved, req.EngineVersion, req.SchemaVersion)
	fid, err := registry.FormulaID(manifest)
	if err != nil {
		return Outcome{}, WithKind(KindInternal, err)
	}

	if !report.Pass {
		obslog.ValidationFailed(logger, len(report.Issues))
		return finish(req, ctx, resolved, fid, nil, nil, report, logger)
	}

	var src rng.Source
	tiePolicy := resolved.String("VM-VAR-060")
	var seed *int64
	if tiePolicy == registry.TiePolicyRandom {
		s := resolved.Int("VM-VAR-090")
		seed = &s
		src = rng.New(s)
	}

	exceptions := gates.ParseSymmetryExceptions(resolved.List("VM-VAR-029"))
	selectedUnits := set.Of[string]()
	frontierCfg := frontier.LoadConfig(resolved)
	frontierMapEnabled := resolved.Bool("VM-VAR-080")

	var units []result.UnitInput
	var tieEvents []tiebreak.Event
	var frontierUnits []frontier.UnitBand

	for _, unitID := range ctx.OrderedUnitIDs {
		unit := ctx.UnitsByID[unitID]
		bt := ctx.Tallies[unitID]
		options := ctx.OptionsByUnit[unitID]

		rec := gates.Evaluate(unit, bt, resolved, ctx.Overrides, exceptions, selectedUnits)
		obslog.StageTransition(logger, "gates", unitID, statusWord(rec.Status == gates.StatusPass))

		optionIDs := make([]string, len(options))
		for i, o := range options {
			optionIDs[i] = o.OptionID
		}

		if rec.Status != gates.StatusPass {
			units = append(units, result.UnitInput{UnitID: unitID, Status: label.Invalid, Votes: bt.PerOption})
			if frontierMapEnabled {
				frontierUnits = append(frontierUnits, frontier.UnitBand{UnitID: unitID, Notes: "gate_failed"})
			}
			continue
		}

		if frontierMapEnabled || frontierCfg.Model != registry.FrontierModelNone {
			measured, cut := frontierInputs(unit, bt)
			outcome, _ := frontier.Evaluate(frontierCfg, measured, cut, 0)
			obslog.StageTransition(logger, "frontier", unitID, statusWord(outcome.Valid))
			if !outcome.Valid {
				rec.Status = gates.StatusFail
			}
			if frontierMapEnabled {
				frontierUnits = append(frontierUnits, frontier.UnitBand{
					UnitID: unitID, BandMet: outcome.BandMet,
					BandValue: ratioString(outcome.BandValue), Notes: outcome.Notes,
				})
			}
			if !outcome.Valid {
				units = append(units, result.UnitInput{UnitID: unitID, Status: label.Invalid, Votes: bt.PerOption})
				continue
			}
		}

		allocResult, err := allocate.Allocate(optionIDs, bt.PerOption, resolved)
		if err != nil {
			return Outcome{}, WithKind(KindValidation, err)
		}
		obslog.StageTransition(logger, "allocate", unitID, "ok")

		winners := make([]string, len(allocResult.Ties))
		for i, tg := range allocResult.Ties {
			statusQuoWinner := ""
			if tiePolicy == registry.TiePolicyStatusQuo && len(tg.Candidates) > 0 {
				// No per-unit incumbent is modeled (spec is silent on how
				// status_quo identifies "the prior winner" outside a
				// multi-period data model); this engine falls back to the
				// candidate ordering itself, matching what
				// deterministic_order would pick (see DESIGN.md).
				statusQuoWinner = tg.Candidates[0]
			}
			ev, err := tiebreak.Resolve(unitID, optionIDFor(optionIDs, tg), tg.Candidates, tiePolicy, statusQuoWinner, src)
			if err != nil {
				return Outcome{}, WithKind(KindConfig, err)
			}
			winners[i] = ev.Winner
			tieEvents = append(tieEvents, ev)
		}
		finalAllocations, err := allocate.Finalize(allocResult, winners)
		if err != nil {
			return Outcome{}, WithKind(KindInternal, err)
		}

		margin := winningMargin(finalAllocations, bt)
		status := label.Derive(resolved, true, margin, len(optionIDs))
		units = append(units, result.UnitInput{UnitID: unitID, Status: status, Allocations: finalAllocations, Votes: bt.PerOption})
	}

	var fm *frontier.Map
	var fmBytes []byte
	var frontierMapID *string
	if frontierMapEnabled {
		built, bytes, err := frontier.BuildMap(frontierUnits)
		if err != nil {
			return Outcome{}, WithKind(KindInternal, err)
		}
		fm = &built
		fmBytes = bytes
		frontierMapID = &built.ID
	}

	if len(tieEvents) == 0 {
		seed = nil
	}

	return finishValid(req, ctx, resolved, fid, units, tieEvents, tiePolicy, seed, report, fm, fmBytes, frontierMapID, logger)
}

func statusWord(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

// frontierInputs derives a measured share and cut point from a unit's
// tally for frontier evaluation: measured is the leading option's share of
// the summed per-option votes, and cut is a fixed simple majority (1/2)
// that does not depend on the band width — the concrete mapping from "a unit's measured
// value" to ballot data is an Open Question spec.md leaves to the
// registry/validator; this engine resolves it by always comparing the
// leading option's vote share against a 50% cut point (see DESIGN.md).
func frontierInputs(unit model.Unit, bt model.BallotTally) (measured, cut ratio.Ratio) {
	var total, lead int64
	for _, v := range bt.PerOption {
		total += v
		if v > lead {
			lead = v
		}
	}
	cut, _ = ratio.New(1, 2)
	if total == 0 {
		return ratio.FromInt(0), cut
	}
	measured, _ = ratio.New(lead, total)
	return measured, cut
}

func ratioString(r ratio.Ratio) string {
	return ratioToString(r)
}

func ratioToString(r ratio.Ratio) string {
	return intToString(r.Num) + "/" + intToString(r.Den)
}

func intToString(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func optionIDFor(optionIDs []string, tg allocate.TieGroup) string {
	if len(optionIDs) > 0 {
		return optionIDs[0]
	}
	if len(tg.Candidates) > 0 {
		return tg.Candidates[0]
	}
	return ""
}

func winningMargin(allocs []allocate.Allocation, bt model.BallotTally) ratio.Ratio {
	var total, first, second int64
	for _, a := range allocs {
		v := bt.PerOption[a.OptionID]
		total += v
		if v > first {
			second = first
			first = v
		} else if v > second {
			second = v
		}
	}
	if total == 0 {
		return ratio.FromInt(0)
	}
	margin, _ := ratio.New(first-second, total)
	return margin
}

func finish(req Request, ctx *model.LoadedContext, resolved registry.Resolved, fid string,
	units []result.UnitInput, tieEvents []tiebreak.Event, report validate.Report, logger log.Logger) (Outcome, error) {

	allInvalid := make([]result.UnitInput, 0, len(ctx.OrderedUnitIDs))
	for _, unitID := range ctx.OrderedUnitIDs {
		allInvalid = append(allInvalid, result.UnitInput{UnitID: unitID, Status: label.Invalid, Votes: ctx.Tallies[unitID].PerOption})
	}
	tiePolicy := resolved.String("VM-VAR-060")
	return finishValid(req, ctx, resolved, fid, allInvalid, nil, tiePolicy, nil, report, nil, nil, nil, logger)
}

func finishValid(req Request, ctx *model.LoadedContext, resolved registry.Resolved, fid string,
	units []result.UnitInput, tieEvents []tiebreak.Event, tiePolicy string, seed *int64,
	report validate.Report, fm *frontier.Map, fmBytes []byte, frontierMapID *string, logger log.Logger) (Outcome, error) {

	res := result.Build(units, fid, req.StartedUTC)
	finalRes, resBytes, err := result.Finalize(res)
	if err != nil {
		return Outcome{}, WithKind(KindInternal, err)
	}

	rr, err := runrecord.Build(req.Engine, fid, ctx.InputsSHA256, resolved.Values, tiePolicy, seed, tieEvents,
		req.StartedUTC, req.FinishedUTC, finalRes.ID, frontierMapID)
	if err != nil {
		return Outcome{}, err
	}
	finalRR, rrBytes, err := runrecord.Finalize(rr)
	if err != nil {
		return Outcome{}, WithKind(KindInternal, err)
	}

	obslog.RunSummary(logger, fid, finalRes.ID, finalRR.ID, len(units))

	out := Outcome{
		Result: finalRes, ResultBytes: resBytes,
		RunRecord: finalRR, RunRecordBytes: rrBytes,
		ValidationReport: report,
	}
	if fm != nil {
		out.FrontierMap = fm
		out.FrontierMapBytes = fmBytes
	}
	return out, nil
}
