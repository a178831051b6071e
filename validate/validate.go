// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validate implements the semantic validator (C4): the structural
// and cross-entity checks spec §3 lists beyond what JSON Schema can
// express (tree shape, ballot-sum bounds, WTA magnitude, population
// baseline, quorum roll size, parameter domains). It is additive — every
// issue is collected and reported, never just the first — grounded in the
// teacher's utils/wrappers.Errs accumulate-many pattern, adapted here from
// a plain error slice to a typed Issue slice so each issue carries a
// stable code a caller can match on.
package validate

import (
	"fmt"
	"sort"

	"github.com/lux-divisions/tally/model"
	"github.com/lux-divisions/tally/registry"
)

// Severity classifies an Issue. Only Error severity fails the report;
// Warning issues are informational and never affect pass/fail.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one semantic finding, carrying a fixed, stable code vocabulary
// (spec §4.4) so callers — the verifier and test suite alike — can match
// on Code without parsing Message.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Where    string   `json:"where"`
}

// Report is the semantic validator's output: Pass is true iff no Error
// severity Issue was recorded.
type Report struct {
	Pass   bool    `json:"pass"`
	Issues []Issue `json:"issues"`
}

// Fixed issue code vocabulary (spec §4.4's examples, extended to cover
// every check this package performs).
const (
	CodeTreeViolation       = "Hierarchy.TreeViolation"
	CodeOrphanOption        = "Hierarchy.OrphanOption"
	CodeDuplicateOrderIndex = "Hierarchy.DuplicateOrderIndex"
	CodeNegativeCount       = "Tally.NegativeCount"
	CodeSumExceedsValid     = "Tally.SumExceedsValid"
	CodeSumExceedsCast      = "Tally.SumExceedsCast"
	CodeMissingTally        = "Tally.MissingUnit"
	CodeWtaMagnitude        = "Method.WtaMagnitude"
	CodePopulationBaseline  = "Method.PopulationBaselineMissing"
	CodeQuorumRoll          = "Method.QuorumRollTooSmall"
	CodeFrontierMissing     = "Frontier.MissingInputs"
	CodeParameterDomain     = "Parameter.DomainViolation"
)

// Validate runs every semantic check against ctx under the resolved
// parameter set resolved (already defaulted by package registry) and the
// registry Issues produced while resolving raw parameter values.
func Validate(ctx *model.LoadedContext, resolved registry.Resolved, regIssues []registry.Issue) Report {
	var issues []Issue

	issues = append(issues, treeIssues(ctx.Units)...)
	issues = append(issues, orderIndexIssues(ctx.OptionsByUnit)...)
	issues = append(issues, tallyIssues(ctx)...)
	issues = append(issues, methodIssues(ctx, resolved)...)
	issues = append(issues, frontierIssues(ctx, resolved)...)

	for _, ri := range regIssues {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeParameterDomain,
			Message:  ri.Message,
			Where:    ri.ParamID,
		})
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Code != issues[j].Code {
			return issues[i].Code < issues[j].Code
		}
		return issues[i].Where < issues[j].Where
	})

	pass := true
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			pass = false
			break
		}
	}
	return Report{Pass: pass, Issues: issues}
}

func treeIssues(units []model.Unit) []Issue {
	ok, cause := model.TreeProperty(units)
	if ok {
		return nil
	}
	return []Issue{{Severity: SeverityError, Code: CodeTreeViolation, Message: cause, Where: "units"}}
}

func orderIndexIssues(optionsByUnit map[string][]model.Option) []Issue {
	var issues []Issue
	for unitID, opts := range optionsByUnit {
		seen := map[int]string{}
		for _, o := range opts {
			if prior, dup := seen[o.OrderIndex]; dup {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     CodeDuplicateOrderIndex,
					Message:  fmt.Sprintf("option %q and %q share order_index %d in unit %q", prior, o.OptionID, o.OrderIndex, unitID),
					Where:    unitID,
				})
				continue
			}
			seen[o.OrderIndex] = o.OptionID
		}
	}
	return issues
}

func tallyIssues(ctx *model.LoadedContext) []Issue {
	var issues []Issue
	for _, unitID := range ctx.OrderedUnitIDs {
		bt, ok := ctx.Tallies[unitID]
		if !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeMissingTally,
				Message:  fmt.Sprintf("unit %q has no ballot tally", unitID),
				Where:    unitID,
			})
			continue
		}
		if bt.BallotsCast < 0 || bt.InvalidOrBlank < 0 || bt.ValidBallots < 0 {
			issues = append(issues, Issue{Severity: SeverityError, Code: CodeNegativeCount, Message: "negative ballot count", Where: unitID})
		}
		var sum int64
		for _, v := range bt.PerOption {
			if v < 0 {
				issues = append(issues, Issue{Severity: SeverityError, Code: CodeNegativeCount, Message: "negative option count", Where: unitID})
			}
			sum += v
		}
		if sum > bt.ValidBallots {
			issues = append(issues, Issue{Severity: SeverityError, Code: CodeSumExceedsValid, Message: fmt.Sprintf("option votes sum to %d, exceeding valid_ballots %d", sum, bt.ValidBallots), Where: unitID})
		}
		if sum+bt.InvalidOrBlank > bt.BallotsCast {
			issues = append(issues, Issue{Severity: SeverityError, Code: CodeSumExceedsCast, Message: fmt.Sprintf("option votes (%d) plus invalid_or_blank (%d) exceed ballots_cast (%d)", sum, bt.InvalidOrBlank, bt.BallotsCast), Where: unitID})
		}
	}
	return issues
}

func methodIssues(ctx *model.LoadedContext, resolved registry.Resolved) []Issue {
	var issues []Issue
	wta := resolved.String("VM-VAR-050") == registry.AllocationFamilyWTA
	for _, u := range ctx.Units {
		if wta && u.Magnitude != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeWtaMagnitude,
				Message:  fmt.Sprintf("unit %q has magnitude %d, but allocation_family=wta requires magnitude=1", u.UnitID, u.Magnitude),
				Where:    u.UnitID,
			})
		}
		if u.PopulationBaseline != nil {
			if *u.PopulationBaseline <= 0 || u.PopulationBaselineYear == nil {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     CodePopulationBaseline,
					Message:  fmt.Sprintf("unit %q declares a population_baseline but it is non-positive or missing its year", u.UnitID),
					Where:    u.UnitID,
				})
			}
		}
		quorumActive := resolved.Int("VM-VAR-020") > 0 || resolved.Int("VM-VAR-021") > 0
		if quorumActive && u.EligibleRoll != nil {
			if bt, ok := ctx.Tallies[u.UnitID]; ok && *u.EligibleRoll < bt.BallotsCast {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     CodeQuorumRoll,
					Message:  fmt.Sprintf("unit %q has eligible_roll %d smaller than ballots_cast %d", u.UnitID, *u.EligibleRoll, bt.BallotsCast),
					Where:    u.UnitID,
				})
			}
		}
	}
	return issues
}

func frontierIssues(ctx *model.LoadedContext, resolved registry.Resolved) []Issue {
	if resolved.String("VM-VAR-040") != registry.FrontierModelBanded {
		return nil
	}
	var issues []Issue
	for _, u := range ctx.Units {
		if u.PopulationBaseline == nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeFrontierMissing,
				Message:  fmt.Sprintf("unit %q is missing population_baseline required by frontier_model=banded", u.UnitID),
				Where:    u.UnitID,
			})
		}
	}
	return issues
}
