// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package obslog wraps github.com/luxfi/log (the teacher's structured
// logger of choice, itself a zap wrapper) with the pipeline's own
// log-density discipline: one Debug line per stage transition, one Info
// line when a run completes — never Info inside a per-unit loop, the same
// restraint the teacher shows in poll/poll.go and validator/logger.go.
// Callers inject a log.Logger the way validator.NewLogger does rather than
// reaching for a package-level global.
package obslog

import (
	"github.com/luxfi/log"
	"go.uber.org/zap"
)

// NewNoOp returns a logger that discards everything, for callers (tests,
// library embedders) that have not wired a real sink.
func NewNoOp() log.Logger {
	return log.NewNoOpLogger()
}

// StageTransition logs one pipeline stage's outcome for one unit at Debug
// level (spec §5's per-stage, per-unit granularity is too hot for Info).
func StageTransition(logger log.Logger, stage, unitID, outcome string) {
	logger.Debug("pipeline stage",
		zap.String("stage", stage),
		zap.String("unit", unitID),
		zap.String("result", outcome),
	)
}

// RunSummary logs a single Info line once a run completes, naming the
// Formula ID, Result ID, and Run ID so a human tailing logs can correlate
// a log line to the artifacts on disk without re-deriving anything.
func RunSummary(logger log.Logger, formulaID, resultID, runID string, unitCount int) {
	logger.Info("run complete",
		zap.String("formula_id", formulaID),
		zap.String("result_id", resultID),
		zap.String("run_id", runID),
		zap.Int("units", unitCount),
	)
}

// ValidationFailed logs a single Info line when the semantic validator
// fails a run (spec §4.4's pass=false path still produces a Result/Run
// Record; this just announces that it happened).
func ValidationFailed(logger log.Logger, issueCount int) {
	logger.Info("validation failed", zap.Int("issues", issueCount))
}
