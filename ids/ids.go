// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ids forms the three prefixed, hash-addressed identifiers the
// engine emits: Result, Run Record, and Frontier Map IDs. Every ID is a
// SHA-256 digest of a canonical byte string (package canon); this package
// owns only the prefix/suffix grammar, not the canonicalization itself.
//
// The shape is grounded in the teacher's fixed-size hash-identity value
// type (github.com/luxfi/ids.ID), generalized from one opaque hash form to
// three distinct prefixed grammars because the three artifacts are
// identified differently: a Result by its hash alone, a Run Record by a
// timestamp-prefixed hash, and a Frontier Map by its hash alone.
package ids

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	resultPrefix   = "RES:"
	runPrefix      = "RUN:"
	frontierPrefix = "FR:"
)

// rfc3339UTC matches exactly YYYY-MM-DDThh:mm:ssZ, the grammar the Run
// Record's timestamp prefix must satisfy (spec §4.2). Sub-second precision
// and non-Z offsets are both rejected.
var rfc3339UTC = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// Sum256Hex returns the lowercase hex SHA-256 digest of b.
func Sum256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ResultID forms "RES:" + the hex SHA-256 of the canonical Result bytes.
func ResultID(canonicalResult []byte) string {
	return resultPrefix + Sum256Hex(canonicalResult)
}

// FrontierID forms "FR:" + the hex SHA-256 of the canonical Frontier Map
// bytes.
func FrontierID(canonicalFrontierMap []byte) string {
	return frontierPrefix + Sum256Hex(canonicalFrontierMap)
}

// RunID forms "RUN:" + an RFC3339-UTC timestamp + "-" + the hex SHA-256 of
// the canonical Run Record bytes. startedUTC must already satisfy the
// RFC3339-UTC grammar; callers get it from the Run Record's own
// timestamps.started_utc field so the two never disagree.
func RunID(startedUTC string, canonicalRunRecord []byte) (string, error) {
	if !rfc3339UTC.MatchString(startedUTC) {
		return "", errors.Newf("ids: timestamp %q does not satisfy RFC3339-UTC grammar", startedUTC)
	}
	return runPrefix + startedUTC + "-" + Sum256Hex(canonicalRunRecord), nil
}

// RunIDSuffix returns the hash portion of a Run ID: everything after the
// last '-' (the timestamp prefix itself contains '-'). Per spec §4.2, the
// verifier compares only this suffix, never the timestamp prefix's value.
func RunIDSuffix(runID string) (string, error) {
	rest, ok := strings.CutPrefix(runID, runPrefix)
	if !ok {
		return "", errors.Newf("ids: %q does not have the RUN: prefix", runID)
	}
	idx := strings.LastIndex(rest, "-")
	if idx < 0 {
		return "", errors.Newf("ids: %q has no '-' separating timestamp from hash", runID)
	}
	return rest[idx+1:], nil
}

// ValidRFC3339UTC reports whether s satisfies the RFC3339-UTC grammar
// required of the Run Record's started_utc / finished_utc fields.
func ValidRFC3339UTC(s string) bool {
	if !rfc3339UTC.MatchString(s) {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// StripResultPrefix returns the bare hex digest of a "RES:"-prefixed ID.
func StripResultPrefix(id string) (string, bool) {
	return strings.CutPrefix(id, resultPrefix)
}

// StripFrontierPrefix returns the bare hex digest of an "FR:"-prefixed ID.
func StripFrontierPrefix(id string) (string, bool) {
	return strings.CutPrefix(id, frontierPrefix)
}
