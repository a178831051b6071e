// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package verify implements the verifier (C11): given a produced artifact
// set and an expected-hashes oracle, it re-binds every hash and policy
// claim the spec requires and never repairs a mismatch — it only reports
// one. Running the engine itself (assertion 2 of spec §4.11) is not done
// here, nor by cmd/tally's verify subcommand, which only reads an
// already-produced artifact set; this package performs the remaining seven
// assertions against whatever artifacts the caller already produced.
package verify

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lux-divisions/tally/canon"
	"github.com/lux-divisions/tally/ids"
	"github.com/lux-divisions/tally/registry"
)

// Oracle is the expected/hashes.json contract: the hashes and policy
// expectations a case's verifier run must match.
type Oracle struct {
	InputsSHA256 struct {
		Registry string `json:"registry"`
		Tally    string `json:"tally"`
		Params   string `json:"params"`
	} `json:"inputs_sha256"`
	ExpectedFID       string `json:"expected_fid"`
	ResultSHA256      string `json:"result_sha256"`
	RunRecordSHA256   string `json:"run_record_sha256"`
	FrontierExpected  bool   `json:"frontier_expected"`
	FrontierMapSHA256 string `json:"frontier_map_sha256,omitempty"`
	TiePolicyExpected string `json:"tie_policy_expected"`
	RNGSeedExpected   *int64 `json:"rng_seed_expected,omitempty"`
	EventsExpected    *int   `json:"events_expected,omitempty"`
}

// Produced is every artifact and byte digest the caller has already
// computed, assembled into one struct so Check can run all seven
// assertions; Check still re-derives each artifact's id-blanked form
// itself (see ResultCanonical below) rather than trusting a
// caller-supplied hash.
type Produced struct {
	// Input digests, recomputed by the caller exactly as the loader did.
	InputsSHA256 struct {
		Registry string `json:"registry"`
		Tally    string `json:"tally"`
		Params   string `json:"params"`
	} `json:"inputs_sha256"`

	// ResultCanonical, RunRecordCanonical, and FrontierMapCanonical are the
	// canonical bytes of the artifacts exactly as written to disk — id
	// field populated, the same bytes package result's Finalize, package
	// runrecord's Finalize, and package frontier's BuildMap return for
	// writing. result_id/run_id/frontier_map_id, and the oracle's
	// result_sha256/run_record_sha256/frontier_map_sha256, all bind to the
	// hash of these bytes with id blanked back out — the same blanked form
	// Finalize/BuildMap hashed before stamping the id in (spec §4.2,
	// §4.10) — so Check reproduces that blanking itself before comparing.
	ResultID             string `json:"result_id"`
	ResultCanonical      []byte `json:"result_canonical"`
	RunID                string `json:"run_id"`
	RunRecordCanonical   []byte `json:"run_record_canonical"`
	FrontierMapID        string `json:"frontier_map_id,omitempty"` // "" if no Frontier Map was produced
	FrontierMapCanonical []byte `json:"frontier_map_canonical,omitempty"`

	EffectiveFID  string         `json:"effective_fid"` // recomputed by the caller from the Run Record's vars_effective restricted to Included
	VarsEffective map[string]any `json:"vars_effective"`

	TiePolicy string `json:"tie_policy"`
	RNGSeed   *int64 `json:"rng_seed,omitempty"`
	TieCount  int    `json:"tie_count"`
}

// Finding is one failed assertion. The verifier never repairs; it only
// reports.
type Finding struct {
	Assertion string
	Message   string
}

// Report is the outcome of Check: Pass iff no Finding was recorded.
type Report struct {
	Pass     bool
	Findings []Finding
}

// Check runs assertions 1, 3–8 of spec §4.11 against produced, comparing
// to oracle.
func Check(produced Produced, oracle Oracle) Report {
	var findings []Finding
	add := func(assertion, format string, args ...any) {
		findings = append(findings, Finding{Assertion: assertion, Message: errors.Newf(format, args...).Error()})
	}

	// 1. Input digests match.
	if produced.InputsSHA256.Registry != oracle.InputsSHA256.Registry {
		add("1", "registry_sha256 mismatch: got %s, want %s", produced.InputsSHA256.Registry, oracle.InputsSHA256.Registry)
	}
	if produced.InputsSHA256.Tally != oracle.InputsSHA256.Tally {
		add("1", "tally_sha256 mismatch: got %s, want %s", produced.InputsSHA256.Tally, oracle.InputsSHA256.Tally)
	}
	if produced.InputsSHA256.Params != oracle.InputsSHA256.Params {
		add("1", "params_sha256 mismatch: got %s, want %s", produced.InputsSHA256.Params, oracle.InputsSHA256.Params)
	}

	// 3. Result/Run/Frontier ID grammar and hash agreement. Every id's hash
	// suffix binds to the artifact's canonical bytes with id blanked back
	// to "" (the same form Finalize/BuildMap hashed before stamping the id
	// in), not to the id-populated bytes actually on disk, so each
	// artifact is re-blanked here before re-deriving its hash.
	resultBlanked, err := blankID(produced.ResultCanonical)
	if err != nil {
		add("3", "result_canonical: %v", err)
	}
	resultHash := ids.Sum256Hex(resultBlanked)
	if produced.ResultID != ids.ResultID(resultBlanked) {
		add("3", "result_id %q does not equal RES:+sha256(result) (%q)", produced.ResultID, ids.ResultID(resultBlanked))
	}

	rrBlanked, err := blankID(produced.RunRecordCanonical)
	if err != nil {
		add("3", "run_record_canonical: %v", err)
	}
	rrHash := ids.Sum256Hex(rrBlanked)
	runSuffix, err := ids.RunIDSuffix(produced.RunID)
	if err != nil {
		add("3", "run_id %q is malformed: %v", produced.RunID, err)
	} else if runSuffix != rrHash {
		add("3", "run_id hash suffix %q does not equal sha256(run_record)", runSuffix)
	}

	var frontierHash string
	if produced.FrontierMapID != "" {
		frontierBlanked, err := blankID(produced.FrontierMapCanonical)
		if err != nil {
			add("3", "frontier_map_canonical: %v", err)
		}
		frontierHash = ids.Sum256Hex(frontierBlanked)
		if want := ids.FrontierID(frontierBlanked); produced.FrontierMapID != want {
			add("3", "frontier_map_id %q does not equal FR:+sha256(frontier_map) (%q)", produced.FrontierMapID, want)
		}
	}

	// 4. Frontier Map presence agrees with the oracle's expectation.
	frontierPresent := produced.FrontierMapID != ""
	if frontierPresent != oracle.FrontierExpected {
		add("4", "frontier map presence (%v) does not match frontier_expected (%v)", frontierPresent, oracle.FrontierExpected)
	}
	if oracle.FrontierExpected && oracle.FrontierMapSHA256 != "" {
		if frontierHash != oracle.FrontierMapSHA256 {
			add("4", "frontier_map_sha256 mismatch: got %s, want %s", frontierHash, oracle.FrontierMapSHA256)
		}
	}

	// 5. Produced artifact hashes equal the oracle's result/run hashes.
	if resultHash != oracle.ResultSHA256 {
		add("5", "result_sha256 mismatch: got %s, want %s", resultHash, oracle.ResultSHA256)
	}
	if rrHash != oracle.RunRecordSHA256 {
		add("5", "run_record_sha256 mismatch: got %s, want %s", rrHash, oracle.RunRecordSHA256)
	}

	// 6. FID agreement: recomputed FID equals the oracle's expected FID.
	if produced.EffectiveFID != oracle.ExpectedFID {
		add("6", "recomputed FID %q does not match expected_fid %q", produced.EffectiveFID, oracle.ExpectedFID)
	}

	// 7. vars_effective covers every Included parameter.
	for _, def := range registry.Definitions {
		if def.Class != registry.Included {
			continue
		}
		if _, ok := produced.VarsEffective[def.ID]; !ok {
			add("7", "vars_effective is missing Included parameter %s", def.ID)
		}
	}

	// 8. Tie expectations.
	if produced.TiePolicy != oracle.TiePolicyExpected {
		add("8", "tie_policy %q does not match tie_policy_expected %q", produced.TiePolicy, oracle.TiePolicyExpected)
	}
	if produced.TiePolicy == registry.TiePolicyRandom {
		if produced.RNGSeed == nil {
			add("8", "tie_policy=random but rng_seed is absent")
		} else if oracle.RNGSeedExpected != nil && *produced.RNGSeed != *oracle.RNGSeedExpected {
			add("8", "rng_seed %d does not match rng_seed_expected %d", *produced.RNGSeed, *oracle.RNGSeedExpected)
		}
	} else if produced.RNGSeed != nil {
		add("8", "tie_policy=%s but rng_seed is present", produced.TiePolicy)
	}
	if oracle.EventsExpected != nil && produced.TieCount != *oracle.EventsExpected {
		add("8", "tie count %d does not match events_expected %d", produced.TieCount, *oracle.EventsExpected)
	}

	return Report{Pass: len(findings) == 0, Findings: findings}
}

// blankID decodes a canonical artifact, sets its top-level "id" field back
// to the empty string, and re-canonicalizes — undoing the stamp Finalize
// and BuildMap apply after hashing, so the result is byte-identical to what
// they hashed to produce that id.
func blankID(canonical []byte) ([]byte, error) {
	v, err := canon.Decode(canonical)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("canonical artifact is not a JSON object")
	}
	m["id"] = ""
	return canon.Encode(m)
}

// String renders a Report as a human-readable summary, one line per
// Finding, in assertion order — used by cmd/tally's verify subcommand.
func (r Report) String() string {
	if r.Pass {
		return "verify: PASS"
	}
	var sb strings.Builder
	sb.WriteString("verify: FAIL\n")
	for _, f := range r.Findings {
		sb.WriteString("  [" + f.Assertion + "] " + f.Message + "\n")
	}
	return sb.String()
}
