// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
)

// Issue is a single parameter-level problem found while resolving a raw
// VM-VAR map — unknown identifier, wrong kind, or a value outside its
// enum domain. Issues are returned in ascending VM-VAR-ID order so the
// gate engine's reason ordering (spec §4.6) stays stable.
type Issue struct {
	ParamID string
	Code    string
	Message string
}

// Resolved is the fully-defaulted, type-checked parameter set a run
// operates under: one value per known VM-VAR, Included and Excluded alike.
type Resolved struct {
	Values map[string]any
}

// Int returns the Resolved int64 value for id, or 0 if absent.
func (r Resolved) Int(id string) int64 {
	v, _ := r.Values[id].(int64)
	return v
}

// Bool returns the Resolved bool value for id, or false if absent.
func (r Resolved) Bool(id string) bool {
	v, _ := r.Values[id].(bool)
	return v
}

// String returns the Resolved string value for id, or "" if absent.
func (r Resolved) String(id string) string {
	v, _ := r.Values[id].(string)
	return v
}

// List returns the Resolved list value for id, or nil if absent.
func (r Resolved) List(id string) []any {
	v, _ := r.Values[id].([]any)
	return v
}

// Resolve type-checks and defaults a raw "VM-VAR-###" -> value map against
// Definitions. Every known parameter is present in the result, defaulted
// when raw omits it; unknown keys and kind/enum mismatches are reported as
// Issues rather than returned as a Go error, so the caller (package
// validate) can accumulate them alongside every other validation finding
// before deciding pass/fail.
func Resolve(raw map[string]any) (Resolved, []Issue) {
	resolved := Resolved{Values: make(map[string]any, len(Definitions))}
	var issues []Issue

	for _, def := range Definitions {
		val, present := raw[def.ID]
		if !present {
			resolved.Values[def.ID] = def.Default
			continue
		}
		checked, issue := checkKind(def, val)
		if issue != nil {
			issues = append(issues, *issue)
			resolved.Values[def.ID] = def.Default
			continue
		}
		resolved.Values[def.ID] = checked
	}

	for key := range raw {
		if _, known := ByID[key]; !known {
			issues = append(issues, Issue{ParamID: key, Code: "unknown_parameter",
				Message: fmt.Sprintf("%s is not a recognized VM-VAR identifier", key)})
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].ParamID < issues[j].ParamID })
	return resolved, issues
}

func checkKind(def Definition, val any) (any, *Issue) {
	switch def.Kind {
	case KindInt, KindPct:
		switch n := val.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			if n == float64(int64(n)) {
				return int64(n), nil
			}
		}
		return nil, &Issue{ParamID: def.ID, Code: "wrong_kind",
			Message: fmt.Sprintf("%s expects an integer, got %v", def.ID, val)}
	case KindBool:
		if b, ok := val.(bool); ok {
			return b, nil
		}
		return nil, &Issue{ParamID: def.ID, Code: "wrong_kind",
			Message: fmt.Sprintf("%s expects a boolean, got %v", def.ID, val)}
	case KindString:
		if s, ok := val.(string); ok {
			return s, nil
		}
		return nil, &Issue{ParamID: def.ID, Code: "wrong_kind",
			Message: fmt.Sprintf("%s expects a string, got %v", def.ID, val)}
	case KindEnum:
		s, ok := val.(string)
		if !ok {
			return nil, &Issue{ParamID: def.ID, Code: "wrong_kind",
				Message: fmt.Sprintf("%s expects a string enum value, got %v", def.ID, val)}
		}
		for _, allowed := range def.EnumVals {
			if s == allowed {
				return s, nil
			}
		}
		return nil, &Issue{ParamID: def.ID, Code: "not_in_enum",
			Message: fmt.Sprintf("%s=%q is not one of %v", def.ID, s, def.EnumVals)}
	case KindList:
		if l, ok := val.([]any); ok {
			return l, nil
		}
		return nil, &Issue{ParamID: def.ID, Code: "wrong_kind",
			Message: fmt.Sprintf("%s expects a list, got %v", def.ID, val)}
	default:
		return nil, &Issue{ParamID: def.ID, Code: "wrong_kind",
			Message: errors.Newf("%s has an unrecognized declared kind %q", def.ID, def.Kind).Error()}
	}
}
