// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errs is the engine's closed error taxonomy (spec §7): a small
// Kind enum, a wrapper that attaches one to any error, and the ExitCode
// mapping cmd/tally uses to pick a process exit code. It lives below every
// other package (including the root package) so that leaf packages like
// runrecord can tag their own errors without importing back up
// into the root package that composes them.
package errs

import "github.com/cockroachdb/errors"

// Kind is the engine's closed error taxonomy (spec §7). Every error the
// pipeline surfaces across a package boundary carries one.
type Kind string

const (
	KindSchema     Kind = "Schema"
	KindCanon      Kind = "Canon"
	KindReference  Kind = "Reference"
	KindValidation Kind = "Validation"
	KindConfig     Kind = "Config"
	KindIO         Kind = "IO"
	KindInternal   Kind = "Internal"
)

// ExitCode maps a Kind to the engine's stable, documented process exit
// code (spec §6, §7). 0 is reserved for success and is never returned by
// this function.
func (k Kind) ExitCode() int {
	switch k {
	case KindSchema:
		return 2
	case KindCanon:
		return 3
	case KindReference:
		return 4
	case KindValidation, KindConfig:
		return 5
	case KindIO:
		return 6
	case KindInternal:
		return 7
	default:
		return 1
	}
}

type kindedError struct {
	kind Kind
	err  error
}

func (e *kindedError) Error() string { return e.err.Error() }
func (e *kindedError) Unwrap() error { return e.err }
func (e *kindedError) Kind() Kind    { return e.kind }

// WithKind wraps err so that Kind(err) reports k. A nil err returns nil.
func WithKind(k Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindedError{kind: k, err: err}
}

// Newf builds a new Kind-tagged error with a formatted message, in the
// teacher's idiom of preferring a single errors-package call over
// fmt.Errorf + wrapping at every call site.
func Newf(k Kind, format string, args ...any) error {
	return WithKind(k, errors.Newf(format, args...))
}

// ErrorKind extracts the Kind from err, walking its Unwrap chain. The zero
// Kind ("") is returned if no wrapped error carries one — callers should
// treat that as KindInternal, since every error the pipeline intentionally
// surfaces is expected to carry a Kind.
func ErrorKind(err error) Kind {
	for err != nil {
		if ke, ok := err.(interface{ Kind() Kind }); ok {
			return ke.Kind()
		}
		err = errors.UnwrapOnce(err)
	}
	return ""
}
