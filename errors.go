// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package tally

import "github.com/lux-divisions/tally/errs"

// Kind is the engine's closed error taxonomy (spec §7), re-exported from
// package errs so callers of the root package never need to import errs
// directly. Package errs itself stays leaf-level (imported by runrecord)
// to avoid an import cycle back through this package.
type Kind = errs.Kind

const (
	KindSchema     = errs.KindSchema
	KindCanon      = errs.KindCanon
	KindReference  = errs.KindReference
	KindValidation = errs.KindValidation
	KindConfig     = errs.KindConfig
	KindIO         = errs.KindIO
	KindInternal   = errs.KindInternal
)

// WithKind wraps err so that ErrorKind(err) reports k. A nil err returns nil.
func WithKind(k Kind, err error) error { return errs.WithKind(k, err) }

// Newf builds a new Kind-tagged error with a formatted message.
func Newf(k Kind, format string, args ...any) error { return errs.Newf(k, format, args...) }

// ErrorKind extracts the Kind from err, walking its Unwrap chain.
func ErrorKind(err error) Kind { return errs.ErrorKind(err) }
