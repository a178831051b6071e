// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package atomicfile writes artifact files the way the spec requires: a
// reader never observes a partially-written Result, Run Record, or
// Frontier Map. Every write goes to a temp file in the destination
// directory and is renamed into place, which is atomic on any POSIX
// filesystem (and on NTFS for same-volume renames).
package atomicfile

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Write atomically replaces path's contents with data.
func Write(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "atomicfile: create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "atomicfile: write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "atomicfile: sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "atomicfile: close %s", tmpName)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return errors.Wrapf(err, "atomicfile: chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "atomicfile: rename %s to %s", tmpName, path)
	}
	return nil
}
