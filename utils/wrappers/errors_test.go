// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrsAccumulates(t *testing.T) {
	require := require.New(t)

	var e Errs
	require.False(e.Errored())
	require.Nil(e.Err())

	e.Add(nil)
	require.False(e.Errored())

	e.Add(errors.New("first"))
	e.Add(errors.New("second"))
	require.True(e.Errored())
	require.Equal(2, e.Len())
	require.Contains(e.Err().Error(), "2 errors occurred")
	require.Contains(e.Err().Error(), "first")
	require.Contains(e.Err().Error(), "second")
}

func TestErrsSingle(t *testing.T) {
	require := require.New(t)

	var e Errs
	original := errors.New("only one")
	e.Add(original)
	require.Equal(original, e.Err())
}
