// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package canon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeSortsKeys(t *testing.T) {
	require := require.New(t)

	v := map[string]any{
		"b": 1,
		"a": 2,
	}
	out, err := Encode(v)
	require.NoError(err)
	require.Equal(`{"a":2,"b":1}`, string(out))
}

func TestEncodeNestedAndArrays(t *testing.T) {
	require := require.New(t)

	v := map[string]any{
		"units": []any{
			map[string]any{"z": 1, "a": 2},
			map[string]any{"id": "u2"},
		},
	}
	out, err := Encode(v)
	require.NoError(err)
	require.Equal(`{"units":[{"a":2,"z":1},{"id":"u2"}]}`, string(out))
}

func TestEncodeRejectsFloat(t *testing.T) {
	require := require.New(t)

	_, err := Canonicalize([]byte(`{"a":1.5}`))
	require.Error(err)
	var ce *Error
	require.ErrorAs(err, &ce)
}

func TestEncodeStringEscaping(t *testing.T) {
	require := require.New(t)

	out, err := Encode("line1\nline2\t\"quoted\"\\")
	require.NoError(err)
	require.Equal(`"line1\nline2\t\"quoted\"\\"`, string(out))
}

func TestEncodeNonASCIIPassesThrough(t *testing.T) {
	require := require.New(t)

	out, err := Encode("élection")
	require.NoError(err)
	require.Equal("\"élection\"", string(out))
}

func TestRoundTripLaw(t *testing.T) {
	require := require.New(t)

	input := []byte(`{"z":1,"a":[1,2,3],"m":{"y":2,"x":1}}`)
	once, err := Canonicalize(input)
	require.NoError(err)

	twice, err := Canonicalize(once)
	require.NoError(err)
	require.Equal(once, twice)
}

func TestKeyOrderInsensitivity(t *testing.T) {
	require := require.New(t)

	a, err := Canonicalize([]byte(`{"a":1,"b":2}`))
	require.NoError(err)
	b, err := Canonicalize([]byte(`{"b":2,"a":1}`))
	require.NoError(err)
	require.Equal(a, b)
}

func TestEncodePrettyUsesLF(t *testing.T) {
	require := require.New(t)

	out, err := EncodePretty(map[string]any{"a": 1})
	require.NoError(err)
	require.NotContains(string(out), "\r")
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	require := require.New(t)

	_, err := Decode([]byte(`{"a":1} garbage`))
	require.Error(err)
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	require := require.New(t)

	_, err := Decode([]byte(`{"a":1,"a":2}`))
	require.Error(err)
}

func TestDecodeRejectsDuplicateKeysNested(t *testing.T) {
	require := require.New(t)

	_, err := Decode([]byte(`{"units":[{"id":"u1","id":"u2"}]}`))
	require.Error(err)
}

func TestEncodeLargeIntegerNoExponent(t *testing.T) {
	require := require.New(t)

	out, err := Canonicalize([]byte(`{"n":9007199254740993}`))
	require.NoError(err)
	require.Equal(`{"n":9007199254740993}`, string(out))
}
