// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package canon implements byte-exact canonical JSON: sorted object keys,
// LF-only line endings, no insignificant whitespace, no floating-point
// numbers, and minimal stable string escaping. It is the sole basis for the
// engine's content-addressed identity (see package ids).
package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// Error is returned for any value that cannot be canonicalized: a
// non-integer number, a non-string object key, or invalid UTF-8.
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "canon: " + e.Msg
	}
	return fmt.Sprintf("canon: %s: %s", e.Path, e.Msg)
}

// Decode parses JSON bytes the strict way: object keys are preserved as Go
// strings, numbers are preserved as json.Number so integer values never
// round-trip through float64, and every object is walked token-by-token so a
// duplicate key can be rejected explicitly — encoding/json's own Decode into
// `any` applies last-one-wins silently, which would make input byte order
// observable through which duplicate survives, and canonical encoding must
// not allow that.
func Decode(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, &Error{Msg: "invalid UTF-8 in input"}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	if dec.More() {
		return nil, &Error{Msg: "trailing data after top-level value"}
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		return tok, nil
	}
}

func decodeObject(dec *json.Decoder) (any, error) {
	m := make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("non-string object key %v", keyTok)
		}
		if _, dup := m[key]; dup {
			return nil, fmt.Errorf("duplicate object key %q", key)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		m[key] = val
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, err
	}
	return m, nil
}

func decodeArray(dec *json.Decoder) (any, error) {
	arr := []any{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, err
	}
	return arr, nil
}

// Encode produces the compact canonical form: sorted keys, no whitespace,
// no trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePretty produces a two-space-indented form for human inspection.
// Keys are still sorted and newlines are still LF-only; this form is never
// used for hashing.
func EncodePretty(v any) ([]byte, error) {
	compact, err := Encode(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	return out.Bytes(), nil
}

// Canonicalize decodes and re-encodes data, producing its canonical byte
// form. Per the round-trip law, Canonicalize is idempotent:
// Canonicalize(Canonicalize(b)) == Canonicalize(b).
func Canonicalize(data []byte) ([]byte, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Encode(v)
}

func encodeValue(buf *bytes.Buffer, v any, path string) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case json.Number:
		return encodeNumber(buf, val, path)
	case int:
		buf.WriteString(strconv.Itoa(val))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
		return nil
	case string:
		return encodeString(buf, val, path)
	case map[string]any:
		return encodeObject(buf, val, path)
	case []any:
		return encodeArray(buf, val, path)
	default:
		return &Error{Path: path, Msg: fmt.Sprintf("unsupported type %T", v)}
	}
}

// encodeNumber accepts only values with an integer lexical form. The spec
// bans floating-point numbers from outcome logic entirely (§1, §9); the
// codec enforces that ban at the serialization boundary so no float can
// ever reach a hash.
func encodeNumber(buf *bytes.Buffer, n json.Number, path string) error {
	s := string(n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || c == 'e' || c == 'E' {
			return &Error{Path: path, Msg: fmt.Sprintf("non-integer number %q", s)}
		}
	}
	// Normalize away a leading "+" or redundant leading zeros, which
	// encoding/json's decoder never produces from valid JSON input but a
	// hand-built value might.
	if len(s) > 0 && s[0] == '+' {
		s = s[1:]
	}
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	s = trimLeadingZeros(s)
	if neg && s != "0" {
		s = "-" + s
	}
	buf.WriteString(s)
	return nil
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

func encodeObject(buf *bytes.Buffer, m map[string]any, path string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		if !utf8.ValidString(k) {
			return &Error{Path: path, Msg: "invalid UTF-8 in object key"}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(buf, k, path+"."+k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeValue(buf, m[k], path+"."+k); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeArray(buf *bytes.Buffer, a []any, path string) error {
	buf.WriteByte('[')
	for i, elt := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, elt, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// encodeString escapes the ASCII control range plus the two mandatory
// escapes ('"' and '\\'). Everything else, including all non-ASCII UTF-8,
// passes through raw.
func encodeString(buf *bytes.Buffer, s string, path string) error {
	if !utf8.ValidString(s) {
		return &Error{Path: path, Msg: "invalid UTF-8 in string"}
	}
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteString(s[i : i+size])
			}
		}
		i += size
	}
	buf.WriteByte('"')
	return nil
}
