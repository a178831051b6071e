// Copyright (C) 2026, Tally Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ratio implements exact rational arithmetic over int64
// numerator/denominator pairs. The engine's outcome logic (frontier band
// comparisons, allocation quotas, divisor sequences) never uses
// floating-point arithmetic; every fractional value is represented and
// compared exactly here instead.
package ratio

import "github.com/cockroachdb/errors"

// Ratio is a reduced fraction Num/Den with Den > 0.
type Ratio struct {
	Num int64
	Den int64
}

// New builds a reduced Ratio. den must be non-zero; the sign is normalized
// onto Num so Den is always positive.
func New(num, den int64) (Ratio, error) {
	if den == 0 {
		return Ratio{}, errors.New("ratio: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g == 0 {
		g = 1
	}
	return Ratio{Num: num / g, Den: den / g}, nil
}

// FromInt returns n/1.
func FromInt(n int64) Ratio {
	return Ratio{Num: n, Den: 1}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Cmp returns -1, 0, or 1 as r compares to s, using only integer
// multiplication (a/b vs c/d ⇔ a*d vs c*b, since both denominators are
// positive).
func (r Ratio) Cmp(s Ratio) int {
	left := r.Num * s.Den
	right := s.Num * r.Den
	switch {
	case left < right:
		return -1
	case left > right:
		return 1
	default:
		return 0
	}
}

// Add returns r+s, reduced.
func (r Ratio) Add(s Ratio) Ratio {
	out, _ := New(r.Num*s.Den+s.Num*r.Den, r.Den*s.Den)
	return out
}

// Sub returns r-s, reduced.
func (r Ratio) Sub(s Ratio) Ratio {
	out, _ := New(r.Num*s.Den-s.Num*r.Den, r.Den*s.Den)
	return out
}

// Mul returns r*s, reduced.
func (r Ratio) Mul(s Ratio) Ratio {
	out, _ := New(r.Num*s.Num, r.Den*s.Den)
	return out
}

// Div returns r/s, reduced. s must be non-zero.
func (r Ratio) Div(s Ratio) (Ratio, error) {
	if s.Num == 0 {
		return Ratio{}, errors.New("ratio: division by zero")
	}
	return New(r.Num*s.Den, r.Den*s.Num)
}

// RoundHalfEven rounds r to the nearest integer, breaking exact .5 ties
// toward the even neighbor. This is the single documented rounding
// decision point the spec permits (§4.8, §9); every caller that needs to
// round from a Ratio to an int64 must route through this function so the
// behavior is applied exactly once per value.
func (r Ratio) RoundHalfEven() int64 {
	floor := floorDiv(r.Num, r.Den)
	rem := r.Num - floor*r.Den
	twice := rem * 2
	switch {
	case twice < r.Den:
		return floor
	case twice > r.Den:
		return floor + 1
	default:
		if floor%2 == 0 {
			return floor
		}
		return floor + 1
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
