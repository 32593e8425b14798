// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"
)

var (
	_ encoding.TextUnmarshaler = (*Rational[int32])(nil)
	_ encoding.TextMarshaler   = Rational[int32]{}
)

// Rational is a TIFF rational number, a numerator/denominator pair.
// It's a lightweight version of math/big.Rat that keeps the pair exactly
// as stored on disk; nothing is reduced or normalized.
type Rational[T int32 | uint32] struct {
	Num T
	Den T
}

// Float64 returns the float64 representation of the rational number.
// A zero denominator follows IEEE 754 division: ±Inf, or NaN for 0/0.
func (r Rational[T]) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// String returns the string representation of the rational number.
// If the denominator is 1, the string will be the numerator only.
func (r Rational[T]) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (r *Rational[T]) UnmarshalText(text []byte) error {
	s := string(text)
	if !strings.Contains(s, "/") {
		num, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
		}
		r.Num = T(num)
		r.Den = 1
		return nil
	}
	if _, err := fmt.Sscanf(s, "%d/%d", &r.Num, &r.Den); err != nil {
		return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
	}
	return nil
}

func (r Rational[T]) MarshalText() (text []byte, err error) {
	return []byte(r.String()), nil
}
