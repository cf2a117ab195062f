// Package numparse classifies a lexed number lexeme as an exact integer or
// a decimal, and converts it to its Go representation. The lexer only
// delimits the lexeme (optional '-', digits, optional fraction, optional
// exponent); this package does the semantic work.
package numparse

import (
	"math"
	"strconv"
)

// Kind distinguishes an integer literal from one carrying a fractional
// part or an exponent.
type Kind int

const (
	Integer Kind = iota
	Decimal
)

// Result is a classified, converted number literal.
type Result struct {
	Kind  Kind
	Int   int64
	Float float64
	// OutOfRange is set when lexeme's magnitude exceeds what float64 can
	// represent at all (Float holds the resulting +/-Inf), distinct from
	// the ordinary Integer->Decimal demotion below.
	OutOfRange bool
}

// Parse classifies lexeme and converts it. A lexeme with a '.' or an
// 'e'/'E' is Decimal-shaped. An integer-shaped lexeme is only kept as an
// exact Integer when it's representable as a 32-bit signed value;
// anything wider (including values that overflow int64 outright) is
// demoted to a Decimal, per the value model's "Integer carries a value
// only if representable as 32-bit signed" invariant. A lexeme whose
// magnitude exceeds even float64's range sets OutOfRange.
func Parse(lexeme string) Result {
	if !isDecimalShaped(lexeme) {
		if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil && n >= math.MinInt32 && n <= math.MaxInt32 {
			return Result{Kind: Integer, Int: n}
		}
	}
	f, err := strconv.ParseFloat(lexeme, 64)
	outOfRange := false
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		outOfRange = true
	}
	return Result{Kind: Decimal, Float: f, OutOfRange: outOfRange}
}

func isDecimalShaped(lexeme string) bool {
	for _, r := range lexeme {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}
