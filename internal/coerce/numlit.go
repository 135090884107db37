package coerce

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"coerce/internal/bignum"
)

// isSpace reports whether u is trimmed around numeric literals: the
// WhiteSpace and LineTerminator code points of the language.
func isSpace(u uint16) bool {
	switch u {
	case 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x20, 0xA0, 0xFEFF, 0x2028, 0x2029:
		return true
	}
	return u > 0x7F && unicode.Is(unicode.Zs, rune(u))
}

func trimSpace(units []uint16) []uint16 {
	start, end := 0, len(units)
	for start < end && isSpace(units[start]) {
		start++
	}
	for end > start && isSpace(units[end-1]) {
		end--
	}
	return units[start:end]
}

// asciiLiteral trims whitespace and returns the remainder as a byte string.
// Literals are pure ASCII; anything else fails.
func asciiLiteral(units []uint16) (string, bool) {
	units = trimSpace(units)
	var sb strings.Builder
	sb.Grow(len(units))
	for _, u := range units {
		if u > 0x7F {
			return "", false
		}
		sb.WriteByte(byte(u))
	}
	return sb.String(), true
}

// StringToNumber converts string code units to a Number. Whitespace-only or
// empty input is 0. The grammar is a signed decimal with optional fraction
// and exponent, or an unsigned 0x/0X hex integer; anything else, including
// "Infinity" and 0o/0b prefixes, is NaN.
func StringToNumber(units []uint16) float64 {
	s, ok := asciiLiteral(units)
	if !ok {
		return math.NaN()
	}
	if s == "" {
		return 0
	}
	if digits, ok := hexDigits(s); ok {
		return prefixedToNumber(digits, 16)
	}

	unsigned := s
	if s[0] == '+' || s[0] == '-' {
		unsigned = s[1:]
	}
	if !isDecimalLiteral(unsigned) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// hexDigits returns the digits after a 0x/0X prefix. Other radix prefixes
// are not part of the string grammar.
func hexDigits(s string) (string, bool) {
	base, digits, ok := bignum.SplitBasePrefix(s)
	return digits, ok && base == 16
}

// prefixedToNumber goes through the exact integer so rounding matches a
// correctly rounded decimal conversion of the same magnitude.
func prefixedToNumber(digits string, base uint32) float64 {
	u, err := bignum.ParseUintDigits(digits, base)
	switch {
	case errors.Is(err, bignum.ErrMaxLimbs):
		return math.Inf(1)
	case err != nil:
		return math.NaN()
	}
	if v, ok := u.Uint64(); ok {
		return float64(v)
	}
	if u.BitLen() > 1024 {
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(bignum.FormatUint(u), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// isDecimalLiteral matches
//
//	(Digit+ ("." Digit*)? | "." Digit+) ([eE] [+-]? Digit+)?
func isDecimalLiteral(s string) bool {
	i, n := 0, len(s)
	digits := func() int {
		start := i
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i - start
	}
	mantissa := digits()
	if i < n && s[i] == '.' {
		i++
		mantissa += digits()
	}
	if mantissa == 0 {
		return false
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if digits() == 0 {
			return false
		}
	}
	return i == n
}

// StringToBigInt parses string code units as an integer literal. Empty or
// whitespace-only input is 0. ok is false when the text is not a valid
// integer literal.
func StringToBigInt(units []uint16) (bignum.BigInt, bool) {
	s, ok := asciiLiteral(units)
	if !ok {
		return bignum.BigInt{}, false
	}
	if s == "" {
		return bignum.BigInt{}, true
	}
	if base, _, ok := bignum.SplitBasePrefix(s); ok && base != 16 {
		return bignum.BigInt{}, false
	}
	i, err := bignum.ParseInt(s)
	if err != nil {
		return bignum.BigInt{}, false
	}
	return i, true
}
