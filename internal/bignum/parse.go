package bignum

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("invalid integer literal")

// ParseInt parses an integer literal: an optional sign followed by decimal
// digits, or an unsigned 0x/0o/0b prefixed literal. Whitespace and digit
// separators are not accepted; callers trim beforehand.
func ParseInt(s string) (BigInt, error) {
	if base, digits, ok := SplitBasePrefix(s); ok {
		u, err := ParseUintDigits(digits, base)
		return makeInt(false, u.Limbs), err
	}
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	u, err := ParseUintDigits(s, 10)
	if err != nil {
		return BigInt{}, err
	}
	return makeInt(neg, u.Limbs), nil
}

// ParseUintDigits parses a non-empty run of digits in base 2, 8, 10 or 16.
// Every byte must be a valid digit.
func ParseUintDigits(s string, base uint32) (BigUint, error) {
	if s == "" {
		return BigUint{}, ErrParse
	}
	step, pow := chunkFor(base)

	// Digits fold in step at a time, leading partial chunk first. z is
	// still empty for that chunk, so its multiplier is irrelevant.
	z := make(nat, 0, min(len(s)/step+1, MaxLimbs+1))
	over := false
	first := len(s) % step
	if first == 0 {
		first = step
	}
	for start, end := 0, first; start < len(s); start, end = end, end+step {
		var acc uint32
		for i := start; i < end; i++ {
			d, ok := digitValue(s[i], base)
			if !ok {
				return BigUint{}, fmt.Errorf("%w: %q", ErrParse, s)
			}
			acc = acc*base + d
		}
		// past the bound only validation continues, so a bad digit
		// still reports ErrParse
		if !over {
			z = z.mulAddWW(pow, acc)
			over = len(z) > MaxLimbs
		}
	}
	if over {
		return BigUint{}, ErrMaxLimbs
	}
	return BigUint{Limbs: z.norm()}, nil
}

// chunkFor returns the largest digit count whose value fits a limb, and base
// raised to it.
func chunkFor(base uint32) (int, uint32) {
	n, p := 0, uint64(1)
	for p*uint64(base) <= 1<<32-1 {
		p *= uint64(base)
		n++
	}
	return n, uint32(p) //nolint:gosec // G115: p fits by construction
}

// SplitBasePrefix reports the radix named by a 0x/0o/0b prefix and the digits after it.
func SplitBasePrefix(s string) (base uint32, digits string, ok bool) {
	if len(s) < 2 || s[0] != '0' {
		return 0, "", false
	}
	switch s[1] | 0x20 {
	case 'x':
		base = 16
	case 'o':
		base = 8
	case 'b':
		base = 2
	default:
		return 0, "", false
	}
	return base, s[2:], true
}

func digitValue(ch byte, base uint32) (uint32, bool) {
	var d uint32
	switch {
	case '0' <= ch && ch <= '9':
		d = uint32(ch - '0')
	case 'a' <= ch|0x20 && ch|0x20 <= 'f':
		d = uint32(ch|0x20-'a') + 10
	default:
		return 0, false
	}
	return d, d < base
}
