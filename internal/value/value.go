// Package value defines the closed dynamic value domain shared by the
// coercion engine, the object store and the tooling around them.
//
// A Value is a sum type: exactly one variant is active and its payload is
// only reachable through the accessor matching KindOf. Values are immutable;
// slices are copied on the way in and on the way out.
package value

import (
	"math"
	"strconv"

	"coerce/internal/bignum"
)

// Value is one member of the dynamic value domain.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  []uint16
	big  bignum.BigInt
	ref  Ref
}

// Undefined returns the undefined value (also the zero Value).
func Undefined() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool creates a Boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Number creates a Number value. NaN, infinities and -0 are preserved.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// NaN is a convenience for Number(math.NaN()).
func NaN() Value { return Number(math.NaN()) }

// String creates a String value from Go text, encoding it to UTF-16.
func String(s string) Value {
	return Value{kind: KindString, str: EncodeUTF16(s)}
}

// StringUnits creates a String value from raw UTF-16 code units.
// Lone surrogates are kept as-is.
func StringUnits(units []uint16) Value {
	var cp []uint16
	if len(units) > 0 {
		cp = append([]uint16(nil), units...)
	}
	return Value{kind: KindString, str: cp}
}

// BigInt creates a BigInteger value.
func BigInt(i bignum.BigInt) Value {
	return Value{kind: KindBigInteger, big: i.Clone()}
}

// BigIntFromInt64 creates a BigInteger value from an int64.
func BigIntFromInt64(n int64) Value {
	return Value{kind: KindBigInteger, big: bignum.IntFromInt64(n)}
}

// Object creates an ObjectRef value.
func Object(r Ref) Value { return Value{kind: KindObjectRef, ref: r} }

// KindOf returns the active variant of v.
func KindOf(v Value) Kind { return v.kind }

// Kind is the method form of KindOf.
func (v Value) Kind() Kind { return v.kind }

// IsNullish reports whether v is Null or Undefined.
func (v Value) IsNullish() bool {
	return v.kind == KindNull || v.kind == KindUndefined
}

// AsBool returns the Boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the Number payload.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Units returns a copy of the String payload's code units.
func (v Value) Units() ([]uint16, bool) {
	if v.kind != KindString {
		return nil, false
	}
	return append([]uint16(nil), v.str...), true
}

// Len returns the String payload length in code units, or 0 for other kinds.
func (v Value) Len() int {
	if v.kind != KindString {
		return 0
	}
	return len(v.str)
}

// Text returns the String payload as Go text.
// Lone surrogates decode to U+FFFD.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return DecodeUTF16(v.str), true
}

// AsBigInt returns a copy of the BigInteger payload.
func (v Value) AsBigInt() (bignum.BigInt, bool) {
	if v.kind != KindBigInteger {
		return bignum.BigInt{}, false
	}
	return v.big.Clone(), true
}

// AsRef returns the ObjectRef payload.
func (v Value) AsRef() (Ref, bool) {
	if v.kind != KindObjectRef {
		return Ref{}, false
	}
	return v.ref, true
}

// EqualUnits reports whether two String values hold the same code units.
// It is false when either side is not a String.
func EqualUnits(a, b Value) bool {
	if a.kind != KindString || b.kind != KindString || len(a.str) != len(b.str) {
		return false
	}
	for i := range a.str {
		if a.str[i] != b.str[i] {
			return false
		}
	}
	return true
}

// CompareUnits orders two String values by code units (-1, 0, 1).
func CompareUnits(a, b Value) int {
	n := min(len(a.str), len(b.str))
	for i := range n {
		switch {
		case a.str[i] < b.str[i]:
			return -1
		case a.str[i] > b.str[i]:
			return 1
		}
	}
	switch {
	case len(a.str) < len(b.str):
		return -1
	case len(a.str) > len(b.str):
		return 1
	default:
		return 0
	}
}

// String renders v in value notation (num:1.5, str:"x", big:7, ref:array#3).
// It is a debugging aid, not a coercion.
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return "num:" + formatNotationNumber(v.num)
	case KindString:
		return "str:" + strconv.Quote(DecodeUTF16(v.str))
	case KindBigInteger:
		return "big:" + v.big.String()
	case KindObjectRef:
		return "ref:" + v.ref.String()
	default:
		return "<invalid>"
	}
}

func formatNotationNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0 && math.Signbit(f):
		return "-0"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
