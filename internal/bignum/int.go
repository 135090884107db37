package bignum

import (
	"fortio.org/safecast"
)

// BigInt is a sign-magnitude integer. Zero is always non-negative with
// empty Limbs once it has passed through any constructor or operation here.
type BigInt struct {
	Neg   bool
	Limbs []uint32
}

func makeInt(neg bool, z nat) BigInt {
	z = z.norm()
	if len(z) == 0 {
		return BigInt{}
	}
	return BigInt{Neg: neg, Limbs: z}
}

// IntFromInt64 creates a BigInt from an int64.
func IntFromInt64(v int64) BigInt {
	if v >= 0 {
		return makeInt(false, natFromUint64(uint64(v)))
	}
	// two's complement negation handles math.MinInt64
	return makeInt(true, natFromUint64(^uint64(v)+1)) //nolint:gosec // G115: bit reinterpretation
}

func (i BigInt) mag() nat { return nat(i.Limbs).norm() }

// IsZero reports whether i == 0.
func (i BigInt) IsZero() bool { return len(i.mag()) == 0 }

// Sign returns -1, 0 or 1.
func (i BigInt) Sign() int {
	switch {
	case i.IsZero():
		return 0
	case i.Neg:
		return -1
	}
	return 1
}

// Abs returns the magnitude.
func (i BigInt) Abs() BigUint { return BigUint{Limbs: i.mag()} }

// Negated returns -i.
func (i BigInt) Negated() BigInt { return makeInt(!i.Neg, i.mag()) }

// Clone returns a canonical copy that shares no storage with i.
func (i BigInt) Clone() BigInt { return makeInt(i.Neg, i.mag().clone()) }

// Cmp returns -1, 0 or 1.
func (i BigInt) Cmp(j BigInt) int {
	si, sj := i.Sign(), j.Sign()
	if si != sj {
		if si < sj {
			return -1
		}
		return 1
	}
	return si * i.mag().cmp(j.mag())
}

// Int64 converts i if it fits.
func (i BigInt) Int64() (int64, bool) {
	m, ok := i.Abs().Uint64()
	if !ok {
		return 0, false
	}
	if i.Neg && m == 1<<63 {
		return -1 << 63, true
	}
	v, err := safecast.Conv[int64](m)
	if err != nil {
		return 0, false
	}
	if i.Neg {
		v = -v
	}
	return v, true
}

// IntAdd returns a+b.
func IntAdd(a, b BigInt) (BigInt, error) {
	x, y := a.mag(), b.mag()
	if a.Neg == b.Neg {
		z, err := add(x, y)
		if err != nil {
			return BigInt{}, err
		}
		return makeInt(a.Neg, z), nil
	}
	// opposite signs: the larger magnitude keeps its sign
	switch x.cmp(y) {
	case 1:
		return makeInt(a.Neg, sub(x, y)), nil
	case -1:
		return makeInt(b.Neg, sub(y, x)), nil
	}
	return BigInt{}, nil
}

// IntSub returns a-b.
func IntSub(a, b BigInt) (BigInt, error) {
	return IntAdd(a, b.Negated())
}

func (i BigInt) String() string {
	return FormatInt(i)
}
