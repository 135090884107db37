package bignum

import "errors"

// MaxBits bounds the magnitude of any value this package produces, in the
// same range engines cap their BigInt implementations.
const MaxBits = 1 << 30

// MaxLimbs is MaxBits expressed in 32-bit limbs.
const MaxLimbs = MaxBits / 32

// ErrMaxLimbs is returned when a result would exceed MaxBits.
var ErrMaxLimbs = errors.New("numeric size limit exceeded")

// nat is a little-endian base-2^32 magnitude. The normalized form has no
// high zero limbs; zero is the empty slice.
type nat []uint32

func (z nat) norm() nat {
	i := len(z)
	for i > 0 && z[i-1] == 0 {
		i--
	}
	return z[:i]
}

func natFromUint64(v uint64) nat {
	switch {
	case v == 0:
		return nil
	case v>>32 == 0:
		return nat{uint32(v)}
	}
	return nat{uint32(v), uint32(v >> 32)} //nolint:gosec // G115: limb split
}

func (z nat) cmp(y nat) int {
	z, y = z.norm(), y.norm()
	if len(z) != len(y) {
		if len(z) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(z) - 1; i >= 0; i-- {
		if z[i] != y[i] {
			if z[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (z nat) clone() nat {
	z = z.norm()
	if len(z) == 0 {
		return nil
	}
	return append(nat(nil), z...)
}

// add returns x+y in fresh storage.
func add(x, y nat) (nat, error) {
	x, y = x.norm(), y.norm()
	if len(x) < len(y) {
		x, y = y, x
	}
	if len(x) == 0 {
		return nil, nil
	}
	z := make(nat, len(x)+1)
	var c uint64
	for i, xi := range x {
		s := uint64(xi) + c
		if i < len(y) {
			s += uint64(y[i])
		}
		z[i] = uint32(s) //nolint:gosec // G115: low limb
		c = s >> 32
	}
	z[len(x)] = uint32(c) //nolint:gosec // G115: carry is 0 or 1
	z = z.norm()
	if len(z) > MaxLimbs {
		return nil, ErrMaxLimbs
	}
	return z, nil
}

// sub returns x-y in fresh storage. The caller guarantees x >= y.
func sub(x, y nat) nat {
	x, y = x.norm(), y.norm()
	z := make(nat, len(x))
	var b uint64
	for i, xi := range x {
		d := uint64(xi) - b
		if i < len(y) {
			d -= uint64(y[i])
		}
		z[i] = uint32(d) //nolint:gosec // G115: low limb
		b = (d >> 32) & 1
	}
	return z.norm()
}

// mulAddWW sets z = z*m + a in place, growing z by at most one limb.
func (z nat) mulAddWW(m, a uint32) nat {
	c := uint64(a)
	for i, zi := range z {
		p := uint64(zi)*uint64(m) + c
		z[i] = uint32(p) //nolint:gosec // G115: low limb
		c = p >> 32
	}
	if c != 0 {
		z = append(z, uint32(c)) //nolint:gosec // G115: carry fits a limb
	}
	return z
}

// divW sets z = z/d in place and returns the remainder. d must be non-zero.
func (z nat) divW(d uint32) (nat, uint32) {
	var r uint64
	for i := len(z) - 1; i >= 0; i-- {
		cur := r<<32 | uint64(z[i])
		z[i] = uint32(cur / uint64(d)) //nolint:gosec // G115: r < d keeps the quotient in range
		r = cur % uint64(d)
	}
	return z.norm(), uint32(r) //nolint:gosec // G115: r < d
}

// BigUint is an arbitrary-precision magnitude.
type BigUint struct {
	Limbs []uint32
}

// UintFromUint64 creates a BigUint from a uint64.
func UintFromUint64(v uint64) BigUint {
	return BigUint{Limbs: natFromUint64(v)}
}

func (u BigUint) nat() nat { return nat(u.Limbs).norm() }

// IsZero reports whether the magnitude is zero.
func (u BigUint) IsZero() bool { return len(u.nat()) == 0 }

// Cmp returns -1, 0 or 1.
func (u BigUint) Cmp(v BigUint) int { return u.nat().cmp(v.nat()) }

// BitLen returns the number of significant bits.
func (u BigUint) BitLen() int {
	z := u.nat()
	if len(z) == 0 {
		return 0
	}
	top := z[len(z)-1]
	n := 0
	for top != 0 {
		top >>= 1
		n++
	}
	return (len(z)-1)*32 + n
}

// Uint64 converts u if it fits.
func (u BigUint) Uint64() (uint64, bool) {
	z := u.nat()
	switch len(z) {
	case 0:
		return 0, true
	case 1:
		return uint64(z[0]), true
	case 2:
		return uint64(z[1])<<32 | uint64(z[0]), true
	}
	return 0, false
}

// Clone returns a copy that shares no storage with u.
func (u BigUint) Clone() BigUint { return BigUint{Limbs: u.nat().clone()} }
