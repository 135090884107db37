package bignum

import "strconv"

const (
	decChunk       = 1_000_000_000
	decChunkDigits = 9
)

// FormatUint renders a magnitude in decimal.
func FormatUint(u BigUint) string {
	z := u.nat().clone()
	if len(z) == 0 {
		return "0"
	}
	// base-1e9 chunks come out least significant first
	var parts []uint32
	for len(z) > 0 {
		var r uint32
		z, r = z.divW(decChunk)
		parts = append(parts, r)
	}
	buf := make([]byte, 0, len(parts)*decChunkDigits)
	buf = strconv.AppendUint(buf, uint64(parts[len(parts)-1]), 10)
	for i := len(parts) - 2; i >= 0; i-- {
		var tmp [decChunkDigits]byte
		digits := strconv.AppendUint(tmp[:0], uint64(parts[i]), 10)
		for range decChunkDigits - len(digits) {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
	}
	return string(buf)
}

// FormatInt renders i in decimal with a leading '-' when negative.
func FormatInt(i BigInt) string {
	s := FormatUint(i.Abs())
	if i.Sign() < 0 {
		return "-" + s
	}
	return s
}
