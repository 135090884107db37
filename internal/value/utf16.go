package value

import (
	"unicode/utf16"
	"unicode/utf8"
)

// EncodeUTF16 converts Go text to UTF-16 code units.
// Invalid UTF-8 bytes become U+FFFD.
func EncodeUTF16(s string) []uint16 {
	if s == "" {
		return nil
	}
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		out = utf16.AppendRune(out, r)
	}
	return out
}

// DecodeUTF16 converts code units back to Go text. Valid surrogate pairs
// combine; lone surrogates become U+FFFD.
func DecodeUTF16(units []uint16) string {
	if len(units) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(units))
	for i := 0; i < len(units); i++ {
		c := rune(units[i])
		if utf16.IsSurrogate(c) && i+1 < len(units) {
			if r := utf16.DecodeRune(c, rune(units[i+1])); r != utf8.RuneError {
				buf = utf8.AppendRune(buf, r)
				i++
				continue
			}
		}
		if utf16.IsSurrogate(c) {
			c = utf8.RuneError
		}
		buf = utf8.AppendRune(buf, c)
	}
	return string(buf)
}
