// Package fuzztests houses Go fuzz harnesses for the coercion engine and the
// value notation. They guard against panics on arbitrary input and check the
// properties that must hold for every value: string-to-number parsing ignores
// surrounding whitespace, numbers survive a print/parse round trip, and loose
// equality is symmetric.
//
// Seeds come from the conformance case files under
// internal/conformance/testdata plus a handful of literals.
package fuzztests
