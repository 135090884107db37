// Package testkit checks the coercion engine against its algebraic
// properties over a fixed universe of sample values. It backs both the
// package tests and the `coerce check` command.
package testkit

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"coerce/internal/bignum"
	"coerce/internal/coerce"
	"coerce/internal/heap"
	"coerce/internal/value"
)

// Sample is one labelled member of the universe.
type Sample struct {
	Label string
	Value value.Value
}

// Violation describes one failed property instance.
type Violation struct {
	Property string
	Detail   string
}

func (v Violation) String() string {
	return v.Property + ": " + v.Detail
}

// Universe is a heap, an engine over it and the samples to check.
type Universe struct {
	Heap    *heap.Heap
	Engine  *coerce.Engine
	Samples []Sample
	// Cyclic is an array that contains itself; it is kept out of Samples.
	Cyclic value.Value
	// Seed drives the generated numbers of the round-trip property.
	Seed int64
}

// NewUniverse builds the standard sample set: every falsy member, signed
// zeros, NaN and infinities, numeric and whitespace strings, big integers,
// arrays (nested and holey), a plain object and a function.
func NewUniverse(opts ...func(*Universe)) *Universe {
	h := heap.New()
	u := &Universe{Heap: h, Seed: 1}
	for _, opt := range opts {
		opt(u)
	}
	u.Engine = coerce.New(h)

	huge, _ := bignum.ParseInt("123456789012345678901234567890")
	one := h.AllocArray(value.Number(1))

	u.Samples = []Sample{
		{"undefined", value.Undefined()},
		{"null", value.Null()},
		{"true", value.Bool(true)},
		{"false", value.Bool(false)},
		{"0", value.Number(0)},
		{"-0", value.Number(math.Copysign(0, -1))},
		{"NaN", value.NaN()},
		{"1", value.Number(1)},
		{"-1", value.Number(-1)},
		{"2", value.Number(2)},
		{"5", value.Number(5)},
		{"0.5", value.Number(0.5)},
		{"1e21", value.Number(1e21)},
		{"Infinity", value.Number(math.Inf(1))},
		{"-Infinity", value.Number(math.Inf(-1))},
		{`""`, value.String("")},
		{`" "`, value.String(" ")},
		{`"\u00a0"`, value.String("\u00a0")},
		{`"0"`, value.String("0")},
		{`"1"`, value.String("1")},
		{`"5"`, value.String("5")},
		{`"  42  "`, value.String("  42  ")},
		{`"95abc"`, value.String("95abc")},
		{`"0x10"`, value.String("0x10")},
		{`"Infinity"`, value.String("Infinity")},
		{`"abc"`, value.String("abc")},
		{`"1,2"`, value.String("1,2")},
		{"0n", value.BigIntFromInt64(0)},
		{"5n", value.BigIntFromInt64(5)},
		{"-5n", value.BigIntFromInt64(-5)},
		{"hugen", value.BigInt(huge)},
		{"[]", h.AllocArray()},
		{"[1]", one},
		{"[5]", h.AllocArray(value.Number(5))},
		{"[1,2]", h.AllocArray(value.Number(1), value.Number(2))},
		{"[[1]]", h.AllocArray(one)},
		{"[null]", h.AllocArray(value.Null())},
		{"[5n]", h.AllocArray(value.BigIntFromInt64(5))},
		{"{}", h.AllocObject()},
		{"fn", h.AllocFunction("f")},
	}

	u.Cyclic = h.AllocArray()
	r, _ := u.Cyclic.AsRef()
	_ = h.SetElements(r.Handle, value.Number(1), u.Cyclic)
	return u
}

// WithSeed sets the generator seed used by NewUniverse.
func WithSeed(seed int64) func(*Universe) {
	return func(u *Universe) { u.Seed = seed }
}

// Property is one named check.
type Property struct {
	Name  string
	Doc   string
	Check func(u *Universe) []Violation
}

var properties = []Property{
	{"nan-strict", "StrictEquals(n, n) is false exactly when n is NaN", checkNaNStrict},
	{"falsy-set", "ToBoolean is false exactly for the eight falsy members", checkFalsySet},
	{"nullish-pair", "null == undefined both ways, null !== undefined", checkNullishPair},
	{"literals", "spot checks of the numeric literal grammar and number printing", checkLiterals},
	{"round-trip", "ToNumber(ToString(n)) == n for finite numbers of up to 15 digits", checkRoundTrip},
	{"loose-symmetry", "LooseEquals(a, b) agrees with LooseEquals(b, a), errors included", checkSymmetry},
	{"strict-implies-loose", "StrictEquals(a, b) implies LooseEquals(a, b)", checkStrictImpliesLoose},
	{"bigint-number", "a bigint never equals a number", checkBigIntNumber},
	{"cyclic", "converting a self-containing array fails with CyclicStructure", checkCyclic},
	{"boolean-number", "1 == true, 2 != true, 0 == false", checkBooleanNumber},
}

// Properties lists every property in check order.
func Properties() []Property {
	return append([]Property(nil), properties...)
}

// Check runs the named properties, or all of them when names is empty.
func (u *Universe) Check(names ...string) ([]Violation, error) {
	selected := properties
	if len(names) > 0 {
		selected = selected[:0:0]
		for _, name := range names {
			p, ok := lookup(name)
			if !ok {
				return nil, fmt.Errorf("unknown property %q", name)
			}
			selected = append(selected, p)
		}
	}
	var out []Violation
	for _, p := range selected {
		out = append(out, p.Check(u)...)
	}
	return out, nil
}

func lookup(name string) (Property, bool) {
	for _, p := range properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

func violationf(property, format string, args ...any) Violation {
	return Violation{Property: property, Detail: fmt.Sprintf(format, args...)}
}

func checkNaNStrict(u *Universe) []Violation {
	var out []Violation
	for _, s := range u.Samples {
		n, ok := s.Value.AsNumber()
		if !ok {
			continue
		}
		if u.Engine.StrictEquals(s.Value, s.Value) == math.IsNaN(n) {
			out = append(out, violationf("nan-strict", "StrictEquals(%s, %s) wrong", s.Label, s.Label))
		}
	}
	return out
}

// isFalsyMember decides membership from the payload alone.
func isFalsyMember(v value.Value) bool {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return true
	case value.KindBoolean:
		b, _ := v.AsBool()
		return !b
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n == 0 || math.IsNaN(n)
	case value.KindString:
		return v.Len() == 0
	case value.KindBigInteger:
		i, _ := v.AsBigInt()
		return i.Sign() == 0
	default:
		return false
	}
}

func checkFalsySet(u *Universe) []Violation {
	var out []Violation
	falsy := 0
	for _, s := range append(u.Samples, Sample{"cyclic", u.Cyclic}) {
		want := !isFalsyMember(s.Value)
		if !want {
			falsy++
		}
		if got := u.Engine.ToBoolean(s.Value); got != want {
			out = append(out, violationf("falsy-set", "ToBoolean(%s) = %v", s.Label, got))
		}
	}
	if falsy != 8 {
		out = append(out, violationf("falsy-set", "universe holds %d falsy samples, want 8", falsy))
	}
	return out
}

func checkNullishPair(u *Universe) []Violation {
	var out []Violation
	n, d := value.Null(), value.Undefined()
	for _, pair := range [][2]value.Value{{n, d}, {d, n}} {
		eq, err := u.Engine.LooseEquals(pair[0], pair[1])
		if err != nil || !eq {
			out = append(out, violationf("nullish-pair", "LooseEquals(%v, %v) = %v, %v", pair[0], pair[1], eq, err))
		}
		if u.Engine.StrictEquals(pair[0], pair[1]) {
			out = append(out, violationf("nullish-pair", "StrictEquals(%v, %v) = true", pair[0], pair[1]))
		}
	}
	return out
}

func checkLiterals(u *Universe) []Violation {
	var out []Violation
	numbers := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"95abc", math.NaN()},
		{"  42  ", 42},
		{"0x10", 16},
		{"-Infinity", math.NaN()},
		{"0b11", math.NaN()},
		{"1_0", math.NaN()},
	}
	for _, tt := range numbers {
		got, err := u.Engine.ToNumber(value.String(tt.in))
		same := got == tt.want || (math.IsNaN(got) && math.IsNaN(tt.want))
		if err != nil || !same {
			out = append(out, violationf("literals", "ToNumber(%q) = %v, %v; want %v", tt.in, got, err, tt.want))
		}
	}
	texts := []struct {
		in   float64
		want string
	}{
		{math.Copysign(0, -1), "0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{1e21, "1e+21"},
		{0.000001, "0.000001"},
	}
	for _, tt := range texts {
		got, err := u.Engine.ToText(value.Number(tt.in))
		if err != nil || got != tt.want {
			out = append(out, violationf("literals", "ToString(%v) = %q, %v; want %q", tt.in, got, err, tt.want))
		}
	}
	return out
}

func checkRoundTrip(u *Universe) []Violation {
	var out []Violation
	rng := rand.New(rand.NewSource(u.Seed))
	numbers := make([]float64, 0, 1100)
	for _, s := range u.Samples {
		if n, ok := s.Value.AsNumber(); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
			numbers = append(numbers, n)
		}
	}
	for range 1000 {
		f := rng.NormFloat64() * math.Pow(10, float64(rng.Intn(40)-20))
		f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', 1+rng.Intn(15), 64), 64)
		numbers = append(numbers, f)
	}
	for _, n := range numbers {
		s, err := u.Engine.ToString(value.Number(n))
		if err != nil {
			out = append(out, violationf("round-trip", "ToString(%v): %v", n, err))
			continue
		}
		back, err := u.Engine.ToNumber(s)
		if err != nil || back != n {
			text, _ := s.Text()
			out = append(out, violationf("round-trip", "%v -> %q -> %v", n, text, back))
		}
	}
	return out
}

func checkSymmetry(u *Universe) []Violation {
	var out []Violation
	all := append(u.Samples, Sample{"cyclic", u.Cyclic})
	for _, a := range all {
		for _, b := range all {
			ab, errAB := u.Engine.LooseEquals(a.Value, b.Value)
			ba, errBA := u.Engine.LooseEquals(b.Value, a.Value)
			codeAB, _ := coerce.CodeOf(errAB)
			codeBA, _ := coerce.CodeOf(errBA)
			if ab != ba || (errAB == nil) != (errBA == nil) || codeAB != codeBA {
				out = append(out, violationf("loose-symmetry", "%s == %s is %v (%v), reverse %v (%v)", a.Label, b.Label, ab, errAB, ba, errBA))
			}
		}
	}
	return out
}

func checkStrictImpliesLoose(u *Universe) []Violation {
	var out []Violation
	for _, a := range u.Samples {
		for _, b := range u.Samples {
			if !u.Engine.StrictEquals(a.Value, b.Value) {
				continue
			}
			if eq, err := u.Engine.LooseEquals(a.Value, b.Value); err != nil || !eq {
				out = append(out, violationf("strict-implies-loose", "%s === %s but == gives %v, %v", a.Label, b.Label, eq, err))
			}
		}
	}
	return out
}

func checkBigIntNumber(u *Universe) []Violation {
	var out []Violation
	for _, a := range u.Samples {
		if a.Value.Kind() != value.KindBigInteger {
			continue
		}
		for _, b := range u.Samples {
			if b.Value.Kind() != value.KindNumber {
				continue
			}
			eq, err := u.Engine.LooseEquals(a.Value, b.Value)
			if err != nil || eq || u.Engine.StrictEquals(a.Value, b.Value) {
				out = append(out, violationf("bigint-number", "%s == %s gave %v, %v", a.Label, b.Label, eq, err))
			}
		}
	}
	return out
}

func checkCyclic(u *Universe) []Violation {
	var out []Violation
	if _, err := u.Engine.ToString(u.Cyclic); !errors.Is(err, coerce.ErrCyclicStructure) {
		out = append(out, violationf("cyclic", "ToString(cyclic) err = %v", err))
	}
	if _, err := u.Engine.LooseEquals(u.Cyclic, value.String("1,")); !errors.Is(err, coerce.ErrCyclicStructure) {
		out = append(out, violationf("cyclic", "LooseEquals(cyclic, string) err = %v", err))
	}
	return out
}

func checkBooleanNumber(u *Universe) []Violation {
	var out []Violation
	cases := []struct {
		n    float64
		b    bool
		want bool
	}{
		{1, true, true},
		{2, true, false},
		{0, false, true},
		{0, true, false},
	}
	for _, tt := range cases {
		eq, err := u.Engine.LooseEquals(value.Number(tt.n), value.Bool(tt.b))
		if err != nil || eq != tt.want {
			out = append(out, violationf("boolean-number", "LooseEquals(%v, %v) = %v, %v", tt.n, tt.b, eq, err))
		}
	}
	return out
}
