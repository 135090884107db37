package fuzztests

import (
	"math"
	"testing"

	"coerce/internal/bignum"
	"coerce/internal/coerce"
	"coerce/internal/conformance"
	"coerce/internal/heap"
	"coerce/internal/value"
)

const maxFuzzInput = 1 << 10

func clampInput(s string) string {
	if len(s) > maxFuzzInput {
		return s[:maxFuzzInput]
	}
	return s
}

func sameNumber(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func FuzzStringToNumber(f *testing.F) {
	addStringSeeds(f)
	f.Fuzz(func(t *testing.T, input string) {
		input = clampInput(input)
		units := value.EncodeUTF16(input)
		n := coerce.StringToNumber(units)

		padded := value.EncodeUTF16(" \t\u00a0" + input + "\n\ufeff")
		if got := coerce.StringToNumber(padded); !sameNumber(got, n) {
			t.Fatalf("padding changed %q: %v -> %v", input, n, got)
		}

		if math.IsNaN(n) || math.IsInf(n, 0) {
			return
		}
		text := coerce.FormatNumber(n)
		if back := coerce.StringToNumber(value.EncodeUTF16(text)); back != n {
			t.Fatalf("%q -> %v -> %q -> %v", input, n, text, back)
		}
	})
}

func FuzzStringToBigInt(f *testing.F) {
	addStringSeeds(f)
	e := coerce.New(nil)
	f.Fuzz(func(t *testing.T, input string) {
		input = clampInput(input)
		i, ok := coerce.StringToBigInt(value.EncodeUTF16(input))
		if !ok {
			return
		}
		text := bignum.FormatInt(i)
		back, ok := coerce.StringToBigInt(value.EncodeUTF16(text))
		if !ok || back.Cmp(i) != 0 {
			t.Fatalf("%q -> %s -> %v (ok=%v)", input, text, back, ok)
		}
		eq, err := e.LooseEquals(value.BigInt(i), value.String(input))
		if err != nil || !eq {
			t.Fatalf("big:%s == %q gave %v, %v", text, input, eq, err)
		}
	})
}

func FuzzLooseEqualsSymmetric(f *testing.F) {
	addPairSeeds(f)
	f.Fuzz(func(t *testing.T, a, b string) {
		h := heap.New()
		n := &conformance.Notation{Heap: h, Inline: true}
		e := coerce.New(h)
		va := parseOrString(n, clampInput(a))
		vb := parseOrString(n, clampInput(b))

		ab, errAB := e.LooseEquals(va, vb)
		ba, errBA := e.LooseEquals(vb, va)
		codeAB, _ := coerce.CodeOf(errAB)
		codeBA, _ := coerce.CodeOf(errBA)
		if ab != ba || codeAB != codeBA {
			t.Fatalf("%v == %v: %v (%v) vs %v (%v)", va, vb, ab, errAB, ba, errBA)
		}
		if e.StrictEquals(va, vb) && !ab {
			t.Fatalf("%v === %v but not ==", va, vb)
		}
		if e.StrictEquals(va, vb) != e.StrictEquals(vb, va) {
			t.Fatalf("StrictEquals not symmetric for %v, %v", va, vb)
		}
	})
}

func FuzzNotationRoundTrip(f *testing.F) {
	addNotationSeeds(f)
	f.Fuzz(func(t *testing.T, input string) {
		n := &conformance.Notation{}
		v, err := n.Parse(clampInput(input))
		if err != nil || v.Kind() == value.KindObjectRef {
			return
		}
		text := conformance.Format(v, nil)
		back, err := n.Parse(text)
		if err != nil {
			t.Fatalf("%q formatted as %q which does not parse: %v", input, text, err)
		}
		if !coerce.SameValue(v, back) {
			t.Fatalf("%q -> %q -> %v", input, text, back)
		}
	})
}

func parseOrString(n *conformance.Notation, s string) value.Value {
	if v, err := n.Parse(s); err == nil {
		return v
	}
	return value.String(s)
}
