package value

import (
	"math"
	"testing"

	"coerce/internal/bignum"
)

func TestZeroValueIsUndefined(t *testing.T) {
	var v Value
	if KindOf(v) != KindUndefined {
		t.Fatalf("zero value kind = %v, want undefined", KindOf(v))
	}
	if !v.IsNullish() {
		t.Fatal("zero value should be nullish")
	}
}

func TestKindOfEveryVariant(t *testing.T) {
	tests := []struct {
		v    Value
		want Kind
	}{
		{Undefined(), KindUndefined},
		{Null(), KindNull},
		{Bool(true), KindBoolean},
		{Number(1.5), KindNumber},
		{String("x"), KindString},
		{BigIntFromInt64(3), KindBigInteger},
		{Object(Ref{Handle: 1, Kind: ObjArray}), KindObjectRef},
	}
	for _, tt := range tests {
		if got := KindOf(tt.v); got != tt.want {
			t.Errorf("KindOf(%s) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestAccessorsRejectOtherKinds(t *testing.T) {
	n := Number(2)
	if _, ok := n.AsBool(); ok {
		t.Error("AsBool on number should fail")
	}
	if _, ok := n.Text(); ok {
		t.Error("Text on number should fail")
	}
	if _, ok := n.AsBigInt(); ok {
		t.Error("AsBigInt on number should fail")
	}
	if _, ok := n.AsRef(); ok {
		t.Error("AsRef on number should fail")
	}
	if f, ok := n.AsNumber(); !ok || f != 2 {
		t.Errorf("AsNumber = %v, %v", f, ok)
	}
}

func TestStringUnitsAreImmutable(t *testing.T) {
	src := []uint16{'a', 'b'}
	v := StringUnits(src)
	src[0] = 'z'
	units, _ := v.Units()
	if units[0] != 'a' {
		t.Fatal("constructor did not copy")
	}
	units[1] = 'z'
	if s, _ := v.Text(); s != "ab" {
		t.Fatalf("accessor leaked storage: %q", s)
	}
}

func TestBigIntPayloadIsCopied(t *testing.T) {
	i, _ := bignum.ParseInt("123456789012345678901")
	v := BigInt(i)
	i.Limbs[0] = 0
	got, _ := v.AsBigInt()
	if got.String() != "123456789012345678901" {
		t.Fatalf("payload aliased: %s", got)
	}
}

func TestUTF16RoundTrip(t *testing.T) {
	for _, s := range []string{"", "ascii", "héllo", "🙂 smile", "日本語"} {
		if got := DecodeUTF16(EncodeUTF16(s)); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
	if n := String("🙂").Len(); n != 2 {
		t.Errorf("surrogate pair length = %d, want 2", n)
	}
}

func TestLoneSurrogateDecodesToReplacement(t *testing.T) {
	v := StringUnits([]uint16{0xD83D, 'a'})
	if s, _ := v.Text(); s != "�a" {
		t.Fatalf("got %q", s)
	}
}

func TestCompareUnits(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "b", -1},
		{"b", "a", 1},
		{"ab", "a", 1},
		{"10", "2", -1},
	}
	for _, tt := range tests {
		if got := CompareUnits(String(tt.a), String(tt.b)); got != tt.want {
			t.Errorf("CompareUnits(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if !EqualUnits(String("x"), String("x")) || EqualUnits(String("x"), Number(1)) {
		t.Error("EqualUnits mismatch")
	}
}

func TestNotation(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Number(math.Copysign(0, -1)), "num:-0"},
		{NaN(), "num:NaN"},
		{Number(math.Inf(-1)), "num:-Infinity"},
		{Number(1e21), "num:1e+21"},
		{String("a\"b"), `str:"a\"b"`},
		{BigIntFromInt64(-9), "big:-9"},
		{Object(Ref{Handle: 4, Kind: ObjFunction}), "ref:function#4"},
		{Bool(false), "false"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseObjectKind(t *testing.T) {
	for _, k := range []ObjectKind{ObjArray, ObjPlain, ObjFunction} {
		got, err := ParseObjectKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseObjectKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseObjectKind("map"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
