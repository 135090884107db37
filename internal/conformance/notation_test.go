package conformance

import (
	"errors"
	"math"
	"testing"

	"coerce/internal/coerce"
	"coerce/internal/heap"
	"coerce/internal/value"
)

func TestNotationParse(t *testing.T) {
	n := &Notation{}
	tests := []struct {
		in   string
		want value.Value
	}{
		{"null", value.Null()},
		{"undefined", value.Undefined()},
		{"true", value.Bool(true)},
		{"bool:false", value.Bool(false)},
		{"num:1.5", value.Number(1.5)},
		{"num:-0", value.Number(math.Copysign(0, -1))},
		{"num:NaN", value.NaN()},
		{"num:-Infinity", value.Number(math.Inf(-1))},
		{"num:1e21", value.Number(1e21)},
		{"str:", value.String("")},
		{"str: a b ", value.String(" a b ")},
		{"str:a:b", value.String("a:b")},
		{`str:"tab\there"`, value.String("tab\there")},
		{"big:-12345678901234567890", mustBig(t, "-12345678901234567890")},
	}
	for _, tt := range tests {
		got, err := n.Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if !coerce.SameValue(got, tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNotationRejects(t *testing.T) {
	n := &Notation{}
	for _, in := range []string{"nil", "num:abc", "num:inf", "big:1.5", "bool:yes", "ref:missing", "arr:num:1", "obj"} {
		if _, err := n.Parse(in); !errors.Is(err, ErrNotation) {
			t.Errorf("Parse(%q) err = %v, want ErrNotation", in, err)
		}
	}
}

func TestNotationInline(t *testing.T) {
	h := heap.New()
	n := &Notation{Heap: h, Inline: true}

	arr, err := n.Parse("arr:num:1|null|str:x")
	if err != nil {
		t.Fatal(err)
	}
	r, ok := arr.AsRef()
	if !ok || r.Kind != value.ObjArray {
		t.Fatalf("arr = %v", arr)
	}
	elems, err := h.Elements(r.Handle)
	if err != nil || len(elems) != 3 {
		t.Fatalf("elements = %v, %v", elems, err)
	}

	empty, err := n.Parse("arr:")
	if err != nil {
		t.Fatal(err)
	}
	if s, err := coerce.New(h).ToText(empty); err != nil || s != "" {
		t.Fatalf("ToText(arr:) = %q, %v", s, err)
	}

	fn, err := n.Parse("fn:handler")
	if err != nil {
		t.Fatal(err)
	}
	if coerce.TypeOf(fn) != "function" {
		t.Fatalf("fn kind = %v", fn)
	}
	obj, err := n.Parse("obj")
	if err != nil {
		t.Fatal(err)
	}
	if coerce.TypeOf(obj) != "object" {
		t.Fatalf("obj kind = %v", obj)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	n := &Notation{}
	for _, v := range []value.Value{
		value.Null(),
		value.Undefined(),
		value.Bool(true),
		value.Number(math.Copysign(0, -1)),
		value.Number(1e-7),
		value.NaN(),
		value.String("quote \" and | pipe"),
		mustBig(t, "99999999999999999999"),
	} {
		text := Format(v, nil)
		back, err := n.Parse(text)
		if err != nil {
			t.Fatalf("Parse(Format(%v)) = %q: %v", v, text, err)
		}
		if !coerce.SameValue(v, back) {
			t.Fatalf("round trip %v -> %q -> %v", v, text, back)
		}
	}
}

func TestFormatUsesObjectNames(t *testing.T) {
	h := heap.New()
	arr := h.AllocArray()
	r, _ := arr.AsRef()
	if got := Format(arr, map[value.Handle]string{r.Handle: "empty"}); got != "ref:empty" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format(arr, nil); got != "ref:array#1" {
		t.Fatalf("Format = %q", got)
	}
}

func mustBig(t *testing.T, s string) value.Value {
	t.Helper()
	v, err := (&Notation{}).Parse("big:" + s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
