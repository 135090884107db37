package coerce

import (
	"math"

	"coerce/internal/value"
)

const (
	plainObjectText = "[object Object]"
	functionText    = "function () { [native code] }"
)

// ToNumber converts v to a Number.
func (e *Engine) ToNumber(v value.Value) (float64, error) {
	n, err := e.toNumber("toNumber", v, nil)
	e.observe("toNumber", err, v)
	return n, err
}

func (e *Engine) toNumber(op string, v value.Value, stack visitStack) (float64, error) {
	switch v.Kind() {
	case value.KindUndefined:
		return math.NaN(), nil
	case value.KindNull:
		return 0, nil
	case value.KindBoolean:
		b, _ := v.AsBool()
		return boolToNumber(b), nil
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n, nil
	case value.KindString:
		units, _ := v.Units()
		return StringToNumber(units), nil
	case value.KindBigInteger:
		return 0, typeMismatch(op, "cannot convert a bigint to a number")
	case value.KindObjectRef:
		r, _ := v.AsRef()
		if r.Kind != value.ObjArray {
			return math.NaN(), nil
		}
		if stack.contains(r.Handle) {
			return 0, cyclicStructure(op, append(stack, r.Handle))
		}
		elems, err := e.elements(op, r)
		if err != nil {
			return 0, err
		}
		switch len(elems) {
		case 0:
			return 0, nil
		case 1:
			return e.toNumber(op, elems[0], append(stack, r.Handle))
		default:
			return math.NaN(), nil
		}
	default:
		return math.NaN(), nil
	}
}

func boolToNumber(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ToBoolean reports whether v is truthy. It never fails and never reads
// the store.
func (e *Engine) ToBoolean(v value.Value) bool {
	return Truthy(v)
}

// Truthy is the store-free form of ToBoolean.
func Truthy(v value.Value) bool {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return false
	case value.KindBoolean:
		b, _ := v.AsBool()
		return b
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n != 0 && !math.IsNaN(n)
	case value.KindString:
		return v.Len() > 0
	case value.KindBigInteger:
		i, _ := v.AsBigInt()
		return !i.IsZero()
	default:
		return true
	}
}

// ToString converts v to a String value.
func (e *Engine) ToString(v value.Value) (value.Value, error) {
	units, err := e.toUnits("toString", v, nil)
	e.observe("toString", err, v)
	if err != nil {
		return value.Value{}, err
	}
	return value.StringUnits(units), nil
}

// ToText is ToString decoded to Go text.
func (e *Engine) ToText(v value.Value) (string, error) {
	units, err := e.toUnits("toString", v, nil)
	e.observe("toString", err, v)
	if err != nil {
		return "", err
	}
	return value.DecodeUTF16(units), nil
}

func (e *Engine) toUnits(op string, v value.Value, stack visitStack) ([]uint16, error) {
	switch v.Kind() {
	case value.KindString:
		units, _ := v.Units()
		return units, nil
	case value.KindObjectRef:
		r, _ := v.AsRef()
		switch r.Kind {
		case value.ObjArray:
			return e.joinArray(op, r, stack)
		case value.ObjFunction:
			return value.EncodeUTF16(functionText), nil
		default:
			return value.EncodeUTF16(plainObjectText), nil
		}
	default:
		return value.EncodeUTF16(primitiveText(v)), nil
	}
}

func (e *Engine) joinArray(op string, r value.Ref, stack visitStack) ([]uint16, error) {
	if stack.contains(r.Handle) {
		return nil, cyclicStructure(op, append(stack, r.Handle))
	}
	elems, err := e.elements(op, r)
	if err != nil {
		return nil, err
	}
	inner := append(stack, r.Handle)
	var out []uint16
	for i, el := range elems {
		if i > 0 {
			out = append(out, ',')
		}
		if el.IsNullish() {
			continue
		}
		units, err := e.toUnits(op, el, inner)
		if err != nil {
			return nil, err
		}
		out = append(out, units...)
	}
	return out, nil
}

// primitiveText renders every non-String, non-ObjectRef kind.
func primitiveText(v value.Value) string {
	switch v.Kind() {
	case value.KindUndefined:
		return "undefined"
	case value.KindNull:
		return "null"
	case value.KindBoolean:
		if b, _ := v.AsBool(); b {
			return "true"
		}
		return "false"
	case value.KindNumber:
		n, _ := v.AsNumber()
		return FormatNumber(n)
	case value.KindBigInteger:
		i, _ := v.AsBigInt()
		return i.String()
	default:
		return ""
	}
}
