package coerce

import (
	"errors"
	"math"

	"coerce/internal/bignum"
	"coerce/internal/value"
)

// TypeOf returns the typeof tag of v.
func TypeOf(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "object"
	case value.KindObjectRef:
		if r, _ := v.AsRef(); r.Kind == value.ObjFunction {
			return "function"
		}
		return "object"
	default:
		return v.Kind().String()
	}
}

// TypeOf is the method form of the package-level TypeOf.
func (e *Engine) TypeOf(v value.Value) string {
	return TypeOf(v)
}

// IsNaN reports whether ToNumber(v) is NaN.
func (e *Engine) IsNaN(v value.Value) (bool, error) {
	n, err := e.toNumber("isNaN", v, nil)
	e.observe("isNaN", err, v)
	if err != nil {
		return false, err
	}
	return math.IsNaN(n), nil
}

// Add implements the binary + operator.
func (e *Engine) Add(a, b value.Value) (value.Value, error) {
	out, err := e.add(a, b)
	e.observe("add", err, a, b)
	return out, err
}

func (e *Engine) add(a, b value.Value) (value.Value, error) {
	const op = "add"
	pa, err := e.toPrimitive(op, a)
	if err != nil {
		return value.Value{}, err
	}
	pb, err := e.toPrimitive(op, b)
	if err != nil {
		return value.Value{}, err
	}

	if pa.Kind() == value.KindString || pb.Kind() == value.KindString {
		ua, _ := e.toUnits(op, pa, nil)
		ub, _ := e.toUnits(op, pb, nil)
		joined := make([]uint16, 0, len(ua)+len(ub))
		joined = append(joined, ua...)
		return value.StringUnits(append(joined, ub...)), nil
	}

	ba, aBig := pa.AsBigInt()
	bb, bBig := pb.AsBigInt()
	switch {
	case aBig && bBig:
		sum, err := bignum.IntAdd(ba, bb)
		if err != nil {
			if errors.Is(err, bignum.ErrMaxLimbs) {
				return value.Value{}, typeMismatch(op, "bigint result too large")
			}
			return value.Value{}, err
		}
		return value.BigInt(sum), nil
	case aBig || bBig:
		return value.Value{}, typeMismatch(op, "cannot mix bigint and other types")
	}

	na, _ := e.toNumber(op, pa, nil)
	nb, _ := e.toNumber(op, pb, nil)
	return value.Number(na + nb), nil
}

// LessThan implements the < operator. Comparisons involving NaN are false.
func (e *Engine) LessThan(a, b value.Value) (bool, error) {
	lt, err := e.lessThan(a, b)
	e.observe("lessThan", err, a, b)
	return lt, err
}

func (e *Engine) lessThan(a, b value.Value) (bool, error) {
	const op = "lessThan"
	pa, err := e.toPrimitive(op, a)
	if err != nil {
		return false, err
	}
	pb, err := e.toPrimitive(op, b)
	if err != nil {
		return false, err
	}
	ka, kb := pa.Kind(), pb.Kind()

	if ka == value.KindString && kb == value.KindString {
		return value.CompareUnits(pa, pb) < 0, nil
	}

	if ka == value.KindBigInteger || kb == value.KindBigInteger {
		if ka != kb && ka != value.KindString && kb != value.KindString {
			return false, typeMismatch(op, "cannot compare bigint with "+mixedKind(pa, pb).String())
		}
		x, ok := relationalBigInt(pa)
		if !ok {
			return false, nil
		}
		y, ok := relationalBigInt(pb)
		if !ok {
			return false, nil
		}
		return x.Cmp(y) < 0, nil
	}

	na, _ := e.toNumber(op, pa, nil)
	nb, _ := e.toNumber(op, pb, nil)
	return na < nb, nil
}

// relationalBigInt reads a BigInteger operand or parses a String one.
func relationalBigInt(v value.Value) (bignum.BigInt, bool) {
	if i, ok := v.AsBigInt(); ok {
		return i, true
	}
	units, _ := v.Units()
	return StringToBigInt(units)
}

func mixedKind(a, b value.Value) value.Kind {
	if a.Kind() == value.KindBigInteger {
		return b.Kind()
	}
	return a.Kind()
}

// toPrimitive turns ObjectRefs into their ToString; primitives pass through.
func (e *Engine) toPrimitive(op string, v value.Value) (value.Value, error) {
	if v.Kind() != value.KindObjectRef {
		return v, nil
	}
	units, err := e.toUnits(op, v, nil)
	if err != nil {
		return value.Value{}, err
	}
	return value.StringUnits(units), nil
}
