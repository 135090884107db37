package coerce

import (
	"math"

	"coerce/internal/value"
)

// LooseEquals implements == . The rules are tried in order and the relation
// is symmetric. Errors only come from deriving a primitive from an array:
// against a non-String the array goes through ToNumber, so an array whose
// primitive is a BigInteger (`[1n] == 1`) returns TypeMismatch. A cyclic
// array returns CyclicStructure against any primitive.
func (e *Engine) LooseEquals(a, b value.Value) (bool, error) {
	eq, err := e.looseEquals(a, b)
	e.observe("looseEquals", err, a, b)
	return eq, err
}

func (e *Engine) looseEquals(a, b value.Value) (bool, error) {
	ka, kb := a.Kind(), b.Kind()

	// 1. same kind
	if ka == kb {
		return sameKindEqual(a, b), nil
	}

	// 2, 3. nullish only equals nullish
	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish(), nil
	}

	// 4. number vs string
	if ka == value.KindNumber && kb == value.KindString {
		return numberEqualsString(a, b), nil
	}
	if ka == value.KindString && kb == value.KindNumber {
		return numberEqualsString(b, a), nil
	}

	// 5. booleans become numbers
	if ka == value.KindBoolean {
		return e.looseEquals(booleanAsNumber(a), b)
	}
	if kb == value.KindBoolean {
		return e.looseEquals(a, booleanAsNumber(b))
	}

	// 6. bigint vs string
	if ka == value.KindBigInteger && kb == value.KindString {
		return bigIntEqualsString(a, b), nil
	}
	if ka == value.KindString && kb == value.KindBigInteger {
		return bigIntEqualsString(b, a), nil
	}

	// 7. bigint vs number
	if (ka == value.KindBigInteger && kb == value.KindNumber) ||
		(ka == value.KindNumber && kb == value.KindBigInteger) {
		return false, nil
	}

	// 8. object vs primitive
	if ka == value.KindObjectRef {
		prim, err := e.primitiveFor(a, b)
		if err != nil {
			return false, err
		}
		return e.looseEquals(prim, b)
	}
	if kb == value.KindObjectRef {
		prim, err := e.primitiveFor(b, a)
		if err != nil {
			return false, err
		}
		return e.looseEquals(a, prim)
	}

	return false, nil
}

// primitiveFor derives the primitive an ObjectRef compares as against other:
// its ToString when other is a String, its ToNumber otherwise.
func (e *Engine) primitiveFor(obj, other value.Value) (value.Value, error) {
	if other.Kind() == value.KindString {
		units, err := e.toUnits("looseEquals", obj, nil)
		if err != nil {
			return value.Value{}, err
		}
		return value.StringUnits(units), nil
	}
	n, err := e.toNumber("looseEquals", obj, nil)
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(n), nil
}

func booleanAsNumber(v value.Value) value.Value {
	b, _ := v.AsBool()
	return value.Number(boolToNumber(b))
}

func numberEqualsString(num, str value.Value) bool {
	n, _ := num.AsNumber()
	units, _ := str.Units()
	return n == StringToNumber(units)
}

func bigIntEqualsString(big, str value.Value) bool {
	units, _ := str.Units()
	parsed, ok := StringToBigInt(units)
	if !ok {
		return false
	}
	i, _ := big.AsBigInt()
	return i.Cmp(parsed) == 0
}

// sameKindEqual compares two values of the same kind. NaN is unequal to
// everything and the zeros are equal.
func sameKindEqual(a, b value.Value) bool {
	switch a.Kind() {
	case value.KindUndefined, value.KindNull:
		return true
	case value.KindBoolean:
		x, _ := a.AsBool()
		y, _ := b.AsBool()
		return x == y
	case value.KindNumber:
		x, _ := a.AsNumber()
		y, _ := b.AsNumber()
		return x == y
	case value.KindString:
		return value.EqualUnits(a, b)
	case value.KindBigInteger:
		x, _ := a.AsBigInt()
		y, _ := b.AsBigInt()
		return x.Cmp(y) == 0
	case value.KindObjectRef:
		x, _ := a.AsRef()
		y, _ := b.AsRef()
		return x.Handle == y.Handle
	default:
		return false
	}
}

// StrictEquals implements === : no coercion and no store access.
func (e *Engine) StrictEquals(a, b value.Value) bool {
	return StrictEquals(a, b)
}

// StrictEquals is the store-free form of Engine.StrictEquals.
func StrictEquals(a, b value.Value) bool {
	return a.Kind() == b.Kind() && sameKindEqual(a, b)
}

// SameValue is StrictEquals except that NaN equals NaN and +0 differs from -0.
func SameValue(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == value.KindNumber {
		x, _ := a.AsNumber()
		y, _ := b.AsNumber()
		if math.IsNaN(x) || math.IsNaN(y) {
			return math.IsNaN(x) && math.IsNaN(y)
		}
		return x == y && math.Signbit(x) == math.Signbit(y)
	}
	return sameKindEqual(a, b)
}

// SameValue is the method form of the package-level SameValue.
func (e *Engine) SameValue(a, b value.Value) bool {
	return SameValue(a, b)
}
