package value

import "fmt"

// Kind identifies which variant of the Value union is active.
type Kind uint8

const (
	// KindUndefined is the absence of initialization. It is the zero Kind,
	// so the zero Value is Undefined.
	KindUndefined Kind = iota
	// KindNull is intentional absence.
	KindNull
	// KindBoolean holds true or false.
	KindBoolean
	// KindNumber holds an IEEE-754 double.
	KindNumber
	// KindString holds immutable UTF-16 code units.
	KindString
	// KindBigInteger holds an arbitrary-precision signed integer.
	KindBigInteger
	// KindObjectRef holds an identity token owned by an object store.
	KindObjectRef
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBigInteger:
		return "bigint"
	case KindObjectRef:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ObjectKind tags what an ObjectRef points at.
type ObjectKind uint8

const (
	ObjArray ObjectKind = iota + 1
	ObjPlain
	ObjFunction
)

func (k ObjectKind) String() string {
	switch k {
	case ObjArray:
		return "array"
	case ObjPlain:
		return "object"
	case ObjFunction:
		return "function"
	default:
		return fmt.Sprintf("ObjectKind(%d)", k)
	}
}

// ParseObjectKind converts a name produced by ObjectKind.String back to the kind.
func ParseObjectKind(s string) (ObjectKind, error) {
	switch s {
	case "array":
		return ObjArray, nil
	case "object":
		return ObjPlain, nil
	case "function":
		return ObjFunction, nil
	default:
		return 0, fmt.Errorf("invalid object kind %q (expected array|object|function)", s)
	}
}

// Handle is an opaque identity token allocated by an object store.
// Handle(0) is always invalid.
type Handle uint32

// Ref is the ObjectRef payload: identity plus a kind tag.
type Ref struct {
	Handle Handle
	Kind   ObjectKind
}

// Valid reports whether r names an object at all.
func (r Ref) Valid() bool { return r.Handle != 0 }

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.Handle)
}
