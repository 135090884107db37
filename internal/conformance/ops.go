package conformance

import (
	"sort"

	"coerce/internal/coerce"
	"coerce/internal/value"
)

// OpSpec describes one operation case files and the CLI can name.
type OpSpec struct {
	Name  string
	Arity int
	Eval  func(e *coerce.Engine, args []value.Value) (value.Value, error)
}

var ops = map[string]OpSpec{
	"toNumber": {Name: "toNumber", Arity: 1, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		n, err := e.ToNumber(a[0])
		return value.Number(n), err
	}},
	"toBoolean": {Name: "toBoolean", Arity: 1, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		return value.Bool(e.ToBoolean(a[0])), nil
	}},
	"toString": {Name: "toString", Arity: 1, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		return e.ToString(a[0])
	}},
	"looseEquals": {Name: "looseEquals", Arity: 2, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		eq, err := e.LooseEquals(a[0], a[1])
		return value.Bool(eq), err
	}},
	"strictEquals": {Name: "strictEquals", Arity: 2, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		return value.Bool(e.StrictEquals(a[0], a[1])), nil
	}},
	"sameValue": {Name: "sameValue", Arity: 2, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		return value.Bool(e.SameValue(a[0], a[1])), nil
	}},
	"typeOf": {Name: "typeOf", Arity: 1, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		return value.String(e.TypeOf(a[0])), nil
	}},
	"isNaN": {Name: "isNaN", Arity: 1, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		nan, err := e.IsNaN(a[0])
		return value.Bool(nan), err
	}},
	"add": {Name: "add", Arity: 2, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		return e.Add(a[0], a[1])
	}},
	"lessThan": {Name: "lessThan", Arity: 2, Eval: func(e *coerce.Engine, a []value.Value) (value.Value, error) {
		lt, err := e.LessThan(a[0], a[1])
		return value.Bool(lt), err
	}},
}

// LookupOp finds an operation by name.
func LookupOp(name string) (OpSpec, bool) {
	spec, ok := ops[name]
	return spec, ok
}

// OpNames lists the known operations in sorted order.
func OpNames() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
