package conformance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"coerce/internal/bignum"
	"coerce/internal/heap"
	"coerce/internal/value"
)

var ErrNotation = errors.New("invalid value notation")

// Notation parses the textual value notation used by case files and the CLI:
//
//	null  undefined  true  false  bool:<b>
//	num:<float|NaN|Infinity|-Infinity|-0>
//	str:<raw text>  str:"<quoted text>"
//	big:<integer literal>
//	ref:<object name>
//
// With Inline set it also accepts arr:<v>|<v>..., obj and fn[:name], which
// allocate fresh objects in Heap.
type Notation struct {
	Heap    *heap.Heap
	Objects map[string]value.Value
	Inline  bool
}

// Parse converts one notation string to a value.
func (n *Notation) Parse(s string) (value.Value, error) {
	switch s {
	case "null":
		return value.Null(), nil
	case "undefined":
		return value.Undefined(), nil
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	}

	tag, body, ok := strings.Cut(s, ":")
	if !ok {
		tag = s
	}
	switch tag {
	case "bool":
		b, err := strconv.ParseBool(body)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %q: %v", ErrNotation, s, err)
		}
		return value.Bool(b), nil
	case "num":
		f, err := parseNumber(body)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %q: %v", ErrNotation, s, err)
		}
		return value.Number(f), nil
	case "str":
		if len(body) >= 2 && body[0] == '"' {
			if unq, err := strconv.Unquote(body); err == nil {
				return value.String(unq), nil
			}
		}
		return value.String(body), nil
	case "big":
		i, err := bignum.ParseInt(strings.TrimSpace(body))
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %q: %v", ErrNotation, s, err)
		}
		return value.BigInt(i), nil
	case "ref":
		v, ok := n.Objects[body]
		if !ok {
			return value.Value{}, fmt.Errorf("%w: %q: unknown object %q", ErrNotation, s, body)
		}
		return v, nil
	}

	if n.Inline && n.Heap != nil {
		switch tag {
		case "arr":
			return n.parseArray(body)
		case "obj":
			return n.Heap.Alloc(value.ObjPlain)
		case "fn":
			return n.Heap.NewFunction(body)
		}
	}
	return value.Value{}, fmt.Errorf("%w: %q", ErrNotation, s)
}

// ParseAll parses every string in order.
func (n *Notation) ParseAll(items []string) ([]value.Value, error) {
	out := make([]value.Value, len(items))
	for i, s := range items {
		v, err := n.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (n *Notation) parseArray(body string) (value.Value, error) {
	if body == "" {
		return n.Heap.NewArray()
	}
	parts := strings.Split(body, "|")
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		v, err := n.Parse(p)
		if err != nil {
			return value.Value{}, err
		}
		elems[i] = v
	}
	return n.Heap.NewArray(elems...)
}

func parseNumber(s string) (float64, error) {
	switch s {
	case "NaN", "Infinity", "+Infinity", "-Infinity":
	default:
		if strings.ContainsAny(s, "iInN") {
			return 0, errors.New("expected a decimal number, NaN or Infinity")
		}
	}
	return strconv.ParseFloat(s, 64)
}

// Format renders v in notation. Objects render as ref:<name> when a name is
// known for their handle, otherwise as ref:<kind>#<handle>.
func Format(v value.Value, names map[value.Handle]string) string {
	if r, ok := v.AsRef(); ok {
		if name, ok := names[r.Handle]; ok {
			return "ref:" + name
		}
	}
	return v.String()
}
