package coerce

import (
	"errors"
	"fmt"
	"strings"

	"coerce/internal/value"
)

// ErrorCode identifies the kind of engine failure.
type ErrorCode int

// Stable error codes - do not change values.
const (
	CodeTypeMismatch    ErrorCode = 1001 // CO1001: bigint crossing into number
	CodeCyclicStructure ErrorCode = 1002 // CO1002: array traversal met itself
)

// String returns the code as "CO1001" format.
func (c ErrorCode) String() string {
	return fmt.Sprintf("CO%d", int(c))
}

// Name returns the symbolic name used in case files and reports.
func (c ErrorCode) Name() string {
	switch c {
	case CodeTypeMismatch:
		return "TypeMismatch"
	case CodeCyclicStructure:
		return "CyclicStructure"
	default:
		return "Unknown"
	}
}

// ParseErrorCode accepts either the symbolic name or the CO form.
func ParseErrorCode(s string) (ErrorCode, error) {
	for _, c := range []ErrorCode{CodeTypeMismatch, CodeCyclicStructure} {
		if strings.EqualFold(s, c.Name()) || strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown error code %q (expected TypeMismatch|CyclicStructure)", s)
}

// Error is returned by engine operations. Match it with errors.Is against
// ErrTypeMismatch or ErrCyclicStructure.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	// Path holds the handles on the traversal stack when a cycle was found,
	// outermost first, ending with the revisited handle.
	Path []value.Handle
}

var (
	ErrTypeMismatch    = &Error{Code: CodeTypeMismatch}
	ErrCyclicStructure = &Error{Code: CodeCyclicStructure}

	// ErrNoStore is returned when an array must be traversed but the engine
	// was built without an object store.
	ErrNoStore = errors.New("coerce: no object store configured")
)

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.String())
	sb.WriteString(" ")
	sb.WriteString(e.Code.Name())
	if e.Op != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Op)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if len(e.Path) > 0 {
		sb.WriteString(" [")
		for i, h := range e.Path {
			if i > 0 {
				sb.WriteString(" -> ")
			}
			fmt.Fprintf(&sb, "#%d", h)
		}
		sb.WriteString("]")
	}
	return sb.String()
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf extracts the engine error code from err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

func typeMismatch(op, msg string) *Error {
	return &Error{Code: CodeTypeMismatch, Op: op, Message: msg}
}

func cyclicStructure(op string, path []value.Handle) *Error {
	return &Error{
		Code:    CodeCyclicStructure,
		Op:      op,
		Message: "array contains itself",
		Path:    append([]value.Handle(nil), path...),
	}
}
