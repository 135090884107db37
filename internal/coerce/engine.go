// Package coerce implements the coercion and comparison rules of a
// dynamically typed scripting language over value.Value: ToNumber,
// ToBoolean, ToString, loose (==) and strict (===) equality, and the
// operators built on them.
//
// Engine holds no mutable state. Any number of goroutines may share one.
package coerce

import (
	"fmt"

	"coerce/internal/trace"
	"coerce/internal/value"
)

// Store resolves array identity tokens to their elements. It is consulted
// only when an array has to be traversed.
type Store interface {
	Elements(h value.Handle) ([]value.Value, error)
}

// Engine evaluates coercions against one object store.
type Engine struct {
	store  Store
	tracer trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithTracer reports failed operations (and, at debug level, every
// operation) to t.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// New creates an engine. store may be nil when no arrays are involved.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{store: store, tracer: trace.Nop}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) elements(op string, r value.Ref) ([]value.Value, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%s: %v: %w", op, r, ErrNoStore)
	}
	elems, err := e.store.Elements(r.Handle)
	if err != nil {
		return nil, fmt.Errorf("%s: resolve %v: %w", op, r, err)
	}
	return elems, nil
}

// observe reports the outcome of a public operation to the tracer.
func (e *Engine) observe(op string, err error, args ...value.Value) {
	if !e.tracer.Enabled() {
		return
	}
	if err != nil {
		extra := map[string]string{"args": fmt.Sprint(args)}
		if code, ok := CodeOf(err); ok {
			extra["code"] = code.String()
		}
		trace.Failure(e.tracer, trace.ScopeOp, "op:"+op, err.Error(), extra)
		return
	}
	if e.tracer.Level() >= trace.LevelDebug {
		trace.Point(e.tracer, trace.ScopeOp, "op:"+op, fmt.Sprint(args))
	}
}

// visitStack holds the array handles currently being traversed.
type visitStack []value.Handle

func (s visitStack) contains(h value.Handle) bool {
	for _, x := range s {
		if x == h {
			return true
		}
	}
	return false
}
