package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// ParentFromContext returns the ID of the innermost span started with
// Start, or 0 at the root.
func ParentFromContext(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if s, ok := ctx.Value(spanKey{}).(*Span); ok {
		return s.ID()
	}
	return 0
}

// Start begins a span under the tracer and parent span carried by ctx and
// returns a context in which it is the parent.
//
//	span, ctx := trace.Start(ctx, trace.ScopeSuite, "suite:"+path)
//	defer span.End("")
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	span := Begin(FromContext(ctx), scope, name, ParentFromContext(ctx))
	if ctx == nil {
		ctx = context.Background()
	}
	return span, context.WithValue(ctx, spanKey{}, span)
}
