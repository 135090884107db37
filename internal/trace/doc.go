// Package trace provides structured tracing for coercion runs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	coerce run --trace=- --trace-level=case testdata/cases
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when a run fails
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failure events
//   - LevelSuite: driver and case-file boundaries
//   - LevelCase: individual cases
//   - LevelDebug: everything, including single engine operations
//
// # Scopes
//
//   - ScopeDriver: top-level CLI operations
//   - ScopeSuite: one case file
//   - ScopeCase: one case inside a file
//   - ScopeOp: one engine operation
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	run, ctx := trace.Start(ctx, trace.ScopeDriver, "run")
//	defer run.End("")
//
//	// suite's parent is run
//	suite, _ := trace.Start(ctx, trace.ScopeSuite, "suite:equality.toml")
//	defer suite.End("")
//
// Begin remains available when the parent ID is known explicitly.
package trace
