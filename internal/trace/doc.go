// Package trace records compiler activity as a stream of span and point
// events.
//
// Tracing is switched on from the command line:
//
//	ember build --trace=- --trace-level=phase main.em
//	ember build --trace=out.chrome.json --trace-level=debug main.em
//
// # Tracers
//
//   - Nop: drops everything, used when tracing is off
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A Level decides which Scope is recorded. LevelPhase keeps the driver and
// the four passes (lex, parse, check, gen), LevelDetail adds one span per
// source file, LevelDebug adds one point per lowered statement.
//
// # Propagation
//
// The tracer travels in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
