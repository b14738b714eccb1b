// Package trace records what the unparen pipeline is doing, to diagnose
// slow or stuck runs over large trees.
//
//	unparen check --trace=- --trace-level=phase src/
//	unparen check --trace=run.json --trace-level=debug --trace-files='**/Parser*.cs' src/
//
// A path ending in .ndjson selects newline-delimited JSON, .json selects the
// chrome://tracing format, anything else is text.
//
// Commands and passes open spans, every source file gets a file span and,
// at LevelDebug, every parenthesized group a point carrying its position
// and verdict. Spans travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartFile(ctx, "src/a.cs")
//	defer span.End("analyzed")
//	trace.Verdict(ctx, trace.Group{Line: 3, Col: 9, Reason: "removable", Rule: "primary"})
//
// The heartbeat lists the files in flight, and a ring tracer dumped at exit
// reports the files whose span never ended.
package trace
