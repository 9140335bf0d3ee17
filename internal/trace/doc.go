// Package trace records what the analysis did: which modules were opened,
// which passes ran and, at debug level, individual name searches.
//
// A Tracer travels in a context.Context (WithTracer / FromContext). Spans
// bracket work (Begin/End); points mark instants. Levels gate by scope:
//
//	phase  - driver and pass boundaries
//	detail - per-module events (scope open/close, module analysis)
//	debug  - per-query events (every SearchFromContext)
//
// The stream tracer writes text or NDJSON as events arrive. Tracing is off by
// default and then costs one interface call per event site.
package trace
