// Package ffmpeg serializes compiled filter graphs into the engine's
// invocation form and runs the engine.
//
// The emitter (emit.go) is a pure serializer: it renders the stage sequence
// into filter-script text line by line and builds the paired argument list
// (inputs in clip order, narration, optionally looped music, the two output
// maps, encoding parameters, and the narration-bound duration ceiling). It
// never reorders or renames labels: the engine resolves them line by line,
// so emitted order must equal compiled order.
//
// The executor (executor.go) runs one blocking, context-bounded engine
// process and captures stderr verbatim. Engine failures are never retried;
// hints.go classifies common stderr causes into operator hints instead.
package ffmpeg
