// Package filtergraph compiles a render job's descriptors into the ordered
// filter-stage sequence a single ffmpeg invocation executes.
//
// The compiler is pure: it never touches the filesystem or network, and the
// same inputs always produce an identical stage sequence (labels restart per
// compilation). Stage order is load-bearing: the engine resolves labels
// line by line, so every stage may only consume labels written by an earlier
// stage. Each allocated label is produced exactly once and consumed exactly
// once, except the two terminals, which the output mapping consumes.
//
// Implemented:
//   - StreamRef, Stage, Graph and the Graph.Validate invariant checks (types.go)
//   - Allocator: the sole source of intermediate labels (allocator.go)
//   - Compiler.Compile: standardize → concat → retime → captions → mix (compiler.go)
//   - SanitizeCueText: strips quoting-hostile runes from caption text (sanitize.go)
package filtergraph
