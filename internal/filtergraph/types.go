package filtergraph

import (
	"errors"
	"fmt"
)

// Stage operation names. Tests and diagnostics identify stages by these.
const (
	OpStandardize = "standardize"
	OpConcat      = "concat"
	OpRetime      = "retime"
	OpCaption     = "caption"
	OpMix         = "amix"
)

// StreamRef identifies one video or audio stream inside a compiled graph.
// Source refs address demuxer streams directly ("2:a"); all other refs are
// allocator-issued labels owned by exactly one producing stage.
type StreamRef struct {
	Label  string
	Source bool
}

// SourceRef builds a demuxer stream reference, e.g. SourceRef(0, "v") for
// the first input's video stream.
func SourceRef(input int, kind string) StreamRef {
	return StreamRef{Label: fmt.Sprintf("%d:%s", input, kind), Source: true}
}

// IsZero reports whether the ref is unset.
func (r StreamRef) IsZero() bool { return r.Label == "" }

// Bracket returns the "[label]" form used inside filter-script lines.
func (r StreamRef) Bracket() string { return "[" + r.Label + "]" }

// Map returns the form used in an output -map directive: bare "N:a" for
// source streams, "[label]" for filter outputs.
func (r StreamRef) Map() string {
	if r.Source {
		return r.Label
	}
	return r.Bracket()
}

// Stage is one filter operation: it consumes its ordered inputs and produces
// its ordered outputs. Filter holds the engine expression without the
// surrounding labels; the emitter adds those.
type Stage struct {
	Name    string
	Inputs  []StreamRef
	Filter  string
	Outputs []StreamRef
}

// Graph is the compiled, ordered stage sequence plus the two terminal
// references the output mapping consumes. Stage order is a topological
// order collapsed to program order: stage i may only consume labels that
// stages 0..i-1 produced.
type Graph struct {
	Stages     []Stage
	FinalVideo StreamRef
	FinalAudio StreamRef
}

// StagesNamed returns the stages carrying the given operation name, in
// program order.
func (g *Graph) StagesNamed(name string) []Stage {
	var out []Stage
	for _, s := range g.Stages {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Validation failures. These indicate a compiler defect or caller-input
// defect and are never retried.
var (
	ErrTerminalUnset   = errors.New("terminal stream reference unset")
	ErrLabelRedefined  = errors.New("label produced twice")
	ErrLabelUndefined  = errors.New("label consumed before being produced")
	ErrLabelMultiUse   = errors.New("label consumed by more than one stage")
	ErrLabelUnconsumed = errors.New("produced label never consumed")
)

// Validate enforces the graph invariants: both terminals set, every label
// produced exactly once, consumed only after production, consumed at most
// once, and, terminals aside, consumed exactly once.
func (g *Graph) Validate() error {
	if g.FinalVideo.IsZero() || g.FinalAudio.IsZero() {
		return ErrTerminalUnset
	}

	produced := make(map[string]bool) // label -> seen
	consumed := make(map[string]bool)

	for i, s := range g.Stages {
		for _, in := range s.Inputs {
			if in.Source {
				continue
			}
			if !produced[in.Label] {
				return fmt.Errorf("stage %d (%s) input %q: %w", i, s.Name, in.Label, ErrLabelUndefined)
			}
			if consumed[in.Label] {
				return fmt.Errorf("stage %d (%s) input %q: %w", i, s.Name, in.Label, ErrLabelMultiUse)
			}
			consumed[in.Label] = true
		}
		for _, out := range s.Outputs {
			if produced[out.Label] {
				return fmt.Errorf("stage %d (%s) output %q: %w", i, s.Name, out.Label, ErrLabelRedefined)
			}
			produced[out.Label] = true
		}
	}

	// The terminals are consumed by the output mapping, not by a stage.
	for _, term := range []StreamRef{g.FinalVideo, g.FinalAudio} {
		if term.Source {
			continue
		}
		if !produced[term.Label] {
			return fmt.Errorf("terminal %q: %w", term.Label, ErrLabelUndefined)
		}
		if consumed[term.Label] {
			return fmt.Errorf("terminal %q: %w", term.Label, ErrLabelMultiUse)
		}
		consumed[term.Label] = true
	}

	for label := range produced {
		if !consumed[label] {
			return fmt.Errorf("label %q: %w", label, ErrLabelUnconsumed)
		}
	}
	return nil
}

// NarrationInput returns the narration track's demuxer input index under
// the convention shared with the emitter: clips occupy inputs 0..n-1 in
// clip order, narration follows, then background music.
func NarrationInput(clipCount int) int { return clipCount }

// MusicInput returns the demuxer input index of the background-music track.
func MusicInput(clipCount int) int { return clipCount + 1 }
