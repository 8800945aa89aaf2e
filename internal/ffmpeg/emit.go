package ffmpeg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/filtergraph"
)

// Invocation binds a compiled graph to concrete file paths and encoding
// parameters. ClipPaths must be in clip order: the graph's source refs
// address demuxer inputs by position.
type Invocation struct {
	Graph         *filtergraph.Graph
	ClipPaths     []string
	NarrationPath string
	MusicPath     string // empty when the job has no background music
	ScriptPath    string // where the caller will write the filter script
	OutputPath    string

	// DurationCeiling is the narration duration in seconds; the output is
	// hard-capped here so it never outruns the spoken track.
	DurationCeiling float64

	Encode config.EncodeConfig
}

var (
	errNoGraph       = errors.New("emit: graph is nil")
	errNoClips       = errors.New("emit: no clip paths")
	errNoNarration   = errors.New("emit: narration path is empty")
	errMusicMismatch = errors.New("emit: music path presence does not match graph mix stages")
)

// Emit serializes the graph into the filter-script text and the complete
// engine argument list. It validates that the path bindings agree with the
// graph's input conventions but performs no media work itself.
func Emit(inv *Invocation) (script string, args []string, err error) {
	if inv.Graph == nil {
		return "", nil, errNoGraph
	}
	if len(inv.ClipPaths) == 0 {
		return "", nil, errNoClips
	}
	if inv.NarrationPath == "" {
		return "", nil, errNoNarration
	}
	hasMix := len(inv.Graph.StagesNamed(filtergraph.OpMix)) > 0
	if hasMix != (inv.MusicPath != "") {
		return "", nil, errMusicMismatch
	}
	if inv.DurationCeiling <= 0 {
		return "", nil, fmt.Errorf("emit: duration ceiling %v must be positive", inv.DurationCeiling)
	}

	return Script(inv.Graph), buildArgs(inv), nil
}

// Script renders the stage sequence, one stage per line in compiled order.
// Each line is input labels, the filter expression, then output labels;
// lines are joined with ";\n" (the engine rejects a trailing separator).
func Script(g *filtergraph.Graph) string {
	lines := make([]string, 0, len(g.Stages))
	for _, s := range g.Stages {
		var b strings.Builder
		for _, in := range s.Inputs {
			b.WriteString(in.Bracket())
		}
		b.WriteString(s.Filter)
		for _, out := range s.Outputs {
			b.WriteString(out.Bracket())
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, ";\n") + "\n"
}

// buildArgs constructs the complete argument slice, sectioned the same way
// every invocation is: preamble, inputs, filter script, maps, codecs,
// duration ceiling, output.
func buildArgs(inv *Invocation) []string {
	args := make([]string, 0, 48)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", "error")

	// --- Inputs: clips in clip order, then narration, then looped music ---
	for _, p := range inv.ClipPaths {
		args = append(args, "-i", p)
	}
	args = append(args, "-i", inv.NarrationPath)
	if inv.MusicPath != "" {
		// Input-level infinite loop: the mix's duration=first policy stops
		// it when narration ends.
		args = append(args, "-stream_loop", "-1", "-i", inv.MusicPath)
	}

	// --- Filter script ---
	args = append(args, "-filter_complex_script", inv.ScriptPath)

	// --- Output maps: exactly the two terminals ---
	args = append(args, "-map", inv.Graph.FinalVideo.Map())
	args = append(args, "-map", inv.Graph.FinalAudio.Map())

	// --- Encoding ---
	e := inv.Encode
	args = append(args,
		"-c:v", e.VideoCodec,
		"-profile:v", e.VideoProfile,
		"-preset", e.Preset,
		"-crf", strconv.Itoa(e.CRF),
		"-c:a", e.AudioCodec,
		"-b:a", e.AudioBitrate,
		"-pix_fmt", e.PixelFormat,
	)

	// --- Duration ceiling ---
	args = append(args, "-t", strconv.FormatFloat(inv.DurationCeiling, 'f', 3, 64))

	// --- Output ---
	args = append(args, inv.OutputPath)

	return args
}
