package filtergraph

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/media"
)

// --- Fixture builders ---

func testCompiler() *Compiler {
	return NewCompiler(config.DefaultProfile())
}

func testClips(n int) []media.Clip {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("/work/video_%d.mp4", i)
	}
	return media.Clips(paths)
}

func narration() media.AudioTrack {
	return media.AudioTrack{SourcePath: "/work/narration.wav"}
}

func musicTrack() *media.AudioTrack {
	return &media.AudioTrack{SourcePath: "/work/music.mp3", Loop: true}
}

// --- Scenario: 3 clips, 0 captions, no music ---

func TestCompile_ThreeClipsBare(t *testing.T) {
	g, err := testCompiler().Compile(testClips(3), nil, narration(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if n := len(g.StagesNamed(OpStandardize)); n != 3 {
		t.Errorf("standardize stages: got %d, want 3", n)
	}
	if n := len(g.StagesNamed(OpConcat)); n != 1 {
		t.Errorf("concat stages: got %d, want 1", n)
	}
	if n := len(g.StagesNamed(OpRetime)); n != 1 {
		t.Errorf("retime stages: got %d, want 1", n)
	}
	if n := len(g.StagesNamed(OpCaption)); n != 0 {
		t.Errorf("caption stages: got %d, want 0", n)
	}
	if n := len(g.StagesNamed(OpMix)); n != 0 {
		t.Errorf("mix stages: got %d, want 0", n)
	}

	retime := g.StagesNamed(OpRetime)[0]
	if g.FinalVideo != retime.Outputs[0] {
		t.Errorf("final video %v should be the retime output %v", g.FinalVideo, retime.Outputs[0])
	}
	if !g.FinalAudio.Source || g.FinalAudio.Label != "3:a" {
		t.Errorf("final audio should be narration source 3:a, got %+v", g.FinalAudio)
	}
}

func TestCompile_ConcatConsumesClipsInOrder(t *testing.T) {
	g, err := testCompiler().Compile(testClips(4), nil, narration(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	stds := g.StagesNamed(OpStandardize)
	concat := g.StagesNamed(OpConcat)[0]
	if len(concat.Inputs) != 4 {
		t.Fatalf("concat inputs: got %d, want 4", len(concat.Inputs))
	}
	for i, std := range stds {
		if std.Inputs[0].Label != fmt.Sprintf("%d:v", i) {
			t.Errorf("standardize %d consumes %q, want %d:v", i, std.Inputs[0].Label, i)
		}
		if concat.Inputs[i] != std.Outputs[0] {
			t.Errorf("concat input %d is %v, want standardize %d output %v", i, concat.Inputs[i], i, std.Outputs[0])
		}
	}
	if !strings.Contains(concat.Filter, "concat=n=4:v=1:a=0") {
		t.Errorf("concat filter: got %q", concat.Filter)
	}
}

// --- Scenario: 1 clip, single cue, with music ---

func TestCompile_SingleClipCueAndMusic(t *testing.T) {
	cues := []media.CaptionCue{{Text: "hi", Start: 0.0, End: 1.0}}
	g, err := testCompiler().Compile(testClips(1), cues, narration(), musicTrack())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	for name, want := range map[string]int{
		OpStandardize: 1, OpConcat: 1, OpRetime: 1, OpCaption: 1, OpMix: 1,
	} {
		if n := len(g.StagesNamed(name)); n != want {
			t.Errorf("%s stages: got %d, want %d", name, n, want)
		}
	}

	cap := g.StagesNamed(OpCaption)[0]
	if !strings.Contains(cap.Filter, "enable='between(t,0,1)'") {
		t.Errorf("caption window: got %q", cap.Filter)
	}
	if !strings.Contains(cap.Filter, "text='hi'") {
		t.Errorf("caption text: got %q", cap.Filter)
	}
	if g.FinalVideo != cap.Outputs[0] {
		t.Errorf("final video should be the caption output")
	}

	mix := g.StagesNamed(OpMix)[0]
	// Narration is input 1 (after the single clip), music input 2; narration
	// must come first so duration=first binds to it.
	if mix.Inputs[0].Label != "1:a" || mix.Inputs[1].Label != "2:a" {
		t.Errorf("mix inputs: got %v", mix.Inputs)
	}
	if !strings.Contains(mix.Filter, "duration=first") {
		t.Errorf("mix filter must stop with narration: %q", mix.Filter)
	}
	if !strings.Contains(mix.Filter, "weights='1 0.25'") {
		t.Errorf("mix weights: got %q", mix.Filter)
	}
	if g.FinalAudio != mix.Outputs[0] {
		t.Errorf("final audio should be the mix output")
	}
}

// --- Caption chaining ---

func TestCompile_CuesChainInInputOrder(t *testing.T) {
	cues := []media.CaptionCue{
		{Text: "one", Start: 0, End: 0.4},
		{Text: "two", Start: 0.4, End: 0.9},
		{Text: "three", Start: 0.2, End: 1.5}, // overlaps: still drawn in input order
	}
	g, err := testCompiler().Compile(testClips(2), cues, narration(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	caps := g.StagesNamed(OpCaption)
	if len(caps) != 3 {
		t.Fatalf("caption stages: got %d, want 3", len(caps))
	}

	retimeOut := g.StagesNamed(OpRetime)[0].Outputs[0]
	prev := retimeOut
	for i, cue := range cues {
		if caps[i].Inputs[0] != prev {
			t.Errorf("caption %d consumes %v, want %v", i, caps[i].Inputs[0], prev)
		}
		if !strings.Contains(caps[i].Filter, "text='"+cue.Text+"'") {
			t.Errorf("caption %d text: got %q", i, caps[i].Filter)
		}
		prev = caps[i].Outputs[0]
	}
	if g.FinalVideo != prev {
		t.Errorf("final video should be the last caption output")
	}
}

func TestCompile_ZeroCuesIsPassthrough(t *testing.T) {
	g, err := testCompiler().Compile(testClips(1), []media.CaptionCue{}, narration(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(g.StagesNamed(OpCaption)) != 0 {
		t.Error("zero cues must not emit a caption stage")
	}
	if g.FinalVideo != g.StagesNamed(OpRetime)[0].Outputs[0] {
		t.Error("video label must pass through unchanged when there are no cues")
	}
}

// A cue window past any plausible final duration still compiles; whether it
// ever renders is decided by the output duration ceiling, not the compiler.
func TestCompile_LateCueStillCompiled(t *testing.T) {
	cues := []media.CaptionCue{{Text: "credits", Start: 3600, End: 3601}}
	g, err := testCompiler().Compile(testClips(1), cues, narration(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(g.StagesNamed(OpCaption)) != 1 {
		t.Error("late cue must not be silently dropped")
	}
}

// --- Errors ---

func TestCompile_EmptyClipsRejected(t *testing.T) {
	_, err := testCompiler().Compile(nil, nil, narration(), nil)
	if !errors.Is(err, media.ErrNoClips) {
		t.Errorf("got %v, want ErrNoClips", err)
	}
}

func TestCompile_MissingNarrationRejected(t *testing.T) {
	_, err := testCompiler().Compile(testClips(1), nil, media.AudioTrack{}, nil)
	if err == nil {
		t.Error("expected error for missing narration")
	}
}

func TestCompile_InvalidCueRejected(t *testing.T) {
	cues := []media.CaptionCue{{Text: "x", Start: 2, End: 1}}
	_, err := testCompiler().Compile(testClips(1), cues, narration(), nil)
	if err == nil {
		t.Error("expected error for inverted cue window")
	}
}

// --- Determinism and invariants ---

func TestCompile_Idempotent(t *testing.T) {
	cues := []media.CaptionCue{{Text: "a", Start: 0, End: 1}, {Text: "b", Start: 1, End: 2}}
	c := testCompiler()

	g1, err := c.Compile(testClips(3), cues, narration(), musicTrack())
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	g2, err := c.Compile(testClips(3), cues, narration(), musicTrack())
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !reflect.DeepEqual(g1, g2) {
		t.Error("same inputs must compile to identical graphs")
	}
}

func TestCompile_GraphsValidate(t *testing.T) {
	cases := []struct {
		clips int
		cues  []media.CaptionCue
		music *media.AudioTrack
	}{
		{1, nil, nil},
		{5, nil, musicTrack()},
		{2, []media.CaptionCue{{Text: "w", Start: 0, End: 1}}, nil},
		{3, []media.CaptionCue{{Text: "w", Start: 0, End: 1}, {Text: "v", Start: 1, End: 2}}, musicTrack()},
	}
	for _, tc := range cases {
		g, err := testCompiler().Compile(testClips(tc.clips), tc.cues, narration(), tc.music)
		if err != nil {
			t.Fatalf("clips=%d: %v", tc.clips, err)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("clips=%d cues=%d music=%v: %v", tc.clips, len(tc.cues), tc.music != nil, err)
		}
	}
}

func TestCompile_SpeedMultiplierScalesPTS(t *testing.T) {
	p := config.DefaultProfile()
	p.Speed = 2.0
	g, err := NewCompiler(p).Compile(testClips(1), nil, narration(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := g.StagesNamed(OpRetime)[0].Filter; got != "setpts=0.5*PTS" {
		t.Errorf("retime filter: got %q, want setpts=0.5*PTS", got)
	}
}

func TestAllocator_UniqueAcrossPrefixes(t *testing.T) {
	a := NewAllocator()
	seen := map[string]bool{}
	for _, prefix := range []string{"std", "std", "cat", "spd", "cap", "cap", "mix"} {
		ref := a.Allocate(prefix)
		if ref.Source {
			t.Errorf("allocated label %q must not be a source ref", ref.Label)
		}
		if seen[ref.Label] {
			t.Fatalf("duplicate label %q", ref.Label)
		}
		seen[ref.Label] = true
	}
}
