package filtergraph

import (
	"fmt"
	"strconv"

	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/media"
)

// Compiler builds filter graphs for one render profile. It holds no per-job
// state; Compile may be called concurrently.
type Compiler struct {
	profile config.Profile
}

// NewCompiler returns a compiler parameterized by the given render profile.
func NewCompiler(profile config.Profile) *Compiler {
	return &Compiler{profile: profile}
}

// Compile produces the full processing graph for a job:
//
//  1. one standardize stage per clip (scale to canvas, pad centered,
//     square pixels, constant frame rate)
//  2. one concat stage joining all clips in order, video only
//  3. one retime stage applying the profile's speed multiplier
//  4. one caption stage per cue, chained in cue order (skipped when empty)
//  5. one mix stage when background music is present; otherwise the
//     narration source stream is the audio terminal directly
//
// music may be nil. The returned graph has passed Validate.
func (c *Compiler) Compile(clips []media.Clip, cues []media.CaptionCue, narration media.AudioTrack, music *media.AudioTrack) (*Graph, error) {
	if len(clips) == 0 {
		return nil, media.ErrNoClips
	}
	if narration.SourcePath == "" {
		return nil, fmt.Errorf("narration track is required")
	}
	if err := media.ValidateCues(cues); err != nil {
		return nil, err
	}

	alloc := NewAllocator()
	g := &Graph{}

	// --- 1. Standardize each clip ---
	// Heterogeneous sources must agree on resolution, SAR, and frame rate
	// before concat, or the joined stream judders or fails outright.
	standardized := make([]StreamRef, len(clips))
	for i, clip := range clips {
		out := alloc.Allocate("std")
		g.Stages = append(g.Stages, Stage{
			Name:    OpStandardize,
			Inputs:  []StreamRef{SourceRef(clip.Index, "v")},
			Filter:  c.standardizeFilter(),
			Outputs: []StreamRef{out},
		})
		standardized[i] = out
	}

	// --- 2. Concatenate in clip order ---
	// Source audio is dropped here; narration is the sole track.
	joined := alloc.Allocate("cat")
	g.Stages = append(g.Stages, Stage{
		Name:    OpConcat,
		Inputs:  standardized,
		Filter:  fmt.Sprintf("concat=n=%d:v=1:a=0", len(clips)),
		Outputs: []StreamRef{joined},
	})

	// --- 3. Retime ---
	sped := alloc.Allocate("spd")
	g.Stages = append(g.Stages, Stage{
		Name:    OpRetime,
		Inputs:  []StreamRef{joined},
		Filter:  "setpts=" + formatSeconds(1/c.profile.Speed) + "*PTS",
		Outputs: []StreamRef{sped},
	})

	// --- 4. Caption overlay, one chained drawtext per cue ---
	video := sped
	for _, cue := range cues {
		out := alloc.Allocate("cap")
		g.Stages = append(g.Stages, Stage{
			Name:    OpCaption,
			Inputs:  []StreamRef{video},
			Filter:  c.captionFilter(cue),
			Outputs: []StreamRef{out},
		})
		video = out
	}

	// --- 5. Audio ---
	narrationRef := SourceRef(NarrationInput(len(clips)), "a")
	if music == nil {
		g.FinalAudio = narrationRef
	} else {
		mixed := alloc.Allocate("mix")
		g.Stages = append(g.Stages, Stage{
			Name:    OpMix,
			Inputs:  []StreamRef{narrationRef, SourceRef(MusicInput(len(clips)), "a")},
			Filter:  c.mixFilter(),
			Outputs: []StreamRef{mixed},
		})
		g.FinalAudio = mixed
	}

	// --- 6. Finalize ---
	g.FinalVideo = video
	if g.FinalVideo.IsZero() || g.FinalAudio.IsZero() {
		return nil, ErrTerminalUnset
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("compiled graph invalid: %w", err)
	}
	return g, nil
}

// standardizeFilter scales into the canvas preserving aspect ratio, pads the
// remainder centered, normalizes SAR to 1, and pins the frame rate.
func (c *Compiler) standardizeFilter() string {
	w, h := c.profile.Canvas.Width, c.profile.Canvas.Height
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d",
		w, h, w, h, c.profile.Canvas.FPS)
}

// captionFilter renders one cue: sanitized text, fixed styling, horizontal
// centering, vertical anchor from the profile, and visibility limited to
// the cue's window via enable=between(t,start,end).
func (c *Compiler) captionFilter(cue media.CaptionCue) string {
	st := c.profile.Caption
	return fmt.Sprintf(
		"drawtext=fontfile=%s:text='%s':fontcolor=%s:fontsize=%d:borderw=%d:bordercolor=%s:x=(w-text_w)/2:y=h*%s:enable='between(t,%s,%s)'",
		st.FontFile,
		SanitizeCueText(cue.Text),
		st.FontColor,
		st.FontSize,
		st.BorderWidth,
		st.BorderColor,
		formatSeconds(st.Anchor),
		formatSeconds(cue.Start),
		formatSeconds(cue.End))
}

// mixFilter attenuates music against narration and stops when the first
// input (narration, by input order) ends. Narration duration stays
// authoritative; the music input loops at the demuxer level to cover it.
func (c *Compiler) mixFilter() string {
	return fmt.Sprintf(
		"amix=inputs=2:duration=first:dropout_transition=0:weights='%s %s'",
		formatSeconds(c.profile.Mix.NarrationGain),
		formatSeconds(c.profile.Mix.MusicGain))
}

// formatSeconds renders a float without trailing zeros, so identical inputs
// always serialize identically ("0.5", "1", "2.25").
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
