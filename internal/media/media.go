// Package media defines the typed descriptors a render job is built from:
// ordered clips, timed caption cues, and audio tracks. Values are constructed
// once per job from validated input and never mutated afterwards.
package media

import (
	"errors"
	"fmt"
)

// Clip is one ordered input video. Index is the clip's ordinal position in
// the job; the sequence order defines concatenation order.
type Clip struct {
	Index      int
	SourcePath string
}

// Clips builds the ordered clip sequence from local file paths.
func Clips(paths []string) []Clip {
	clips := make([]Clip, len(paths))
	for i, p := range paths {
		clips[i] = Clip{Index: i, SourcePath: p}
	}
	return clips
}

// CaptionCue is one caption word or phrase with its visibility window in
// seconds. Cues render in the order supplied; overlapping windows layer
// draws in that same order.
type CaptionCue struct {
	Text  string
	Start float64
	End   float64
}

// Validate enforces 0 <= start < end.
func (c CaptionCue) Validate() error {
	if c.Start < 0 {
		return fmt.Errorf("cue %q: start %.3f is negative", c.Text, c.Start)
	}
	if c.Start >= c.End {
		return fmt.Errorf("cue %q: start %.3f not before end %.3f", c.Text, c.Start, c.End)
	}
	return nil
}

// ValidateCues checks every cue in sequence order, reporting the first
// violation with its position.
func ValidateCues(cues []CaptionCue) error {
	for i, c := range cues {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("caption %d: %w", i, err)
		}
	}
	return nil
}

// AudioTrack is a narration or background-music source. Loop marks tracks
// that must repeat at the input level until the narration ends.
type AudioTrack struct {
	SourcePath string
	Loop       bool
}

// ErrNoClips is returned when a job arrives with an empty clip list.
var ErrNoClips = errors.New("no input clips")
