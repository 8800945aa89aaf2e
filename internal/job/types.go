package job

import (
	"fmt"
	"net/url"

	"github.com/reelsmith/reelsmith/internal/media"
)

// Request is the validated job payload. All fields are checked before any
// download or compilation starts; a malformed payload never reaches the
// pipeline.
type Request struct {
	VideoURLs            []string    `json:"video_urls"`
	NarrationAudioBase64 string      `json:"narration_audio_base64"`
	CaptionData          CaptionData `json:"caption_data"`
	BackgroundMusicURL   string      `json:"background_music_url,omitempty"`
}

// CaptionData wraps the timed caption words.
type CaptionData struct {
	Words []Word `json:"words"`
}

// Word is one pre-timed caption cue. Times are seconds from video start.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Validate enforces the payload schema: at least one clip URL, every URL
// absolute, narration present, every caption window well-formed.
func (r *Request) Validate() error {
	if len(r.VideoURLs) == 0 {
		return fmt.Errorf("video_urls must contain at least one URL")
	}
	for i, raw := range r.VideoURLs {
		if err := checkURL(raw); err != nil {
			return fmt.Errorf("video_urls[%d]: %w", i, err)
		}
	}
	if r.NarrationAudioBase64 == "" {
		return fmt.Errorf("narration_audio_base64 is required")
	}
	if r.BackgroundMusicURL != "" {
		if err := checkURL(r.BackgroundMusicURL); err != nil {
			return fmt.Errorf("background_music_url: %w", err)
		}
	}
	if err := media.ValidateCues(r.Cues()); err != nil {
		return fmt.Errorf("caption_data: %w", err)
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// Cues converts the payload words into descriptor cues, preserving order.
func (r *Request) Cues() []media.CaptionCue {
	cues := make([]media.CaptionCue, len(r.CaptionData.Words))
	for i, w := range r.CaptionData.Words {
		cues[i] = media.CaptionCue{Text: w.Text, Start: w.Start, End: w.End}
	}
	return cues
}

// Result is the success output of a job.
type Result struct {
	VideoURL string `json:"video_url"`
	Filename string `json:"filename"`
}
