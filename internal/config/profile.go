package config

// The render profile is the single parameter set the compiler and emitter
// read. The legacy workers hard-coded eight variants of these numbers; here
// they live in one struct, overridable from a YAML file.

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile enumerates every tunable of the assembly pipeline: target canvas,
// frame rate, playback speed, caption styling, audio-mix gains, and encoder
// settings. Zero values are invalid; always start from [DefaultProfile].
type Profile struct {
	Canvas  CanvasConfig `yaml:"canvas"`
	Speed   float64      `yaml:"speed_multiplier"` // Playback speed; 2.0 = twice as fast.
	Caption CaptionStyle `yaml:"captions"`
	Mix     MixConfig    `yaml:"mix"`
	Encode  EncodeConfig `yaml:"encode"`
}

// CanvasConfig is the output geometry every clip is standardized to.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

// CaptionStyle captures drawtext styling. It applies to every cue; there is
// no per-cue styling.
type CaptionStyle struct {
	FontFile    string `yaml:"font_file"`
	FontSize    int    `yaml:"font_size"`
	FontColor   string `yaml:"font_color"`
	BorderColor string `yaml:"border_color"`
	BorderWidth int    `yaml:"border_width"`
	// Anchor is the vertical text position as a fraction of canvas height,
	// constrained to [0.70, 0.95]. Text is always centered horizontally.
	Anchor float64 `yaml:"vertical_anchor"`
}

// MixConfig holds the narration/music gain pair for the audio mix stage.
type MixConfig struct {
	NarrationGain float64 `yaml:"narration_gain"`
	MusicGain     float64 `yaml:"music_gain"`
}

// EncodeConfig holds the output encoding parameters passed to ffmpeg.
type EncodeConfig struct {
	VideoCodec   string `yaml:"video_codec"`
	VideoProfile string `yaml:"video_profile"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
	PixelFormat  string `yaml:"pixel_format"`
}

// DefaultProfile returns the production short-form preset: 1080x1920 @ 30fps,
// 2x pacing, bold white captions anchored at 82% height, narration-dominant
// mix, libx264 main / CRF 23 / aac 128k.
func DefaultProfile() Profile {
	return Profile{
		Canvas: CanvasConfig{Width: 1080, Height: 1920, FPS: 30},
		Speed:  2.0,
		Caption: CaptionStyle{
			FontFile:    "/usr/share/fonts/truetype/noto/NotoSans-Bold.ttf",
			FontSize:    96,
			FontColor:   "white",
			BorderColor: "black",
			BorderWidth: 3,
			Anchor:      0.82,
		},
		Mix: MixConfig{NarrationGain: 1.0, MusicGain: 0.25},
		Encode: EncodeConfig{
			VideoCodec:   "libx264",
			VideoProfile: "main",
			Preset:       "medium",
			CRF:          23,
			AudioCodec:   "aac",
			AudioBitrate: "128k",
			PixelFormat:  "yuv420p",
		},
	}
}

// LoadProfile reads a YAML profile file over the defaults, so partial files
// only override the keys they mention.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile's numeric invariants.
func (p *Profile) Validate() error {
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return errors.New("canvas dimensions must be positive")
	}
	if p.Canvas.FPS <= 0 {
		return errors.New("canvas fps must be positive")
	}
	if p.Speed <= 0 {
		return errors.New("speed multiplier must be positive")
	}
	if p.Caption.FontFile == "" {
		return errors.New("caption font_file is required")
	}
	if p.Caption.FontSize <= 0 {
		return errors.New("caption font_size must be positive")
	}
	if p.Caption.Anchor < 0.70 || p.Caption.Anchor > 0.95 {
		return fmt.Errorf("caption vertical_anchor %.2f outside [0.70, 0.95]", p.Caption.Anchor)
	}
	if p.Mix.NarrationGain <= 0 {
		return errors.New("narration_gain must be positive")
	}
	if p.Mix.MusicGain < 0 {
		return errors.New("music_gain cannot be negative")
	}
	if p.Encode.CRF < 0 || p.Encode.CRF > 51 {
		return errors.New("crf must be in [0, 51]")
	}
	return nil
}
