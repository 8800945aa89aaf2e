// Package check provides system diagnostics (the check command) and
// pre-service dependency validation for ffmpeg, ffprobe, the configured
// video encoder, and the drawtext filter.
package check

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/reelsmith/reelsmith/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or capability
// is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrEncoderUnusable = errors.New("configured video encoder failed a test encode")
	ErrNoDrawtext      = errors.New("ffmpeg build lacks the drawtext filter (compile with libfreetype)")
	ErrFontFileMissing = errors.New("configured caption font file does not exist")
	ErrAACEncodeFailed = errors.New("aac test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// so check stays testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive diagnostics flow: ffmpeg/ffprobe presence,
// drawtext availability, caption font, and test encodes for the configured
// video and audio codecs. Informational only, it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)
	checkFfprobe(log)
	checkDrawtext(log)
	checkFont(cfg, log)
	checkVideoEncoder(cfg, log)
	checkAAC(log)
}

func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	log.Success("ffmpeg: %s", firstLine(string(out)))
}

func checkFfprobe(log Logger) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
		return
	}
	out, err := exec.Command("ffprobe", "-version").Output()
	if err != nil {
		log.Warn("ffprobe found but -version failed: %v", err)
		return
	}
	log.Success("ffprobe: %s", firstLine(string(out)))
}

func checkDrawtext(log Logger) {
	if hasDrawtext() {
		log.Success("drawtext filter available")
	} else {
		log.Error("drawtext filter missing (captions will fail)")
	}
}

func checkFont(cfg *config.Config, log Logger) {
	font := cfg.Profile.Caption.FontFile
	if font == "" {
		log.Info("no caption font configured (drawtext will use its default)")
		return
	}
	if _, err := os.Stat(font); err != nil {
		log.Error("caption font %s not readable: %v", font, err)
		return
	}
	log.Success("caption font: %s", font)
}

func checkVideoEncoder(cfg *config.Config, log Logger) {
	codec := cfg.Profile.Encode.VideoCodec
	log.Info("Testing %s...", codec)
	if runSilent("ffmpeg", videoTestArgs(codec)...) {
		log.Success("%s works", codec)
	} else {
		log.Error("%s test encode failed", codec)
	}
}

func checkAAC(log Logger) {
	log.Info("Testing AAC encoder...")
	if runSilent("ffmpeg", aacTestArgs()...) {
		log.Success("AAC encoder works")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// CheckDeps is the pre-service validation: ffmpeg and ffprobe on PATH,
// drawtext compiled in, the configured font readable, and both configured
// codecs passing a short test encode. Returns a sentinel error on the first
// failure so callers can fail fast before accepting jobs.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !hasDrawtext() {
		return ErrNoDrawtext
	}
	if font := cfg.Profile.Caption.FontFile; font != "" {
		if _, err := os.Stat(font); err != nil {
			return ErrFontFileMissing
		}
	}
	if !runSilent("ffmpeg", videoTestArgs(cfg.Profile.Encode.VideoCodec)...) {
		return ErrEncoderUnusable
	}
	if !runSilent("ffmpeg", aacTestArgs()...) {
		return ErrAACEncodeFailed
	}
	return nil
}

// --- internal helpers ---

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}

func hasDrawtext() bool {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-filters").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), "drawtext")
}

func videoTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
