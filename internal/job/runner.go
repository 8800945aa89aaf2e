// Package job orchestrates one render job end to end: validate → workspace →
// fetch → decode → probe → compile → emit → execute → verify → upload. The
// pipeline is strictly sequential and single-flight per job; only the input
// fetches run concurrently.
package job

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/fetch"
	"github.com/reelsmith/reelsmith/internal/ffmpeg"
	"github.com/reelsmith/reelsmith/internal/filtergraph"
	"github.com/reelsmith/reelsmith/internal/logging"
	"github.com/reelsmith/reelsmith/internal/media"
	"github.com/reelsmith/reelsmith/internal/probe"
	"github.com/reelsmith/reelsmith/internal/store"
	"github.com/reelsmith/reelsmith/internal/upload"
)

// durationTolerance is the allowed gap between the expected narration-bound
// duration and the probed output duration before a mismatch is reported.
// Container rounding at 30fps plus aac priming stays well inside it.
const durationTolerance = 0.75

// Runner executes render jobs. It is safe for sequential reuse; no state
// crosses job boundaries.
type Runner struct {
	cfg      *config.Config
	log      *logging.Logger
	fetcher  *fetch.Fetcher
	uploader upload.Uploader
	compiler *filtergraph.Compiler
	ledger   *store.Store // nil disables job recording
}

// NewRunner wires a runner from its collaborators. ledger may be nil.
func NewRunner(cfg *config.Config, log *logging.Logger, uploader upload.Uploader, ledger *store.Store) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		fetcher:  fetch.NewFetcher(cfg.FetchTimeout),
		uploader: uploader,
		compiler: filtergraph.NewCompiler(cfg.Profile),
		ledger:   ledger,
	}
}

// Run processes one job and records its outcome in the ledger. Exactly one
// of the returns is non-nil.
func (r *Runner) Run(ctx context.Context, req *Request) (*Result, *Error) {
	start := time.Now()
	id := uuid.NewString()

	rec := store.Record{
		ID:        id,
		CreatedAt: start.UTC(),
		ClipCount: len(req.VideoURLs),
		CueCount:  len(req.CaptionData.Words),
	}

	res, jerr := r.process(ctx, id, req, &rec)

	rec.ElapsedMS = time.Since(start).Milliseconds()
	if jerr != nil {
		rec.Status = store.StatusFailed
		rec.FailKind = string(jerr.Kind)
		rec.FailDetail = jerr.Msg
	} else {
		rec.Status = store.StatusDone
		rec.VideoURL = res.VideoURL
		rec.Filename = res.Filename
	}
	if r.ledger != nil {
		if err := r.ledger.Insert(ctx, &rec); err != nil {
			r.log.Warn("job %s: ledger insert failed: %v", id, err)
		}
	}
	return res, jerr
}

// process runs the pipeline inside a scoped workspace that is removed on
// every exit path.
func (r *Runner) process(ctx context.Context, id string, req *Request, rec *store.Record) (*Result, *Error) {
	if err := req.Validate(); err != nil {
		return nil, failf(KindConfig, err, "invalid job payload")
	}

	r.log.Info("job %s: %d clip(s), %d caption(s), music=%v",
		id, len(req.VideoURLs), len(req.CaptionData.Words), req.BackgroundMusicURL != "")

	workDir, err := os.MkdirTemp(r.cfg.WorkDir, "reelsmith-*")
	if err != nil {
		return nil, failf(KindConfig, err, "create workspace")
	}
	defer os.RemoveAll(workDir)

	// --- Fetch all remote inputs concurrently ---
	clipPaths := make([]string, len(req.VideoURLs))
	downloads := make([]fetch.Download, 0, len(req.VideoURLs)+1)
	for i, u := range req.VideoURLs {
		clipPaths[i] = filepath.Join(workDir, fmt.Sprintf("video_%d.mp4", i))
		downloads = append(downloads, fetch.Download{URL: u, Dest: clipPaths[i]})
	}
	musicPath := ""
	if req.BackgroundMusicURL != "" {
		musicPath = filepath.Join(workDir, "music.mp3")
		downloads = append(downloads, fetch.Download{URL: req.BackgroundMusicURL, Dest: musicPath})
	}
	if err := r.fetcher.All(ctx, downloads); err != nil {
		return nil, failf(KindFetch, err, "input download failed")
	}

	// --- Decode narration ---
	narrationPath := filepath.Join(workDir, "narration.wav")
	audio, err := base64.StdEncoding.DecodeString(req.NarrationAudioBase64)
	if err != nil {
		return nil, failf(KindConfig, err, "narration_audio_base64 is not valid base64")
	}
	if err := os.WriteFile(narrationPath, audio, 0o644); err != nil {
		return nil, failf(KindConfig, err, "write narration audio")
	}

	// --- Narration duration bounds the whole pipeline ---
	narrationDur, err := probe.Duration(ctx, narrationPath)
	if err != nil {
		return nil, failf(KindConfig, err, "narration audio not probeable")
	}
	rec.DurationSec = narrationDur
	r.log.Debug("job %s: narration %.2fs", id, narrationDur)

	// --- Compile ---
	var music *media.AudioTrack
	if musicPath != "" {
		music = &media.AudioTrack{SourcePath: musicPath, Loop: true}
	}
	graph, err := r.compiler.Compile(
		media.Clips(clipPaths),
		req.Cues(),
		media.AudioTrack{SourcePath: narrationPath},
		music,
	)
	if err != nil {
		return nil, failf(KindCompile, err, "filter graph compilation failed")
	}

	// --- Emit ---
	scriptPath := filepath.Join(workDir, "graph.ffscript")
	outputPath := filepath.Join(workDir, "final_video.mp4")
	script, args, err := ffmpeg.Emit(&ffmpeg.Invocation{
		Graph:           graph,
		ClipPaths:       clipPaths,
		NarrationPath:   narrationPath,
		MusicPath:       musicPath,
		ScriptPath:      scriptPath,
		OutputPath:      outputPath,
		DurationCeiling: narrationDur,
		Encode:          r.cfg.Profile.Encode,
	})
	if err != nil {
		return nil, failf(KindCompile, err, "graph emission failed")
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return nil, failf(KindCompile, err, "write filter script")
	}

	// --- Execute ---
	r.log.Render("job %s: ffmpeg starting (%d stages, ceiling %.2fs)", id, len(graph.Stages), narrationDur)
	res := ffmpeg.Execute(ctx, r.cfg.EngineTimeout, args)
	if res.TimedOut {
		return nil, failf(KindTimeout, res.Err, "engine exceeded %s", r.cfg.EngineTimeout)
	}
	if res.Err != nil {
		jerr := failf(KindEngine, res.Err, "engine failed")
		jerr.Details = res.Stderr
		if hint := ffmpeg.Hint(res.Stderr); hint != "" {
			jerr.Msg = "engine failed: " + hint
		}
		return nil, jerr
	}
	r.log.Render("job %s: ffmpeg finished in %.1fs", id, res.Elapsed.Seconds())

	// --- Verify duration (detection only, never repaired) ---
	if r.cfg.VerifyDuration {
		r.verifyDuration(ctx, id, outputPath, narrationDur)
	}

	// --- Upload ---
	filename := id + ".mp4"
	videoURL, err := r.uploader.Upload(ctx, outputPath, filename)
	if err != nil {
		return nil, failf(KindUpload, err, "video produced but delivery failed")
	}

	r.log.Success("job %s: %s", id, videoURL)
	return &Result{VideoURL: videoURL, Filename: filename}, nil
}

// verifyDuration probes the finished file and reports deviation from the
// narration bound. Probe failures only warn: the render already succeeded.
func (r *Runner) verifyDuration(ctx context.Context, id, path string, expected float64) {
	actual, err := probe.Duration(ctx, path)
	if err != nil {
		r.log.Warn("job %s: output duration probe failed: %v", id, err)
		return
	}
	if math.Abs(actual-expected) > durationTolerance {
		r.log.Warn("job %s: output duration %.2fs deviates from narration bound %.2fs", id, actual, expected)
	}
}
