package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ExecResult holds the outcome of a single engine invocation. Stderr is the
// engine's diagnostic stream, captured verbatim for the caller.
type ExecResult struct {
	Stderr   string
	Elapsed  time.Duration
	TimedOut bool
	Err      error
}

// Execute runs one blocking ffmpeg process with the given arguments under a
// hard timeout. Cancelling ctx kills the subprocess. There is no retry:
// transient and permanent engine failures are indistinguishable from exit
// status alone, so classification is left to the operator (see Hint).
func Execute(ctx context.Context, timeout time.Duration, args []string) ExecResult {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "ffmpeg", args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	start := time.Now()
	err := cmd.Run()
	res := ExecResult{
		Stderr:  stderrBuf.String(),
		Elapsed: time.Since(start),
		Err:     err,
	}
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
	}
	return res
}
