package job

import "fmt"

// Kind partitions job failures for callers and the ledger. The split matters
// operationally: config and compile failures are caller-input defects, fetch
// and engine failures happened mid-processing, and an upload failure means
// the video exists but was not delivered.
type Kind string

const (
	KindConfig  Kind = "configuration" // Invalid payload or missing credentials; nothing was attempted.
	KindFetch   Kind = "fetch"         // A required input could not be downloaded.
	KindCompile Kind = "compilation"   // Graph invariant violated; never silently patched.
	KindEngine  Kind = "engine"        // ffmpeg non-zero exit; Details carries stderr verbatim.
	KindTimeout Kind = "timeout"       // Engine exceeded its bounded runtime and was killed.
	KindUpload  Kind = "upload"        // Artifact produced but not delivered; recoverable out-of-band.
)

// Error is the structured job failure. It is a value crossing the job
// boundary, not an exception: callers always receive either a Result or an
// *Error, never a partially populated success.
type Error struct {
	Kind    Kind
	Msg     string
	Details string // Optional diagnostic payload (engine stderr, hint text).
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func failf(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
