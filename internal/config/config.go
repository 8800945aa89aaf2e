// Package config holds runtime configuration: defaults, environment-supplied
// credentials, validation, and the YAML render profile that parameterizes the
// filter-graph compiler.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// --- Enum types for validated string fields ---

// UploadBackend selects where finished videos are delivered.
type UploadBackend string

const (
	UploadHTTP  UploadBackend = "http"  // PUT to an object-storage gateway (default for serve).
	UploadLocal UploadBackend = "local" // Copy into a local directory (default for one-shot renders).
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Environment variables holding upload credentials. Their absence when the
// HTTP backend is active is a configuration error, not a processing error.
const (
	EnvUploadEndpoint = "REELSMITH_UPLOAD_ENDPOINT"
	EnvUploadToken    = "REELSMITH_UPLOAD_TOKEN"
	EnvUploadBaseURL  = "REELSMITH_UPLOAD_PUBLIC_BASE"
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then mutated by CLI flags and [Config.LoadEnv] before being passed (by
// pointer) to packages that need it.
type Config struct {
	// HTTP service.
	ListenAddr string // Default: "127.0.0.1:8170".

	// Storage paths.
	DataDir  string // Job ledger location. Default: "data".
	WorkDir  string // Base for per-job workspaces; "" = system temp dir.
	LocalOut string // Output directory for the local upload backend.

	// Upload.
	Backend        UploadBackend
	UploadEndpoint string // From REELSMITH_UPLOAD_ENDPOINT.
	UploadToken    string // From REELSMITH_UPLOAD_TOKEN.
	UploadBaseURL  string // From REELSMITH_UPLOAD_PUBLIC_BASE; falls back to UploadEndpoint.

	// Timeouts.
	FetchTimeout  time.Duration // Per-download HTTP timeout. Default: 60s.
	EngineTimeout time.Duration // Whole ffmpeg invocation. Default: 10m.

	// Post-run duration verification (detection only).
	VerifyDuration bool // Default: true.

	// Render profile (canvas, pacing, caption style, mix gains, encode).
	Profile     Profile
	ProfilePath string // Optional YAML override; empty = built-in defaults.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with working defaults for a local worker.
// The render profile defaults mirror the production short-form preset.
func DefaultConfig() Config {
	return Config{
		ListenAddr:     "127.0.0.1:8170",
		DataDir:        "data",
		LocalOut:       "out",
		Backend:        UploadLocal,
		FetchTimeout:   60 * time.Second,
		EngineTimeout:  10 * time.Minute,
		VerifyDuration: true,
		Profile:        DefaultProfile(),
		ColorMode:      ColorAuto,
	}
}

// LoadEnv pulls upload credentials from the environment. Called after flag
// parsing so flags can still pick the backend.
func (c *Config) LoadEnv() {
	c.UploadEndpoint = os.Getenv(EnvUploadEndpoint)
	c.UploadToken = os.Getenv(EnvUploadToken)
	c.UploadBaseURL = os.Getenv(EnvUploadBaseURL)
	if c.UploadBaseURL == "" {
		c.UploadBaseURL = c.UploadEndpoint
	}
}

// Validate checks enum fields, timeout sanity, and the render profile.
// Upload credentials are checked by the upload package at construction so
// the local backend never demands them.
func (c *Config) Validate() error {
	switch c.Backend {
	case UploadHTTP, UploadLocal:
		// valid
	default:
		return errors.New("invalid upload backend (use 'http' or 'local')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if c.EngineTimeout <= 0 {
		return errors.New("engine timeout must be positive")
	}

	if err := c.Profile.Validate(); err != nil {
		return fmt.Errorf("render profile: %w", err)
	}
	return nil
}
