// Package cli wires the reelsmith commands: serve (HTTP worker), render
// (one-shot job from a file), and check (system diagnostics).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelsmith/reelsmith/internal/config"
	"github.com/reelsmith/reelsmith/internal/logging"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	cfg config.Config
	log *logging.Logger

	colorMode   string
	profilePath string
)

var rootCmd = &cobra.Command{
	Use:   "reelsmith",
	Short: "Assemble short-form vertical videos from clips, narration and captions",
	Long: `Reelsmith stitches stock clips into a single vertical video paced to a
narration track, with timed caption overlays and optional background music.
Each render is one deterministic ffmpeg invocation compiled from the job
payload; nothing is retried or repaired behind the caller's back.`,
	Version:           version,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// setup runs before every command: flags have been parsed into cfg, so
// resolve the profile, pull credentials from the environment, validate, and
// open the logger. Until the logger exists, errors surface through cobra.
func setup(cmd *cobra.Command, args []string) error {
	cfg.ColorMode = config.ColorMode(colorMode)
	cfg.ProfilePath = profilePath

	if cfg.ProfilePath != "" {
		p, err := config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		cfg.Profile = p
	}
	cfg.LoadEnv()

	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	log, err = logging.NewLogger(&cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if log != nil {
			log.Close()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	cfg = config.DefaultConfig()

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose logging")
	pf.StringVar(&colorMode, "color", string(config.ColorAuto), "color output: auto, always, never")
	pf.StringVar(&cfg.LogFile, "log-file", "", "append logs to this file")
	pf.StringVar(&profilePath, "profile", "", "YAML render profile overriding the built-in preset")
	pf.StringVar(&cfg.WorkDir, "work-dir", "", "base directory for per-job workspaces (default: system temp)")
	pf.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "per-download HTTP timeout")
	pf.DurationVar(&cfg.EngineTimeout, "engine-timeout", cfg.EngineTimeout, "whole ffmpeg invocation timeout")
	pf.BoolVar(&cfg.VerifyDuration, "verify-duration", true, "probe finished videos and warn on duration drift")
}
