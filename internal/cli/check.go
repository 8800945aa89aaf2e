package cli

import (
	"github.com/spf13/cobra"

	"github.com/reelsmith/reelsmith/internal/check"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run system diagnostics",
	Long: `Check verifies the render environment: ffmpeg and ffprobe on PATH, the
drawtext filter compiled in, the configured caption font, and test encodes
for the configured video and audio codecs.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	check.RunCheck(&cfg, log)
	return check.CheckDeps(&cfg)
}
