package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reelsmith/reelsmith/internal/check"
	"github.com/reelsmith/reelsmith/internal/job"
	"github.com/reelsmith/reelsmith/internal/store"
	"github.com/reelsmith/reelsmith/internal/upload"
)

var renderLedger bool

var renderCmd = &cobra.Command{
	Use:   "render <job.json>",
	Short: "Render one job from a payload file",
	Long: `Render reads a job payload from a JSON file (or stdin with "-"), runs it
through the same pipeline the HTTP worker uses, and prints the delivered
video URL. The local upload backend is the default here.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar((*string)(&cfg.Backend), "backend", string(cfg.Backend), "upload backend: http or local")
	renderCmd.Flags().StringVar(&cfg.LocalOut, "out", cfg.LocalOut, "output directory for the local backend")
	renderCmd.Flags().BoolVar(&renderLedger, "ledger", false, "record the outcome in the job ledger")
	renderCmd.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "job ledger directory (with --ledger)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return err
	}

	req, err := readRequest(args[0])
	if err != nil {
		return err
	}

	var ledger *store.Store
	if renderLedger {
		ledger, err = store.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer ledger.Close()
	}

	uploader, err := upload.FromConfig(&cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := job.NewRunner(&cfg, log, uploader, ledger)
	res, jerr := runner.Run(ctx, req)
	if jerr != nil {
		log.Error("%v", jerr)
		if jerr.Details != "" {
			log.Debug("engine stderr:\n%s", jerr.Details)
		}
		return fmt.Errorf("render failed (%s)", jerr.Kind)
	}

	fmt.Println(res.VideoURL)
	return nil
}

func readRequest(path string) (*job.Request, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var req job.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return &req, nil
}
