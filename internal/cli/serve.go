package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelsmith/reelsmith/internal/api"
	"github.com/reelsmith/reelsmith/internal/check"
	"github.com/reelsmith/reelsmith/internal/job"
	"github.com/reelsmith/reelsmith/internal/store"
	"github.com/reelsmith/reelsmith/internal/upload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP render worker",
	Long: `Serve accepts render jobs over HTTP (POST /v1/jobs), renders them
synchronously, and records every outcome in the local job ledger.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "listen address")
	serveCmd.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "job ledger directory")
	serveCmd.Flags().StringVar((*string)(&cfg.Backend), "backend", string(cfg.Backend), "upload backend: http or local")
	serveCmd.Flags().StringVar(&cfg.LocalOut, "out", cfg.LocalOut, "output directory for the local backend")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Fail fast before accepting jobs: a worker without a usable engine
	// would fail every request identically.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return err
	}

	ledger, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	uploader, err := upload.FromConfig(&cfg)
	if err != nil {
		return err
	}

	api.Version = version
	srv := api.NewServer(api.ServerConfig{
		Addr:      cfg.ListenAddr,
		Runner:    job.NewRunner(&cfg, log, uploader, ledger),
		Ledger:    ledger,
		Log:       log,
		StartTime: time.Now(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Warn("interrupt received, draining in-flight jobs")
	// The grace period covers one worst-case render plus upload.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.EngineTimeout+time.Minute)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}
