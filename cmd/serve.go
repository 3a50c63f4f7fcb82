package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartflow-ai/smartflow/internal/config"
	"github.com/smartflow-ai/smartflow/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	flagServeAddr    string
	flagServeNoStore bool
	flagServeWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ROI engine over HTTP",
	Long: `Serve the ROI engine as a JSON API.

Endpoints:
  GET    /healthz
  GET    /metrics
  GET    /v1/status
  GET    /v1/catalog
  POST   /v1/roi
  POST   /v1/roi/compare
  GET    /v1/scenarios
  POST   /v1/scenarios
  GET    /v1/scenarios/{id}
  DELETE /v1/scenarios/{id}

With --watch, edits to the config file's catalog overrides are applied
without a restart. An override that fails validation keeps the old catalog.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config or $SMARTFLOW_ADDR)")
	serveCmd.Flags().BoolVar(&flagServeNoStore, "no-store", false, "Disable the scenario endpoints")
	serveCmd.Flags().BoolVar(&flagServeWatch, "watch", false, "Reload the catalog when the config file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	addr := flagServeAddr
	if addr == "" {
		addr = config.GetServerAddr(e.cfg)
	}

	var st server.ScenarioStore
	if !flagServeNoStore {
		s, err := e.openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		st = s
	}

	svc := server.New(server.Config{
		Addr:              addr,
		ReadHeaderTimeout: time.Duration(e.cfg.Server.ReadHeaderTimeoutSec) * time.Second,
	}, e.catalog, st, e.log.Named("server"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.log.Info("starting",
		zap.String("addr", addr),
		zap.Bool("scenarios", st != nil),
		zap.Int("plans", len(e.catalog.Plans)),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return svc.Run(gctx) })

	if flagServeWatch {
		if !config.Exists() {
			e.log.Warn("no config file to watch", zap.String("path", config.Path()))
		} else {
			log := e.log.Named("watch")
			g.Go(func() error {
				return config.Watch(gctx, config.Path(), config.DefaultDebounce,
					func() { reloadCatalog(svc, log) },
					func(err error) { log.Warn("watcher error", zap.Error(err)) },
				)
			})
			log.Info("watching config", zap.String("path", config.Path()))
		}
	}
	return g.Wait()
}

func reloadCatalog(svc *server.Service, log *zap.Logger) {
	cfg, err := config.Load()
	if err != nil {
		log.Warn("config reload failed, keeping current catalog", zap.Error(err))
		return
	}
	cat, err := config.ResolveCatalog(cfg)
	if err != nil {
		log.Warn("catalog invalid, keeping current catalog", zap.Error(err))
		return
	}
	svc.SetCatalog(cat)
}
