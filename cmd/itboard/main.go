package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/itchan-dev/itboard/internal/config"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/router"
	"github.com/itchan-dev/itboard/internal/service"
	"github.com/itchan-dev/itboard/internal/setup"
	"github.com/itchan-dev/itboard/internal/storage/fs"
	"github.com/itchan-dev/itboard/internal/storage/pg"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.Warn("failed to load .env file", "error", err)
	}

	app := &cli.App{
		Name:  "itboard",
		Usage: "discussion board with file attachments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config_folder",
				Value:   "config",
				Usage:   "path to folder with public.yaml and private.yaml",
				EnvVars: []string{"CONFIG_FOLDER"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "apply migrations and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrate,
			},
			{
				Name:   "sweep",
				Usage:  "delete attachment files that no post refers to and exit",
				Action: sweep,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Error("itboard failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) *config.Config {
	cfg := config.MustLoad(c.String("config_folder"))
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	return cfg
}

func migrate(c *cli.Context) error {
	cfg := loadConfig(c)

	storage, err := pg.New(c.Context, cfg.PgDSN(), pg.DefaultConnectionConfig())
	if err != nil {
		return err
	}
	defer storage.Cleanup()

	if err := storage.Migrate(c.Context); err != nil {
		return err
	}
	logger.Log.Info("migrations applied")
	return nil
}

func sweep(c *cli.Context) error {
	cfg := loadConfig(c)

	storage, err := pg.New(c.Context, cfg.PgDSN(), pg.DefaultConnectionConfig())
	if err != nil {
		return err
	}
	defer storage.Cleanup()

	media, err := fs.New(cfg.Public.UploadDir)
	if err != nil {
		return err
	}

	stats, err := service.NewOrphanSweeper(storage, media, cfg.Public.OrphanGrace).Run(c.Context)
	if err != nil {
		return err
	}
	logger.Log.Info("sweep finished", "scanned", stats.Scanned, "deleted", stats.Deleted, "bytes_reclaimed", stats.BytesReclaimed, "errors", stats.Errors)
	return nil
}

func serve(c *cli.Context) error {
	cfg := loadConfig(c)

	deps, err := setup.SetupDependencies(c.Context, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Cleanup(); err != nil {
			logger.Log.Error("cleanup failed", "error", err)
		}
	}()

	if err := deps.Storage.Migrate(c.Context); err != nil {
		return err
	}

	sweepCtx, stopSweeper := context.WithCancel(c.Context)
	defer stopSweeper()
	if cfg.Public.OrphanSweepInterval > 0 {
		deps.Sweeper.Start(sweepCtx, cfg.Public.OrphanSweepInterval)
	}

	httpPort := os.Getenv("PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Log.Info("server stopped")
	return nil
}
