package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"charter-leads/internal/config"
	"charter-leads/internal/db"
	"charter-leads/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "charter-leads",
		Short:        "Charter lead intake, notification and call tracking API",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newMigrateCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply or roll back the embedded SQL migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: db.Commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.StoreConfigured() {
				return fmt.Errorf("migrate: DB_HOST is not set")
			}
			log := logger.New(cfg.App.Env, cfg.App.LogFormat)
			return db.RunMigrate(log, cfg.PostgresURL(), db.MigrationsFS, args[0])
		},
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		return err
	}

	log := logger.New(cfg.App.Env, cfg.App.LogFormat)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := buildApp(rootCtx, cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		return err
	}
	defer a.close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, a.routes(cfg))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if a.scheduler != nil {
		a.scheduler.Start()
		log.Info("marketing schedule started", "pattern", cfg.Marketing.Schedule)
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "channels", a.dispatcher.Channels())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			log.Error("marketing schedule stop failed", "err", err)
		}
	}
	// Leads accepted before shutdown still get their notifications.
	if err := a.dispatcher.Wait(shutdownCtx); err != nil {
		log.Error("notification drain incomplete", "err", err)
	}
	return nil
}
