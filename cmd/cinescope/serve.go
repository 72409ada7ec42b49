// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/cinescope/cinescope/internal/auth"
	authpg "github.com/cinescope/cinescope/internal/auth/postgres"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/httpapi"
	"github.com/cinescope/cinescope/internal/library"
	librarypg "github.com/cinescope/cinescope/internal/library/postgres"
	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/movies"
	"github.com/cinescope/cinescope/internal/observability"
	"github.com/cinescope/cinescope/internal/store"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the CineScope HTTP API and, when configured, the
metrics/health server. Shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Flag names double as config keys; posflag layers them on top of
	// file and environment values.
	cmd.Flags().String("server.addr", "", "API listen address")
	cmd.Flags().String("server.metrics", "", "metrics/health listen address (empty = disabled)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("omdb.key", "", "OMDb API key (empty disables movie routes)")
	cmd.Flags().String("log.format", "", "log format (json or text)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (set DATABASE_URL)")
	}

	logging.SetDefault("cinescope", version, cfg.Log.Format)
	logger := slog.Default()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := store.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	userRepo := authpg.NewUserRepository(pool)
	libraryRepo := librarypg.NewRepository(pool)

	hasher := auth.NewArgon2idHasher(cfg.Auth.Argon2)
	codec, err := auth.NewJWTCodec([]byte(cfg.Auth.Secret))
	if err != nil {
		return err
	}

	authSvc, err := auth.NewService(userRepo, hasher, codec, cfg.Auth.TTL)
	if err != nil {
		return err
	}
	librarySvc, err := library.NewService(libraryRepo)
	if err != nil {
		return err
	}

	var movieClient *movies.Client
	if cfg.OMDb.Key != "" {
		movieClient, err = movies.NewClient(cfg.OMDb.URL, cfg.OMDb.Key)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("omdb.key not set, movie routes disabled")
	}

	// Start the observability server first so its metrics registry is
	// available to the API handlers.
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.Server.Metrics != "" {
		obsServer = observability.NewServer(cfg.Server.Metrics, func() bool { return pool.Ping(ctx) == nil })
		metrics = obsServer.Metrics()

		obsErrCh, err := obsServer.Start()
		if err != nil {
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	api, err := httpapi.NewAPI(httpapi.APIConfig{
		Auth:        authSvc,
		Library:     librarySvc,
		Movies:      movieClient,
		Guard:       httpapi.NewSessionGuard(codec, userRepo, logger),
		UserCounter: userRepo,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	apiServer := httpapi.NewServer(cfg.Server.Addr, api.Handler())
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopObservability(obsServer)
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("CineScope API started on " + apiServer.Addr())
	logger.Info("server ready",
		"addr", apiServer.Addr(),
		"metrics_addr", cfg.Server.Metrics,
	)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	stopObservability(obsServer)

	logger.Info("shutdown complete")
	return nil
}

// stopObservability stops the metrics server if it was started.
func stopObservability(server *observability.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}
}

// monitorServerErrors cancels the process context when a server fails
// after startup.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			slog.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
