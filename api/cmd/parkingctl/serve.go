package parkingctl

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/config"
	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/httpapi"
	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/parking"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the parking allocation HTTP server.",
		Long:  "Start the parking allocation HTTP server, optionally seeded from a topology file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
	return serveCmd
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func serve(ctx context.Context, cfg config.Config) error {
	setupLogging(cfg.Server.LogLevel)

	engine := parking.NewEngine(parking.WithCrossZonePenalty(cfg.Engine.CrossZonePenalty))

	if cfg.Engine.TopologyPath != "" {
		zones, vehicles, err := config.LoadTopology(cfg.Engine.TopologyPath)
		if err != nil {
			return fmt.Errorf("failed to load topology: %w", err)
		}
		config.ApplyTopology(engine, zones, vehicles)
		log.Info().Str("path", cfg.Engine.TopologyPath).Int("zones", len(zones)).Int("vehicles", len(vehicles)).Msg("topology seeded")
	}

	server := httpapi.NewServer(engine, buildRevision())

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server,
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.ListenAddr).Msg("parking allocator listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
