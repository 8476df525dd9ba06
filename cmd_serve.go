package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/olivier-w/rundash/internal/logging"
	"github.com/olivier-w/rundash/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a telemetry backend that publishes a simulated drive",
		Long: `serve runs the simulated drive and publishes it over HTTP:

  GET  /api/sensor                   current speed and distance
  GET  /api/history                  recent records of the current run
  POST /api/control/{start,stop,reset}
  GET  /healthz

Point 'rundash --telemetry' at it to watch the drive remotely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("autostart") {
				cfg.Server.Autostart, _ = cmd.Flags().GetBool("autostart")
			}

			logger, err := logging.Console(cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := telemetry.NewServer(telemetry.ServerConfig{
				Addr:           cfg.Server.Addr,
				FrameInterval:  cfg.FrameInterval(),
				SampleInterval: cfg.Server.SampleInterval,
				HistorySize:    cfg.Server.HistorySize,
				Field:          fieldOptions(cfg),
				Autostart:      cfg.Server.Autostart,
			}, logger)

			if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default from config, localhost:8080)")
	cmd.Flags().Bool("autostart", true, "Start the drive as soon as the server is up")
	return cmd
}
