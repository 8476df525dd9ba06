package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/rundash/internal/config"
	"github.com/olivier-w/rundash/internal/logging"
	"github.com/olivier-w/rundash/internal/sim"
	"github.com/olivier-w/rundash/internal/telemetry"
	"github.com/olivier-w/rundash/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rundash",
		Short: "Terminal dashboard for a simulated drive",
		Long: `rundash animates a simulated drive: speed and distance readouts, an LED
speed bar and the path traced across a field.

With --telemetry it also polls a backend for readings and history and plots
them next to the local simulation. 'rundash serve' runs such a backend.`,
		SilenceUsage: true,
		RunE:         runDashboard,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.rundash/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().String("telemetry", "", "Telemetry backend URL, e.g. http://localhost:8080")
	rootCmd.Flags().Int("fps", 0, "Frames per second")
	rootCmd.Flags().Int("segments", 0, "Number of LED segments")
	rootCmd.Flags().Bool("autostart", false, "Start the drive immediately")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(),
		newHeadlessCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("telemetry") {
		cfg.Telemetry.URL, _ = flags.GetString("telemetry")
	}
	if flags.Changed("fps") {
		cfg.Field.FPS, _ = flags.GetInt("fps")
	}
	if flags.Changed("segments") {
		cfg.Field.Segments, _ = flags.GetInt("segments")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fieldOptions maps the config onto loop options; everything the config
// does not name keeps its default.
func fieldOptions(cfg *config.Config) sim.Options {
	opts := sim.DefaultOptions()
	opts.Width = cfg.Field.Width
	opts.Height = cfg.Field.Height
	opts.Segments = cfg.Field.Segments
	return opts
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.LogFile())
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	autostart, _ := cmd.Flags().GetBool("autostart")
	opts := ui.Options{
		Field:         fieldOptions(cfg),
		FrameInterval: cfg.FrameInterval(),
		Autostart:     autostart,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.URL != "" {
		client, err := telemetry.NewClient(cfg.Telemetry.URL, cfg.Telemetry.Timeout)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		sink := ui.NewTelemetrySink()
		opts.Telemetry = sink
		opts.TelemetrySource = client.BaseURL()

		poller := telemetry.NewPoller(client, sink, cfg.Telemetry.ReadingInterval, cfg.Telemetry.HistoryInterval, logger)
		go poller.Run(ctx) //nolint:errcheck
		logger.Info("polling telemetry backend",
			zap.String("url", client.BaseURL()),
			zap.Duration("reading_interval", cfg.Telemetry.ReadingInterval),
			zap.Duration("history_interval", cfg.Telemetry.HistoryInterval),
		)
	}

	logger.Info("dashboard starting", zap.Int("fps", cfg.Field.FPS), zap.Int("segments", cfg.Field.Segments))
	program := tea.NewProgram(ui.New(opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("dashboard failed", zap.Error(err))
		return err
	}
	logger.Info("dashboard closed")
	return nil
}
