package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olivier-w/rundash/internal/logging"
	"github.com/olivier-w/rundash/internal/sim"
	"github.com/olivier-w/rundash/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// headlessRun drives a loop from a ticker and prints a readout line every
// few frames.
type headlessRun struct {
	opts     sim.Options
	interval time.Duration
	frames   int // 0 runs until the context is cancelled
	every    int
	out      io.Writer
	logger   *zap.Logger
}

func newHeadlessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the drive without a terminal UI and print readouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			frames, _ := cmd.Flags().GetInt("frames")
			every, _ := cmd.Flags().GetInt("every")
			if frames < 0 || every <= 0 {
				return fmt.Errorf("--frames must be >= 0 and --every > 0")
			}

			logger, err := logging.Console(cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := headlessRun{
				opts:     fieldOptions(cfg),
				interval: cfg.FrameInterval(),
				frames:   frames,
				every:    every,
				out:      cmd.OutOrStdout(),
				logger:   logger,
			}
			return run.run(ctx)
		},
	}
	cmd.Flags().Int("frames", 0, "Stop after this many frames (0 runs until interrupted)")
	cmd.Flags().Int("every", 10, "Print a readout every N frames")
	return cmd
}

func (h headlessRun) run(ctx context.Context) error {
	sched := sim.NewManualScheduler()
	loop := sim.New(sched, h.opts)

	var speed, distance float64
	var active, segments int
	var cursor sim.Point
	loop.AddDisplay(sim.DisplayFunc(func(s, d float64) { speed, distance = s, d }))
	loop.AddDrawing(sim.DrawingFunc(func(_ []sim.Point, c sim.Point) { cursor = c }))
	loop.AddLEDs(sim.LEDFunc(func(a, n int) { active, segments = a, n }))

	report := func(step int) {
		fmt.Fprintf(h.out, "step %5d  speed %5s  distance %7s  %s  at (%g,%g)\n",
			step, util.FormatReading(speed), util.FormatReading(distance), util.FormatLEDs(active, segments),
			cursor.X, cursor.Y)
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.logger.Info("headless drive started", zap.Int("frames", h.frames), zap.Duration("interval", h.interval))
	loop.Start()
	defer loop.Stop()

	for step := 1; h.frames == 0 || step <= h.frames; step++ {
		select {
		case <-ctx.Done():
			h.logger.Info("headless drive interrupted", zap.Int("steps", loop.Snapshot().Steps))
			return nil
		case <-ticker.C:
		}
		sched.Fire()
		if step%h.every == 0 || step == h.frames {
			report(step)
		}
	}

	s := loop.Snapshot()
	h.logger.Info("headless drive finished",
		zap.Int("steps", s.Steps),
		zap.Float64("speed", s.Speed),
		zap.Float64("distance", s.Distance),
	)
	return nil
}
