package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/olivier-w/rundash/internal/config"
	"github.com/olivier-w/rundash/internal/sim"
	"go.uber.org/zap"
)

// isolateHome points HOME at a temp directory so no real
// ~/.rundash/config.yaml is read.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"RUNDASH_TELEMETRY_URL", "RUNDASH_FPS", "RUNDASH_SEGMENTS", "RUNDASH_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if got := out.String(); got != "rundash version "+version+"\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestVersionCmdJSON(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	var body map[string]string
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if body["version"] != version {
		t.Fatalf("expected version %q, got %q", version, body["version"])
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	isolateHome(t)
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--telemetry", "localhost:9000", "--fps", "30", "--segments", "12", "--log-level", "debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := loadConfig(root)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Telemetry.URL != "localhost:9000" {
		t.Errorf("expected telemetry flag, got %q", cfg.Telemetry.URL)
	}
	if cfg.Field.FPS != 30 || cfg.Field.Segments != 12 {
		t.Errorf("expected fps 30 and 12 segments, got %d and %d", cfg.Field.FPS, cfg.Field.Segments)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigRejectsInvalidFlags(t *testing.T) {
	isolateHome(t)
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--segments", "0"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := loadConfig(root); err == nil {
		t.Fatal("expected validation error for zero segments")
	}
}

func TestLoadConfigRejectsBadTelemetryURL(t *testing.T) {
	isolateHome(t)
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--telemetry", "ftp://backend"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := loadConfig(root); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for ftp telemetry url, got %v", err)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "rundash.yaml")
	if err := os.WriteFile(path, []byte("field:\n  segments: 8\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--config", path}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := loadConfig(root)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Field.Segments != 8 {
		t.Fatalf("expected 8 segments from file, got %d", cfg.Field.Segments)
	}
}

func TestFieldOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Field.Width = 640
	cfg.Field.Segments = 16

	opts := fieldOptions(cfg)
	if opts.Width != 640 || opts.Height != 400 || opts.Segments != 16 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.MaxSpeed != sim.DefaultOptions().MaxSpeed {
		t.Fatalf("expected default max speed, got %v", opts.MaxSpeed)
	}
}

func TestHeadlessRunPrintsReadouts(t *testing.T) {
	var out bytes.Buffer
	run := headlessRun{
		opts:     sim.DefaultOptions(),
		interval: time.Millisecond,
		frames:   100,
		every:    25,
		out:      &out,
		logger:   zap.NewNop(),
	}
	if err := run.run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 readout lines, got %d: %q", len(lines), out.String())
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "step   100") || !strings.Contains(last, "speed  10.0") {
		t.Fatalf("unexpected final line %q", last)
	}
	if !strings.Contains(last, "[##########]") {
		t.Fatalf("expected all LEDs lit at top speed, got %q", last)
	}
	// 100 columns of 2 units from x=50.
	if !strings.HasSuffix(last, "at (250,150)") {
		t.Fatalf("expected cursor at (250,150), got %q", last)
	}
}

func TestHeadlessRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run := headlessRun{
		opts:     sim.DefaultOptions(),
		interval: time.Hour,
		every:    1,
		out:      &bytes.Buffer{},
		logger:   zap.NewNop(),
	}
	if err := run.run(ctx); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
}

func TestHeadlessCmdRejectsBadFlags(t *testing.T) {
	isolateHome(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"headless", "--every", "0"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for --every 0")
	}
}
