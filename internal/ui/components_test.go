package ui

import (
	"strings"
	"testing"

	"github.com/olivier-w/rundash/internal/sim"
)

func TestRenderLEDBarCounts(t *testing.T) {
	tests := []struct {
		active, segments int
	}{
		{0, 10},
		{3, 10},
		{10, 10},
		{7, 20},
	}
	for _, tt := range tests {
		bar := renderLEDBar(tt.active, tt.segments)
		if got := strings.Count(bar, ledOn); got != tt.active {
			t.Errorf("renderLEDBar(%d, %d): expected %d lit, got %d", tt.active, tt.segments, tt.active, got)
		}
		if got := strings.Count(bar, ledOff); got != tt.segments-tt.active {
			t.Errorf("renderLEDBar(%d, %d): expected %d unlit, got %d", tt.active, tt.segments, tt.segments-tt.active, got)
		}
	}
	if renderLEDBar(0, 0) != "" {
		t.Error("expected empty bar for zero segments")
	}
}

func TestRenderReadout(t *testing.T) {
	s := renderReadout("Speed", 4.25, "km/h")
	if !strings.Contains(s, "Speed") || !strings.Contains(s, "4.2") || !strings.Contains(s, "km/h") {
		t.Fatalf("unexpected readout %q", s)
	}
}

func TestRenderChart(t *testing.T) {
	empty := renderChart(nil, "speed", 20, 4)
	if !strings.Contains(empty, "waiting for speed history") {
		t.Fatalf("expected placeholder, got %q", empty)
	}
	if got := strings.Count(empty, "\n"); got != 4 {
		t.Fatalf("expected placeholder to keep chart height, got %d lines", got)
	}

	single := renderChart([]float64{2}, "speed", 20, 4)
	if !strings.Contains(single, "speed") {
		t.Fatalf("expected caption in single point chart, got %q", single)
	}

	plot := renderChart([]float64{1, 2, 3, 4}, "distance", 20, 4)
	if !strings.Contains(plot, "distance") {
		t.Fatalf("expected caption, got %q", plot)
	}
}

func TestSpeedGaugeSettlesOnTarget(t *testing.T) {
	g := newSpeedGauge(10)
	if !g.settled() {
		t.Fatal("expected new gauge to be settled")
	}
	g.setTarget(5)
	for range 600 {
		if !g.step() {
			break
		}
	}
	if !g.settled() {
		t.Fatalf("expected gauge to settle, pos=%v vel=%v", g.pos, g.vel)
	}
	if g.percent() != 0.5 {
		t.Fatalf("expected 50%%, got %v", g.percent())
	}
	if g.step() {
		t.Fatal("expected settled gauge not to move")
	}
}

func TestSpeedGaugeClampsTarget(t *testing.T) {
	g := newSpeedGauge(10)
	g.setTarget(25)
	if g.target != 10 {
		t.Fatalf("expected target clamped to 10, got %v", g.target)
	}
	g.setTarget(-1)
	if g.target != 0 {
		t.Fatalf("expected target clamped to 0, got %v", g.target)
	}
	if newSpeedGauge(0).max != 10 {
		t.Fatal("expected default max of 10")
	}
}

func TestLoopStatus(t *testing.T) {
	if s := statusOf(true); s.String() != "running" || s.Icon() != "▶" {
		t.Fatalf("unexpected running status %v %q", s, s.Icon())
	}
	if s := statusOf(false); s.String() != "stopped" || s.Icon() != "■" {
		t.Fatalf("unexpected stopped status %v %q", s, s.Icon())
	}
}

func TestFieldSizeKeepsAspect(t *testing.T) {
	opts := sim.DefaultOptions()
	cols, rows := fieldSize(opts, 80)
	if cols != 80 || rows != 20 {
		t.Fatalf("expected 80x20, got %dx%d", cols, rows)
	}
	cols, _ = fieldSize(opts, 5)
	if cols != 20 {
		t.Fatalf("expected minimum width 20, got %d", cols)
	}
	cols, _ = fieldSize(opts, 500)
	if cols != 96 {
		t.Fatalf("expected maximum width 96, got %d", cols)
	}
}
