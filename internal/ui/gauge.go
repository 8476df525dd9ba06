package ui

import (
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
)

// speedGauge eases a progress bar toward the latest speed with a critically
// damped spring, so jumps between telemetry polls animate smoothly.
type speedGauge struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	max    float64
	bar    progress.Model
}

func newSpeedGauge(maxSpeed float64) *speedGauge {
	if maxSpeed <= 0 {
		maxSpeed = 10
	}
	return &speedGauge{
		spring: harmonica.NewSpring(harmonica.FPS(gaugeFPS), 6.0, 1.0),
		max:    maxSpeed,
		bar: progress.New(
			progress.WithScaledGradient("#27AE60", "#E74C3C"),
			progress.WithoutPercentage(),
		),
	}
}

func (g *speedGauge) setTarget(v float64) {
	g.target = math.Max(0, math.Min(v, g.max))
}

// step advances the spring one frame and reports whether the gauge moved.
func (g *speedGauge) step() bool {
	if g.settled() {
		return false
	}
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, g.target)
	if math.Abs(g.pos-g.target) < 1e-3 && math.Abs(g.vel) < 1e-3 {
		g.pos, g.vel = g.target, 0
	}
	return true
}

func (g *speedGauge) settled() bool {
	return g.pos == g.target && g.vel == 0
}

func (g *speedGauge) percent() float64 {
	return clamp01(g.pos / g.max)
}

func (g *speedGauge) view(width int) string {
	g.bar.Width = max(width, 10)
	return g.bar.ViewAs(g.percent())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
