package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Source supplies readings and history. *Client implements it.
type Source interface {
	Reading(ctx context.Context) (Reading, error)
	History(ctx context.Context) (History, error)
}

// Sink receives successful fetches. Failed fetches never reach it, so the
// sink keeps whatever it last displayed.
type Sink interface {
	OnReading(Reading)
	OnHistory(History)
}

// Poller fetches readings and history on two independent cadences.
type Poller struct {
	src          Source
	sink         Sink
	readingEvery time.Duration
	historyEvery time.Duration
	logger       *zap.Logger
}

// NewPoller creates a Poller. A nil logger discards failures.
func NewPoller(src Source, sink Sink, readingEvery, historyEvery time.Duration, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		src:          src,
		sink:         sink,
		readingEvery: readingEvery,
		historyEvery: historyEvery,
		logger:       logger,
	}
}

// Run fetches both endpoints immediately, then on every tick of their
// intervals, until ctx is cancelled. It returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	readings := time.NewTicker(p.readingEvery)
	defer readings.Stop()
	history := time.NewTicker(p.historyEvery)
	defer history.Stop()

	p.pollReading(ctx)
	p.pollHistory(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-readings.C:
			p.pollReading(ctx)
		case <-history.C:
			p.pollHistory(ctx)
		}
	}
}

func (p *Poller) pollReading(ctx context.Context) {
	r, err := p.src.Reading(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("telemetry reading failed, keeping last value", zap.Error(err))
		}
		return
	}
	p.logger.Debug("telemetry reading", zap.Float64("speed", r.Speed), zap.Float64("distance", r.Distance))
	p.sink.OnReading(r)
}

func (p *Poller) pollHistory(ctx context.Context) {
	h, err := p.src.History(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("telemetry history failed, keeping last value", zap.Error(err))
		}
		return
	}
	p.logger.Debug("telemetry history", zap.String("run_id", h.RunID), zap.Int("records", len(h.Records)))
	p.sink.OnHistory(h)
}
