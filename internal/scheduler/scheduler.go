// Package scheduler drives the refresh cycle: fetch, aggregate, render, push
// to the display, sleep. Cycles run strictly sequentially; the panel cannot
// accept overlapping updates and there is exactly one frame in flight.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
	"github.com/echtzeitinfo/echtzeitinfo/internal/display"
	"github.com/echtzeitinfo/echtzeitinfo/internal/render"
	"github.com/echtzeitinfo/echtzeitinfo/internal/wienerlinien"
)

const (
	// MinInterval is the hard polling floor. The transit API demands at
	// least 15 seconds between requests; a lower configured interval is
	// clamped up, never honored.
	MinInterval = wienerlinien.MinPollInterval

	// DefaultFullRefreshEvery is the fallback full-refresh cadence.
	DefaultFullRefreshEvery = 5
)

// Fetcher is the transit-client capability the scheduler needs.
type Fetcher interface {
	FetchDepartures(ctx context.Context, rbls []int) ([]wienerlinien.Departure, error)
}

// FrameRenderer composes a frame from aggregated boards.
type FrameRenderer interface {
	Render(boards []board.StationBoard, now time.Time) (*render.Frame, error)
}

// Config holds the scheduler knobs.
type Config struct {
	Stations         []board.Station
	Interval         time.Duration
	FullRefreshEvery int
}

// Scheduler owns the cycle loop and its only cross-cycle state, the cycle
// counter. It is not safe for concurrent use and does not need to be: Run is
// the single thread of control.
type Scheduler struct {
	client   Fetcher
	renderer FrameRenderer
	sink     display.Sink
	logger   *slog.Logger

	stations  []board.Station
	rbls      []int
	interval  time.Duration
	fullEvery int

	cycleCount int
	now        func() time.Time
}

// New creates a scheduler. An interval below MinInterval is clamped up and
// logged; a non-positive full-refresh cadence falls back to the default.
func New(cfg Config, client Fetcher, renderer FrameRenderer, sink display.Sink, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval < MinInterval {
		logger.Warn("refresh interval below API polling floor, clamping",
			"configured", cfg.Interval, "effective", MinInterval)
		interval = MinInterval
	}

	fullEvery := cfg.FullRefreshEvery
	if fullEvery <= 0 {
		fullEvery = DefaultFullRefreshEvery
	}

	var rbls []int
	for _, st := range cfg.Stations {
		rbls = append(rbls, st.RBLs...)
	}

	return &Scheduler{
		client:    client,
		renderer:  renderer,
		sink:      sink,
		logger:    logger,
		stations:  cfg.Stations,
		rbls:      rbls,
		interval:  interval,
		fullEvery: fullEvery,
		now:       time.Now,
	}
}

// Interval returns the effective, clamped refresh interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run initializes the sink and loops until ctx is cancelled. A cancellation
// during sleep ends the loop immediately; one during a cycle is honored only
// after the push completes, so the hardware never sees a torn update. On the
// way out the display is cleared and put to sleep.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.sink.Init(); err != nil {
		return fmt.Errorf("display init: %w", err)
	}

	for {
		if err := s.runCycle(ctx); err != nil {
			s.logger.Warn("cycle failed, display keeps previous frame", "error", err)
		}
		if !s.sleep(ctx) {
			break
		}
	}

	s.logger.Info("shutting down, cleaning up display")
	if err := s.sink.Clear(); err != nil {
		s.logger.Error("clearing display on shutdown", "error", err)
	}
	if err := s.sink.Sleep(); err != nil {
		s.logger.Error("sleeping display on shutdown", "error", err)
	}
	return nil
}

// runCycle executes one fetch-aggregate-render-push pass. Any failure skips
// the remainder of the cycle; the previously pushed frame stays on the
// display untouched. A panic anywhere in the pass is contained here and
// counts as that cycle's failure.
func (s *Scheduler) runCycle(ctx context.Context) (err error) {
	n := s.cycleCount
	s.cycleCount++

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle %d: panic: %v", n, r)
		}
	}()

	full := s.isFullRefresh(n)

	raw, err := s.client.FetchDepartures(ctx, s.rbls)
	if err != nil {
		return fmt.Errorf("cycle %d: %w", n, err)
	}

	now := s.now()
	boards := board.Aggregate(s.stations, raw, now)

	frame, err := s.renderer.Render(boards, now)
	if err != nil {
		return fmt.Errorf("cycle %d: %w", n, err)
	}

	if full {
		err = s.sink.DisplayFull(frame)
	} else {
		err = s.sink.DisplayPartial(frame)
	}
	if err != nil {
		return fmt.Errorf("cycle %d: %w", n, err)
	}

	refresh := "partial"
	if full {
		refresh = "full"
	}
	s.logger.Info("cycle complete", "cycle", n, "refresh", refresh, "departures", len(raw))
	return nil
}

// isFullRefresh decides full vs partial. Cycle 0 is always full: after a
// cold start the panel's pixel state is unknown.
func (s *Scheduler) isFullRefresh(cycle int) bool {
	return cycle == 0 || cycle%s.fullEvery == 0
}

// sleep waits out the refresh interval. Returns false when ctx was cancelled
// before the interval elapsed.
func (s *Scheduler) sleep(ctx context.Context) bool {
	t := time.NewTimer(s.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
