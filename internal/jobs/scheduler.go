package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/config"
)

// Sweeper forgets devices left idle for longer than the given duration.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

type Scheduler struct {
	cron     *cron.Cron
	sweeper  Sweeper
	schedule string
	idle     time.Duration
	log      zerolog.Logger
}

func NewScheduler(sweeper Sweeper, cfg config.SessionConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		sweeper:  sweeper,
		schedule: cfg.SweepSchedule,
		idle:     cfg.IdleTTL,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.sweeper == nil || s.idle <= 0 {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.sweepIdleDevices); err != nil {
		return fmt.Errorf("schedule idle sweep %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepIdleDevices() {
	n := s.sweeper.Sweep(s.idle)
	s.log.Debug().Int("evicted", n).Dur("idle", s.idle).Msg("idle device sweep finished")
}
