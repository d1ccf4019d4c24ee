package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper unmounts idle widgets and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

type Scheduler struct {
	sweeper  Sweeper
	logger   *zap.Logger
	interval time.Duration
	cron     *cron.Cron
	entryID  cron.EntryID
	mu       sync.Mutex
	running  bool
	lastRun  time.Time
	removed  int
}

func NewScheduler(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		sweeper:  sweeper,
		logger:   logger,
		interval: interval,
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}

	id, err := s.cron.AddFunc("@every "+s.interval.String(), func() { s.sweep() })
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	s.entryID = id
	s.cron.Start()
	s.running = true

	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.interval))

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
}

// ForceRun sweeps immediately, outside the schedule.
func (s *Scheduler) ForceRun() int {
	s.logger.Info("Manually triggering widget sweep")
	return s.sweep()
}

func (s *Scheduler) sweep() int {
	start := time.Now()
	removed := s.sweeper.Sweep()

	s.mu.Lock()
	s.lastRun = start
	s.removed += removed
	s.mu.Unlock()

	s.logger.Debug("Widget sweep completed",
		zap.Int("removed", removed),
		zap.Duration("duration", time.Since(start)))

	return removed
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":       s.running,
		"interval":      s.interval.String(),
		"last_run":      s.lastRun,
		"total_removed": s.removed,
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}

// cronLogger routes cron's internal logging through zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
