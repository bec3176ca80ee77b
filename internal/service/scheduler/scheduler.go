package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs a set of named recurring tasks inside the process. Each
// task carries its own cadence and an atomic run-lock: an invocation that
// finds the previous one still running skips instead of overlapping.
type Scheduler struct {
	logger *zap.Logger
	tasks  []*task
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type task struct {
	name         string
	interval     time.Duration
	initialDelay func(now time.Time) time.Duration
	run          func(ctx context.Context) error
	running      atomic.Bool
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Register adds a task that runs shortly after Start and then on every
// interval tick.
func (s *Scheduler) Register(name string, every time.Duration, run func(ctx context.Context) error) {
	s.tasks = append(s.tasks, &task{
		name:         name,
		interval:     every,
		initialDelay: func(time.Time) time.Duration { return 0 },
		run:          run,
	})
}

// RegisterDailyAt adds a task whose first run waits for the next wall-clock
// occurrence of the given hour, then repeats every 24 hours.
func (s *Scheduler) RegisterDailyAt(name string, hour int, run func(ctx context.Context) error) {
	s.tasks = append(s.tasks, &task{
		name:         name,
		interval:     24 * time.Hour,
		initialDelay: func(now time.Time) time.Duration { return untilNextHour(now, hour) },
		run:          run,
	})
}

// untilNextHour returns how long to wait until the next occurrence of the
// given local wall-clock hour. A boundary exactly on the hour waits a full
// day rather than firing twice.
func untilNextHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}

// Start launches one goroutine per registered task. It returns
// immediately; Stop cancels the timers and waits for in-flight runs.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, t)
	}

	s.logger.Info("scheduler started", zap.Int("tasks", len(s.tasks)))
}

func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, t *task) {
	defer s.wg.Done()

	delay := t.initialDelay(time.Now())
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return
	}

	s.execute(ctx, t)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.execute(ctx, t)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, t *task) {
	if !t.running.CompareAndSwap(false, true) {
		s.logger.Warn("scheduled task still running, skipping this tick", zap.String("task", t.name))
		return
	}
	defer t.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked", zap.String("task", t.name), zap.Any("panic", r))
		}
	}()

	started := time.Now()
	s.logger.Info("scheduled task started", zap.String("task", t.name))

	if err := t.run(ctx); err != nil {
		s.logger.Error("scheduled task failed",
			zap.String("task", t.name),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("scheduled task finished",
		zap.String("task", t.name),
		zap.Duration("elapsed", time.Since(started)),
	)
}
