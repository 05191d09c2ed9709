package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/codeready-toolchain/research-core/pkg/execlog"
	"github.com/robfig/cron/v3"
)

// Scheduler triggers a Cycle run for each enabled monitor on its configured
// schedule. Generalized from Tangerg/lynx's CronTrigger: a single
// cron.Cron instance with seconds support, one AddFunc registration per
// monitor, started once.
type Scheduler struct {
	cron   *cron.Cron
	cycle  *Cycle
	logger *execlog.Logger
	locks  sync.Map // monitor name -> *sync.Mutex
	mu     sync.Mutex
	ids    []cron.EntryID
}

// NewScheduler builds a Scheduler that runs every trigger through cycle.
func NewScheduler(cycle *Cycle, logger *execlog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		cycle:  cycle,
		logger: logger,
	}
}

// scheduleSpec maps a monitor's Schedule field to a cron spec understood by
// robfig/cron. "manual" monitors are never registered; the caller triggers
// them directly via RunNow.
func scheduleSpec(schedule string) (spec string, manual bool, err error) {
	switch {
	case schedule == "manual":
		return "", true, nil
	case schedule == "hourly":
		return "0 0 * * * *", false, nil
	case schedule == "daily":
		return "0 0 0 * * *", false, nil
	case strings.HasPrefix(schedule, "cron:"):
		return strings.TrimSpace(strings.TrimPrefix(schedule, "cron:")), false, nil
	default:
		return "", false, fmt.Errorf("monitor: unrecognized schedule %q", schedule)
	}
}

// Register adds cfg to the scheduler. Monitors with schedule "manual" are
// accepted but never fire on their own; call RunNow to trigger them.
func (s *Scheduler) Register(cfg *Config) error {
	spec, manual, err := scheduleSpec(cfg.Schedule)
	if err != nil {
		return err
	}
	if manual || !cfg.Enabled {
		return nil
	}

	name := cfg.Name
	id, err := s.cron.AddFunc(spec, func() { s.trigger(context.Background(), name, cfg) })
	if err != nil {
		return fmt.Errorf("monitor: scheduling %s: %w", name, err)
	}

	s.mu.Lock()
	s.ids = append(s.ids, id)
	s.mu.Unlock()
	return nil
}

// Start begins firing registered triggers. Stop must be called to release
// the underlying cron goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for any in-flight cron job to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunNow runs cfg immediately, subject to the same per-monitor mutual
// exclusion as a scheduled trigger. Used for manual monitors and the
// run_monitor API operation.
func (s *Scheduler) RunNow(ctx context.Context, cfg *Config) error {
	lock := s.lockFor(cfg.Name)
	if !lock.TryLock() {
		return fmt.Errorf("monitor: %s is already running", cfg.Name)
	}
	defer lock.Unlock()
	return s.cycle.Run(ctx, cfg)
}

// trigger runs cfg on a cron firing. If the previous run is still holding
// the monitor's lock, this firing is dropped and logged rather than
// queued — at most one execution per monitor at a time (spec §4.4).
func (s *Scheduler) trigger(ctx context.Context, name string, cfg *Config) {
	lock := s.lockFor(name)
	if !lock.TryLock() {
		s.log(name, "monitor trigger skipped: previous run still in progress")
		return
	}
	defer lock.Unlock()

	if err := s.cycle.Run(ctx, cfg); err != nil {
		s.log(name, fmt.Sprintf("monitor run failed: %v", err))
	}
}

func (s *Scheduler) lockFor(name string) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(name, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

func (s *Scheduler) log(monitorName, message string) {
	if s.logger == nil {
		return
	}
	_ = s.logger.Log(execlog.Event{RunID: "monitor:" + monitorName, Type: execlog.EventError, Message: message})
}
