// Package scheduler runs the background jobs of the API server using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"fastighet/internal/shared/biztime"
	"fastighet/internal/shared/logger"
)

const (
	defaultEscalationInterval = 15 * time.Minute
	escalationRunTimeout      = 5 * time.Minute
)

// BatchJob processes one batch per Execute call and reports how many items
// it touched.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the single gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	mu      sync.Mutex
	running bool
}

// NewSchedulerManager evaluates every schedule in UTC.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	return &SchedulerManager{scheduler: s, logger: log}, nil
}

// RegisterEscalationJob runs job every interval, starting immediately. A
// run that overlaps the previous one is rescheduled rather than stacked.
func (m *SchedulerManager) RegisterEscalationJob(job BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultEscalationInterval
	}

	task := func() {
		ctx, cancel := context.WithTimeout(context.Background(), escalationRunTimeout)
		defer cancel()
		m.run(ctx, "ticket-escalation", job)
	}

	if _, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("ticket-escalation"),
		gocron.WithTags("ticket", "escalation"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}

	m.logger.Infow("registered ticket escalation job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) run(ctx context.Context, name string, job BatchJob) {
	started := biztime.NowUTC()
	count, err := job.Execute(ctx)
	elapsed := biztime.NowUTC().Sub(started)

	switch {
	case err != nil && ctx.Err() != nil:
		// shutting down
	case err != nil:
		m.logger.Errorw("scheduled job failed", "job", name, "error", err, "duration", elapsed)
	case count > 0:
		m.logger.Infow("scheduled job processed items", "job", name, "count", count, "duration", elapsed)
	default:
		m.logger.Debugw("scheduled job found nothing to process", "job", name, "duration", elapsed)
	}
}

// Start is a no-op when the scheduler is already running.
func (m *SchedulerManager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}

	m.scheduler.Start()
	m.running = true
	m.logger.Infow("scheduler started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish. Calling it twice is safe.
func (m *SchedulerManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}

	m.running = false
	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("scheduler shutdown failed", "error", err)
		return err
	}
	m.logger.Infow("scheduler stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Jobs returns the registered jobs.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
