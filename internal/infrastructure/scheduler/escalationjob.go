package scheduler

import (
	"context"
	"time"

	"fastighet/internal/application/ticket/usecases"
	"fastighet/internal/shared/config"
	"fastighet/internal/shared/logger"
)

// EscalationRecorder receives the number of tickets escalated per run.
type EscalationRecorder interface {
	AddEscalated(n int)
}

// EscalationJob adapts the escalation use case to BatchJob.
type EscalationJob struct {
	useCase   usecases.EscalateStaleTicketsExecutor
	threshold time.Duration
	batchSize int
	recorder  EscalationRecorder
	logger    logger.Interface
}

func NewEscalationJob(
	useCase usecases.EscalateStaleTicketsExecutor,
	cfg config.EscalationConfig,
	recorder EscalationRecorder,
	logger logger.Interface,
) *EscalationJob {
	return &EscalationJob{
		useCase:   useCase,
		threshold: cfg.Threshold(),
		batchSize: cfg.BatchSize,
		recorder:  recorder,
		logger:    logger,
	}
}

func (j *EscalationJob) Execute(ctx context.Context) (int, error) {
	result, err := j.useCase.Execute(ctx, usecases.EscalateStaleTicketsCommand{
		Threshold: j.threshold,
		BatchSize: j.batchSize,
	})
	if err != nil {
		return 0, err
	}

	if result.Conflicts > 0 || result.DispatchFailures > 0 {
		j.logger.Warnw("ticket escalation finished with skipped tickets",
			"escalated", result.Escalated,
			"conflicts", result.Conflicts,
			"dispatch_failures", result.DispatchFailures)
	}
	if j.recorder != nil && result.Escalated > 0 {
		j.recorder.AddEscalated(result.Escalated)
	}
	return result.Escalated, nil
}
