package worker

import (
	"context"
	"log"
	"time"

	"github.com/rentora/maintenance-back/internal/domain"
	"github.com/rentora/maintenance-back/internal/queue"
	"github.com/rentora/maintenance-back/internal/triage"
)

// Processor consumes triage jobs and runs the assignment pipeline for each.
// A run that finishes with a terminal failure reason is still acked: the
// orchestrator already reported it, and replaying would produce the same
// outcome. Only pre-pipeline infrastructure errors propagate to the queue
// for redelivery.
type Processor struct {
	consumer     queue.Consumer
	orchestrator *triage.Orchestrator
	logger       *log.Logger
}

func NewProcessor(
	consumer queue.Consumer,
	orchestrator *triage.Orchestrator,
	logger *log.Logger,
) *Processor {
	return &Processor{
		consumer:     consumer,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (p *Processor) Start(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		err := p.consumer.Consume(ctx, p.processMessage)
		if err == nil || ctx.Err() != nil {
			return
		}
		if p.logger != nil {
			p.logger.Printf("worker consume loop error: %v", err)
		}

		timer := time.NewTimer(2 * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (p *Processor) processMessage(ctx context.Context, message domain.TriageMessage) error {
	started := time.Now()
	result := p.orchestrator.RunAutoAssignment(ctx, message.MaintenanceRequestID)

	if p.logger != nil {
		if result.OK {
			p.logger.Printf(
				"triage job done request_id=%s contractor_id=%s work_order_id=%s elapsed=%s",
				message.MaintenanceRequestID, result.ContractorID, result.WorkOrderID, time.Since(started),
			)
		} else {
			p.logger.Printf(
				"triage job failed request_id=%s reason=%s detail=%s elapsed=%s",
				message.MaintenanceRequestID, result.Reason, result.Detail, time.Since(started),
			)
		}
	}
	return nil
}
