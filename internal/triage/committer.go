package triage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rentora/maintenance-back/internal/domain"
	"github.com/rentora/maintenance-back/internal/repository"
)

// Committer creates the binding work order and flips the maintenance
// request to IN_PROGRESS. The two writes are not transactional; the
// conditional status update guarantees at most one successful transition.
type Committer struct {
	requests   repository.RequestsRepository
	workOrders repository.WorkOrdersRepository
	logger     *log.Logger
	now        func() time.Time
}

func NewCommitter(
	requests repository.RequestsRepository,
	workOrders repository.WorkOrdersRepository,
	logger *log.Logger,
) *Committer {
	return &Committer{
		requests:   requests,
		workOrders: workOrders,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (c *Committer) Commit(
	ctx context.Context,
	requestID string,
	contractorID string,
	urgency int,
	reasoning string,
) (*domain.WorkOrder, error) {
	now := c.now()
	order := &domain.WorkOrder{
		ID:                   uuid.NewString(),
		MaintenanceRequestID: requestID,
		ContractorID:         contractorID,
		Status:               domain.WorkOrderStatusAssigned,
		EstimatedCompletion:  EstimatedCompletion(now, urgency),
		Notes:                reasoning,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := c.workOrders.CreateWorkOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}

	if err := c.requests.MarkRequestInProgress(ctx, requestID); err != nil {
		inconsistency := &CommitInconsistencyError{
			RequestID:   requestID,
			WorkOrderID: order.ID,
			Err:         err,
		}
		// Persisted state now needs reconciliation; no automatic rollback of
		// the work order, a transient failure here could otherwise delete a
		// legitimate assignment.
		if c.logger != nil {
			c.logger.Printf(
				"ERROR commit inconsistency request_id=%s work_order_id=%s err=%v",
				requestID, order.ID, err,
			)
		}
		return nil, inconsistency
	}

	return order, nil
}

// EstimatedCompletion derives the completion target from urgency alone:
// 5 -> +1 day, 4 -> +2 days, 3 -> +5 days, lower -> +7 days.
func EstimatedCompletion(now time.Time, urgency int) time.Time {
	switch urgency {
	case 5:
		return now.AddDate(0, 0, 1)
	case 4:
		return now.AddDate(0, 0, 2)
	case 3:
		return now.AddDate(0, 0, 5)
	default:
		return now.AddDate(0, 0, 7)
	}
}
