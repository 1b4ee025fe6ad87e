package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rentora/maintenance-back/internal/domain"
)

// JobContext carries the assignment details both notifications are built
// from.
type JobContext struct {
	RequestID           string
	Category            string
	Urgency             int
	Location            string
	ContractorName      string
	EstimatedCompletion time.Time
}

// Dispatcher sends the two assignment notifications. Every send is
// best-effort: a failure is logged and swallowed, never propagated, and one
// failing send does not block the other.
type Dispatcher struct {
	sender Sender
	logger *log.Logger
}

func NewDispatcher(sender Sender, logger *log.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// NotifyContractor informs the chosen contractor of the new work order.
// A missing phone number is not an error; the send is skipped.
func (d *Dispatcher) NotifyContractor(ctx context.Context, contractor domain.Contractor, job JobContext) bool {
	phone := strings.TrimSpace(contractor.Phone)
	if phone == "" {
		d.logf("notify contractor skipped request_id=%s contractor_id=%s reason=no_phone", job.RequestID, contractor.ID)
		return false
	}

	body := fmt.Sprintf(
		"New work order: %s (urgency %d/5) at %s. Estimated completion %s.",
		job.Category,
		job.Urgency,
		job.Location,
		job.EstimatedCompletion.Format("2006-01-02"),
	)
	return d.send(ctx, job.RequestID, "contractor", Delivery{To: phone, Body: body})
}

// NotifyOwner informs the property owner that the request was assigned.
func (d *Dispatcher) NotifyOwner(ctx context.Context, ownerPhone string, job JobContext) bool {
	phone := strings.TrimSpace(ownerPhone)
	if phone == "" {
		d.logf("notify owner skipped request_id=%s reason=no_phone", job.RequestID)
		return false
	}

	body := fmt.Sprintf(
		"Maintenance request %s was assigned to %s. Estimated completion %s.",
		job.RequestID,
		job.ContractorName,
		job.EstimatedCompletion.Format("2006-01-02"),
	)
	return d.send(ctx, job.RequestID, "owner", Delivery{To: phone, Body: body})
}

func (d *Dispatcher) send(ctx context.Context, requestID, audience string, delivery Delivery) bool {
	if d.sender == nil {
		return false
	}
	if err := d.sender.Send(ctx, delivery); err != nil {
		d.logf("notify %s failed request_id=%s err=%v", audience, requestID, err)
		return false
	}
	return true
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.logger == nil {
		return
	}
	d.logger.Printf(format, args...)
}
