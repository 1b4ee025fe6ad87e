package domain

import "time"

// WorkOrder is a binding assignment of a maintenance request to a
// contractor. Created once by the committer; later transitions
// (accept/complete) belong to contractor workflows outside this subsystem.
type WorkOrder struct {
	ID                   string
	MaintenanceRequestID string
	ContractorID         string
	Status               WorkOrderStatus
	EstimatedCompletion  time.Time
	// Notes carries the ranking justification verbatim for audit.
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
