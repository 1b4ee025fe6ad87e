package domain

import "time"

// MaintenanceRequest is a tenant-submitted complaint about a property issue.
// This subsystem mutates it exactly once: OPEN -> IN_PROGRESS on a
// successful assignment. It is never reverted to OPEN here.
type MaintenanceRequest struct {
	ID          string
	OrgID       string
	LeaseID     string
	SubmittedBy string
	Description string
	// Priority is tenant-supplied and advisory only; triage derives its own
	// urgency from the description.
	Priority string
	Status   RequestStatus
	// Location is the property's locality string, compared textually against
	// contractor locations during ranking.
	Location   string
	OwnerPhone string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
