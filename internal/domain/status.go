package domain

import "fmt"

type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "OPEN"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusResolved   RequestStatus = "RESOLVED"
)

type WorkOrderStatus string

const (
	WorkOrderStatusAssigned   WorkOrderStatus = "ASSIGNED"
	WorkOrderStatusInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusCompleted  WorkOrderStatus = "COMPLETED"
)

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
)

// ParseRequestStatus validates raw storage values at the ingress boundary.
func ParseRequestStatus(value string) (RequestStatus, error) {
	switch RequestStatus(value) {
	case RequestStatusOpen, RequestStatusInProgress, RequestStatusResolved:
		return RequestStatus(value), nil
	default:
		return "", fmt.Errorf("unknown maintenance request status %q", value)
	}
}

// ParseWorkOrderStatus validates raw storage values at the ingress boundary.
func ParseWorkOrderStatus(value string) (WorkOrderStatus, error) {
	switch WorkOrderStatus(value) {
	case WorkOrderStatusAssigned, WorkOrderStatusInProgress, WorkOrderStatusCompleted:
		return WorkOrderStatus(value), nil
	default:
		return "", fmt.Errorf("unknown work order status %q", value)
	}
}

// ParseAvailability collapses anything that is not AVAILABLE into
// UNAVAILABLE; availability is consumed here only as a filter.
func ParseAvailability(value string) AvailabilityStatus {
	if AvailabilityStatus(value) == AvailabilityAvailable {
		return AvailabilityAvailable
	}
	return AvailabilityUnavailable
}
