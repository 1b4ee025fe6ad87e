package repository

import (
	"context"
	"errors"

	"github.com/rentora/maintenance-back/internal/domain"
)

var (
	ErrNotFound = errors.New("resource not found")

	// ErrRequestNotOpen is returned by the conditional status update when the
	// request has already left OPEN. It is how the at-most-one-active-work-
	// order invariant is enforced under concurrent triage runs.
	ErrRequestNotOpen = errors.New("maintenance request is not open")
)

// RequestsRepository covers the point reads and the single guarded write
// this subsystem performs on maintenance requests.
type RequestsRepository interface {
	GetRequest(ctx context.Context, requestID string) (*domain.MaintenanceRequest, error)
	// MarkRequestInProgress flips OPEN -> IN_PROGRESS, conditionally:
	// zero rows transitioned yields ErrRequestNotOpen.
	MarkRequestInProgress(ctx context.Context, requestID string) error
}

type ContractorsRepository interface {
	ListContractorsByOrg(ctx context.Context, orgID string, availableOnly bool) ([]domain.Contractor, error)
}

type WorkOrdersRepository interface {
	CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) error
	GetWorkOrder(ctx context.Context, orderID string) (*domain.WorkOrder, error)
	// CountActiveWorkOrders returns per-contractor counts of orders in
	// ASSIGNED or IN_PROGRESS status; contractors with no active orders are
	// absent from the map.
	CountActiveWorkOrders(ctx context.Context, contractorIDs []string) (map[string]int, error)
}

// Store is the full persistence surface consumed by the triage engine.
type Store interface {
	RequestsRepository
	ContractorsRepository
	WorkOrdersRepository
}
