package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rentora/maintenance-back/internal/domain"
)

// MemoryStore keeps all records in memory for local development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	requests    map[string]*domain.MaintenanceRequest
	contractors map[string]*domain.Contractor
	workOrders  map[string]*domain.WorkOrder
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests:    make(map[string]*domain.MaintenanceRequest),
		contractors: make(map[string]*domain.Contractor),
		workOrders:  make(map[string]*domain.WorkOrder),
	}
}

func (s *MemoryStore) SeedRequest(request domain.MaintenanceRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[request.ID] = cloneRequest(&request)
}

func (s *MemoryStore) SeedContractor(contractor domain.Contractor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contractors[contractor.ID] = cloneContractor(&contractor)
}

func (s *MemoryStore) GetRequest(_ context.Context, requestID string) (*domain.MaintenanceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRequest(request), nil
}

func (s *MemoryStore) MarkRequestInProgress(_ context.Context, requestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return ErrNotFound
	}
	if request.Status != domain.RequestStatusOpen {
		return ErrRequestNotOpen
	}
	request.Status = domain.RequestStatusInProgress
	request.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ListContractorsByOrg(_ context.Context, orgID string, availableOnly bool) ([]domain.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Contractor, 0)
	for _, contractor := range s.contractors {
		if contractor.OrgID != orgID {
			continue
		}
		if availableOnly && contractor.Availability != domain.AvailabilityAvailable {
			continue
		}
		out = append(out, *cloneContractor(contractor))
	}
	return out, nil
}

func (s *MemoryStore) CreateWorkOrder(_ context.Context, order *domain.WorkOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workOrders[order.ID] = cloneWorkOrder(order)
	return nil
}

func (s *MemoryStore) GetWorkOrder(_ context.Context, orderID string) (*domain.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.workOrders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneWorkOrder(order), nil
}

func (s *MemoryStore) CountActiveWorkOrders(_ context.Context, contractorIDs []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(contractorIDs))
	for _, id := range contractorIDs {
		wanted[id] = struct{}{}
	}

	counts := make(map[string]int)
	for _, order := range s.workOrders {
		if order.Status != domain.WorkOrderStatusAssigned && order.Status != domain.WorkOrderStatusInProgress {
			continue
		}
		if _, ok := wanted[order.ContractorID]; !ok {
			continue
		}
		counts[order.ContractorID]++
	}
	return counts, nil
}

// WorkOrderCount reports total stored work orders; used by tests asserting
// that failed runs leave no records behind.
func (s *MemoryStore) WorkOrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workOrders)
}

func cloneRequest(request *domain.MaintenanceRequest) *domain.MaintenanceRequest {
	if request == nil {
		return nil
	}
	clone := *request
	return &clone
}

func cloneContractor(contractor *domain.Contractor) *domain.Contractor {
	if contractor == nil {
		return nil
	}
	clone := *contractor
	clone.Skills = append([]string(nil), contractor.Skills...)
	if contractor.HourlyRate != nil {
		rate := *contractor.HourlyRate
		clone.HourlyRate = &rate
	}
	return &clone
}

func cloneWorkOrder(order *domain.WorkOrder) *domain.WorkOrder {
	if order == nil {
		return nil
	}
	clone := *order
	return &clone
}
