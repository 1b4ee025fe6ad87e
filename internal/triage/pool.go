package triage

import (
	"context"
	"fmt"

	"github.com/rentora/maintenance-back/internal/domain"
	"github.com/rentora/maintenance-back/internal/repository"
)

// ContractorPool retrieves the contractors eligible for a request together
// with their current open-order load.
type ContractorPool struct {
	contractors repository.ContractorsRepository
	workOrders  repository.WorkOrdersRepository
}

func NewContractorPool(
	contractors repository.ContractorsRepository,
	workOrders repository.WorkOrdersRepository,
) *ContractorPool {
	return &ContractorPool{contractors: contractors, workOrders: workOrders}
}

// FetchCandidates returns the eligible contractors and a per-contractor
// count of active (ASSIGNED/IN_PROGRESS) work orders. An empty candidate
// list is a legitimate outcome, not an error.
func (p *ContractorPool) FetchCandidates(
	ctx context.Context,
	orgID string,
	requireAvailable bool,
) ([]domain.Contractor, map[string]int, error) {
	candidates, err := p.contractors.ListContractorsByOrg(ctx, orgID, requireAvailable)
	if err != nil {
		return nil, nil, fmt.Errorf("list contractors for org %s: %w", orgID, err)
	}
	if len(candidates) == 0 {
		return candidates, map[string]int{}, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.ID)
	}
	counts, err := p.workOrders.CountActiveWorkOrders(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("count open orders: %w", err)
	}
	return candidates, counts, nil
}
