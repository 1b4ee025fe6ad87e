package triage

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/rentora/maintenance-back/internal/domain"
	"github.com/rentora/maintenance-back/internal/notify"
	"github.com/rentora/maintenance-back/internal/repository"
)

// Orchestrator runs the full triage pipeline for one maintenance request:
// CLASSIFYING -> POOLING -> RANKING -> COMMITTING -> NOTIFYING -> DONE,
// with FAILED(reason) reachable from every stage before NOTIFYING. It owns
// all cross-stage error handling; no stage retries internally.
type Orchestrator struct {
	requests   repository.RequestsRepository
	classifier Classifier
	pool       *ContractorPool
	ranker     Ranker
	committer  *Committer
	dispatcher *notify.Dispatcher
	logger     *log.Logger
}

type OrchestratorDependencies struct {
	Requests   repository.RequestsRepository
	Classifier Classifier
	Pool       *ContractorPool
	Ranker     Ranker
	Committer  *Committer
	Dispatcher *notify.Dispatcher
	Logger     *log.Logger
}

func NewOrchestrator(deps OrchestratorDependencies) *Orchestrator {
	return &Orchestrator{
		requests:   deps.Requests,
		classifier: deps.Classifier,
		pool:       deps.Pool,
		ranker:     deps.Ranker,
		committer:  deps.Committer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// RunAutoAssignment triages one maintenance request and commits a binding
// work assignment at most once. A request that is no longer OPEN is
// rejected before any classification work happens.
func (o *Orchestrator) RunAutoAssignment(ctx context.Context, maintenanceRequestID string) domain.AssignmentResult {
	request, err := o.requests.GetRequest(ctx, maintenanceRequestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return o.fail(maintenanceRequestID, domain.FailValidation, "maintenance request not found")
		}
		return o.fail(maintenanceRequestID, domain.FailValidation, "load maintenance request: "+err.Error())
	}
	if request.Status != domain.RequestStatusOpen {
		return o.fail(maintenanceRequestID, domain.FailValidation, "request is not open for assignment")
	}

	// CLASSIFYING
	classification, err := o.classifier.Classify(ctx, request.Description)
	if err != nil {
		if errors.Is(err, ErrEmptyDescription) {
			return o.fail(maintenanceRequestID, domain.FailValidation, err.Error())
		}
		return o.fail(maintenanceRequestID, domain.FailClassification, err.Error())
	}

	// POOLING
	candidates, openOrders, err := o.pool.FetchCandidates(ctx, request.OrgID, true)
	if err != nil {
		return o.fail(maintenanceRequestID, domain.FailSelection, "contractor pool unavailable: "+err.Error())
	}
	if len(candidates) == 0 {
		return o.fail(maintenanceRequestID, domain.FailNoContractorAvailable, "no available contractor for this organization")
	}

	// RANKING
	decision, err := o.ranker.Select(ctx, candidates, classification, openOrders, request.Location)
	if err != nil {
		return o.fail(maintenanceRequestID, domain.FailSelection, err.Error())
	}

	// COMMITTING: once this starts, the run is allowed to finish.
	order, err := o.committer.Commit(ctx, request.ID, decision.ContractorID, classification.Urgency, decision.Reasoning)
	if err != nil {
		return o.fail(maintenanceRequestID, domain.FailCommit, err.Error())
	}

	// NOTIFYING: never fails the run. The two sends are independent and run
	// concurrently.
	o.notify(ctx, request, candidates, decision, classification, order)

	if o.logger != nil {
		o.logger.Printf(
			"assignment done request_id=%s contractor_id=%s work_order_id=%s urgency=%d",
			request.ID, decision.ContractorID, order.ID, classification.Urgency,
		)
	}
	return domain.SuccessResult(decision, classification, order.ID)
}

func (o *Orchestrator) notify(
	ctx context.Context,
	request *domain.MaintenanceRequest,
	candidates []domain.Contractor,
	decision domain.AssignmentDecision,
	classification domain.Classification,
	order *domain.WorkOrder,
) {
	if o.dispatcher == nil {
		return
	}

	var contractor domain.Contractor
	for _, candidate := range candidates {
		if candidate.ID == decision.ContractorID {
			contractor = candidate
			break
		}
	}

	job := notify.JobContext{
		RequestID:           request.ID,
		Category:            classification.Category,
		Urgency:             classification.Urgency,
		Location:            request.Location,
		ContractorName:      contractor.FullName,
		EstimatedCompletion: order.EstimatedCompletion,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.dispatcher.NotifyContractor(ctx, contractor, job)
	}()
	go func() {
		defer wg.Done()
		o.dispatcher.NotifyOwner(ctx, request.OwnerPhone, job)
	}()
	wg.Wait()
}

func (o *Orchestrator) fail(requestID string, reason domain.FailReason, detail string) domain.AssignmentResult {
	if o.logger != nil {
		o.logger.Printf("assignment failed request_id=%s reason=%s detail=%s", requestID, reason, detail)
	}
	return domain.FailureResult(reason, detail)
}
