package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rentora/maintenance-back/internal/domain"
	httpserver "github.com/rentora/maintenance-back/internal/http"
	"github.com/rentora/maintenance-back/internal/http/handlers"
	"github.com/rentora/maintenance-back/internal/notify"
	"github.com/rentora/maintenance-back/internal/queue"
	"github.com/rentora/maintenance-back/internal/repository"
	"github.com/rentora/maintenance-back/internal/triage"
	"github.com/rentora/maintenance-back/internal/worker"
)

type integrationRuntime struct {
	server *httptest.Server
	store  *repository.MemoryStore
	sender *notify.MemorySender
	cancel context.CancelFunc
}

func startIntegrationRuntime(t *testing.T) integrationRuntime {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	logger := log.New(io.Discard, "", 0)
	store := repository.NewMemoryStore()
	sender := notify.NewMemorySender()
	localQueue := queue.NewLocalQueue(256, 3, logger)

	orchestrator := triage.NewOrchestrator(triage.OrchestratorDependencies{
		Requests:   store,
		Classifier: triage.NewRuleClassifier(),
		Pool:       triage.NewContractorPool(store, store),
		Ranker:     triage.NewRuleRanker(),
		Committer:  triage.NewCommitter(store, store, logger),
		Dispatcher: notify.NewDispatcher(sender, logger),
		Logger:     logger,
	})

	api := handlers.NewAPI(store, localQueue, orchestrator)
	router := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      "",
		RateLimitRPS:   20000,
		RateLimitBurst: 20000,
	})

	processor := worker.NewProcessor(localQueue, orchestrator, logger)
	go processor.Start(ctx)

	server := httptest.NewServer(router)
	return integrationRuntime{
		server: server,
		store:  store,
		sender: sender,
		cancel: func() {
			cancel()
			server.Close()
		},
	}
}

func seedTriageScenario(store *repository.MemoryStore) {
	store.SeedRequest(domain.MaintenanceRequest{
		ID:          "req-e2e-1",
		OrgID:       "org-e2e",
		LeaseID:     "lease-7",
		SubmittedBy: "tenant-42",
		Description: "Water is leaking from the pipe under the kitchen sink, spreading fast.",
		Status:      domain.RequestStatusOpen,
		Location:    "Riverview",
		OwnerPhone:  "+15550001111",
	})
	store.SeedContractor(domain.Contractor{
		ID:           "contractor-plumber",
		OrgID:        "org-e2e",
		FullName:     "Ana Reyes",
		Skills:       []string{"plumbing"},
		Location:     "Riverview",
		Availability: domain.AvailabilityAvailable,
		Rating:       4.8,
		Phone:        "+15550002222",
	})
	store.SeedContractor(domain.Contractor{
		ID:           "contractor-electrician",
		OrgID:        "org-e2e",
		FullName:     "Bo Lindgren",
		Skills:       []string{"electrical"},
		Location:     "Hillcrest",
		Availability: domain.AvailabilityAvailable,
		Rating:       4.9,
		Phone:        "+15550003333",
	})
}

func postJSON(
	t *testing.T,
	client *http.Client,
	url string,
	payload any,
) (int, map[string]any) {
	t.Helper()

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		t.Fatalf("execute request: %v", err)
	}
	defer response.Body.Close()

	raw, _ := io.ReadAll(response.Body)
	if len(raw) == 0 {
		return response.StatusCode, map[string]any{}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode response body (%d): %s", response.StatusCode, string(raw))
	}

	return response.StatusCode, decoded
}

func getJSON(t *testing.T, client *http.Client, url string) (int, map[string]any) {
	t.Helper()
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build get request: %v", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		t.Fatalf("execute get request: %v", err)
	}
	defer response.Body.Close()

	raw, _ := io.ReadAll(response.Body)
	if len(raw) == 0 {
		return response.StatusCode, map[string]any{}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode get response body (%d): %s", response.StatusCode, string(raw))
	}

	return response.StatusCode, decoded
}

func TestSynchronousAssignmentFlow(t *testing.T) {
	runtime := startIntegrationRuntime(t)
	defer runtime.cancel()
	seedTriageScenario(runtime.store)

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	status, body := postJSON(t, client, baseURL+"/v1/assignments/run", map[string]any{
		"maintenance_request_id": "req-e2e-1",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%+v", status, body)
	}
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("expected a successful assignment, got %+v", body)
	}
	if contractorID, _ := body["contractor_id"].(string); contractorID != "contractor-plumber" {
		t.Fatalf("expected the plumber to win, got %+v", body["contractor_id"])
	}
	workOrderID, _ := body["work_order_id"].(string)
	if workOrderID == "" {
		t.Fatalf("expected a work order id, got %+v", body)
	}
	if reasoning, _ := body["reasoning"].(string); reasoning == "" {
		t.Fatalf("expected reasoning in the result")
	}

	orderStatus, orderBody := getJSON(t, client, fmt.Sprintf("%s/v1/work-orders/%s", baseURL, workOrderID))
	if orderStatus != http.StatusOK {
		t.Fatalf("expected 200 from work order lookup, got %d body=%+v", orderStatus, orderBody)
	}
	if got, _ := orderBody["status"].(string); got != string(domain.WorkOrderStatusAssigned) {
		t.Fatalf("expected ASSIGNED work order, got %+v", orderBody["status"])
	}
	if got, _ := orderBody["contractor_id"].(string); got != "contractor-plumber" {
		t.Fatalf("unexpected work order contractor %+v", orderBody["contractor_id"])
	}

	// Both the contractor and the owner are notified.
	if deliveries := runtime.sender.Deliveries(); len(deliveries) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(deliveries))
	}

	// A second run must refuse: the request is no longer OPEN.
	status, body = postJSON(t, client, baseURL+"/v1/assignments/run", map[string]any{
		"maintenance_request_id": "req-e2e-1",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on rerun, got %d", status)
	}
	if ok, _ := body["ok"].(bool); ok {
		t.Fatalf("rerun must not assign twice, got %+v", body)
	}
	if reason, _ := body["reason"].(string); reason != string(domain.FailValidation) {
		t.Fatalf("expected validation failure on rerun, got %+v", body["reason"])
	}
}

func TestAsynchronousAssignmentFlow(t *testing.T) {
	runtime := startIntegrationRuntime(t)
	defer runtime.cancel()
	seedTriageScenario(runtime.store)

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	status, body := postJSON(t, client, baseURL+"/v1/assignments", map[string]any{
		"maintenance_request_id": "req-e2e-1",
	})
	if status != http.StatusAccepted {
		t.Fatalf("expected 202, got %d body=%+v", status, body)
	}
	if queued, _ := body["status"].(string); queued != "queued" {
		t.Fatalf("expected queued status, got %+v", body)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		request, err := runtime.store.GetRequest(context.Background(), "req-e2e-1")
		if err != nil {
			t.Fatalf("load request: %v", err)
		}
		if request.Status == domain.RequestStatusInProgress {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("request never reached IN_PROGRESS, status=%s", request.Status)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if runtime.store.WorkOrderCount() != 1 {
		t.Fatalf("expected exactly one work order, got %d", runtime.store.WorkOrderCount())
	}
}

func TestEnqueueRejectsUnknownAndClosedRequests(t *testing.T) {
	runtime := startIntegrationRuntime(t)
	defer runtime.cancel()

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	status, _ := postJSON(t, client, baseURL+"/v1/assignments", map[string]any{
		"maintenance_request_id": "no-such-request",
	})
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown request, got %d", status)
	}

	runtime.store.SeedRequest(domain.MaintenanceRequest{
		ID:          "req-closed",
		OrgID:       "org-e2e",
		Description: "already handled",
		Status:      domain.RequestStatusResolved,
	})
	status, _ = postJSON(t, client, baseURL+"/v1/assignments", map[string]any{
		"maintenance_request_id": "req-closed",
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for a closed request, got %d", status)
	}
}

func TestNoContractorAvailableFlow(t *testing.T) {
	runtime := startIntegrationRuntime(t)
	defer runtime.cancel()

	runtime.store.SeedRequest(domain.MaintenanceRequest{
		ID:          "req-lonely",
		OrgID:       "org-empty",
		Description: "heater makes a grinding noise",
		Status:      domain.RequestStatusOpen,
	})

	client := runtime.server.Client()
	status, body := postJSON(t, client, runtime.server.URL+"/v1/assignments/run", map[string]any{
		"maintenance_request_id": "req-lonely",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if ok, _ := body["ok"].(bool); ok {
		t.Fatalf("expected failure without contractors, got %+v", body)
	}
	if reason, _ := body["reason"].(string); reason != string(domain.FailNoContractorAvailable) {
		t.Fatalf("expected no_contractor_available, got %+v", body["reason"])
	}
	if runtime.store.WorkOrderCount() != 0 {
		t.Fatalf("no work order may exist, got %d", runtime.store.WorkOrderCount())
	}
}
