package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rentora/maintenance-back/internal/domain"
	"github.com/rentora/maintenance-back/internal/repository"
)

type assignmentRequest struct {
	MaintenanceRequestID string `json:"maintenance_request_id"`
}

// EnqueueAssignment accepts a triage job for asynchronous processing. The
// request must exist and still be OPEN; the actual assignment happens on
// the worker.
func (api *API) EnqueueAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var payload assignmentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid payload")
		return
	}
	requestID := strings.TrimSpace(payload.MaintenanceRequestID)
	if requestID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "maintenance_request_id is required")
		return
	}

	request, err := api.store.GetRequest(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "maintenance request not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to load maintenance request")
		return
	}
	if request.Status != domain.RequestStatusOpen {
		writeError(w, r, http.StatusConflict, "request_not_open", "maintenance request is not open for assignment")
		return
	}

	message := domain.TriageMessage{
		MaintenanceRequestID: request.ID,
		OrgID:                request.OrgID,
		RequestedAt:          time.Now().UTC(),
	}
	if err := api.producer.Enqueue(r.Context(), message); err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to enqueue triage job")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":                 "queued",
		"maintenance_request_id": request.ID,
	})
}

// RunAssignment executes the full triage pipeline synchronously and returns
// its result. Terminal failures are part of the result body, not HTTP
// errors; only an unknown request maps to 404.
func (api *API) RunAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var payload assignmentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid payload")
		return
	}
	requestID := strings.TrimSpace(payload.MaintenanceRequestID)
	if requestID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "maintenance_request_id is required")
		return
	}

	if _, err := api.store.GetRequest(r.Context(), requestID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "maintenance request not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to load maintenance request")
		return
	}

	result := api.orchestrator.RunAutoAssignment(r.Context(), requestID)
	writeJSON(w, http.StatusOK, result)
}
