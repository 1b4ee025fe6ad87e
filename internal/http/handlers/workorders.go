package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rentora/maintenance-back/internal/repository"
)

func (api *API) WorkOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	orderID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/v1/work-orders/"))
	if orderID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "work order id is required")
		return
	}

	order, err := api.store.GetWorkOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "work order not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to load work order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":                     order.ID,
		"maintenance_request_id": order.MaintenanceRequestID,
		"contractor_id":          order.ContractorID,
		"status":                 order.Status,
		"estimated_completion":   order.EstimatedCompletion,
		"notes":                  order.Notes,
		"created_at":             order.CreatedAt,
		"updated_at":             order.UpdatedAt,
	})
}
