package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/model"
	"leadgram-backend/internal/service"
	"leadgram-backend/internal/utils"
)

type AutomationHandler struct {
	Service *service.AutomationService
}

func NewAutomationHandler(svc *service.AutomationService) *AutomationHandler {
	return &AutomationHandler{Service: svc}
}

func (h *AutomationHandler) GetAutomations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	automations, err := h.Service.GetAutomations(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch automations")
		return
	}
	if automations == nil {
		automations = []*model.Automation{}
	}

	utils.RawJSON(w, http.StatusOK, automations)
}

func (h *AutomationHandler) CreateAutomation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var data model.AutomationCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.Name == "" || data.Trigger == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "name and trigger are required")
		return
	}

	auto, err := h.Service.CreateAutomation(r.Context(), userID, data)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create automation")
		return
	}

	utils.RawJSON(w, http.StatusOK, auto)
}

// GetTemplates serves the canned automation templates. Registered before the
// {id} routes so "templates" is never taken for an automation id.
func (h *AutomationHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	utils.RawJSON(w, http.StatusOK, h.Service.Templates())
}

func (h *AutomationHandler) GetAutomation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	automationID := mux.Vars(r)["id"]

	auto, err := h.Service.GetAutomation(r.Context(), automationID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch automation")
		return
	}
	if auto == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Automation not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, auto)
}

func (h *AutomationHandler) UpdateAutomation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	automationID := mux.Vars(r)["id"]

	var update model.AutomationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	auto, err := h.Service.UpdateAutomation(r.Context(), automationID, userID, update)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to update automation")
		return
	}
	if auto == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Automation not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, auto)
}

func (h *AutomationHandler) DeleteAutomation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	automationID := mux.Vars(r)["id"]

	ok, err := h.Service.DeleteAutomation(r.Context(), automationID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete automation")
		return
	}
	if !ok {
		utils.ErrorResponse(w, http.StatusNotFound, "Automation not found")
		return
	}

	utils.SuccessResponse(w, http.StatusOK, nil, "Automation deleted successfully")
}

func (h *AutomationHandler) TriggerAutomation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	automationID := mux.Vars(r)["id"]

	var data model.JSONMap
	if r.Body != nil {
		// The trigger body is optional context data, ignore decode errors on
		// an empty body.
		_ = json.NewDecoder(r.Body).Decode(&data)
	}
	if data == nil {
		data = model.JSONMap{}
	}

	result, err := h.Service.TriggerAutomation(r.Context(), automationID, userID, data)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to trigger automation")
		return
	}
	if result == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Automation not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, result)
}

func (h *AutomationHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	automationID := mux.Vars(r)["id"]

	logs, err := h.Service.GetLogs(r.Context(), automationID, userID, parseLimit(r, 50, 200))
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch automation logs")
		return
	}
	if logs == nil {
		logs = []*model.AutomationLog{}
	}

	utils.RawJSON(w, http.StatusOK, logs)
}

// TestAutomation dry-runs an automation: it validates ownership and echoes the
// test data without firing the workflow or writing a log entry.
func (h *AutomationHandler) TestAutomation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	automationID := mux.Vars(r)["id"]

	var data model.JSONMap
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&data)
	}
	if data == nil {
		data = model.JSONMap{}
	}

	auto, err := h.Service.GetAutomation(r.Context(), automationID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch automation")
		return
	}
	if auto == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Automation not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, map[string]interface{}{
		"message":     fmt.Sprintf("Automation '%s' tested successfully", auto.Name),
		"test_result": "passed",
		"test_data":   data,
	})
}
