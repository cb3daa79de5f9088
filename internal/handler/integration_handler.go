package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/model"
	"leadgram-backend/internal/service"
	"leadgram-backend/internal/utils"
)

type IntegrationHandler struct {
	Service *service.IntegrationService
}

func NewIntegrationHandler(svc *service.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{Service: svc}
}

func (h *IntegrationHandler) GetIntegrations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	integrations, err := h.Service.GetIntegrations(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch integrations")
		return
	}
	if integrations == nil {
		integrations = []*model.Integration{}
	}

	utils.RawJSON(w, http.StatusOK, integrations)
}

func (h *IntegrationHandler) CreateIntegration(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var data model.IntegrationCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.Name == "" || data.Type == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "name and type are required")
		return
	}

	integration, err := h.Service.CreateIntegration(r.Context(), userID, data)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create integration")
		return
	}

	utils.RawJSON(w, http.StatusOK, integration)
}

func (h *IntegrationHandler) GetIntegration(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	integrationID := mux.Vars(r)["id"]

	integration, err := h.Service.GetIntegration(r.Context(), integrationID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch integration")
		return
	}
	if integration == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Integration not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, integration)
}

func (h *IntegrationHandler) UpdateIntegration(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	integrationID := mux.Vars(r)["id"]

	var update model.IntegrationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	integration, err := h.Service.UpdateIntegration(r.Context(), integrationID, userID, update)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to update integration")
		return
	}
	if integration == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Integration not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, integration)
}

func (h *IntegrationHandler) DeleteIntegration(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	integrationID := mux.Vars(r)["id"]

	ok, err := h.Service.DeleteIntegration(r.Context(), integrationID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete integration")
		return
	}
	if !ok {
		utils.ErrorResponse(w, http.StatusNotFound, "Integration not found")
		return
	}

	utils.SuccessResponse(w, http.StatusOK, nil, "Integration deleted successfully")
}

// HandleWebhook ingests an inbound channel event. Unauthenticated: the
// integration id routes the event to its owner.
func (h *IntegrationHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	integrationID := mux.Vars(r)["id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	found, err := h.Service.ProcessWebhook(r.Context(), integrationID, body)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedPayload) {
			utils.ErrorResponse(w, http.StatusBadRequest, "Unsupported webhook payload")
			return
		}
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to process webhook")
		return
	}
	if !found {
		utils.ErrorResponse(w, http.StatusNotFound, "Integration not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, map[string]string{"message": "Webhook processed successfully"})
}

// TestIntegration simulates a test event without touching any channel.
func (h *IntegrationHandler) TestIntegration(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	integrationID := mux.Vars(r)["id"]

	integration, err := h.Service.GetIntegration(r.Context(), integrationID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch integration")
		return
	}
	if integration == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Integration not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Integration %s tested successfully", integration.Name),
		"status":  "ok",
	})
}
