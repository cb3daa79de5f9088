package handler

import (
	"encoding/json"
	"net/http"

	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/model"
	"leadgram-backend/internal/service"
	"leadgram-backend/internal/utils"
)

type AIHandler struct {
	Service *service.AIService
}

func NewAIHandler(svc *service.AIService) *AIHandler {
	return &AIHandler{Service: svc}
}

func (h *AIHandler) SuggestResponse(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req model.ResponseSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ClientID == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "client_id is required")
		return
	}

	resp, err := h.Service.SuggestResponse(r.Context(), userID, req.ClientID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate suggestions")
		return
	}
	if resp == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, resp)
}

func (h *AIHandler) CloseDealTips(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req model.ResponseSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ClientID == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "client_id is required")
		return
	}

	resp, err := h.Service.CloseDealTips(r.Context(), userID, req.ClientID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate tips")
		return
	}
	if resp == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, resp)
}

func (h *AIHandler) AnalyzeListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req model.ListingAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Service.AnalyzeListing(r.Context(), userID, req)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to analyze listing")
		return
	}

	utils.RawJSON(w, http.StatusOK, resp)
}

func (h *AIHandler) GenerateResponse(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req model.AIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Prompt == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "prompt is required")
		return
	}

	response := h.Service.GenerateResponse(r.Context(), userID, req)
	utils.RawJSON(w, http.StatusOK, map[string]string{"response": response})
}

func (h *AIHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	settings, err := h.Service.GetSettings(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch AI settings")
		return
	}

	utils.RawJSON(w, http.StatusOK, settings)
}

func (h *AIHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var settings model.AISettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.UpdateSettings(r.Context(), userID, settings); err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to update AI settings")
		return
	}

	utils.RawJSON(w, http.StatusOK, settings)
}
