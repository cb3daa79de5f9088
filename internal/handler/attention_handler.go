package handler

import (
	"net/http"

	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/service"
	"leadgram-backend/internal/utils"
)

type AttentionHandler struct {
	Service *service.AttentionService
}

func NewAttentionHandler(svc *service.AttentionService) *AttentionHandler {
	return &AttentionHandler{Service: svc}
}

// GetListings returns the prioritized list of listings requiring attention.
// A store failure fails the whole request; no partial list is ever written.
func (h *AttentionHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	listings, err := h.Service.GetListingsRequiringAttention(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch attention listings")
		return
	}

	utils.RawJSON(w, http.StatusOK, listings)
}

func (h *AttentionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	summary, err := h.Service.GetAttentionSummary(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch attention summary")
		return
	}

	utils.RawJSON(w, http.StatusOK, summary)
}
