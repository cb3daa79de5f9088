package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/model"
	"leadgram-backend/internal/repository"
	"leadgram-backend/internal/utils"
)

// ListingHandler works against the repository directly; listings have no
// business logic beyond ownership-scoped CRUD.
type ListingHandler struct {
	Repo *repository.ListingRepository
}

func NewListingHandler(repo *repository.ListingRepository) *ListingHandler {
	return &ListingHandler{Repo: repo}
}

func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	listings, err := h.Repo.GetListings(r.Context(), userID, parseLimit(r, 50, 100))
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	if listings == nil {
		listings = []*model.Listing{}
	}

	utils.RawJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var data model.ListingCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.Title == "" || data.Source == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "title and source are required")
		return
	}

	now := time.Now().UTC()
	listing := &model.Listing{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       data.Title,
		Description: data.Description,
		Price:       data.Price,
		Status:      model.ListingStatusActive,
		Source:      data.Source,
		ExternalID:  data.ExternalID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Repo.CreateListing(r.Context(), listing); err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create listing")
		return
	}

	utils.RawJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	listingID := mux.Vars(r)["id"]

	listing, err := h.Repo.GetListingByID(r.Context(), listingID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch listing")
		return
	}
	if listing == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Listing not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	listingID := mux.Vars(r)["id"]

	var update model.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing, err := h.Repo.UpdateListing(r.Context(), listingID, userID, update)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to update listing")
		return
	}
	if listing == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Listing not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	listingID := mux.Vars(r)["id"]

	ok, err := h.Repo.DeleteListing(r.Context(), listingID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete listing")
		return
	}
	if !ok {
		utils.ErrorResponse(w, http.StatusNotFound, "Listing not found")
		return
	}

	utils.SuccessResponse(w, http.StatusOK, nil, "Listing deleted successfully")
}
