package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/model"
	"leadgram-backend/internal/repository"
	"leadgram-backend/internal/service"
	"leadgram-backend/internal/utils"
)

type ClientHandler struct {
	Service *service.ClientService
}

func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{Service: svc}
}

func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	filter := repository.ClientFilter{
		Status: model.ClientStatus(r.URL.Query().Get("status")),
		Source: model.MessageSource(r.URL.Query().Get("source")),
		Limit:  parseLimit(r, 50, 100),
	}

	clients, err := h.Service.GetClients(r.Context(), userID, filter)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}
	if clients == nil {
		clients = []*model.Client{}
	}

	utils.RawJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) GetRecentChats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	clients, err := h.Service.GetRecentChats(r.Context(), userID, parseLimit(r, 10, 20))
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch recent chats")
		return
	}
	if clients == nil {
		clients = []*model.Client{}
	}

	utils.RawJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	stats, err := h.Service.GetDashboardStats(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch dashboard stats")
		return
	}

	utils.RawJSON(w, http.StatusOK, stats)
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var data model.ClientCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.Name == "" || data.Source == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "name and source are required")
		return
	}

	client, err := h.Service.CreateClient(r.Context(), userID, data)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create client")
		return
	}

	utils.RawJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	clientID := mux.Vars(r)["id"]

	client, err := h.Service.GetClient(r.Context(), clientID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch client")
		return
	}
	if client == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	clientID := mux.Vars(r)["id"]

	var update model.ClientUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.Service.UpdateClient(r.Context(), clientID, userID, update)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to update client")
		return
	}
	if client == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, client)
}

// CallClient is a telephony placeholder: it validates the client and echoes
// the number to dial.
func (h *ClientHandler) CallClient(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	clientID := mux.Vars(r)["id"]

	client, err := h.Service.GetClient(r.Context(), clientID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch client")
		return
	}
	if client == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Calling %s", client.Name),
		"phone":   client.Phone,
	})
}

func (h *ClientHandler) CloseClient(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	clientID := mux.Vars(r)["id"]

	client, err := h.Service.CloseClient(r.Context(), clientID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to close client")
		return
	}
	if client == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	utils.SuccessResponse(w, http.StatusOK, nil, "Client closed successfully")
}
