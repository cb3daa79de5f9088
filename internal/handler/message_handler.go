package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/model"
	"leadgram-backend/internal/service"
	"leadgram-backend/internal/utils"
)

type MessageHandler struct {
	Service *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{Service: svc}
}

// GetRecentMessages serves the unified inbox.
func (h *MessageHandler) GetRecentMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	messages, err := h.Service.GetRecentMessages(r.Context(), userID, parseLimit(r, 50, 100))
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	utils.RawJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	count, err := h.Service.GetUnreadCount(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch unread count")
		return
	}

	utils.RawJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

func (h *MessageHandler) SearchMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	query := r.URL.Query().Get("query")
	if query == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "query is required")
		return
	}

	messages, err := h.Service.SearchMessages(r.Context(), userID, query, parseLimit(r, 50, 100))
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to search messages")
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	utils.RawJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) GetClientMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	clientID := mux.Vars(r)["id"]

	messages, err := h.Service.GetClientMessages(r.Context(), clientID, userID, parseLimit(r, 100, 500))
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch client messages")
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	utils.RawJSON(w, http.StatusOK, messages)
}

// CreateMessage stores a message, usually forwarded by a channel webhook.
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var data model.MessageCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if data.ClientID == "" || data.Content == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "client_id and content are required")
		return
	}
	if data.MessageType != model.MessageIncoming && data.MessageType != model.MessageOutgoing {
		utils.ErrorResponse(w, http.StatusBadRequest, "message_type must be incoming or outgoing")
		return
	}

	message, err := h.Service.CreateMessage(r.Context(), userID, data)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to create message")
		return
	}

	utils.RawJSON(w, http.StatusOK, message)
}

func (h *MessageHandler) SendResponse(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var data model.MessageResponse
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message, err := h.Service.SendResponse(r.Context(), userID, data)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to send response")
		return
	}
	if message == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	utils.RawJSON(w, http.StatusOK, message)
}

func (h *MessageHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	messageID := mux.Vars(r)["id"]

	ok, err := h.Service.MarkAsRead(r.Context(), messageID, userID)
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to mark message as read")
		return
	}
	if !ok {
		utils.ErrorResponse(w, http.StatusNotFound, "Message not found")
		return
	}

	utils.SuccessResponse(w, http.StatusOK, nil, "Message marked as read")
}
