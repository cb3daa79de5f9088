package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadgram-backend/internal/model"
)

type MessageStore interface {
	CreateMessage(ctx context.Context, message *model.Message) error
	GetRecentMessages(ctx context.Context, userID string, limit int) ([]*model.Message, error)
	GetClientMessages(ctx context.Context, clientID, userID string, limit int) ([]*model.Message, error)
	SearchMessages(ctx context.Context, userID, search string, limit int) ([]*model.Message, error)
	MarkAsRead(ctx context.Context, messageID, userID string) (bool, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
}

type MessageService struct {
	Store   MessageStore
	Clients ClientStore

	now func() time.Time
}

func NewMessageService(store MessageStore, clients ClientStore) *MessageService {
	return &MessageService{
		Store:   store,
		Clients: clients,
		now:     time.Now,
	}
}

// CreateMessage stores a message (typically arriving from a channel webhook)
// and bumps the owning client's activity timestamp and counter.
func (s *MessageService) CreateMessage(ctx context.Context, userID string, data model.MessageCreate) (*model.Message, error) {
	now := s.now().UTC()
	message := &model.Message{
		ID:          uuid.NewString(),
		UserID:      userID,
		ClientID:    data.ClientID,
		Content:     data.Content,
		MessageType: data.MessageType,
		Source:      data.Source,
		Timestamp:   now,
	}

	if err := s.Store.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	if err := s.Clients.TouchLastMessage(ctx, data.ClientID, userID, now); err != nil {
		return nil, err
	}

	return message, nil
}

// SendResponse writes an outgoing reply to the client. Returns nil when the
// client does not exist for this owner.
func (s *MessageService) SendResponse(ctx context.Context, userID string, data model.MessageResponse) (*model.Message, error) {
	client, err := s.Clients.GetClientByID(ctx, data.ClientID, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	return s.CreateMessage(ctx, userID, model.MessageCreate{
		ClientID:    data.ClientID,
		Content:     data.Content,
		MessageType: model.MessageOutgoing,
		Source:      model.SourceSystem,
	})
}

func (s *MessageService) GetRecentMessages(ctx context.Context, userID string, limit int) ([]*model.Message, error) {
	return s.Store.GetRecentMessages(ctx, userID, limit)
}

func (s *MessageService) GetClientMessages(ctx context.Context, clientID, userID string, limit int) ([]*model.Message, error) {
	return s.Store.GetClientMessages(ctx, clientID, userID, limit)
}

func (s *MessageService) SearchMessages(ctx context.Context, userID, search string, limit int) ([]*model.Message, error) {
	return s.Store.SearchMessages(ctx, userID, search, limit)
}

func (s *MessageService) MarkAsRead(ctx context.Context, messageID, userID string) (bool, error) {
	return s.Store.MarkAsRead(ctx, messageID, userID)
}

func (s *MessageService) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Store.GetUnreadCount(ctx, userID)
}
