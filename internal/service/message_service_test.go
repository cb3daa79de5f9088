package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgram-backend/internal/model"
)

type fakeMessageStore struct {
	messages []*model.Message
}

func (f *fakeMessageStore) CreateMessage(_ context.Context, message *model.Message) error {
	copied := *message
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeMessageStore) GetRecentMessages(_ context.Context, userID string, limit int) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageStore) GetClientMessages(_ context.Context, clientID, userID string, _ int) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range f.messages {
		if m.UserID == userID && m.ClientID == clientID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) SearchMessages(_ context.Context, userID, search string, _ int) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range f.messages {
		if m.UserID == userID && strings.Contains(strings.ToLower(m.Content), strings.ToLower(search)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) MarkAsRead(_ context.Context, messageID, userID string) (bool, error) {
	for _, m := range f.messages {
		if m.ID == messageID && m.UserID == userID {
			m.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessageStore) GetUnreadCount(_ context.Context, userID string) (int, error) {
	count := 0
	for _, m := range f.messages {
		if m.UserID == userID && m.MessageType == model.MessageIncoming && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func TestCreateMessageTouchesClient(t *testing.T) {
	clients := newFakeClientStore()
	store := &fakeMessageStore{}
	svc := NewMessageService(store, clients)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	client, err := NewClientService(clients).CreateClient(context.Background(), "u1", model.ClientCreate{
		Name:   "Anna",
		Source: model.SourceTelegram,
	})
	require.NoError(t, err)

	message, err := svc.CreateMessage(context.Background(), "u1", model.MessageCreate{
		ClientID:    client.ID,
		Content:     "Is it still available?",
		MessageType: model.MessageIncoming,
		Source:      model.SourceTelegram,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, message.ID)
	assert.Equal(t, fixed, message.Timestamp)
	assert.Equal(t, fixed, clients.lastTouch)

	stored, err := clients.GetClientByID(context.Background(), client.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastMessageAt)
	assert.Equal(t, fixed, *stored.LastMessageAt)
	assert.Equal(t, 1, stored.MessagesCount)
}

func TestSendResponseUnknownClient(t *testing.T) {
	svc := NewMessageService(&fakeMessageStore{}, newFakeClientStore())

	message, err := svc.SendResponse(context.Background(), "u1", model.MessageResponse{
		ClientID: "missing",
		Content:  "hello",
	})
	require.NoError(t, err)
	assert.Nil(t, message)
}

func TestSendResponseIsOutgoingSystem(t *testing.T) {
	clients := newFakeClientStore()
	store := &fakeMessageStore{}
	svc := NewMessageService(store, clients)

	client, err := NewClientService(clients).CreateClient(context.Background(), "u1", model.ClientCreate{
		Name:   "Anna",
		Source: model.SourceWhatsapp,
	})
	require.NoError(t, err)

	message, err := svc.SendResponse(context.Background(), "u1", model.MessageResponse{
		ClientID: client.ID,
		Content:  "Yes, still available",
	})
	require.NoError(t, err)
	require.NotNil(t, message)

	assert.Equal(t, model.MessageOutgoing, message.MessageType)
	assert.Equal(t, model.SourceSystem, message.Source)
	assert.Equal(t, "Yes, still available", message.Content)
}

func TestUnreadCountOnlyIncoming(t *testing.T) {
	clients := newFakeClientStore()
	store := &fakeMessageStore{}
	svc := NewMessageService(store, clients)

	client, err := NewClientService(clients).CreateClient(context.Background(), "u1", model.ClientCreate{
		Name:   "Anna",
		Source: model.SourceTelegram,
	})
	require.NoError(t, err)

	in, err := svc.CreateMessage(context.Background(), "u1", model.MessageCreate{
		ClientID: client.ID, Content: "hi", MessageType: model.MessageIncoming, Source: model.SourceTelegram,
	})
	require.NoError(t, err)
	_, err = svc.CreateMessage(context.Background(), "u1", model.MessageCreate{
		ClientID: client.ID, Content: "hello", MessageType: model.MessageOutgoing, Source: model.SourceSystem,
	})
	require.NoError(t, err)

	count, err := svc.GetUnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ok, err := svc.MarkAsRead(context.Background(), in.ID, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	count, err = svc.GetUnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
