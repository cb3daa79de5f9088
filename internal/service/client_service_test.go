package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgram-backend/internal/model"
	"leadgram-backend/internal/repository"
)

// fakeClientStore keeps clients in memory, scoped per owner like the real
// repository.
type fakeClientStore struct {
	clients map[string]*model.Client

	lastTouch     time.Time
	lastStatsFrom time.Time
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: map[string]*model.Client{}}
}

func (f *fakeClientStore) CreateClient(_ context.Context, client *model.Client) error {
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

func (f *fakeClientStore) GetClients(_ context.Context, userID string, _ repository.ClientFilter) ([]*model.Client, error) {
	var out []*model.Client
	for _, c := range f.clients {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClientStore) GetClientByID(_ context.Context, clientID, userID string) (*model.Client, error) {
	c, ok := f.clients[clientID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

func (f *fakeClientStore) GetClientByContact(_ context.Context, userID string, source model.MessageSource, phone, name string) (*model.Client, error) {
	for _, c := range f.clients {
		if c.UserID != userID || c.Source != source {
			continue
		}
		if phone != "" && c.Phone == phone {
			return c, nil
		}
		if phone == "" && c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeClientStore) UpdateClient(_ context.Context, clientID, userID string, update model.ClientUpdate) (*model.Client, error) {
	c, ok := f.clients[clientID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	if update.Status != nil {
		c.Status = *update.Status
	}
	if update.Name != nil {
		c.Name = *update.Name
	}
	return c, nil
}

func (f *fakeClientStore) TouchLastMessage(_ context.Context, clientID, userID string, at time.Time) error {
	f.lastTouch = at
	if c, ok := f.clients[clientID]; ok && c.UserID == userID {
		c.LastMessageAt = &at
		c.MessagesCount++
	}
	return nil
}

func (f *fakeClientStore) GetRecentChats(_ context.Context, userID string, _ int) ([]*model.Client, error) {
	return f.GetClients(context.Background(), userID, repository.ClientFilter{})
}

func (f *fakeClientStore) GetDashboardStats(_ context.Context, _ string, dayAgo time.Time) (*model.DashboardStats, error) {
	f.lastStatsFrom = dayAgo
	return &model.DashboardStats{}, nil
}

func TestCreateClientDefaults(t *testing.T) {
	store := newFakeClientStore()
	svc := NewClientService(store)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	client, err := svc.CreateClient(context.Background(), "u1", model.ClientCreate{
		Name:   "Anna",
		Source: model.SourceTelegram,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "u1", client.UserID)
	assert.Equal(t, model.ClientStatusNew, client.Status)
	assert.Equal(t, fixed, client.CreatedAt)
	assert.Nil(t, client.LastMessageAt)

	stored, err := svc.GetClient(context.Background(), client.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Anna", stored.Name)
}

func TestGetClientWrongOwner(t *testing.T) {
	store := newFakeClientStore()
	svc := NewClientService(store)

	client, err := svc.CreateClient(context.Background(), "u1", model.ClientCreate{
		Name:   "Anna",
		Source: model.SourceTelegram,
	})
	require.NoError(t, err)

	got, err := svc.GetClient(context.Background(), client.ID, "u2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCloseClient(t *testing.T) {
	store := newFakeClientStore()
	svc := NewClientService(store)

	client, err := svc.CreateClient(context.Background(), "u1", model.ClientCreate{
		Name:   "Anna",
		Source: model.SourceOLX,
	})
	require.NoError(t, err)

	closed, err := svc.CloseClient(context.Background(), client.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.Equal(t, model.ClientStatusClosed, closed.Status)
}

func TestDashboardStatsWindow(t *testing.T) {
	store := newFakeClientStore()
	svc := NewClientService(store)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.GetDashboardStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(-24*time.Hour), store.lastStatsFrom)
}
