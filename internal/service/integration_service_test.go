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

type fakeIntegrationStore struct {
	integrations map[string]*model.Integration
	lastSync     time.Time
}

func newFakeIntegrationStore(integrations ...*model.Integration) *fakeIntegrationStore {
	store := &fakeIntegrationStore{integrations: map[string]*model.Integration{}}
	for _, i := range integrations {
		store.integrations[i.ID] = i
	}
	return store
}

func (f *fakeIntegrationStore) CreateIntegration(_ context.Context, integration *model.Integration) error {
	copied := *integration
	f.integrations[integration.ID] = &copied
	return nil
}

func (f *fakeIntegrationStore) GetIntegrations(_ context.Context, userID string) ([]*model.Integration, error) {
	var out []*model.Integration
	for _, i := range f.integrations {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeIntegrationStore) GetIntegrationByID(_ context.Context, integrationID, userID string) (*model.Integration, error) {
	i, ok := f.integrations[integrationID]
	if !ok || i.UserID != userID {
		return nil, nil
	}
	return i, nil
}

func (f *fakeIntegrationStore) LookupIntegration(_ context.Context, integrationID string) (*model.Integration, error) {
	return f.integrations[integrationID], nil
}

func (f *fakeIntegrationStore) UpdateIntegration(_ context.Context, integrationID, userID string, update model.IntegrationUpdate) (*model.Integration, error) {
	i, ok := f.integrations[integrationID]
	if !ok || i.UserID != userID {
		return nil, nil
	}
	if update.Name != nil {
		i.Name = *update.Name
	}
	if update.Status != nil {
		i.Status = *update.Status
	}
	return i, nil
}

func (f *fakeIntegrationStore) DeleteIntegration(_ context.Context, integrationID, userID string) (bool, error) {
	i, ok := f.integrations[integrationID]
	if !ok || i.UserID != userID {
		return false, nil
	}
	delete(f.integrations, integrationID)
	return true, nil
}

func (f *fakeIntegrationStore) UpdateLastSync(_ context.Context, _ string, at time.Time) error {
	f.lastSync = at
	return nil
}

func newWebhookFixture(t *testing.T, kind model.IntegrationType) (*IntegrationService, *fakeClientStore, *fakeMessageStore, *fakeIntegrationStore) {
	t.Helper()

	clients := newFakeClientStore()
	messages := &fakeMessageStore{}
	integrations := newFakeIntegrationStore(&model.Integration{
		ID:     "int-1",
		UserID: "u1",
		Name:   "Inbound",
		Type:   kind,
		Status: model.IntegrationStatusActive,
	})

	svc := NewIntegrationService(
		integrations,
		NewClientService(clients),
		NewMessageService(messages, clients),
	)
	return svc, clients, messages, integrations
}

func TestProcessWebhookUnknownIntegration(t *testing.T) {
	svc, _, _, _ := newWebhookFixture(t, model.IntegrationOLX)

	found, err := svc.ProcessWebhook(context.Background(), "missing", []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestProcessWebhookOLXCreatesLead(t *testing.T) {
	svc, clients, messages, integrations := newWebhookFixture(t, model.IntegrationOLX)

	body := []byte(`{
		"client_name": "Boris",
		"phone": "+48123456789",
		"text": "Is the bike still for sale?",
		"listing_id": "olx-42",
		"listing_title": "Mountain bike"
	}`)

	found, err := svc.ProcessWebhook(context.Background(), "int-1", body)
	require.NoError(t, err)
	assert.True(t, found)

	stored, err := clients.GetClientByContact(context.Background(), "u1", model.SourceOLX, "+48123456789", "")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Boris", stored.Name)
	assert.Equal(t, "olx-42", stored.ListingID)
	assert.Equal(t, model.ClientStatusNew, stored.Status)

	require.Len(t, messages.messages, 1)
	assert.Equal(t, model.MessageIncoming, messages.messages[0].MessageType)
	assert.Equal(t, model.SourceOLX, messages.messages[0].Source)
	assert.Equal(t, "Is the bike still for sale?", messages.messages[0].Content)

	assert.False(t, integrations.lastSync.IsZero())
}

func TestProcessWebhookReusesExistingClient(t *testing.T) {
	svc, clients, messages, _ := newWebhookFixture(t, model.IntegrationWhatsapp)

	body := []byte(`{"from": "+48111222333", "name": "Anna", "text": "hello"}`)

	for i := 0; i < 2; i++ {
		found, err := svc.ProcessWebhook(context.Background(), "int-1", body)
		require.NoError(t, err)
		assert.True(t, found)
	}

	all, err := clients.GetClients(context.Background(), "u1", repository.ClientFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, messages.messages, 2)
}

func TestProcessWebhookTelegramPayload(t *testing.T) {
	svc, clients, _, _ := newWebhookFixture(t, model.IntegrationTelegram)

	body := []byte(`{"message": {"from": {"id": 42, "first_name": "Ivan", "last_name": "Petrov"}, "text": "hi"}}`)

	found, err := svc.ProcessWebhook(context.Background(), "int-1", body)
	require.NoError(t, err)
	assert.True(t, found)

	stored, err := clients.GetClientByContact(context.Background(), "u1", model.SourceTelegram, "", "Ivan Petrov")
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestProcessWebhookMalformedPayload(t *testing.T) {
	svc, _, messages, _ := newWebhookFixture(t, model.IntegrationOLX)

	found, err := svc.ProcessWebhook(context.Background(), "int-1", []byte(`{"phone": "+48"}`))
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrUnsupportedPayload)
	assert.Empty(t, messages.messages)
}

func TestProcessWebhookN8NPingOnlySyncs(t *testing.T) {
	svc, _, messages, integrations := newWebhookFixture(t, model.IntegrationN8N)

	found, err := svc.ProcessWebhook(context.Background(), "int-1", []byte(`{"event": "ping"}`))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, messages.messages)
	assert.False(t, integrations.lastSync.IsZero())
}
