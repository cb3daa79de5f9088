package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"leadgram-backend/internal/model"
)

type IntegrationStore interface {
	CreateIntegration(ctx context.Context, integration *model.Integration) error
	GetIntegrations(ctx context.Context, userID string) ([]*model.Integration, error)
	GetIntegrationByID(ctx context.Context, integrationID, userID string) (*model.Integration, error)
	LookupIntegration(ctx context.Context, integrationID string) (*model.Integration, error)
	UpdateIntegration(ctx context.Context, integrationID, userID string, update model.IntegrationUpdate) (*model.Integration, error)
	DeleteIntegration(ctx context.Context, integrationID, userID string) (bool, error)
	UpdateLastSync(ctx context.Context, integrationID string, at time.Time) error
}

var ErrUnsupportedPayload = errors.New("unsupported webhook payload")

// IntegrationService manages channel integrations and ingests their inbound
// webhooks: each channel payload is normalized into a client lookup plus an
// incoming message.
type IntegrationService struct {
	Store    IntegrationStore
	Clients  *ClientService
	Messages *MessageService

	now func() time.Time
}

func NewIntegrationService(store IntegrationStore, clients *ClientService, messages *MessageService) *IntegrationService {
	return &IntegrationService{
		Store:    store,
		Clients:  clients,
		Messages: messages,
		now:      time.Now,
	}
}

func (s *IntegrationService) CreateIntegration(ctx context.Context, userID string, data model.IntegrationCreate) (*model.Integration, error) {
	integration := &model.Integration{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      data.Name,
		Type:      data.Type,
		Status:    model.IntegrationStatusInactive,
		Config:    data.Config,
		CreatedAt: s.now().UTC(),
	}
	if integration.Config == nil {
		integration.Config = model.JSONMap{}
	}

	if err := s.Store.CreateIntegration(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

func (s *IntegrationService) GetIntegrations(ctx context.Context, userID string) ([]*model.Integration, error) {
	return s.Store.GetIntegrations(ctx, userID)
}

func (s *IntegrationService) GetIntegration(ctx context.Context, integrationID, userID string) (*model.Integration, error) {
	return s.Store.GetIntegrationByID(ctx, integrationID, userID)
}

func (s *IntegrationService) UpdateIntegration(ctx context.Context, integrationID, userID string, update model.IntegrationUpdate) (*model.Integration, error) {
	return s.Store.UpdateIntegration(ctx, integrationID, userID, update)
}

func (s *IntegrationService) DeleteIntegration(ctx context.Context, integrationID, userID string) (bool, error) {
	return s.Store.DeleteIntegration(ctx, integrationID, userID)
}

// inboundLead is the channel-neutral shape a webhook payload normalizes to.
type inboundLead struct {
	Name         string
	Phone        string
	Content      string
	ListingID    string
	ListingTitle string
}

// ProcessWebhook ingests one inbound channel event. The owner comes from the
// integration record, never from the payload. Returns false when the
// integration does not exist.
func (s *IntegrationService) ProcessWebhook(ctx context.Context, integrationID string, body []byte) (bool, error) {
	integration, err := s.Store.LookupIntegration(ctx, integrationID)
	if err != nil {
		return false, err
	}
	if integration == nil {
		return false, nil
	}

	lead, err := parseWebhookPayload(integration.Type, body)
	if err != nil {
		return true, err
	}

	if lead != nil {
		if err := s.ingestLead(ctx, integration, lead); err != nil {
			return true, err
		}
	}

	return true, s.Store.UpdateLastSync(ctx, integrationID, s.now().UTC())
}

func (s *IntegrationService) ingestLead(ctx context.Context, integration *model.Integration, lead *inboundLead) error {
	source := model.MessageSource(integration.Type)

	client, err := s.Clients.Store.GetClientByContact(ctx, integration.UserID, source, lead.Phone, lead.Name)
	if err != nil {
		return err
	}
	if client == nil {
		client, err = s.Clients.CreateClient(ctx, integration.UserID, model.ClientCreate{
			Name:         lead.Name,
			Phone:        lead.Phone,
			Source:       source,
			ListingID:    lead.ListingID,
			ListingTitle: lead.ListingTitle,
		})
		if err != nil {
			return err
		}
		log.Info().
			Str("client_id", client.ID).
			Str("source", string(source)).
			Msg("webhook created new lead")
	}

	_, err = s.Messages.CreateMessage(ctx, integration.UserID, model.MessageCreate{
		ClientID:    client.ID,
		Content:     lead.Content,
		MessageType: model.MessageIncoming,
		Source:      source,
	})
	return err
}

// parseWebhookPayload normalizes a channel payload. A nil lead with nil error
// means the event carries nothing to ingest (e.g. an n8n callback ping).
func parseWebhookPayload(kind model.IntegrationType, body []byte) (*inboundLead, error) {
	switch kind {
	case model.IntegrationTelegram:
		return parseTelegramPayload(body)
	case model.IntegrationWhatsapp:
		return parseWhatsappPayload(body)
	case model.IntegrationOLX:
		return parseOLXPayload(body)
	case model.IntegrationN8N:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown integration type %q", ErrUnsupportedPayload, kind)
	}
}

func parseTelegramPayload(body []byte) (*inboundLead, error) {
	var update struct {
		Message struct {
			From struct {
				ID        int64  `json:"id"`
				FirstName string `json:"first_name"`
				LastName  string `json:"last_name"`
				Username  string `json:"username"`
			} `json:"from"`
			Text string `json:"text"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
	}
	if update.Message.Text == "" {
		return nil, ErrUnsupportedPayload
	}

	name := update.Message.From.FirstName
	if update.Message.From.LastName != "" {
		name += " " + update.Message.From.LastName
	}
	if name == "" {
		name = update.Message.From.Username
	}
	if name == "" {
		name = "Telegram user"
	}

	return &inboundLead{Name: name, Content: update.Message.Text}, nil
}

func parseWhatsappPayload(body []byte) (*inboundLead, error) {
	var event struct {
		From string `json:"from"`
		Name string `json:"name"`
		Text string `json:"text"`
		Body string `json:"body"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
	}

	content := event.Text
	if content == "" {
		content = event.Body
	}
	if content == "" {
		return nil, ErrUnsupportedPayload
	}

	name := event.Name
	if name == "" {
		name = event.From
	}
	if name == "" {
		name = "WhatsApp user"
	}

	return &inboundLead{Name: name, Phone: event.From, Content: content}, nil
}

func parseOLXPayload(body []byte) (*inboundLead, error) {
	var event struct {
		ClientName   string `json:"client_name"`
		Phone        string `json:"phone"`
		Text         string `json:"text"`
		ListingID    string `json:"listing_id"`
		ListingTitle string `json:"listing_title"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
	}
	if event.Text == "" {
		return nil, ErrUnsupportedPayload
	}

	name := event.ClientName
	if name == "" {
		name = "OLX buyer"
	}

	return &inboundLead{
		Name:         name,
		Phone:        event.Phone,
		Content:      event.Text,
		ListingID:    event.ListingID,
		ListingTitle: event.ListingTitle,
	}, nil
}
