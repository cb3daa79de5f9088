package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadgram-backend/internal/model"
	"leadgram-backend/internal/repository"
)

// ClientStore is the persistence surface ClientService needs; implemented by
// repository.ClientRepository and by in-memory fakes in tests.
type ClientStore interface {
	CreateClient(ctx context.Context, client *model.Client) error
	GetClients(ctx context.Context, userID string, filter repository.ClientFilter) ([]*model.Client, error)
	GetClientByID(ctx context.Context, clientID, userID string) (*model.Client, error)
	GetClientByContact(ctx context.Context, userID string, source model.MessageSource, phone, name string) (*model.Client, error)
	UpdateClient(ctx context.Context, clientID, userID string, update model.ClientUpdate) (*model.Client, error)
	TouchLastMessage(ctx context.Context, clientID, userID string, at time.Time) error
	GetRecentChats(ctx context.Context, userID string, limit int) ([]*model.Client, error)
	GetDashboardStats(ctx context.Context, userID string, dayAgo time.Time) (*model.DashboardStats, error)
}

type ClientService struct {
	Store ClientStore

	now func() time.Time
}

func NewClientService(store ClientStore) *ClientService {
	return &ClientService{
		Store: store,
		now:   time.Now,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, userID string, data model.ClientCreate) (*model.Client, error) {
	now := s.now().UTC()
	client := &model.Client{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         data.Name,
		Phone:        data.Phone,
		Source:       data.Source,
		Status:       model.ClientStatusNew,
		ListingID:    data.ListingID,
		ListingTitle: data.ListingTitle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) GetClients(ctx context.Context, userID string, filter repository.ClientFilter) ([]*model.Client, error) {
	return s.Store.GetClients(ctx, userID, filter)
}

func (s *ClientService) GetClient(ctx context.Context, clientID, userID string) (*model.Client, error) {
	return s.Store.GetClientByID(ctx, clientID, userID)
}

func (s *ClientService) UpdateClient(ctx context.Context, clientID, userID string, update model.ClientUpdate) (*model.Client, error) {
	return s.Store.UpdateClient(ctx, clientID, userID, update)
}

// CloseClient marks the conversation finished; closed clients stop feeding
// the no-recent-activity attention rule.
func (s *ClientService) CloseClient(ctx context.Context, clientID, userID string) (*model.Client, error) {
	closed := model.ClientStatusClosed
	return s.Store.UpdateClient(ctx, clientID, userID, model.ClientUpdate{Status: &closed})
}

func (s *ClientService) GetRecentChats(ctx context.Context, userID string, limit int) ([]*model.Client, error) {
	return s.Store.GetRecentChats(ctx, userID, limit)
}

func (s *ClientService) GetDashboardStats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	dayAgo := s.now().UTC().Add(-24 * time.Hour)
	return s.Store.GetDashboardStats(ctx, userID, dayAgo)
}
