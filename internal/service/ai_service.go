package service

import (
	"context"
	"strings"

	"leadgram-backend/internal/model"
)

type AISettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*model.AISettings, error)
	SaveSettings(ctx context.Context, userID string, settings model.AISettings) error
}

// AIService backs the assistant endpoints. The suggestions are canned: the
// product ships the UI before the model integration, so the service validates
// inputs, consults history where the real implementation will, and returns
// fixed texts.
type AIService struct {
	Clients  ClientStore
	Messages MessageStore
	Settings AISettingsStore
}

func NewAIService(clients ClientStore, messages MessageStore, settings AISettingsStore) *AIService {
	return &AIService{
		Clients:  clients,
		Messages: messages,
		Settings: settings,
	}
}

// SuggestResponse proposes replies for the conversation. Returns nil when the
// client does not exist for this owner.
func (s *AIService) SuggestResponse(ctx context.Context, userID, clientID string) (*model.AIResponse, error) {
	client, err := s.Clients.GetClientByID(ctx, clientID, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	// Recent history is fetched so the eventual model call has its context;
	// the canned suggestions ignore it for now.
	if _, err := s.Messages.GetClientMessages(ctx, clientID, userID, 10); err != nil {
		return nil, err
	}

	suggestions := []string{
		"Thanks for your interest! The item is still available.",
		"Yes, we can meet for a viewing. When works for you?",
		"The price is negotiable. Happy to consider reasonable offers.",
	}

	return &model.AIResponse{Response: suggestions[0], Suggestions: suggestions}, nil
}

func (s *AIService) CloseDealTips(ctx context.Context, userID, clientID string) (*model.AIResponse, error) {
	client, err := s.Clients.GetClientByID(ctx, clientID, userID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	tips := []string{
		"Create a sense of urgency: 'I'm leaving tomorrow, can we meet today?'",
		"Offer a small discount for a quick decision",
		"Mention interest from other buyers",
		"Highlight the item's unique advantages",
	}

	return &model.AIResponse{
		Response:    "A few tips for closing the deal:",
		Suggestions: tips,
	}, nil
}

func (s *AIService) AnalyzeListing(ctx context.Context, userID string, req model.ListingAnalysisRequest) (*model.AIResponse, error) {
	suggestions := []string{
		"Add more photos of the item",
		"Specify the exact location",
		"Describe the item's condition",
		"Use more attractive keywords",
	}

	return &model.AIResponse{
		Response:    "The listing looks good, but could be improved:",
		Suggestions: suggestions,
	}, nil
}

// GenerateResponse picks a canned reply by keyword until the real model
// integration lands.
func (s *AIService) GenerateResponse(ctx context.Context, userID string, req model.AIRequest) string {
	prompt := strings.ToLower(req.Prompt)

	switch {
	case strings.Contains(prompt, "price") || strings.Contains(prompt, "cost"):
		return "The price is listed in the ad. Happy to consider reasonable offers."
	case strings.Contains(prompt, "meet") || strings.Contains(prompt, "viewing"):
		return "Of course! I can show you the item. When would be convenient to meet?"
	case strings.Contains(prompt, "condition") || strings.Contains(prompt, "quality"):
		return "The item is in excellent condition, ready to use."
	default:
		return "Thanks for your interest in the listing! Happy to answer any questions."
	}
}

func (s *AIService) GetSettings(ctx context.Context, userID string) (model.AISettings, error) {
	settings, err := s.Settings.GetSettings(ctx, userID)
	if err != nil {
		return model.AISettings{}, err
	}
	if settings == nil {
		return model.DefaultAISettings(), nil
	}
	return *settings, nil
}

func (s *AIService) UpdateSettings(ctx context.Context, userID string, settings model.AISettings) error {
	return s.Settings.SaveSettings(ctx, userID, settings)
}
