package model

type AIRequest struct {
	Prompt  string  `json:"prompt"`
	Context JSONMap `json:"context"`
}

type AIResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

type ResponseSuggestionRequest struct {
	ClientID            string   `json:"client_id"`
	ConversationHistory []string `json:"conversation_history"`
}

type ListingAnalysisRequest struct {
	ListingID   string `json:"listing_id"`
	ListingText string `json:"listing_text"`
}

// AISettings is the per-user assistant configuration blob.
type AISettings struct {
	Enabled          bool   `json:"enabled"`
	AutoSuggest      bool   `json:"auto_suggest"`
	Language         string `json:"language"`
	ResponseTone     string `json:"response_tone"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

func DefaultAISettings() AISettings {
	return AISettings{
		Enabled:          false,
		AutoSuggest:      true,
		Language:         "en",
		ResponseTone:     "professional",
		APIKeyConfigured: false,
	}
}
