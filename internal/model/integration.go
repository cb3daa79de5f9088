package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type IntegrationType string

const (
	IntegrationTelegram IntegrationType = "telegram"
	IntegrationWhatsapp IntegrationType = "whatsapp"
	IntegrationOLX      IntegrationType = "olx"
	IntegrationN8N      IntegrationType = "n8n"
)

type IntegrationStatus string

const (
	IntegrationStatusActive   IntegrationStatus = "active"
	IntegrationStatusInactive IntegrationStatus = "inactive"
	IntegrationStatusError    IntegrationStatus = "error"
)

// JSONMap is a jsonb column holding free-form configuration.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}

type Integration struct {
	ID         string            `json:"id"`
	UserID     string            `json:"-"`
	Name       string            `json:"name"`
	Type       IntegrationType   `json:"type"`
	Status     IntegrationStatus `json:"status"`
	Config     JSONMap           `json:"config"`
	WebhookURL string            `json:"webhook_url,omitempty"`
	LastSyncAt *time.Time        `json:"last_sync_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type IntegrationCreate struct {
	Name   string          `json:"name"`
	Type   IntegrationType `json:"type"`
	Config JSONMap         `json:"config"`
}

type IntegrationUpdate struct {
	Name   *string            `json:"name"`
	Status *IntegrationStatus `json:"status"`
	Config *JSONMap           `json:"config"`
}
