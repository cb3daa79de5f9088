package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type AutomationTrigger string

const (
	TriggerNewMessage AutomationTrigger = "new_message"
	TriggerNoResponse AutomationTrigger = "no_response"
	TriggerTimeBased  AutomationTrigger = "time_based"
	TriggerManual     AutomationTrigger = "manual"
)

type AutomationStatus string

const (
	AutomationStatusActive   AutomationStatus = "active"
	AutomationStatusInactive AutomationStatus = "inactive"
	AutomationStatusPaused   AutomationStatus = "paused"
)

// JSONList is a jsonb column holding an ordered list of action objects.
type JSONList []map[string]interface{}

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

func (l *JSONList) Scan(value interface{}) error {
	if value == nil {
		*l = JSONList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

type Automation struct {
	ID            string            `json:"id"`
	UserID        string            `json:"-"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Trigger       AutomationTrigger `json:"trigger"`
	Conditions    JSONMap           `json:"conditions"`
	Actions       JSONList          `json:"actions"`
	Status        AutomationStatus  `json:"status"`
	N8NWorkflowID string            `json:"n8n_workflow_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type AutomationCreate struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Trigger       AutomationTrigger `json:"trigger"`
	Conditions    JSONMap           `json:"conditions"`
	Actions       JSONList          `json:"actions"`
	N8NWorkflowID string            `json:"n8n_workflow_id"`
}

type AutomationUpdate struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description"`
	Conditions    *JSONMap          `json:"conditions"`
	Actions       *JSONList         `json:"actions"`
	Status        *AutomationStatus `json:"status"`
	N8NWorkflowID *string           `json:"n8n_workflow_id"`
}

// AutomationLog is one recorded execution of an automation, written on every
// manual trigger.
type AutomationLog struct {
	ID           string    `json:"id"`
	AutomationID string    `json:"automation_id"`
	UserID       string    `json:"-"`
	TriggerData  JSONMap   `json:"trigger_data"`
	Status       string    `json:"status"`
	ExecutedAt   time.Time `json:"executed_at"`
}

// AutomationTemplate is a canned starting point surfaced by the templates
// endpoint; it is never persisted as-is.
type AutomationTemplate struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Trigger     AutomationTrigger `json:"trigger"`
	Conditions  JSONMap           `json:"conditions,omitempty"`
	Actions     JSONList          `json:"actions"`
}
