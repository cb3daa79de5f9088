package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadgram-backend/internal/automation"
	"leadgram-backend/internal/model"
)

type AutomationStore interface {
	CreateAutomation(ctx context.Context, automation *model.Automation) error
	GetAutomations(ctx context.Context, userID string) ([]*model.Automation, error)
	GetAutomationByID(ctx context.Context, automationID, userID string) (*model.Automation, error)
	UpdateAutomation(ctx context.Context, automationID, userID string, update model.AutomationUpdate) (*model.Automation, error)
	DeleteAutomation(ctx context.Context, automationID, userID string) (bool, error)
	CreateLog(ctx context.Context, entry *model.AutomationLog) error
	GetLogs(ctx context.Context, automationID, userID string, limit int) ([]*model.AutomationLog, error)
}

type WorkflowTrigger interface {
	TriggerWorkflow(ctx context.Context, workflowID string, payload automation.TriggerPayload) (model.JSONMap, error)
}

type AutomationService struct {
	Store    AutomationStore
	Workflow WorkflowTrigger

	now func() time.Time
}

func NewAutomationService(store AutomationStore, workflow WorkflowTrigger) *AutomationService {
	return &AutomationService{
		Store:    store,
		Workflow: workflow,
		now:      time.Now,
	}
}

func (s *AutomationService) CreateAutomation(ctx context.Context, userID string, data model.AutomationCreate) (*model.Automation, error) {
	now := s.now().UTC()
	auto := &model.Automation{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          data.Name,
		Description:   data.Description,
		Trigger:       data.Trigger,
		Conditions:    data.Conditions,
		Actions:       data.Actions,
		Status:        model.AutomationStatusInactive,
		N8NWorkflowID: data.N8NWorkflowID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if auto.Conditions == nil {
		auto.Conditions = model.JSONMap{}
	}
	if auto.Actions == nil {
		auto.Actions = model.JSONList{}
	}

	if err := s.Store.CreateAutomation(ctx, auto); err != nil {
		return nil, err
	}
	return auto, nil
}

func (s *AutomationService) GetAutomations(ctx context.Context, userID string) ([]*model.Automation, error) {
	return s.Store.GetAutomations(ctx, userID)
}

func (s *AutomationService) GetAutomation(ctx context.Context, automationID, userID string) (*model.Automation, error) {
	return s.Store.GetAutomationByID(ctx, automationID, userID)
}

func (s *AutomationService) UpdateAutomation(ctx context.Context, automationID, userID string, update model.AutomationUpdate) (*model.Automation, error) {
	return s.Store.UpdateAutomation(ctx, automationID, userID, update)
}

func (s *AutomationService) DeleteAutomation(ctx context.Context, automationID, userID string) (bool, error) {
	return s.Store.DeleteAutomation(ctx, automationID, userID)
}

// TriggerAutomation runs the automation by hand: fires its n8n workflow when
// one is configured (a bare automation still triggers, it just has nothing to
// call) and records the execution in the log. Returns nil result when the
// automation does not exist for this owner.
func (s *AutomationService) TriggerAutomation(ctx context.Context, automationID, userID string, data model.JSONMap) (model.JSONMap, error) {
	auto, err := s.Store.GetAutomationByID(ctx, automationID, userID)
	if err != nil {
		return nil, err
	}
	if auto == nil {
		return nil, nil
	}

	result := model.JSONMap{}
	if auto.N8NWorkflowID != "" {
		payload := automation.TriggerPayload{
			AutomationID: auto.ID,
			UserID:       userID,
			Trigger:      auto.Trigger,
			Data:         data,
		}
		result, err = s.Workflow.TriggerWorkflow(ctx, auto.N8NWorkflowID, payload)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = model.JSONMap{}
		}
	}

	entry := &model.AutomationLog{
		ID:           uuid.NewString(),
		AutomationID: auto.ID,
		UserID:       userID,
		TriggerData:  data,
		Status:       "success",
		ExecutedAt:   s.now().UTC(),
	}
	if entry.TriggerData == nil {
		entry.TriggerData = model.JSONMap{}
	}
	if err := s.Store.CreateLog(ctx, entry); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AutomationService) GetLogs(ctx context.Context, automationID, userID string, limit int) ([]*model.AutomationLog, error) {
	return s.Store.GetLogs(ctx, automationID, userID, limit)
}

// Templates returns the canned automation starting points shown in the UI.
func (s *AutomationService) Templates() []model.AutomationTemplate {
	return []model.AutomationTemplate{
		{
			ID:          "auto_reply",
			Name:        "Auto-reply to new messages",
			Description: "Automatically replies to new incoming messages",
			Trigger:     model.TriggerNewMessage,
			Actions: model.JSONList{
				{
					"type":     "send_message",
					"template": "Thanks for your message! I'll reply within the hour.",
				},
			},
		},
		{
			ID:          "follow_up",
			Name:        "Unanswered message reminder",
			Description: "Reminds you about clients waiting for a reply",
			Trigger:     model.TriggerNoResponse,
			Actions: model.JSONList{
				{
					"type":     "notification",
					"template": "You have unanswered messages",
				},
			},
		},
		{
			ID:          "price_negotiation",
			Name:        "Price negotiation helper",
			Description: "Automatically answers questions about the price",
			Trigger:     model.TriggerNewMessage,
			Conditions: model.JSONMap{
				"contains": []interface{}{"price", "how much", "cost"},
			},
			Actions: model.JSONList{
				{
					"type":     "send_message",
					"template": "The price is listed in the ad. Happy to consider reasonable offers.",
				},
			},
		},
	}
}
