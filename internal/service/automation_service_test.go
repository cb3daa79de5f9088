package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgram-backend/internal/automation"
	"leadgram-backend/internal/model"
)

type fakeAutomationStore struct {
	automations map[string]*model.Automation
	logs        []*model.AutomationLog
}

func newFakeAutomationStore() *fakeAutomationStore {
	return &fakeAutomationStore{automations: map[string]*model.Automation{}}
}

func (f *fakeAutomationStore) CreateAutomation(_ context.Context, a *model.Automation) error {
	copied := *a
	f.automations[a.ID] = &copied
	return nil
}

func (f *fakeAutomationStore) GetAutomations(_ context.Context, userID string) ([]*model.Automation, error) {
	var out []*model.Automation
	for _, a := range f.automations {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAutomationStore) GetAutomationByID(_ context.Context, automationID, userID string) (*model.Automation, error) {
	a, ok := f.automations[automationID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	return a, nil
}

func (f *fakeAutomationStore) UpdateAutomation(_ context.Context, automationID, userID string, update model.AutomationUpdate) (*model.Automation, error) {
	a, ok := f.automations[automationID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	if update.Status != nil {
		a.Status = *update.Status
	}
	if update.N8NWorkflowID != nil {
		a.N8NWorkflowID = *update.N8NWorkflowID
	}
	return a, nil
}

func (f *fakeAutomationStore) DeleteAutomation(_ context.Context, automationID, userID string) (bool, error) {
	a, ok := f.automations[automationID]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(f.automations, automationID)
	return true, nil
}

func (f *fakeAutomationStore) CreateLog(_ context.Context, entry *model.AutomationLog) error {
	copied := *entry
	f.logs = append(f.logs, &copied)
	return nil
}

func (f *fakeAutomationStore) GetLogs(_ context.Context, automationID, userID string, limit int) ([]*model.AutomationLog, error) {
	var out []*model.AutomationLog
	for _, entry := range f.logs {
		if entry.AutomationID == automationID && entry.UserID == userID {
			out = append(out, entry)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeWorkflowTrigger struct {
	workflowID string
	payload    automation.TriggerPayload
	result     model.JSONMap
}

func (f *fakeWorkflowTrigger) TriggerWorkflow(_ context.Context, workflowID string, payload automation.TriggerPayload) (model.JSONMap, error) {
	f.workflowID = workflowID
	f.payload = payload
	return f.result, nil
}

func TestTriggerAutomation(t *testing.T) {
	store := newFakeAutomationStore()
	workflow := &fakeWorkflowTrigger{result: model.JSONMap{"status": "started"}}
	svc := NewAutomationService(store, workflow)

	auto, err := svc.CreateAutomation(context.Background(), "u1", model.AutomationCreate{
		Name:          "Auto reply",
		Trigger:       model.TriggerNewMessage,
		N8NWorkflowID: "wf-7",
	})
	require.NoError(t, err)

	result, err := svc.TriggerAutomation(context.Background(), auto.ID, "u1", model.JSONMap{"client_id": "c1"})
	require.NoError(t, err)
	assert.Equal(t, model.JSONMap{"status": "started"}, result)

	assert.Equal(t, "wf-7", workflow.workflowID)
	assert.Equal(t, auto.ID, workflow.payload.AutomationID)
	assert.Equal(t, "u1", workflow.payload.UserID)
	assert.Equal(t, model.TriggerNewMessage, workflow.payload.Trigger)
}

func TestTriggerAutomationRecordsLog(t *testing.T) {
	store := newFakeAutomationStore()
	svc := NewAutomationService(store, &fakeWorkflowTrigger{})

	auto, err := svc.CreateAutomation(context.Background(), "u1", model.AutomationCreate{
		Name:          "Auto reply",
		Trigger:       model.TriggerNewMessage,
		N8NWorkflowID: "wf-7",
	})
	require.NoError(t, err)

	_, err = svc.TriggerAutomation(context.Background(), auto.ID, "u1", model.JSONMap{"client_id": "c1"})
	require.NoError(t, err)

	logs, err := svc.GetLogs(context.Background(), auto.ID, "u1", 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	assert.NotEmpty(t, logs[0].ID)
	assert.Equal(t, auto.ID, logs[0].AutomationID)
	assert.Equal(t, model.JSONMap{"client_id": "c1"}, logs[0].TriggerData)
	assert.Equal(t, "success", logs[0].Status)
	assert.False(t, logs[0].ExecutedAt.IsZero())

	other, err := svc.GetLogs(context.Background(), auto.ID, "u2", 50)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestTriggerAutomationWithoutWorkflow(t *testing.T) {
	// A bare automation still triggers and gets a log entry; there is just no
	// workflow to call.
	store := newFakeAutomationStore()
	workflow := &fakeWorkflowTrigger{}
	svc := NewAutomationService(store, workflow)

	auto, err := svc.CreateAutomation(context.Background(), "u1", model.AutomationCreate{
		Name:    "No workflow",
		Trigger: model.TriggerManual,
	})
	require.NoError(t, err)

	result, err := svc.TriggerAutomation(context.Background(), auto.ID, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, model.JSONMap{}, result)
	assert.Empty(t, workflow.workflowID)

	logs, err := svc.GetLogs(context.Background(), auto.ID, "u1", 50)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.JSONMap{}, logs[0].TriggerData)
}

func TestTriggerAutomationUnknownID(t *testing.T) {
	svc := NewAutomationService(newFakeAutomationStore(), &fakeWorkflowTrigger{})

	result, err := svc.TriggerAutomation(context.Background(), "missing", "u1", nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCreateAutomationDefaults(t *testing.T) {
	store := newFakeAutomationStore()
	svc := NewAutomationService(store, &fakeWorkflowTrigger{})

	auto, err := svc.CreateAutomation(context.Background(), "u1", model.AutomationCreate{
		Name:    "Bare",
		Trigger: model.TriggerTimeBased,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AutomationStatusInactive, auto.Status)
	assert.NotNil(t, auto.Conditions)
	assert.NotNil(t, auto.Actions)
}
