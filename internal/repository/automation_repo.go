package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadgram-backend/internal/model"
)

type AutomationRepository struct {
	DB *sql.DB
}

func NewAutomationRepository(db *sql.DB) *AutomationRepository {
	return &AutomationRepository{DB: db}
}

// "trigger" is a reserved word in Postgres and must stay quoted.
const automationColumns = `id, user_id, name, description, "trigger", conditions, actions, status, n8n_workflow_id, created_at, updated_at`

func scanAutomation(row interface {
	Scan(dest ...interface{}) error
}) (*model.Automation, error) {
	var a model.Automation
	var description, workflowID sql.NullString

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&description,
		&a.Trigger,
		&a.Conditions,
		&a.Actions,
		&a.Status,
		&workflowID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Description = description.String
	a.N8NWorkflowID = workflowID.String

	return &a, nil
}

func (r *AutomationRepository) CreateAutomation(ctx context.Context, automation *model.Automation) error {
	query := `
		INSERT INTO automations (id, user_id, name, description, "trigger", conditions, actions, status, n8n_workflow_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), $10, $11)`

	_, err := r.DB.ExecContext(ctx, query,
		automation.ID,
		automation.UserID,
		automation.Name,
		automation.Description,
		automation.Trigger,
		automation.Conditions,
		automation.Actions,
		automation.Status,
		automation.N8NWorkflowID,
		automation.CreatedAt,
		automation.UpdatedAt,
	)
	return err
}

func (r *AutomationRepository) GetAutomations(ctx context.Context, userID string) ([]*model.Automation, error) {
	query := `
		SELECT ` + automationColumns + `
		FROM automations
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var automations []*model.Automation
	for rows.Next() {
		automation, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		automations = append(automations, automation)
	}
	return automations, rows.Err()
}

func (r *AutomationRepository) GetAutomationByID(ctx context.Context, automationID, userID string) (*model.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations WHERE id = $1 AND user_id = $2`

	automation, err := scanAutomation(r.DB.QueryRowContext(ctx, query, automationID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return automation, nil
}

func (r *AutomationRepository) UpdateAutomation(ctx context.Context, automationID, userID string, update model.AutomationUpdate) (*model.Automation, error) {
	setClause := "updated_at = $1"
	args := []interface{}{time.Now().UTC()}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		setClause += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if update.Name != nil {
		appendSet("name", *update.Name)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Conditions != nil {
		appendSet("conditions", *update.Conditions)
	}
	if update.Actions != nil {
		appendSet("actions", *update.Actions)
	}
	if update.Status != nil {
		appendSet("status", *update.Status)
	}
	if update.N8NWorkflowID != nil {
		appendSet("n8n_workflow_id", *update.N8NWorkflowID)
	}

	args = append(args, automationID, userID)
	query := fmt.Sprintf("UPDATE automations SET %s WHERE id = $%d AND user_id = $%d",
		setClause, len(args)-1, len(args))

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetAutomationByID(ctx, automationID, userID)
}

func (r *AutomationRepository) CreateLog(ctx context.Context, entry *model.AutomationLog) error {
	query := `
		INSERT INTO automation_logs (id, automation_id, user_id, trigger_data, status, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB.ExecContext(ctx, query,
		entry.ID,
		entry.AutomationID,
		entry.UserID,
		entry.TriggerData,
		entry.Status,
		entry.ExecutedAt,
	)
	return err
}

func (r *AutomationRepository) GetLogs(ctx context.Context, automationID, userID string, limit int) ([]*model.AutomationLog, error) {
	query := `
		SELECT id, automation_id, user_id, trigger_data, status, executed_at
		FROM automation_logs
		WHERE automation_id = $1 AND user_id = $2
		ORDER BY executed_at DESC, id ASC
		LIMIT $3`

	rows, err := r.DB.QueryContext(ctx, query, automationID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*model.AutomationLog
	for rows.Next() {
		var entry model.AutomationLog
		err := rows.Scan(
			&entry.ID,
			&entry.AutomationID,
			&entry.UserID,
			&entry.TriggerData,
			&entry.Status,
			&entry.ExecutedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}

func (r *AutomationRepository) DeleteAutomation(ctx context.Context, automationID, userID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM automations WHERE id = $1 AND user_id = $2`, automationID, userID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
