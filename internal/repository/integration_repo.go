package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadgram-backend/internal/model"
)

type IntegrationRepository struct {
	DB *sql.DB
}

func NewIntegrationRepository(db *sql.DB) *IntegrationRepository {
	return &IntegrationRepository{DB: db}
}

const integrationColumns = `id, user_id, name, type, status, config, webhook_url, last_sync_at, created_at`

func scanIntegration(row interface {
	Scan(dest ...interface{}) error
}) (*model.Integration, error) {
	var i model.Integration
	var webhookURL sql.NullString
	var lastSyncAt sql.NullTime

	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Name,
		&i.Type,
		&i.Status,
		&i.Config,
		&webhookURL,
		&lastSyncAt,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	i.WebhookURL = webhookURL.String
	if lastSyncAt.Valid {
		i.LastSyncAt = &lastSyncAt.Time
	}

	return &i, nil
}

func (r *IntegrationRepository) CreateIntegration(ctx context.Context, integration *model.Integration) error {
	query := `
		INSERT INTO integrations (id, user_id, name, type, status, config, webhook_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`

	_, err := r.DB.ExecContext(ctx, query,
		integration.ID,
		integration.UserID,
		integration.Name,
		integration.Type,
		integration.Status,
		integration.Config,
		integration.WebhookURL,
		integration.CreatedAt,
	)
	return err
}

func (r *IntegrationRepository) GetIntegrations(ctx context.Context, userID string) ([]*model.Integration, error) {
	query := `
		SELECT ` + integrationColumns + `
		FROM integrations
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var integrations []*model.Integration
	for rows.Next() {
		integration, err := scanIntegration(rows)
		if err != nil {
			return nil, err
		}
		integrations = append(integrations, integration)
	}
	return integrations, rows.Err()
}

func (r *IntegrationRepository) GetIntegrationByID(ctx context.Context, integrationID, userID string) (*model.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE id = $1 AND user_id = $2`
	return r.getOne(ctx, query, integrationID, userID)
}

// LookupIntegration fetches by id alone. Used by the public webhook endpoint,
// where the owner is resolved from the integration itself rather than from
// caller credentials.
func (r *IntegrationRepository) LookupIntegration(ctx context.Context, integrationID string) (*model.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE id = $1`
	return r.getOne(ctx, query, integrationID)
}

func (r *IntegrationRepository) getOne(ctx context.Context, query string, args ...interface{}) (*model.Integration, error) {
	integration, err := scanIntegration(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return integration, nil
}

func (r *IntegrationRepository) UpdateIntegration(ctx context.Context, integrationID, userID string, update model.IntegrationUpdate) (*model.Integration, error) {
	setClause := ""
	var args []interface{}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if update.Name != nil {
		appendSet("name", *update.Name)
	}
	if update.Status != nil {
		appendSet("status", *update.Status)
	}
	if update.Config != nil {
		appendSet("config", *update.Config)
	}

	if setClause == "" {
		return r.GetIntegrationByID(ctx, integrationID, userID)
	}

	args = append(args, integrationID, userID)
	query := fmt.Sprintf("UPDATE integrations SET %s WHERE id = $%d AND user_id = $%d",
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

	return r.GetIntegrationByID(ctx, integrationID, userID)
}

func (r *IntegrationRepository) DeleteIntegration(ctx context.Context, integrationID, userID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM integrations WHERE id = $1 AND user_id = $2`, integrationID, userID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *IntegrationRepository) UpdateLastSync(ctx context.Context, integrationID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE integrations SET last_sync_at = $1 WHERE id = $2`, at, integrationID)
	return err
}
