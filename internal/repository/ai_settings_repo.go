package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"leadgram-backend/internal/model"
)

type AISettingsRepository struct {
	DB *sql.DB
}

func NewAISettingsRepository(db *sql.DB) *AISettingsRepository {
	return &AISettingsRepository{DB: db}
}

// GetSettings returns the stored settings, or nil when the user never saved
// any (callers substitute the defaults).
func (r *AISettingsRepository) GetSettings(ctx context.Context, userID string) (*model.AISettings, error) {
	var raw []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT settings FROM ai_settings WHERE user_id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var settings model.AISettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *AISettingsRepository) SaveSettings(ctx context.Context, userID string, settings model.AISettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ai_settings (user_id, settings, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at`

	_, err = r.DB.ExecContext(ctx, query, userID, raw, time.Now().UTC())
	return err
}
