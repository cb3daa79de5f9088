package repository

import (
	"context"
	"database/sql"
	"time"

	"leadgram-backend/internal/model"
)

// AttentionRepository serves the two windowed reads the attention engine
// needs. Both are plain filtered fetches; all grouping happens in the service.
type AttentionRepository struct {
	DB *sql.DB
}

func NewAttentionRepository(db *sql.DB) *AttentionRepository {
	return &AttentionRepository{DB: db}
}

// MessageActivitySince returns every message of the owner with timestamp >=
// since, joined to the owning client to pick up its listing reference.
// Messages whose client has no listing come back with an empty ListingID and
// are excluded by the rule evaluators, not here.
func (r *AttentionRepository) MessageActivitySince(ctx context.Context, userID string, since time.Time) ([]model.MessageActivity, error) {
	query := `
		SELECT m.message_type, COALESCE(c.listing_id, ''), COALESCE(c.listing_title, '')
		FROM messages m
		JOIN clients c ON c.id = m.client_id
		WHERE m.user_id = $1 AND m.timestamp >= $2
		ORDER BY m.timestamp ASC, m.id ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []model.MessageActivity
	for rows.Next() {
		var a model.MessageActivity
		if err := rows.Scan(&a.MessageType, &a.ListingID, &a.ListingTitle); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}

// StaleClients returns non-closed clients whose last activity predates cutoff.
// Clients that never had a message (NULL last_message_at) do not match the
// comparison and are excluded.
func (r *AttentionRepository) StaleClients(ctx context.Context, userID string, cutoff time.Time) ([]*model.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE user_id = $1 AND last_message_at < $2 AND status != $3
		ORDER BY last_message_at ASC, id ASC
		LIMIT 100`

	rows, err := r.DB.QueryContext(ctx, query, userID, cutoff, model.ClientStatusClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
