package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"leadgram-backend/internal/model"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

const clientColumns = `id, user_id, name, phone, source, status, listing_id, listing_title, messages_count, last_message_at, created_at, updated_at`

func scanClient(row interface {
	Scan(dest ...interface{}) error
}) (*model.Client, error) {
	var c model.Client
	var phone, listingID, listingTitle sql.NullString
	var lastMessageAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&phone,
		&c.Source,
		&c.Status,
		&listingID,
		&listingTitle,
		&c.MessagesCount,
		&lastMessageAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Phone = phone.String
	c.ListingID = listingID.String
	c.ListingTitle = listingTitle.String
	if lastMessageAt.Valid {
		c.LastMessageAt = &lastMessageAt.Time
	}

	return &c, nil
}

func (r *ClientRepository) CreateClient(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, phone, source, status, listing_id, listing_title, messages_count, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)`

	_, err := r.DB.ExecContext(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.Phone,
		client.Source,
		client.Status,
		client.ListingID,
		client.ListingTitle,
		client.MessagesCount,
		client.CreatedAt,
		client.UpdatedAt,
	)
	return err
}

type ClientFilter struct {
	Status model.ClientStatus
	Source model.MessageSource
	Limit  int
}

func (r *ClientRepository) GetClients(ctx context.Context, userID string, filter ClientFilter) ([]*model.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE user_id = $1`, clientColumns)
	args := []interface{}{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY updated_at DESC, id ASC LIMIT $%d", len(args))

	return r.queryClients(ctx, query, args...)
}

func (r *ClientRepository) GetClientByID(ctx context.Context, clientID, userID string) (*model.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE id = $1 AND user_id = $2`, clientColumns)

	client, err := scanClient(r.DB.QueryRowContext(ctx, query, clientID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

// GetClientByContact resolves a returning lead: by phone when the channel
// supplies one, otherwise by display name within the same source channel.
func (r *ClientRepository) GetClientByContact(ctx context.Context, userID string, source model.MessageSource, phone, name string) (*model.Client, error) {
	query := fmt.Sprintf(`SELECT %s FROM clients WHERE user_id = $1 AND source = $2`, clientColumns)
	args := []interface{}{userID, source}

	if phone != "" {
		args = append(args, phone)
		query += fmt.Sprintf(" AND phone = $%d", len(args))
	} else {
		args = append(args, name)
		query += fmt.Sprintf(" AND name = $%d", len(args))
	}
	query += " ORDER BY updated_at DESC LIMIT 1"

	client, err := scanClient(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

// UpdateClient applies the non-nil fields of update and returns the fresh row,
// or nil when no row matched the id/owner pair.
func (r *ClientRepository) UpdateClient(ctx context.Context, clientID, userID string, update model.ClientUpdate) (*model.Client, error) {
	setClause := "updated_at = $1"
	args := []interface{}{time.Now().UTC()}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		setClause += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if update.Name != nil {
		appendSet("name", *update.Name)
	}
	if update.Phone != nil {
		appendSet("phone", *update.Phone)
	}
	if update.Status != nil {
		appendSet("status", *update.Status)
	}
	if update.ListingID != nil {
		appendSet("listing_id", *update.ListingID)
	}
	if update.ListingTitle != nil {
		appendSet("listing_title", *update.ListingTitle)
	}

	args = append(args, clientID, userID)
	query := fmt.Sprintf("UPDATE clients SET %s WHERE id = $%d AND user_id = $%d",
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

	return r.GetClientByID(ctx, clientID, userID)
}

// TouchLastMessage bumps the activity timestamp and message counter after a
// message is stored for the client.
func (r *ClientRepository) TouchLastMessage(ctx context.Context, clientID, userID string, at time.Time) error {
	query := `
		UPDATE clients
		SET last_message_at = $1, updated_at = $1, messages_count = messages_count + 1
		WHERE id = $2 AND user_id = $3`

	_, err := r.DB.ExecContext(ctx, query, at, clientID, userID)
	return err
}

func (r *ClientRepository) GetRecentChats(ctx context.Context, userID string, limit int) ([]*model.Client, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM clients
		WHERE user_id = $1 AND last_message_at IS NOT NULL
		ORDER BY last_message_at DESC, id ASC
		LIMIT $2`, clientColumns)

	return r.queryClients(ctx, query, userID, limit)
}

func (r *ClientRepository) GetDashboardStats(ctx context.Context, userID string, dayAgo time.Time) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM clients WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status model.ClientStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch status {
		case model.ClientStatusNew:
			stats.PendingAttention = count
		case model.ClientStatusClosed:
			stats.CompletedSales = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE user_id = $1 AND created_at >= $2`,
		userID, dayAgo).Scan(&stats.NewLeads)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE user_id = $1 AND last_message_at >= $2`,
		userID, dayAgo).Scan(&stats.ActiveChats)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *ClientRepository) queryClients(ctx context.Context, query string, args ...interface{}) ([]*model.Client, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
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
