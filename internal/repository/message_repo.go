package repository

import (
	"context"
	"database/sql"

	"leadgram-backend/internal/model"
)

type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

const messageColumns = `id, user_id, client_id, content, message_type, source, timestamp, is_read`

func (r *MessageRepository) CreateMessage(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (id, user_id, client_id, content, message_type, source, timestamp, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctx, query,
		message.ID,
		message.UserID,
		message.ClientID,
		message.Content,
		message.MessageType,
		message.Source,
		message.Timestamp,
		message.IsRead,
	)
	return err
}

// GetRecentMessages returns the unified inbox: newest messages first across
// every client of the owner.
func (r *MessageRepository) GetRecentMessages(ctx context.Context, userID string, limit int) ([]*model.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE user_id = $1
		ORDER BY timestamp DESC, id ASC
		LIMIT $2`

	return r.queryMessages(ctx, query, userID, limit)
}

func (r *MessageRepository) GetClientMessages(ctx context.Context, clientID, userID string, limit int) ([]*model.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE client_id = $1 AND user_id = $2
		ORDER BY timestamp ASC, id ASC
		LIMIT $3`

	return r.queryMessages(ctx, query, clientID, userID, limit)
}

func (r *MessageRepository) SearchMessages(ctx context.Context, userID, search string, limit int) ([]*model.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE user_id = $1 AND content ILIKE '%' || $2 || '%'
		ORDER BY timestamp DESC, id ASC
		LIMIT $3`

	return r.queryMessages(ctx, query, userID, search, limit)
}

// MarkAsRead flips the read flag; it reports whether a matching message
// existed. The read flag is the only mutable part of a message.
func (r *MessageRepository) MarkAsRead(ctx context.Context, messageID, userID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		messageID, userID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *MessageRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE user_id = $1 AND message_type = $2 AND is_read = FALSE`,
		userID, model.MessageIncoming).Scan(&count)
	return count, err
}

func (r *MessageRepository) queryMessages(ctx context.Context, query string, args ...interface{}) ([]*model.Message, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var m model.Message
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.ClientID,
			&m.Content,
			&m.MessageType,
			&m.Source,
			&m.Timestamp,
			&m.IsRead,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
