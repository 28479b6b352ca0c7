// Package messages provides the PostgreSQL-backed repository for message
// rows.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uniboe/messaging/internal/chat/models"
	"github.com/uniboe/messaging/internal/common"
	"github.com/uniboe/messaging/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, content_encrypted, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.ContentEncrypted, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListPage(ctx context.Context, conversationID string, offset, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, content_encrypted, is_read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanMessages(rows)
}

func (r *PostgresRepository) ListByConversation(ctx context.Context, conversationID string) ([]*models.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, content_encrypted, is_read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanMessages(rows)
}

func (r *PostgresRepository) Count(ctx context.Context, conversationID string) (int, error) {
	query := `SELECT COUNT(*) FROM messages WHERE conversation_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, query, conversationID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Last(ctx context.Context, conversationID string) (*models.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, content_encrypted, is_read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	msg := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, conversationID).Scan(
		&msg.ID, &msg.ConversationID, &msg.SenderID,
		&msg.ContentEncrypted, &msg.IsRead, &msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

// MarkRead is a single guarded UPDATE: the predicate enforces the
// unread-for-viewer rule (is_read = FALSE AND sender <> viewer) and viewer
// participancy, so calling it twice for the same id flips nothing the
// second time.
func (r *PostgresRepository) MarkRead(ctx context.Context, messageID, viewerID string) (bool, error) {
	query := `
		UPDATE messages SET is_read = TRUE
		WHERE id = $1
		  AND is_read = FALSE
		  AND sender_id <> $2
		  AND conversation_id IN (
			SELECT id FROM conversations
			WHERE participant_low = $2 OR participant_high = $2
		  )
	`
	res, err := r.db.ExecContext(ctx, query, messageID, viewerID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) MarkConversationRead(ctx context.Context, conversationID, viewerID string) (int, error) {
	query := `
		UPDATE messages SET is_read = TRUE
		WHERE conversation_id = $1
		  AND is_read = FALSE
		  AND sender_id <> $2
	`
	res, err := r.db.ExecContext(ctx, query, conversationID, viewerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return int(n), nil
}

func (r *PostgresRepository) CountUnread(ctx context.Context, conversationID, viewerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages
		WHERE conversation_id = $1
		  AND is_read = FALSE
		  AND sender_id <> $2
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, conversationID, viewerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CountUnreadForUser(ctx context.Context, viewerID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE m.is_read = FALSE
		  AND m.sender_id <> $1
		  AND (c.participant_low = $1 OR c.participant_high = $1)
	`
	var n int
	if err := r.db.QueryRowContext(ctx, query, viewerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanMessages(rows *sql.Rows) ([]*models.Message, error) {
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		var item models.Message
		if err := rows.Scan(
			&item.ID, &item.ConversationID, &item.SenderID,
			&item.ContentEncrypted, &item.IsRead, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
