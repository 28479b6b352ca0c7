package messages

import (
	"context"

	"github.com/uniboe/messaging/internal/chat/models"
)

// Repository is the storage contract for message rows. Rows hold only
// ciphertext; decryption happens in the service layer. The read flag is
// the sole mutable field, and every mark operation carries the viewer so
// sender-owned rows are never flipped.
type Repository interface {
	Insert(ctx context.Context, msg *models.Message) error

	// ListPage returns one slice of a conversation's messages,
	// newest first.
	ListPage(ctx context.Context, conversationID string, offset, limit int) ([]*models.Message, error)

	// ListByConversation returns every message of a conversation, newest
	// first. Used by the cross-conversation search scan.
	ListByConversation(ctx context.Context, conversationID string) ([]*models.Message, error)

	Count(ctx context.Context, conversationID string) (int, error)

	// Last returns the most recent message, or common.ErrorNotFound for
	// an empty conversation.
	Last(ctx context.Context, conversationID string) (*models.Message, error)

	// MarkRead flips a single message to read and reports whether a row
	// actually changed. Rows that are already read, sent by the viewer,
	// missing, or outside the viewer's conversations are left untouched.
	MarkRead(ctx context.Context, messageID, viewerID string) (bool, error)

	// MarkConversationRead flips every unread message in the
	// conversation not sent by the viewer; returns the flip count.
	MarkConversationRead(ctx context.Context, conversationID, viewerID string) (int, error)

	// CountUnread counts rows unread for the viewer in one conversation.
	CountUnread(ctx context.Context, conversationID, viewerID string) (int, error)

	// CountUnreadForUser counts rows unread for the viewer across every
	// conversation the viewer participates in.
	CountUnreadForUser(ctx context.Context, viewerID string) (int, error)
}
