package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/uniboe/messaging/internal/chat/models"
	"github.com/uniboe/messaging/internal/common"
	"github.com/uniboe/messaging/internal/dbx"
)

// SendMessage encrypts and persists a message from senderID in the given
// conversation. The insert and the conversation's last-activity bump run
// in one transaction, so a failed send leaves no partial writes. The
// returned view carries the plaintext the caller supplied; no decrypt
// round-trip.
func (s *Service) SendMessage(ctx context.Context, conversationID, senderID, content string) (*models.MessageView, error) {
	if _, err := s.getConversationChecked(ctx, s.db, conversationID, senderID); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, common.ErrorEmptyContent
	}
	if utf8.RuneCountInString(trimmed) > maxContentLength {
		return nil, common.ErrorContentTooLong
	}

	token, err := s.cipher.Encrypt(trimmed)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:               newID(),
		ConversationID:   conversationID,
		SenderID:         senderID,
		ContentEncrypted: token,
		IsRead:           false,
		CreatedAt:        now().UTC(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Messages(tx).Insert(ctx, msg); err != nil {
			return err
		}
		return s.rm.Conversations(tx).Touch(ctx, conversationID, msg.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	sender, err := s.profileSummary(ctx, map[string]*models.ProfileSummary{}, senderID)
	if err != nil {
		return nil, err
	}

	return messageView(msg, trimmed, sender), nil
}

// ListMessages returns one page of a conversation's messages, newest
// first. Each row is decrypted independently; a row that fails to decrypt
// is logged and omitted without failing the page or dropping its
// neighbors. Total and HasMore count stored rows, including any omitted
// ones.
func (s *Service) ListMessages(ctx context.Context, conversationID, viewerID string, page, pageSize int) (*models.MessagePage, error) {
	if _, err := s.getConversationChecked(ctx, s.db, conversationID, viewerID); err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize, defaultMessagePageSize)

	msgRepo := s.rm.Messages(s.db)

	total, err := msgRepo.Count(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	rows, err := msgRepo.ListPage(ctx, conversationID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	cache := map[string]*models.ProfileSummary{}
	views := make([]*models.MessageView, 0, len(rows))
	for _, msg := range rows {
		content, err := s.cipher.Decrypt(msg.ContentEncrypted)
		if err != nil {
			s.log.Warn(ctx, "failed to decrypt message", "message_id", msg.ID, "error", err)
			continue
		}
		sender, err := s.profileSummary(ctx, cache, msg.SenderID)
		if err != nil {
			return nil, err
		}
		views = append(views, messageView(msg, content, sender))
	}

	return &models.MessagePage{
		Messages: views,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  page*pageSize < total,
	}, nil
}
