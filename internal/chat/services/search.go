package services

import (
	"context"
	"sort"
	"strings"

	"github.com/uniboe/messaging/internal/chat/models"
)

// SearchMessages scans the viewer's messages for case-insensitive
// substring matches of query in the decrypted bodies, newest first. With
// a non-empty conversationID the scan is limited to that conversation
// (participancy is verified); otherwise every conversation of userID is
// scanned.
//
// This is a deliberate linear scan with per-message decryption: the
// ciphertext at rest forecloses server-side pattern queries, and
// correctness (never matching on ciphertext) wins over index-backed
// speed at the per-user volumes involved. Rows that fail to decrypt are
// logged and skipped.
func (s *Service) SearchMessages(ctx context.Context, userID, query, conversationID string) ([]*models.MessageView, error) {
	var conversationIDs []string
	if conversationID != "" {
		if _, err := s.getConversationChecked(ctx, s.db, conversationID, userID); err != nil {
			return nil, err
		}
		conversationIDs = []string{conversationID}
	} else {
		ids, err := s.rm.Conversations(s.db).ListIDsByParticipant(ctx, userID)
		if err != nil {
			return nil, err
		}
		conversationIDs = ids
	}

	needle := strings.ToLower(query)
	msgRepo := s.rm.Messages(s.db)
	cache := map[string]*models.ProfileSummary{}

	var matches []*models.MessageView
	for _, convID := range conversationIDs {
		rows, err := msgRepo.ListByConversation(ctx, convID)
		if err != nil {
			return nil, err
		}
		for _, msg := range rows {
			content, err := s.cipher.Decrypt(msg.ContentEncrypted)
			if err != nil {
				s.log.Warn(ctx, "failed to decrypt message", "message_id", msg.ID, "error", err)
				continue
			}
			if !strings.Contains(strings.ToLower(content), needle) {
				continue
			}
			sender, err := s.profileSummary(ctx, cache, msg.SenderID)
			if err != nil {
				return nil, err
			}
			matches = append(matches, messageView(msg, content, sender))
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	return matches, nil
}
