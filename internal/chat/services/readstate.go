package services

import "context"

// MarkMessagesRead flips the given messages to read for viewerID and
// returns the number actually flipped. Ids that are missing, already
// read, sent by the viewer, or outside the viewer's conversations are
// silently skipped, which makes the call idempotent: repeating it with
// the same ids returns 0.
func (s *Service) MarkMessagesRead(ctx context.Context, viewerID string, messageIDs []string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}

	repo := s.rm.Messages(s.db)

	updated := 0
	for _, id := range messageIDs {
		flipped, err := repo.MarkRead(ctx, id, viewerID)
		if err != nil {
			return updated, err
		}
		if flipped {
			updated++
		}
	}
	return updated, nil
}

// MarkConversationRead flips every message in the conversation that is
// unread for viewerID and returns the count. Fails with
// ErrorConversationNotFound or ErrorUnauthorized.
func (s *Service) MarkConversationRead(ctx context.Context, conversationID, viewerID string) (int, error) {
	if _, err := s.getConversationChecked(ctx, s.db, conversationID, viewerID); err != nil {
		return 0, err
	}
	return s.rm.Messages(s.db).MarkConversationRead(ctx, conversationID, viewerID)
}

// UnreadCount sums, across every conversation viewerID participates in,
// the messages that are unread for the viewer (read = false and sender is
// someone else).
func (s *Service) UnreadCount(ctx context.Context, viewerID string) (int, error) {
	return s.rm.Messages(s.db).CountUnreadForUser(ctx, viewerID)
}
