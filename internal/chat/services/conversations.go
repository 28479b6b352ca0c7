package services

import (
	"context"
	"errors"
	"strings"

	"github.com/uniboe/messaging/internal/chat/models"
	"github.com/uniboe/messaging/internal/common"
)

// canonicalPair orders two distinct user ids into the (low, high) form
// conversations are keyed by. The ordering is plain string comparison of
// the canonical id form, which makes getOrCreate commutative: callers
// never need to try both orderings.
func canonicalPair(userA, userB string) (low, high string, err error) {
	if userA == userB {
		return "", "", common.ErrorInvalidParticipant
	}
	if strings.Compare(userA, userB) < 0 {
		return userA, userB, nil
	}
	return userB, userA, nil
}

// GetOrCreateConversation resolves the single conversation between two
// users, creating it on first contact. Concurrent first contacts race on
// the store's (participant_low, participant_high) uniqueness constraint;
// the loser re-fetches the winner's row, so exactly one conversation ever
// exists per pair.
func (s *Service) GetOrCreateConversation(ctx context.Context, userID, participantID string) (*models.ConversationView, error) {
	low, high, err := canonicalPair(userID, participantID)
	if err != nil {
		return nil, err
	}

	repo := s.rm.Conversations(s.db)

	conv, err := repo.GetByPair(ctx, low, high)
	if errors.Is(err, common.ErrorNotFound) {
		created := now().UTC()
		conv = &models.Conversation{
			ID:              newID(),
			ParticipantLow:  low,
			ParticipantHigh: high,
			LastMessageAt:   created,
			CreatedAt:       created,
		}
		err = repo.Create(ctx, conv)
		if errors.Is(err, common.ErrorAlreadyExists) {
			conv, err = repo.GetByPair(ctx, low, high)
		}
	}
	if err != nil {
		return nil, err
	}

	return s.conversationView(ctx, conv, userID, false, map[string]*models.ProfileSummary{})
}

// GetConversation returns the conversation decorated for viewerID.
// Fails with ErrorConversationNotFound or ErrorUnauthorized.
func (s *Service) GetConversation(ctx context.Context, conversationID, viewerID string) (*models.ConversationView, error) {
	conv, err := s.getConversationChecked(ctx, s.db, conversationID, viewerID)
	if err != nil {
		return nil, err
	}
	return s.conversationView(ctx, conv, viewerID, false, map[string]*models.ProfileSummary{})
}

// ListConversations returns one page of userID's conversations, most
// recent activity first, each decorated with the other participant's
// profile, the last message preview, and the unread count for userID.
func (s *Service) ListConversations(ctx context.Context, userID string, page, pageSize int) (*models.ConversationPage, error) {
	page, pageSize = normalizePage(page, pageSize, defaultConversationPageSize)

	repo := s.rm.Conversations(s.db)

	total, err := repo.CountByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	convs, err := repo.ListByParticipant(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	cache := map[string]*models.ProfileSummary{}
	views := make([]*models.ConversationView, 0, len(convs))
	for _, conv := range convs {
		view, err := s.conversationView(ctx, conv, userID, true, cache)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &models.ConversationPage{
		Conversations: views,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// DeleteConversation removes the conversation and all of its messages
// (store-side cascade). Irreversible.
func (s *Service) DeleteConversation(ctx context.Context, conversationID, userID string) error {
	if _, err := s.getConversationChecked(ctx, s.db, conversationID, userID); err != nil {
		return err
	}
	return s.rm.Conversations(s.db).Delete(ctx, conversationID)
}

// conversationView decorates a conversation relative to viewerID. The
// last-message preview is only attached for list views; a preview whose
// row cannot be decrypted is logged and rendered as nil rather than
// failing the listing.
func (s *Service) conversationView(ctx context.Context, conv *models.Conversation, viewerID string, withLastMessage bool, cache map[string]*models.ProfileSummary) (*models.ConversationView, error) {
	other, err := s.profileSummary(ctx, cache, conv.OtherParticipant(viewerID))
	if err != nil {
		return nil, err
	}

	msgRepo := s.rm.Messages(s.db)

	unread, err := msgRepo.CountUnread(ctx, conv.ID, viewerID)
	if err != nil {
		return nil, err
	}

	view := &models.ConversationView{
		ID:               conv.ID,
		ParticipantLow:   conv.ParticipantLow,
		ParticipantHigh:  conv.ParticipantHigh,
		LastMessageAt:    conv.LastMessageAt,
		CreatedAt:        conv.CreatedAt,
		OtherParticipant: other,
		UnreadCount:      unread,
	}

	if !withLastMessage {
		return view, nil
	}

	last, err := msgRepo.Last(ctx, conv.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return view, nil
		}
		return nil, err
	}

	content, err := s.cipher.Decrypt(last.ContentEncrypted)
	if err != nil {
		s.log.Warn(ctx, "failed to decrypt last message", "message_id", last.ID, "error", err)
		return view, nil
	}

	sender, err := s.profileSummary(ctx, cache, last.SenderID)
	if err != nil {
		return nil, err
	}
	view.LastMessage = messageView(last, content, sender)

	return view, nil
}
