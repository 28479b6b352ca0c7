// Package services implements the messaging core: conversation identity
// resolution, encrypted message storage, read-state tracking, conversation
// aggregation, and cross-conversation search. It is consumed as a library
// by the HTTP layer, which owns authentication and request timeouts.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uniboe/messaging/internal/chat/cryptox"
	"github.com/uniboe/messaging/internal/chat/models"
	"github.com/uniboe/messaging/internal/chat/repositories/repomanager"
	"github.com/uniboe/messaging/internal/common"
	"github.com/uniboe/messaging/internal/dbx"
	"github.com/uniboe/messaging/internal/logging"
)

const (
	maxContentLength = 5000

	defaultConversationPageSize = 20
	defaultMessagePageSize      = 50
	maxPageSize                 = 100
)

// Seams for deterministic tests.
var (
	now   = time.Now
	newID = uuid.NewString
)

// AvatarResolver maps a stored avatar reference to a fetchable URL.
// blobstore.AvatarResolver implements it; a nil resolver leaves
// references untouched.
type AvatarResolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// Service is the messaging core. All dependencies are injected at
// construction; there is no hidden shared state beyond the process-wide
// read-only cipher key.
type Service struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	cipher  *cryptox.Cipher
	avatars AvatarResolver
	log     logging.Logger
}

// NewService constructs the messaging core. avatars may be nil when no
// blob store is configured.
func NewService(db *sql.DB, rm repomanager.RepositoryManager, cipher *cryptox.Cipher, avatars AvatarResolver, log logging.Logger) *Service {
	return &Service{
		db:      db,
		rm:      rm,
		cipher:  cipher,
		avatars: avatars,
		log:     log.With("component", "chat"),
	}
}

// normalizePage clamps paging inputs to the caller-facing contract:
// 1-indexed pages and page sizes between 1 and maxPageSize, with a
// per-operation default.
func normalizePage(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// getConversationChecked loads a conversation and verifies the viewer is a
// participant, mapping misses to the caller-facing error kinds.
func (s *Service) getConversationChecked(ctx context.Context, db dbx.DBTX, conversationID, viewerID string) (*models.Conversation, error) {
	conv, err := s.rm.Conversations(db).GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorConversationNotFound
		}
		return nil, err
	}
	if !conv.HasParticipant(viewerID) {
		return nil, common.ErrorUnauthorized
	}
	return conv, nil
}

// profileSummary returns the display profile for userID, caching lookups
// within one request. A missing profile degrades to an "Unknown User"
// placeholder instead of failing the response; avatar resolution failures
// degrade to no picture.
func (s *Service) profileSummary(ctx context.Context, cache map[string]*models.ProfileSummary, userID string) (*models.ProfileSummary, error) {
	if summary, ok := cache[userID]; ok {
		return summary, nil
	}

	summary, err := s.rm.Profiles(s.db).GetSummary(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("fetch profile %s: %w", userID, err)
		}
		summary = &models.ProfileSummary{ID: userID, FullName: "Unknown User"}
	}

	if summary.ProfilePictureURL != nil && s.avatars != nil {
		resolved, err := s.avatars.ResolveURL(ctx, *summary.ProfilePictureURL)
		if err != nil {
			s.log.Warn(ctx, "failed to resolve avatar", "user_id", userID, "error", err)
			summary.ProfilePictureURL = nil
		} else {
			summary.ProfilePictureURL = &resolved
		}
	}

	cache[userID] = summary
	return summary, nil
}

// messageView decorates a stored message with its plaintext and sender.
func messageView(msg *models.Message, content string, sender *models.ProfileSummary) *models.MessageView {
	return &models.MessageView{
		ID:               msg.ID,
		ConversationID:   msg.ConversationID,
		SenderID:         msg.SenderID,
		ContentEncrypted: msg.ContentEncrypted,
		Content:          content,
		IsRead:           msg.IsRead,
		CreatedAt:        msg.CreatedAt,
		Sender:           sender,
	}
}
