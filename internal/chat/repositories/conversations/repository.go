package conversations

import (
	"context"
	"time"

	"github.com/uniboe/messaging/internal/chat/models"
)

// Repository is the storage contract for conversation rows. The store
// enforces uniqueness over (participant_low, participant_high); Create
// surfaces a violation as common.ErrorAlreadyExists so the resolver can
// re-fetch instead of failing.
type Repository interface {
	Create(ctx context.Context, conv *models.Conversation) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	GetByPair(ctx context.Context, low, high string) (*models.Conversation, error)

	// ListByParticipant returns conversations where userID is either
	// participant, ordered by last activity descending with the id as a
	// deterministic tiebreak.
	ListByParticipant(ctx context.Context, userID string, offset, limit int) ([]*models.Conversation, error)
	CountByParticipant(ctx context.Context, userID string) (int, error)
	ListIDsByParticipant(ctx context.Context, userID string) ([]string, error)

	// Touch advances last_message_at.
	Touch(ctx context.Context, id string, at time.Time) error

	// Delete removes the conversation; messages go with it via the
	// ON DELETE CASCADE constraint.
	Delete(ctx context.Context, id string) error
}
