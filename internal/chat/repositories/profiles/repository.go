package profiles

import (
	"context"

	"github.com/uniboe/messaging/internal/chat/models"
)

// Repository is the identity/profile collaborator: a pure lookup used
// only to decorate responses. The messaging core never writes profiles.
type Repository interface {
	// GetSummary returns the display slice of a profile, or
	// common.ErrorNotFound when no such profile exists.
	GetSummary(ctx context.Context, userID string) (*models.ProfileSummary, error)
}
