package repomanager

import (
	"context"
	"database/sql"

	"github.com/uniboe/messaging/internal/chat/repositories/conversations"
	"github.com/uniboe/messaging/internal/chat/repositories/messages"
	"github.com/uniboe/messaging/internal/chat/repositories/profiles"
	"github.com/uniboe/messaging/internal/dbx"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// the same repositories run against the pool or inside a transaction, and
// exposes the schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Conversations(db dbx.DBTX) conversations.Repository
	Messages(db dbx.DBTX) messages.Repository
	Profiles(db dbx.DBTX) profiles.Repository
}
