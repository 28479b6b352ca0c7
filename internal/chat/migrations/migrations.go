// Package migrations embeds the goose SQL migrations for the two tables
// the messaging core owns: conversations and messages. The profiles table
// referenced by sender_id and the participant columns belongs to the wider
// platform schema and is not managed here.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
