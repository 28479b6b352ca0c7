// Package common defines the sentinel errors shared across the messaging
// core. Callers should use errors.Is to match these values rather than
// inspecting error strings.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Conversation access errors.
	ErrorConversationNotFound = errors.New("conversation not found")
	ErrorUnauthorized         = errors.New("not a participant in this conversation")
	ErrorInvalidParticipant   = errors.New("cannot create conversation with yourself")

	// Content validation errors.
	ErrorEmptyContent   = errors.New("cannot encrypt empty content")
	ErrorContentTooLong = errors.New("message content exceeds maximum length")

	// ErrorDecryptionFailed is scoped to a single message: listings and
	// search log the offending row and omit it instead of failing.
	ErrorDecryptionFailed = errors.New("decryption failed")
)
