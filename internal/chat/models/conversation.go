// Package models defines the persisted entities and response views of the
// messaging core.
package models

import "time"

// Conversation is a two-party conversation. The participants are stored in
// canonical order (ParticipantLow < ParticipantHigh by identifier string
// comparison, never equal) so exactly one row exists per unordered pair.
type Conversation struct {
	ID              string
	ParticipantLow  string
	ParticipantHigh string
	LastMessageAt   time.Time
	CreatedAt       time.Time
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantLow == userID || c.ParticipantHigh == userID
}

// OtherParticipant returns the participant that is not userID. The caller
// must already know userID is a participant.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ParticipantLow == userID {
		return c.ParticipantHigh
	}
	return c.ParticipantLow
}

// ConversationView is a conversation decorated for display relative to a
// viewer: the other participant's profile, the most recent message (nil
// when the conversation is empty or the row could not be decrypted), and
// the unread count for the viewer.
type ConversationView struct {
	ID               string          `json:"id"`
	ParticipantLow   string          `json:"participant_low"`
	ParticipantHigh  string          `json:"participant_high"`
	LastMessageAt    time.Time       `json:"last_message_at"`
	CreatedAt        time.Time       `json:"created_at"`
	OtherParticipant *ProfileSummary `json:"other_participant"`
	LastMessage      *MessageView    `json:"last_message"`
	UnreadCount      int             `json:"unread_count"`
}

// ConversationPage is one page of a user's conversation list, newest
// activity first.
type ConversationPage struct {
	Conversations []*ConversationView `json:"conversations"`
	Total         int                 `json:"total"`
	Page          int                 `json:"page"`
	PageSize      int                 `json:"page_size"`
}
