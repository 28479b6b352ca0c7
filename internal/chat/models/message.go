package models

import "time"

// Message is a stored message. ContentEncrypted is the opaque ciphertext
// token; plaintext is never persisted. Rows are immutable once created
// except for the IsRead false-to-true transition.
type Message struct {
	ID               string
	ConversationID   string
	SenderID         string
	ContentEncrypted string
	IsRead           bool
	CreatedAt        time.Time
}

// MessageView is a message decorated for display: decrypted content and
// the sender's profile summary.
type MessageView struct {
	ID               string          `json:"id"`
	ConversationID   string          `json:"conversation_id"`
	SenderID         string          `json:"sender_id"`
	ContentEncrypted string          `json:"content_encrypted"`
	Content          string          `json:"content"`
	IsRead           bool            `json:"is_read"`
	CreatedAt        time.Time       `json:"created_at"`
	Sender           *ProfileSummary `json:"sender"`
}

// MessagePage is one page of a conversation's messages, newest first.
// HasMore is computed as page*pageSize < Total.
type MessagePage struct {
	Messages []*MessageView `json:"messages"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	HasMore  bool           `json:"has_more"`
}
