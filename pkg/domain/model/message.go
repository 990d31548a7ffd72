package model

import (
	"time"

	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

// Message is one immutable conversation record
type Message struct {
	ID        types.MessageID
	UserID    types.UserID
	Role      types.Role
	Content   string
	CreatedAt time.Time
}

// NewMessage creates a message with a fresh ID and timestamp
func NewMessage(userID types.UserID, role types.Role, content string, now time.Time) *Message {
	return &Message{
		ID:        types.NewMessageID(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
}
