package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// MessageID is a UUID-based identifier for a stored message
type MessageID string

// NewMessageID generates a new UUID v7 MessageID. v7 keeps document IDs
// roughly time-ordered, which helps Firestore key distribution.
func NewMessageID() MessageID {
	return MessageID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of MessageID
func (m MessageID) String() string {
	return string(m)
}

// Role identifies the author of a stored message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Validate checks if the Role is one of the known values
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return goerr.New("invalid role", goerr.V("role", r))
	}
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}
