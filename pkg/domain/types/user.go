package types

import (
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
)

// UserID is the opaque identifier of a chat user
type UserID string

const maxUserIDLength = 128

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u == "" {
		return goerr.Wrap(ErrInvalidInput, "user ID cannot be empty")
	}
	if utf8.RuneCountInString(string(u)) > maxUserIDLength {
		return goerr.Wrap(ErrInvalidInput, "user ID is too long", goerr.V("id", u))
	}
	return nil
}

// String returns the string representation of UserID
func (u UserID) String() string {
	return string(u)
}
