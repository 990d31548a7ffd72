package model

import "github.com/secmon-lab/mnemos/pkg/domain/types"

// Turn is one prior conversation turn shaped for the completion provider
type Turn struct {
	Role    types.Role
	Content string
}

// CompletionRequest is the full payload for one completion call: the
// system instruction, the prior turns in chronological order, and the new
// user message.
type CompletionRequest struct {
	Instruction string
	Turns       []Turn
	Message     string
}
