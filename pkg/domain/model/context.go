package model

import "github.com/secmon-lab/mnemos/pkg/domain/types"

// ContextSnapshot is the ephemeral, read-only bundle assembled for one
// turn: the user profile, the chronological recent-history window and the
// tone detected from the incoming message. It lives for a single
// orchestration call and is never persisted.
type ContextSnapshot struct {
	Profile *UserProfile
	Recent  []*Message
	Tone    types.Tone
}
