package interfaces

import (
	"context"

	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

// ProfileRepository persists one profile record per user. Profiles are
// created lazily and never deleted. Merge policy for scalar fields lives
// in the caller; the store applies updates unconditionally.
type ProfileRepository interface {
	// GetOrCreate returns the existing profile or atomically creates a
	// default one. Concurrent first access for the same user must not
	// produce duplicates. Updates last_active_at as a side effect.
	GetOrCreate(ctx context.Context, userID types.UserID) (*model.UserProfile, error)

	// ApplyUpdate merges the supplied partial update into the profile.
	// Interests and Facts are appended with exact-match dedup; Preferences
	// overwrite per key; scalar fields are set as given.
	ApplyUpdate(ctx context.Context, userID types.UserID, update *model.ProfileUpdate) error

	// AppendFact appends a free-text fact, a no-op when already present
	AppendFact(ctx context.Context, userID types.UserID, fact string) error
}
