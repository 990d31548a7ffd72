package usecase

import (
	"context"

	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// ProfileUseCase serves the read-only inspection operations
type ProfileUseCase struct {
	repo interfaces.Repository
}

func NewProfileUseCase(repo interfaces.Repository) *ProfileUseCase {
	return &ProfileUseCase{repo: repo}
}

// GetProfileAndStats returns the profile and its derived stats summary.
// Profiles are created lazily, so an unknown user yields a fresh default
// profile rather than an error.
func (uc *ProfileUseCase) GetProfileAndStats(ctx context.Context, userID types.UserID) (*model.UserProfile, *model.ProfileStats, error) {
	if err := userID.Validate(); err != nil {
		return nil, nil, err
	}

	profile, err := uc.repo.Profile().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return profile, profile.Stats(), nil
}

// GetHistory returns the most recent messages in chronological order
func (uc *ProfileUseCase) GetHistory(ctx context.Context, userID types.UserID, limit int) ([]*model.Message, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	return uc.repo.History().Recent(ctx, userID, limit)
}
