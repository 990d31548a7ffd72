package memory

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

type profileRepository struct {
	mu       sync.RWMutex
	profiles map[types.UserID]*model.UserProfile
}

var _ interfaces.ProfileRepository = &profileRepository{}

func newProfileRepository() *profileRepository {
	return &profileRepository{
		profiles: make(map[types.UserID]*model.UserProfile),
	}
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID types.UserID) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	profile, ok := r.profiles[userID]
	if !ok {
		profile = model.NewUserProfile(userID, now)
		r.profiles[userID] = profile
	}
	profile.LastActiveAt = now

	return profile.Clone(), nil
}

func (r *profileRepository) ApplyUpdate(ctx context.Context, userID types.UserID, update *model.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	profile, ok := r.profiles[userID]
	if !ok {
		profile = model.NewUserProfile(userID, now)
		r.profiles[userID] = profile
	}

	if update.Name != "" {
		profile.Name = update.Name
	}
	if update.Age != 0 {
		profile.Age = update.Age
	}
	if update.Location != "" {
		profile.Location = update.Location
	}
	for _, interest := range update.Interests {
		if !profile.HasInterest(interest) {
			profile.Interests = append(profile.Interests, interest)
		}
	}
	for key, value := range update.Preferences {
		profile.Preferences[key] = value
	}
	for _, fact := range update.Facts {
		if !profile.HasFact(fact) {
			profile.Facts = append(profile.Facts, fact)
		}
	}
	profile.LastActiveAt = now

	return nil
}

func (r *profileRepository) AppendFact(ctx context.Context, userID types.UserID, fact string) error {
	return r.ApplyUpdate(ctx, userID, &model.ProfileUpdate{Facts: []string{fact}})
}

// incrementMessages bumps total_messages for the history repository
func (r *profileRepository) incrementMessages(userID types.UserID, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[userID]
	if !ok {
		profile = model.NewUserProfile(userID, now)
		r.profiles[userID] = profile
	}
	profile.TotalMessages++
	profile.LastActiveAt = now
}
