package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

// UserProfile is the durable memory record of one user. Identity scalars
// (Name, Age, Location) use their zero value as "unknown" and are set at
// most once by extraction; Facts and Interests only ever grow.
type UserProfile struct {
	ID           types.UserID
	CreatedAt    time.Time
	LastActiveAt time.Time

	Name     string
	Age      int
	Location string

	Interests   []string
	Preferences map[string]string
	Facts       []string

	TotalMessages int64
}

// NewUserProfile returns a default profile for a first-seen user
func NewUserProfile(userID types.UserID, now time.Time) *UserProfile {
	return &UserProfile{
		ID:           userID,
		CreatedAt:    now,
		LastActiveAt: now,
		Preferences:  map[string]string{},
	}
}

// HasInterest reports whether the interest is already recorded (case-sensitive)
func (p *UserProfile) HasInterest(interest string) bool {
	return slices.Contains(p.Interests, interest)
}

// HasFact reports whether the fact is already recorded (exact match)
func (p *UserProfile) HasFact(fact string) bool {
	return slices.Contains(p.Facts, fact)
}

// Clone returns a deep copy of the profile
func (p *UserProfile) Clone() *UserProfile {
	copied := *p
	copied.Interests = slices.Clone(p.Interests)
	copied.Facts = slices.Clone(p.Facts)
	copied.Preferences = make(map[string]string, len(p.Preferences))
	for k, v := range p.Preferences {
		copied.Preferences[k] = v
	}
	return &copied
}

// ProfileUpdate is a partial profile delta. Zero-valued fields mean "no
// change"; the store applies whatever is set unconditionally, merge policy
// (first-write-wins vs overwrite) is the caller's responsibility.
type ProfileUpdate struct {
	Name     string
	Age      int
	Location string

	Interests   []string
	Preferences map[string]string
	Facts       []string
}

// IsEmpty reports whether the update carries no changes at all
func (u *ProfileUpdate) IsEmpty() bool {
	return u == nil ||
		(u.Name == "" && u.Age == 0 && u.Location == "" &&
			len(u.Interests) == 0 && len(u.Preferences) == 0 && len(u.Facts) == 0)
}

// ProfileStats is the read-only summary exposed by the stats operation
type ProfileStats struct {
	MemberSince     time.Time
	LastActive      time.Time
	TotalMessages   int64
	FactsStored     int
	InterestsStored int
}

// Stats derives the stats summary from the profile
func (p *UserProfile) Stats() *ProfileStats {
	return &ProfileStats{
		MemberSince:     p.CreatedAt,
		LastActive:      p.LastActiveAt,
		TotalMessages:   p.TotalMessages,
		FactsStored:     len(p.Facts),
		InterestsStored: len(p.Interests),
	}
}
