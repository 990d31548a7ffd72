package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/secmon-lab/mnemos/pkg/domain/model"
)

// mergePolicy decides how an extracted value interacts with what the
// profile already holds. Identity fields are first-write-wins so a later
// sarcastic or hypothetical statement can never overwrite confirmed
// identity; preferences are mutable taste and always overwrite.
type mergePolicy int

const (
	firstWriteWins mergePolicy = iota
	alwaysOverwrite
	appendUnique
)

// rule is one pattern-to-field binding. All rules run independently
// against the same message, so several may fire at once. hasValue is only
// consulted for firstWriteWins rules.
type rule struct {
	name     string
	pattern  *regexp.Regexp
	policy   mergePolicy
	hasValue func(profile *model.UserProfile) bool
	apply    func(update *model.ProfileUpdate, profile *model.UserProfile, captured string)
}

// nameStopwords are capture collisions with other rules' lead-ins
// ("i'm from Tokyo" belongs to the location rule, not the name rule)
var nameStopwords = map[string]bool{
	"from":    true,
	"feeling": true,
	"not":     true,
	"so":      true,
	"just":    true,
	"really":  true,
	"very":    true,
	"going":   true,
}

var rules = []rule{
	{
		name:     "name",
		pattern:  regexp.MustCompile(`(?i)\b(?:my name is|i'?m|i am|call me)\s+([a-zA-Z]+)`),
		policy:   firstWriteWins,
		hasValue: func(p *model.UserProfile) bool { return p.Name != "" },
		apply: func(update *model.ProfileUpdate, profile *model.UserProfile, captured string) {
			if nameStopwords[strings.ToLower(captured)] {
				return
			}
			update.Name = capitalize(captured)
		},
	},
	{
		name:     "age",
		pattern:  regexp.MustCompile(`(?i)\bi(?:'?m| am)\s+(\d{1,3})(?:\s+years?\s+old)?\b`),
		policy:   firstWriteWins,
		hasValue: func(p *model.UserProfile) bool { return p.Age != 0 },
		apply: func(update *model.ProfileUpdate, profile *model.UserProfile, captured string) {
			age, err := strconv.Atoi(captured)
			if err != nil || age <= 0 {
				return
			}
			update.Age = age
		},
	},
	{
		name:     "location",
		pattern:  regexp.MustCompile(`(?i)\b(?:i live in|i'?m from|from)\s+([a-zA-Z][a-zA-Z ,]*)`),
		policy:   firstWriteWins,
		hasValue: func(p *model.UserProfile) bool { return p.Location != "" },
		apply: func(update *model.ProfileUpdate, profile *model.UserProfile, captured string) {
			update.Location = strings.TrimSpace(captured)
		},
	},
	{
		name:    "favoriteColor",
		pattern: regexp.MustCompile(`(?i)\bfavou?rite colou?r is\s+([a-zA-Z]+)`),
		policy:  alwaysOverwrite,
		apply: func(update *model.ProfileUpdate, profile *model.UserProfile, captured string) {
			if update.Preferences == nil {
				update.Preferences = map[string]string{}
			}
			update.Preferences["favoriteColor"] = strings.ToLower(captured)
		},
	},
	{
		name:    "interest",
		pattern: regexp.MustCompile(`(?i)\bi (?:love|like|enjoy)\s+([^.!?,\n]+)`),
		policy:  appendUnique,
		apply: func(update *model.ProfileUpdate, profile *model.UserProfile, captured string) {
			interest := strings.TrimSpace(captured)
			if interest == "" || profile.HasInterest(interest) {
				return
			}
			update.Interests = append(update.Interests, interest)
		},
	},
}

// Extract runs every rule against one user message and returns the
// combined profile delta, or nil when nothing matched. Pure: the profile
// snapshot is only consulted for merge policy, never mutated. Feeding the
// same message twice against an updated profile yields no delta for
// firstWriteWins fields, which makes extraction idempotent.
func Extract(profile *model.UserProfile, message string) *model.ProfileUpdate {
	update := &model.ProfileUpdate{}

	for _, r := range rules {
		if r.policy == firstWriteWins && r.hasValue(profile) {
			continue
		}
		m := r.pattern.FindStringSubmatch(message)
		if len(m) < 2 {
			continue
		}
		r.apply(update, profile, m[1])
	}

	if update.IsEmpty() {
		return nil
	}
	return update
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
