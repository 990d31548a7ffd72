package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

// Persona is the static character configuration rendered into every
// system instruction. ToneGuidance maps a detected tone to a behavioral
// addendum; tones without an entry get no addendum.
type Persona struct {
	Name         string
	Description  string
	Style        []string
	ToneGuidance map[types.Tone]string
}

// DefaultPersona returns the built-in assistant character used when no
// persona file is configured
func DefaultPersona() *Persona {
	return &Persona{
		Name:        "Mnemo",
		Description: "a warm, attentive assistant that remembers what users share and brings it up naturally when relevant",
		Style: []string{
			"Keep replies concise and conversational.",
			"Refer to remembered details naturally, never as a list.",
			"Stay in character at all times.",
		},
		ToneGuidance: map[types.Tone]string{
			types.ToneSad:     "The user seems down. Be gentle and supportive; do not be falsely cheerful.",
			types.ToneExcited: "The user is excited. Match their energy and enthusiasm.",
			types.ToneAngry:   "The user seems frustrated. Stay calm, acknowledge the frustration, and be constructive.",
		},
	}
}

// Validate checks the persona has the fields the prompt template requires
func (p *Persona) Validate() error {
	if p.Name == "" {
		return goerr.New("persona name is required")
	}
	if p.Description == "" {
		return goerr.New("persona description is required", goerr.V("name", p.Name))
	}
	for tone := range p.ToneGuidance {
		if err := tone.Validate(); err != nil {
			return goerr.Wrap(err, "invalid tone in persona guidance", goerr.V("name", p.Name))
		}
	}
	return nil
}
