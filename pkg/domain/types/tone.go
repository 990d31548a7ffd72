package types

import "github.com/m-mizutani/goerr/v2"

// Tone is a coarse emotional category inferred from a single message
type Tone string

const (
	ToneSad     Tone = "sad"
	ToneExcited Tone = "excited"
	ToneAngry   Tone = "angry"
	ToneNeutral Tone = "neutral"
)

// Validate checks if the Tone is one of the known categories
func (t Tone) Validate() error {
	switch t {
	case ToneSad, ToneExcited, ToneAngry, ToneNeutral:
		return nil
	default:
		return goerr.New("invalid tone", goerr.V("tone", t))
	}
}

// String returns the string representation of Tone
func (t Tone) String() string {
	return string(t)
}
