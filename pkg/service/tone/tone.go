package tone

import (
	"regexp"

	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

// category couples a tone with the patterns that trigger it. Categories
// are evaluated in order and the first match wins, so the slice order is
// the tie-break when a message matches several keyword sets.
type category struct {
	tone     types.Tone
	patterns []*regexp.Regexp
}

var categories = []category{
	{
		tone: types.ToneSad,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(sad|unhappy|depressed|depressing|miserable|heartbroken|crying|lonely|grief|upset)\b`),
			regexp.MustCompile(`(?i)\bfeel(ing)? (down|low|blue|terrible|awful)\b`),
		},
	},
	{
		tone: types.ToneExcited,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(excited|thrilled|amazing|awesome|fantastic|can'?t wait|stoked)\b`),
			regexp.MustCompile(`!{2,}`),
		},
	},
	{
		tone: types.ToneAngry,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(angry|furious|annoyed|annoying|frustrated|frustrating|hate|fed up|pissed)\b`),
		},
	},
}

// Detect classifies the message into a single coarse tone. One pass,
// first match wins, neutral when nothing matches.
func Detect(message string) types.Tone {
	for _, c := range categories {
		for _, p := range c.patterns {
			if p.MatchString(message) {
				return c.tone
			}
		}
	}
	return types.ToneNeutral
}
