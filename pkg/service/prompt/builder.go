package prompt

import (
	"bytes"
	_ "embed"
	"sort"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
)

//go:embed templates/system.md
var systemPromptTmpl string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTmpl))

// HistoryWindow is the number of recent messages handed to the model
const HistoryWindow = 5

// Builder turns a context snapshot into the exact completion payload.
// Deterministic: identical snapshot and tone yield byte-identical output.
type Builder struct {
	persona *model.Persona
}

func New(persona *model.Persona) *Builder {
	return &Builder{persona: persona}
}

// promptPreference is one preference entry for template rendering
type promptPreference struct {
	Key   string
	Value string
}

// promptData holds all data for the system instruction template
type promptData struct {
	PersonaName        string
	PersonaDescription string
	Style              []string
	HasMemory          bool
	Name               string
	Age                int
	Location           string
	Facts              []string
	Interests          string
	Preferences        []promptPreference
	ToneGuidance       string
}

// Build assembles the system instruction and the chronological turn
// window for one completion call
func (b *Builder) Build(snapshot *model.ContextSnapshot, message string) (*model.CompletionRequest, error) {
	profile := snapshot.Profile

	data := promptData{
		PersonaName:        b.persona.Name,
		PersonaDescription: b.persona.Description,
		Style:              b.persona.Style,
		ToneGuidance:       b.persona.ToneGuidance[snapshot.Tone],
	}

	if profile != nil {
		data.Name = profile.Name
		data.Age = profile.Age
		data.Location = profile.Location
		data.Facts = profile.Facts
		data.Interests = strings.Join(profile.Interests, ", ")

		// Map iteration order is random; sort keys to keep output stable
		keys := make([]string, 0, len(profile.Preferences))
		for k := range profile.Preferences {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			data.Preferences = append(data.Preferences, promptPreference{Key: k, Value: profile.Preferences[k]})
		}

		data.HasMemory = data.Name != "" || data.Age != 0 || data.Location != "" ||
			len(data.Facts) > 0 || data.Interests != "" || len(data.Preferences) > 0
	}

	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, data); err != nil {
		return nil, goerr.Wrap(err, "failed to execute system prompt template")
	}

	recent := snapshot.Recent
	if len(recent) > HistoryWindow {
		recent = recent[len(recent)-HistoryWindow:]
	}

	turns := make([]model.Turn, len(recent))
	for i, m := range recent {
		turns[i] = model.Turn{Role: m.Role, Content: m.Content}
	}

	return &model.CompletionRequest{
		Instruction: buf.String(),
		Turns:       turns,
		Message:     message,
	}, nil
}
