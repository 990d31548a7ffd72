package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Persona holds the CLI flag for the persona definition file
type Persona struct {
	path string
}

// personaDoc is the TOML document shape for a persona file
type personaDoc struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Style       []string          `toml:"style"`
	Tone        map[string]string `toml:"tone"`
}

// Flags returns CLI flags for persona configuration
func (p *Persona) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "persona",
			Usage:       "Path to a TOML persona definition (uses the built-in persona when omitted)",
			Sources:     cli.EnvVars("MNEMOS_PERSONA"),
			Destination: &p.path,
		},
	}
}

// Configure loads the persona from the configured TOML file, falling back
// to the built-in persona when no file is given
func (p *Persona) Configure() (*model.Persona, error) {
	if p.path == "" {
		return model.DefaultPersona(), nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read persona file", goerr.V("path", p.path))
	}

	var doc personaDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse persona TOML", goerr.V("path", p.path))
	}

	persona := &model.Persona{
		Name:         doc.Name,
		Description:  doc.Description,
		Style:        doc.Style,
		ToneGuidance: make(map[types.Tone]string, len(doc.Tone)),
	}
	for key, guidance := range doc.Tone {
		t := types.Tone(key)
		if err := t.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid tone in persona file", goerr.V("path", p.path), goerr.V("tone", key))
		}
		persona.ToneGuidance[t] = guidance
	}

	if err := persona.Validate(); err != nil {
		return nil, goerr.Wrap(err, "persona validation failed", goerr.V("path", p.path))
	}

	return persona, nil
}
