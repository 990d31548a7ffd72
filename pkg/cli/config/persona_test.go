package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mnemos/pkg/cli/config"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

func TestPersonaDefault(t *testing.T) {
	cfg := config.NewPersonaForTest("")

	persona, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, persona.Name).Equal("Mnemo")
}

func TestPersonaFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persona.toml")
	doc := `
name = "Corsair"
description = "a salty pirate assistant"
style = ["Speak like a pirate.", "Keep it short."]

[tone]
sad = "Cheer the user up with a sea shanty."
excited = "Celebrate loudly."
`
	gt.NoError(t, os.WriteFile(path, []byte(doc), 0600)).Required()

	persona, err := config.NewPersonaForTest(path).Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, persona.Name).Equal("Corsair")
	gt.Array(t, persona.Style).Length(2)
	gt.Value(t, persona.ToneGuidance[types.ToneSad]).Equal("Cheer the user up with a sea shanty.")
	gt.Value(t, persona.ToneGuidance[types.ToneAngry]).Equal("")
}

func TestPersonaInvalidTone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persona.toml")
	doc := `
name = "Corsair"
description = "a salty pirate assistant"

[tone]
grumpy = "not a real tone"
`
	gt.NoError(t, os.WriteFile(path, []byte(doc), 0600)).Required()

	if _, err := config.NewPersonaForTest(path).Configure(); err == nil {
		t.Fatal("expected error for unknown tone")
	}
}

func TestPersonaMissingFile(t *testing.T) {
	if _, err := config.NewPersonaForTest("/no/such/file.toml").Configure(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPersonaMissingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persona.toml")
	doc := `description = "a persona with no name"`
	gt.NoError(t, os.WriteFile(path, []byte(doc), 0600)).Required()

	if _, err := config.NewPersonaForTest(path).Configure(); err == nil {
		t.Fatal("expected error for missing name")
	}
}
