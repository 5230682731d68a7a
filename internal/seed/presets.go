package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yml
var presetsYAML []byte

// EntryTemplate is a reusable entry skeleton from the presets file. A
// "{tag}" placeholder in the title or body is replaced with the tag the
// generated entry is labelled with.
type EntryTemplate struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Presets holds the demo-data vocabulary: bed names, tag names, and
// entry templates for both entry types.
type Presets struct {
	Beds  []string        `yaml:"beds"`
	Tags  []string        `yaml:"tags"`
	Notes []EntryTemplate `yaml:"notes"`
	Todos []EntryTemplate `yaml:"todos"`
}

// LoadPresets parses the embedded presets file.
func LoadPresets() (*Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(presetsYAML, &p); err != nil {
		return nil, fmt.Errorf("parsing seed presets: %w", err)
	}
	if len(p.Beds) == 0 || len(p.Tags) == 0 || len(p.Notes) == 0 || len(p.Todos) == 0 {
		return nil, fmt.Errorf("seed presets are incomplete")
	}
	return &p, nil
}
