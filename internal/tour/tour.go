// Package tour reads the scene list of the virtual tour from YAML.
package tour

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
)

// ErrNoScenes is returned for a tour file without scenes.
var ErrNoScenes = errors.New("tour: no scenes")

// Tour is a parsed tour file.
type Tour struct {
	InitialScene string        `yaml:"initial_scene" json:"initialScene,omitempty"`
	Scenes       []scene.Scene `yaml:"scenes" json:"scenes"`

	// Issues are content problems the viewer tolerates.
	Issues []scene.Issue `yaml:"-" json:"-"`
}

// Load reads and parses the tour file at path.
func Load(path string) (*Tour, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tour: read %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("tour: parse %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a tour document. Unknown fields are rejected so typos in
// content edits surface early.
func Parse(data []byte) (*Tour, error) {
	var t Tour
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}
	if len(t.Scenes) == 0 {
		return nil, ErrNoScenes
	}
	for i := range t.Scenes {
		for j := range t.Scenes[i].Hotspots {
			if t.Scenes[i].Hotspots[j].Kind == "" {
				t.Scenes[i].Hotspots[j].Kind = scene.KindInfo
			}
		}
	}
	t.Issues = scene.Validate(t.Scenes)
	return &t, nil
}

// Strict returns an error listing every content issue, or nil.
func (t *Tour) Strict() error {
	if len(t.Issues) == 0 {
		return nil
	}
	errs := make([]error, 0, len(t.Issues))
	for _, issue := range t.Issues {
		errs = append(errs, errors.New(issue.String()))
	}
	return errors.Join(errs...)
}

// Current returns t itself, so a fixed tour can stand in for a Watcher.
func (t *Tour) Current() *Tour { return t }
