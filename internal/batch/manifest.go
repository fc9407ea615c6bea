package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one rendered scene in the output manifest.
type ManifestEntry struct {
	Scene       string `json:"scene"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image"`
	Hotspots    int    `json:"hotspots"`
}

// WriteManifest writes manifest.json for the scenes whose still rendered.
func WriteManifest(path string, cfg Config, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for i, r := range results {
		if !r.Success {
			continue
		}
		s := cfg.Scenes[i]
		entries = append(entries, ManifestEntry{
			Scene:       s.ID,
			Name:        s.Name,
			Description: s.Description,
			Image:       r.Image,
			Hotspots:    len(s.Hotspots),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
