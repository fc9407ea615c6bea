// Package property serves the fixed facts about the station.
package property

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed property.yaml
var factsYAML []byte

type Location struct {
	Region           string `yaml:"region" json:"region"`
	Country          string `yaml:"country" json:"country"`
	NearestTown      string `yaml:"nearest_town" json:"nearestTown"`
	DriveFromAirport string `yaml:"drive_from_airport" json:"driveFromAirport"`
}

type Area struct {
	Hectares          float64 `yaml:"hectares" json:"hectares"`
	EffectiveHectares float64 `yaml:"effective_hectares" json:"effectiveHectares"`
	IrrigatedHectares float64 `yaml:"irrigated_hectares" json:"irrigatedHectares"`
}

type Visa struct {
	Summary string   `yaml:"summary" json:"summary"`
	Notes   []string `yaml:"notes" json:"notes"`
}

type Contact struct {
	Agent string `yaml:"agent" json:"agent"`
	Email string `yaml:"email" json:"email"`
	Phone string `yaml:"phone" json:"phone"`
}

// Facts is the body of GET /api/property.
type Facts struct {
	Name                 string   `yaml:"name" json:"name"`
	Location             Location `yaml:"location" json:"location"`
	Area                 Area     `yaml:"area" json:"area"`
	LandUse              []string `yaml:"land_use" json:"landUse"`
	Features             []string `yaml:"features" json:"features"`
	InvestmentHighlights []string `yaml:"investment_highlights" json:"investmentHighlights"`
	Visa                 Visa     `yaml:"visa" json:"visa"`
	Contact              Contact  `yaml:"contact" json:"contact"`
}

// Parse decodes a facts document.
func Parse(data []byte) (Facts, error) {
	var f Facts
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Facts{}, fmt.Errorf("property: parse facts: %w", err)
	}
	if f.Name == "" {
		return Facts{}, fmt.Errorf("property: facts without a name")
	}
	return f, nil
}

// Default returns the facts built into the binary.
func Default() Facts {
	f, err := Parse(factsYAML)
	if err != nil {
		panic(err)
	}
	return f
}
