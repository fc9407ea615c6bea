package scene

// Kind classifies what selecting a hotspot does.
type Kind string

const (
	KindInfo       Kind = "info"
	KindNavigation Kind = "navigation"
	KindMedia      Kind = "media"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInfo, KindNavigation, KindMedia:
		return true
	}
	return false
}

// Position is a direction on the panorama sphere in degrees.
// Theta is the azimuth, Phi the polar angle measured down from the zenith.
type Position struct {
	Theta float64 `json:"theta" yaml:"theta"`
	Phi   float64 `json:"phi" yaml:"phi"`
}

// Hotspot is an interactive marker anchored to a direction in a scene.
type Hotspot struct {
	ID          string   `json:"id" yaml:"id"`
	Position    Position `json:"position" yaml:"position"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	TargetScene string   `json:"targetScene,omitempty" yaml:"target_scene,omitempty"`
	Kind        Kind     `json:"type" yaml:"type"`
}

// Navigates reports whether selecting h should move to another scene.
func (h Hotspot) Navigates() bool {
	return h.Kind == KindNavigation && h.TargetScene != ""
}

// View is an optional initial look direction for a scene, in degrees.
type View struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// Scene is one equirectangular panorama plus its hotspots.
type Scene struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	ImageURL    string    `json:"imageUrl" yaml:"image"`
	Hotspots    []Hotspot `json:"hotspots" yaml:"hotspots"`
	InitialView *View     `json:"initialView,omitempty" yaml:"initial_view,omitempty"`
}

// Hotspot returns the hotspot with the given id.
func (s Scene) Hotspot(id string) (Hotspot, bool) {
	for _, h := range s.Hotspots {
		if h.ID == id {
			return h, true
		}
	}
	return Hotspot{}, false
}
