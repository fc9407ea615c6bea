package viewer

import (
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/panorama"
)

// Status is the lifecycle stage of a session.
type Status int

const (
	StatusNew Status = iota
	// StatusEmpty means there were no scenes to show.
	StatusEmpty
	StatusReady
	// StatusUnsupported means the rendering backend could not be set up.
	StatusUnsupported
	StatusUnmounted
)

var statusNames = [...]string{"new", "empty", "ready", "unsupported", "unmounted"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Mode is the interaction state. Exactly one holds at a time, so a drag can
// never run while a hotspot panel is open or a panorama is loading.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeLoading
	ModeShowingHotspot
)

var modeNames = [...]string{"idle", "dragging", "loading", "showing_hotspot"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// interaction is the tagged state; hotspot is set only in ModeShowingHotspot.
type interaction struct {
	mode    Mode
	hotspot string
}

func idle() interaction             { return interaction{mode: ModeIdle} }
func dragging() interaction         { return interaction{mode: ModeDragging} }
func loading() interaction          { return interaction{mode: ModeLoading} }
func showing(id string) interaction { return interaction{mode: ModeShowingHotspot, hotspot: id} }

// Panel is the info panel for the selected hotspot.
type Panel struct {
	Hotspot     string `json:"hotspot"`
	Kind        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Target and TargetName describe the navigation affordance, if any.
	Target     string `json:"targetScene,omitempty"`
	TargetName string `json:"targetName,omitempty"`
}

// SceneRef is one entry of the scene selector.
type SceneRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// View is a snapshot of everything the session shows besides the picture.
type View struct {
	Status      Status               `json:"status"`
	Reason      string               `json:"reason,omitempty"`
	Mode        Mode                 `json:"mode"`
	Scene       string               `json:"scene,omitempty"`
	SceneName   string               `json:"sceneName,omitempty"`
	Description string               `json:"description,omitempty"`
	Showing     string               `json:"showing,omitempty"` // scene whose panorama is on screen
	Loading     bool                 `json:"loading"`
	Hovered     string               `json:"hovered,omitempty"`
	Panel       *Panel               `json:"panel,omitempty"`
	Fullscreen  bool                 `json:"fullscreen"`
	Orientation panorama.Orientation `json:"orientation"`
	Frames      int64                `json:"frames"`
	Scenes      []SceneRef           `json:"scenes,omitempty"`
}

// Stats counts panorama loads over the life of a session.
type Stats struct {
	Frames    int64
	Loaded    int
	Failed    int
	Discarded int
}
