package viewer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/panorama"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/texture"
)

// Settings holds the tunables of one viewer session.
type Settings struct {
	Width  int
	Height int
	FOV    float64 // vertical, degrees

	Engine       panorama.Settings
	MarkerRadius float64

	// NavigationDelay is how long a selected navigation hotspot stays on
	// screen before the scene switches. Zero means the default; a negative
	// value switches on the next frame.
	NavigationDelay time.Duration
	// LoadTimeout bounds a single panorama load. Zero disables it.
	LoadTimeout time.Duration
	FrameRate   int
}

// DefaultSettings returns the stock session tuning.
func DefaultSettings() Settings {
	return Settings{
		Width:           960,
		Height:          540,
		FOV:             75,
		Engine:          panorama.DefaultSettings(),
		MarkerRadius:    480,
		NavigationDelay: 1500 * time.Millisecond,
		LoadTimeout:     30 * time.Second,
		FrameRate:       30,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.FOV <= 0 {
		s.FOV = d.FOV
	}
	if s.Engine.Sensitivity == 0 {
		s.Engine.Sensitivity = d.Engine.Sensitivity
	}
	if s.Engine.Smoothing <= 0 || s.Engine.Smoothing > 1 {
		s.Engine.Smoothing = d.Engine.Smoothing
	}
	if s.Engine.SphereRadius <= 0 {
		s.Engine.SphereRadius = d.Engine.SphereRadius
	}
	if s.MarkerRadius <= 0 || s.MarkerRadius >= s.Engine.SphereRadius {
		s.MarkerRadius = s.Engine.SphereRadius * 0.96
	}
	switch {
	case s.NavigationDelay == 0:
		s.NavigationDelay = d.NavigationDelay
	case s.NavigationDelay < 0:
		s.NavigationDelay = 0
	}
	if s.FrameRate <= 0 {
		s.FrameRate = d.FrameRate
	}
	return s
}

// Display switches the hosting surface in and out of fullscreen.
type Display interface {
	SetFullscreen(on bool) error
}

// Observer receives session events, typically for metrics.
type Observer interface {
	FrameDrawn()
	SceneSwitched(scene string)
	ImageLoaded(scene string, took time.Duration, err error)
	LoadDiscarded(scene string)
	Unsupported(reason string)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) FrameDrawn()                              {}
func (NopObserver) SceneSwitched(string)                     {}
func (NopObserver) ImageLoaded(string, time.Duration, error) {}
func (NopObserver) LoadDiscarded(string)                     {}
func (NopObserver) Unsupported(string)                       {}

// Options configures a viewer.
type Options struct {
	Scenes       []scene.Scene
	InitialScene string

	Backend render.Backend
	Images  texture.Source
	// Display is optional; without it fullscreen is a plain flag.
	Display  Display
	Logger   *zap.Logger
	Observer Observer
	// Clock defaults to time.Now.
	Clock func() time.Time

	Settings Settings
}
