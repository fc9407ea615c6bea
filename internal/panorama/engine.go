package panorama

import (
	"math"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
)

// Settings tunes pointer response and easing.
type Settings struct {
	Sensitivity  float64 // degrees per pixel of drag
	Smoothing    float64 // fraction of the remaining distance covered per frame
	SphereRadius float64
	// ClickSlop is the distance in pixels a pointer may travel and still
	// count as a click. Zero means any move cancels the click.
	ClickSlop float64
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		Sensitivity:  0.1,
		Smoothing:    0.05,
		SphereRadius: 500,
	}
}

// settleEpsilon is the per-axis distance in degrees below which easing is
// treated as finished.
const settleEpsilon = 1e-3

type gesture struct {
	active bool
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	moved  bool
}

// Engine turns pointer drags into a target orientation and eases the
// current orientation towards it once per frame.
//
// Input methods write only the target; Step is the only writer of the
// current orientation.
type Engine struct {
	settings Settings
	target   Orientation
	current  Orientation
	gesture  gesture
}

// NewEngine creates an engine looking at longitude 0 on the horizon.
func NewEngine(s Settings) *Engine {
	if s.SphereRadius <= 0 {
		s.SphereRadius = DefaultSettings().SphereRadius
	}
	return &Engine{settings: s}
}

func (e *Engine) Settings() Settings   { return e.settings }
func (e *Engine) Target() Orientation  { return e.target }
func (e *Engine) Current() Orientation { return e.current }
func (e *Engine) Dragging() bool       { return e.gesture.active }

// SetOrientation jumps both target and current to o.
func (e *Engine) SetOrientation(o Orientation) {
	o = o.Clamped()
	e.target = o
	e.current = o
}

// PointerDown starts a gesture at (x, y).
func (e *Engine) PointerDown(x, y float64) {
	e.gesture = gesture{active: true, startX: x, startY: y, lastX: x, lastY: y}
}

// PointerMove rotates the target by the movement since the last pointer
// position. It reports false when no gesture is active.
func (e *Engine) PointerMove(x, y float64) bool {
	g := &e.gesture
	if !g.active {
		return false
	}
	dx := x - g.lastX
	dy := y - g.lastY
	g.lastX, g.lastY = x, y

	if !g.moved {
		slop := e.settings.ClickSlop
		if slop <= 0 || math.Hypot(x-g.startX, y-g.startY) > slop {
			g.moved = true
		}
	}

	e.target.Lon -= dx * e.settings.Sensitivity
	e.target.Lat = ClampLat(e.target.Lat + dy*e.settings.Sensitivity)
	return true
}

// PointerUp ends the gesture. It reports whether the gesture was a click,
// meaning no counted movement happened between down and up.
func (e *Engine) PointerUp(x, y float64) bool {
	g := e.gesture
	e.gesture = gesture{}
	if !g.active {
		return false
	}
	return !g.moved
}

// Cancel abandons the current gesture without producing a click.
func (e *Engine) Cancel() {
	e.gesture = gesture{}
}

// Step advances the current orientation one frame towards the target.
func (e *Engine) Step() Orientation {
	e.current = e.current.Ease(e.target, e.settings.Smoothing)
	return e.current
}

// Settled reports whether current has effectively reached target.
func (e *Engine) Settled() bool {
	return e.current.Near(e.target, settleEpsilon)
}

// LookDirection is the point on the panorama sphere the camera aims at.
func (e *Engine) LookDirection() mathutil.Vec3 {
	return e.current.Direction(e.settings.SphereRadius)
}
