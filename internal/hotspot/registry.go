package hotspot

import (
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/mathutil"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
)

// DefaultRadius keeps markers just inside a 500-unit panorama sphere.
const DefaultRadius = 480.0

// Registry places the hotspots of the active scene, tracks hover and
// selection, and resolves pointer rays to markers.
type Registry struct {
	pool     *render.Pool
	radius   float64
	markers  []*Marker
	hovered  string
	selected string
}

// NewRegistry creates an empty registry allocating from pool.
func NewRegistry(pool *render.Pool, radius float64) *Registry {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Registry{pool: pool, radius: radius}
}

// Rebuild releases every resource of the current markers, then places hs.
// Hover and selection are cleared.
func (r *Registry) Rebuild(hs []scene.Hotspot) {
	r.Dispose()
	r.markers = make([]*Marker, 0, len(hs))
	for _, h := range hs {
		r.markers = append(r.markers, newMarker(r.pool, h, r.radius))
	}
}

// Dispose releases all marker resources. Calling it twice is harmless.
func (r *Registry) Dispose() {
	for _, m := range r.markers {
		m.dispose()
	}
	r.markers = nil
	r.hovered = ""
	r.selected = ""
}

func (r *Registry) Markers() []*Marker { return r.markers }
func (r *Registry) Hovered() string    { return r.hovered }
func (r *Registry) Selected() string   { return r.selected }

// Lookup returns the marker for a hotspot id.
func (r *Registry) Lookup(id string) (*Marker, bool) {
	for _, m := range r.markers {
		if m.Hotspot.ID == id {
			return m, true
		}
	}
	return nil, false
}

// HitTest returns the nearest marker the ray passes through.
func (r *Registry) HitTest(ray mathutil.Ray) (*Marker, bool) {
	var best *Marker
	bestT := 0.0
	for _, m := range r.markers {
		t, ok := m.hit(ray)
		if !ok {
			continue
		}
		if best == nil || t < bestT {
			best, bestT = m, t
		}
	}
	return best, best != nil
}

// SetHover marks id as hovered; "" clears the hover. Unknown ids clear it
// too. It reports whether anything changed.
func (r *Registry) SetHover(id string) bool {
	if _, ok := r.Lookup(id); !ok {
		id = ""
	}
	if id == r.hovered {
		return false
	}
	r.hovered = id
	r.restyle()
	return true
}

// Select marks id as selected; "" clears the selection.
func (r *Registry) Select(id string) bool {
	if _, ok := r.Lookup(id); !ok {
		id = ""
	}
	if id == r.selected {
		return false
	}
	r.selected = id
	r.restyle()
	return true
}

func (r *Registry) restyle() {
	for _, m := range r.markers {
		id := m.Hotspot.ID
		switch {
		case r.selected != "" && id == r.selected:
			m.setState(Selected)
		case r.hovered != "" && id == r.hovered:
			m.setState(Hovered)
		default:
			m.setState(Idle)
		}
	}
}

// Overlays returns the drawable parts of every marker.
func (r *Registry) Overlays() []render.Overlay {
	out := make([]render.Overlay, 0, len(r.markers)*3)
	for _, m := range r.markers {
		out = m.overlays(out)
	}
	return out
}
