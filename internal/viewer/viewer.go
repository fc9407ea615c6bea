// Package viewer runs one panoramic tour session: it owns the projection
// engine, the hotspot registry and the scene graph, and drives a rendering
// backend from a single goroutine.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/hotspot"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/panorama"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/texture"
)

// ErrNoImages is reported when a session is mounted without an image source.
var ErrNoImages = errors.New("viewer: no image source")

const sphereSegments = 60

// navigation is a scene switch waiting for its delay to pass.
type navigation struct {
	target string
	due    time.Time
}

// Viewer is a single tour session. Its methods must be called from one
// goroutine; Loop provides that goroutine for interactive use.
type Viewer struct {
	opts     Options
	settings Settings
	log      *zap.Logger
	observer Observer
	clock    func() time.Time
	images   texture.Source

	status Status
	reason string
	state  interaction

	graph    *scene.Graph
	engine   *panorama.Engine
	camera   *panorama.Camera
	rctx     render.Context
	sphere   *render.Geometry
	surface  *render.Material
	markers  *hotspot.Registry
	panorama *render.Texture
	showing  string

	fullscreen bool
	pending    *navigation

	// async panorama loads
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	results    chan loadResult
	gen        uint64
	loadCancel context.CancelFunc
	loadStart  time.Time

	stats Stats
}

// New creates an unmounted viewer. Scene problems are logged, not fatal.
func New(opts Options) *Viewer {
	v := &Viewer{
		opts:     opts,
		settings: opts.Settings.withDefaults(),
		log:      opts.Logger,
		observer: opts.Observer,
		clock:    opts.Clock,
		images:   opts.Images,
		status:   StatusNew,
		done:     make(chan struct{}),
		results:  make(chan loadResult, 4),
	}
	if v.log == nil {
		v.log = zap.NewNop()
	}
	if v.observer == nil {
		v.observer = NopObserver{}
	}
	if v.clock == nil {
		v.clock = time.Now
	}
	for _, issue := range scene.Validate(opts.Scenes) {
		v.log.Warn("tour content problem", zap.String("issue", issue.String()))
	}
	return v
}

// Mount sets up the rendering context and starts loading the initial
// panorama. It never panics: any failure, including a panic inside the
// backend, releases what was allocated and leaves the session in
// StatusUnsupported with a readable reason, which is also returned.
func (v *Viewer) Mount(ctx context.Context) (err error) {
	if v.status != StatusNew {
		return fmt.Errorf("viewer: mount: session is %s", v.status)
	}
	if len(v.opts.Scenes) == 0 {
		v.status = StatusEmpty
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: setup panicked: %v", render.ErrUnsupported, r)
		}
		if err != nil {
			v.release()
			v.status = StatusUnsupported
			v.reason = err.Error()
			v.log.Warn("viewer unavailable", zap.Error(err))
			v.observer.Unsupported(v.reason)
		}
	}()

	backend := v.opts.Backend
	if backend == nil {
		return fmt.Errorf("%w: no rendering backend", render.ErrUnsupported)
	}
	if err := backend.Probe(); err != nil {
		return fmt.Errorf("viewer: %s capability check: %w", backend.Name(), err)
	}
	if v.images == nil {
		return ErrNoImages
	}

	graph, err := scene.NewGraph(v.opts.Scenes, v.opts.InitialScene)
	if err != nil {
		return err
	}
	if v.opts.InitialScene != "" && !graph.Has(v.opts.InitialScene) {
		v.log.Warn("initial scene not found, using first scene", zap.String("scene", v.opts.InitialScene))
	}
	v.graph = graph

	rctx, err := backend.NewContext(v.settings.Width, v.settings.Height)
	if err != nil {
		return fmt.Errorf("viewer: %s context: %w", backend.Name(), err)
	}
	v.rctx = rctx

	pool := rctx.Pool()
	v.sphere = pool.NewSphere(v.settings.Engine.SphereRadius, sphereSegments)
	v.surface = pool.NewMaterial(color.NRGBA{255, 255, 255, 255}, 1)
	v.markers = hotspot.NewRegistry(pool, v.settings.MarkerRadius)
	v.engine = panorama.NewEngine(v.settings.Engine)
	v.camera = panorama.NewCamera(v.settings.FOV, v.settings.Width, v.settings.Height)

	v.ctx, v.cancel = context.WithCancel(ctx)
	v.status = StatusReady
	v.enter(graph.Active())
	return nil
}

// enter shows the hotspots of s and starts loading its panorama.
func (v *Viewer) enter(s scene.Scene) {
	v.pending = nil
	v.engine.Cancel()
	v.markers.Rebuild(s.Hotspots)
	if s.InitialView != nil {
		v.engine.SetOrientation(panorama.Orientation{Lon: s.InitialView.Lon, Lat: s.InitialView.Lat})
	}
	v.observer.SceneSwitched(s.ID)
	v.startLoad(s)
}

// SelectScene switches to id. Unknown ids and the active scene are no-ops.
func (v *Viewer) SelectScene(id string) bool {
	if v.status != StatusReady {
		return false
	}
	if id == v.graph.ActiveID() {
		return false
	}
	if err := v.graph.Switch(id); err != nil {
		v.log.Warn("scene switch ignored", zap.String("scene", id), zap.Error(err))
		return false
	}
	v.enter(v.graph.Active())
	return true
}

// PointerDown starts a drag. An open hotspot panel is dismissed first.
// Input is ignored while a panorama loads.
func (v *Viewer) PointerDown(x, y float64) {
	if v.status != StatusReady {
		return
	}
	switch v.state.mode {
	case ModeLoading, ModeDragging:
		return
	case ModeShowingHotspot:
		v.dismiss()
	}
	v.engine.PointerDown(x, y)
	v.state = dragging()
}

// PointerMove rotates the view while dragging and updates the hover
// highlight otherwise.
func (v *Viewer) PointerMove(x, y float64) {
	if v.status != StatusReady {
		return
	}
	switch v.state.mode {
	case ModeDragging:
		v.engine.PointerMove(x, y)
	case ModeIdle, ModeShowingHotspot:
		id := ""
		if m, ok := v.markers.HitTest(v.camera.Ray(x, y)); ok {
			id = m.Hotspot.ID
		}
		v.markers.SetHover(id)
	}
}

// PointerUp ends a drag. A gesture without movement is a click and is
// resolved against the markers; a miss just ends the gesture.
func (v *Viewer) PointerUp(x, y float64) {
	if v.status != StatusReady || v.state.mode != ModeDragging {
		return
	}
	click := v.engine.PointerUp(x, y)
	v.state = idle()
	if !click {
		return
	}
	if m, ok := v.markers.HitTest(v.camera.Ray(x, y)); ok {
		v.selectHotspot(m.Hotspot)
	}
}

// PointerCancel abandons a drag, e.g. when the pointer leaves the surface.
func (v *Viewer) PointerCancel() {
	if v.state.mode == ModeDragging {
		v.engine.Cancel()
		v.state = idle()
	}
}

func (v *Viewer) selectHotspot(h scene.Hotspot) {
	v.markers.Select(h.ID)
	v.state = showing(h.ID)
	v.pending = nil
	if !h.Navigates() {
		return
	}
	if !v.graph.Has(h.TargetScene) {
		v.log.Warn("navigation hotspot targets unknown scene",
			zap.String("hotspot", h.ID), zap.String("target", h.TargetScene))
		return
	}
	v.pending = &navigation{target: h.TargetScene, due: v.clock().Add(v.settings.NavigationDelay)}
}

func (v *Viewer) dismiss() {
	v.markers.Select("")
	v.pending = nil
	v.state = idle()
}

// ClosePanel hides the hotspot panel and drops any pending navigation.
func (v *Viewer) ClosePanel() {
	if v.status == StatusReady && v.state.mode == ModeShowingHotspot {
		v.dismiss()
	}
}

// ToggleFullscreen asks the display to change mode. A refusal is logged and
// the previous mode stays.
func (v *Viewer) ToggleFullscreen() bool {
	want := !v.fullscreen
	if v.opts.Display != nil {
		if err := v.opts.Display.SetFullscreen(want); err != nil {
			v.log.Warn("fullscreen request failed", zap.Bool("fullscreen", want), zap.Error(err))
			return false
		}
	}
	v.fullscreen = want
	return true
}

// Resize adapts the camera and the output surface to a new viewport.
func (v *Viewer) Resize(width, height int) bool {
	if v.status != StatusReady {
		return false
	}
	prevW, prevH := v.camera.Size()
	if width == prevW && height == prevH {
		return false
	}
	if !v.camera.Resize(width, height) {
		return false
	}
	if err := v.rctx.Resize(width, height); err != nil {
		v.log.Warn("resize failed", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
		v.camera.Resize(prevW, prevH)
		return false
	}
	return true
}

// Unmount releases every resource of the session. Pending loads are
// cancelled and their results ignored. Calling it again does nothing.
func (v *Viewer) Unmount() {
	if v.status == StatusUnmounted {
		return
	}
	if v.status == StatusReady {
		v.release()
	}
	close(v.done)
	v.status = StatusUnmounted
}

// release frees everything Mount may have allocated, in any order of
// partial completion.
func (v *Viewer) release() {
	if v.cancel != nil {
		v.cancel()
	}
	if v.loadCancel != nil {
		v.loadCancel()
	}
	v.pending = nil
	if v.engine != nil {
		v.engine.Cancel()
	}
	if v.markers != nil {
		v.markers.Dispose()
	}
	if v.panorama != nil {
		v.panorama.Dispose()
		v.panorama = nil
	}
	if v.sphere != nil {
		v.sphere.Dispose()
	}
	if v.surface != nil {
		v.surface.Dispose()
	}
	if v.rctx != nil {
		v.rctx.Release()
	}
	v.state = idle()
}

// Status returns the lifecycle stage.
func (v *Viewer) Status() Status { return v.status }

// Stats returns load and frame counters.
func (v *Viewer) Stats() Stats { return v.stats }

// Snapshot returns a copy of the last drawn picture, or nil.
func (v *Viewer) Snapshot() *image.NRGBA {
	if v.status != StatusReady {
		return nil
	}
	return v.rctx.Snapshot()
}

// Camera exposes the session camera, e.g. to place pointer events on markers.
func (v *Viewer) Camera() *panorama.Camera { return v.camera }

// Markers exposes the hotspot registry of the active scene.
func (v *Viewer) Markers() *hotspot.Registry { return v.markers }

// Engine exposes the projection engine.
func (v *Viewer) Engine() *panorama.Engine { return v.engine }

// View returns the current view state.
func (v *Viewer) View() View {
	view := View{
		Status:     v.status,
		Reason:     v.reason,
		Mode:       v.state.mode,
		Fullscreen: v.fullscreen,
		Frames:     v.stats.Frames,
	}
	if v.status != StatusReady {
		return view
	}
	active := v.graph.Active()
	view.Scene = active.ID
	view.SceneName = active.Name
	view.Description = active.Description
	view.Showing = v.showing
	view.Loading = v.state.mode == ModeLoading
	view.Hovered = v.markers.Hovered()
	view.Orientation = v.engine.Current()
	for _, s := range v.graph.Scenes() {
		view.Scenes = append(view.Scenes, SceneRef{ID: s.ID, Name: s.Name})
	}
	if v.state.mode == ModeShowingHotspot {
		if h, ok := active.Hotspot(v.state.hotspot); ok {
			p := &Panel{
				Hotspot:     h.ID,
				Kind:        string(h.Kind),
				Title:       h.Title,
				Description: h.Description,
			}
			if target, ok := v.graph.Lookup(h.TargetScene); ok && h.TargetScene != "" {
				p.Target = target.ID
				p.TargetName = target.Name
			}
			view.Panel = p
		}
	}
	return view
}
