package viewer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
)

// Frame advances the session by one tick at time now: finished loads are
// applied, a due navigation fires, the orientation eases and the picture
// is drawn. It reports whether a picture was drawn.
func (v *Viewer) Frame(now time.Time) bool {
	if v.status != StatusReady {
		return false
	}
	v.drain()

	if v.pending != nil && !now.Before(v.pending.due) {
		target := v.pending.target
		v.dismiss()
		if err := v.graph.Switch(target); err != nil {
			v.log.Warn("navigation ignored", zap.String("scene", target), zap.Error(err))
		} else {
			v.enter(v.graph.Active())
		}
	}

	v.engine.Step()
	v.camera.LookAt(v.engine.LookDirection())

	f := &render.Frame{
		Camera:   v.camera,
		Sphere:   v.sphere,
		Surface:  v.surface,
		Panorama: v.panorama,
		Overlays: v.markers.Overlays(),
	}
	if err := v.rctx.Draw(f); err != nil {
		v.log.Warn("frame draw failed", zap.Error(err))
		return false
	}
	v.stats.Frames++
	v.observer.FrameDrawn()
	return true
}
