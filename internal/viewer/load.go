package viewer

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
)

// loadResult is a finished panorama load, tagged with the generation that
// started it.
type loadResult struct {
	gen   uint64
	scene string
	img   *image.NRGBA
	err   error
}

// startLoad fetches the panorama of s in the background. Any earlier load
// is cancelled; its result will no longer match the generation.
func (v *Viewer) startLoad(s scene.Scene) {
	if v.loadCancel != nil {
		v.loadCancel()
	}
	v.gen++
	gen := v.gen

	var ctx context.Context
	var cancel context.CancelFunc
	if v.settings.LoadTimeout > 0 {
		ctx, cancel = context.WithTimeout(v.ctx, v.settings.LoadTimeout)
	} else {
		ctx, cancel = context.WithCancel(v.ctx)
	}
	v.loadCancel = cancel
	v.loadStart = v.clock()
	v.state = loading()

	images, done, results := v.images, v.done, v.results
	go func() {
		defer cancel()
		img, err := images.Load(ctx, s.ImageURL)
		select {
		case results <- loadResult{gen: gen, scene: s.ID, img: img, err: err}:
		case <-done:
		}
	}()
}

// drain applies every load that has completed so far.
func (v *Viewer) drain() {
	for {
		select {
		case res := <-v.results:
			v.apply(res)
		default:
			return
		}
	}
}

func (v *Viewer) apply(res loadResult) {
	if v.status != StatusReady || res.gen != v.gen {
		v.stats.Discarded++
		v.observer.LoadDiscarded(res.scene)
		v.log.Debug("stale panorama load discarded", zap.String("scene", res.scene))
		return
	}

	took := v.clock().Sub(v.loadStart)
	v.observer.ImageLoaded(res.scene, took, res.err)
	if v.state.mode == ModeLoading {
		v.state = idle()
	}
	if res.err != nil {
		v.stats.Failed++
		v.log.Warn("panorama load failed", zap.String("scene", res.scene), zap.Error(res.err))
		return
	}

	next := v.rctx.Pool().NewTexture(res.img)
	if v.panorama != nil {
		v.panorama.Dispose()
	}
	v.panorama = next
	v.showing = res.scene
	v.stats.Loaded++
	v.log.Debug("panorama loaded", zap.String("scene", res.scene), zap.Duration("took", took))
}

// Loading reports whether a panorama load is in flight.
func (v *Viewer) Loading() bool {
	return v.status == StatusReady && v.state.mode == ModeLoading
}

// WaitLoaded blocks until the current panorama load has been applied or
// failed. It is meant for callers that own the viewer directly, such as
// still rendering.
func (v *Viewer) WaitLoaded(ctx context.Context) error {
	for v.Loading() {
		select {
		case res := <-v.results:
			v.apply(res)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
