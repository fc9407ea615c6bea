// Package batch renders a preview still of every scene in a tour.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/postprocess"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/render"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/texture"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/viewer"
)

// Observer receives the viewer events of every render plus the outcome
// of each still.
type Observer interface {
	viewer.Observer
	RecordStill(err error)
}

type nopObserver struct{ viewer.NopObserver }

func (nopObserver) RecordStill(error) {}

// Config holds all shared resources for a batch run.
type Config struct {
	Scenes    []scene.Scene
	OutputDir string
	Backend   render.Backend
	Images    texture.Source
	// Viewer supplies camera and marker tuning. Its size is replaced by
	// Width and Height times Supersample.
	Viewer      viewer.Settings
	Width       int
	Height      int
	Supersample int
	Workers     int
	Log         *zap.Logger
	Observer    Observer
}

// Result holds the outcome of rendering one scene.
type Result struct {
	Scene   string
	Name    string
	Image   string
	Success bool
	Error   string
}

// Run renders every scene using a worker pool. Results keep scene order.
func Run(ctx context.Context, cfg Config) []Result {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Supersample < 1 {
		cfg.Supersample = 1
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}

	total := len(cfg.Scenes)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Log.Info("rendering stills",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("per_sec", float64(p)/elapsed))
				}
			}
		}
	}()

	// Worker pool
	sceneChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range sceneChan {
				results[idx] = renderScene(ctx, cfg, cfg.Scenes[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range cfg.Scenes {
		sceneChan <- i
	}
	close(sceneChan)

	wg.Wait()
	close(done)

	return results
}

// createFile opens a still for writing.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// loadWatch remembers the outcome of the panorama load of one render.
type loadWatch struct {
	Observer
	err error
}

func (w *loadWatch) ImageLoaded(scene string, took time.Duration, err error) {
	w.err = err
	w.Observer.ImageLoaded(scene, took, err)
}

func renderScene(ctx context.Context, cfg Config, s scene.Scene) Result {
	res := Result{Scene: s.ID, Name: s.Name, Image: stillName(s.ID)}
	err := renderStill(ctx, cfg, s, filepath.Join(cfg.OutputDir, res.Image))
	cfg.Observer.RecordStill(err)
	if err != nil {
		cfg.Log.Warn("still failed", zap.String("scene", s.ID), zap.Error(err))
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func stillName(id string) string {
	return id + ".webp"
}

func renderStill(ctx context.Context, cfg Config, s scene.Scene, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	settings := cfg.Viewer
	settings.Width = cfg.Width * cfg.Supersample
	settings.Height = cfg.Height * cfg.Supersample
	watch := &loadWatch{Observer: cfg.Observer}

	// The full scene list keeps navigation targets resolvable.
	v := viewer.New(viewer.Options{
		Scenes:       cfg.Scenes,
		InitialScene: s.ID,
		Backend:      cfg.Backend,
		Images:       cfg.Images,
		Logger:       cfg.Log.With(zap.String("scene", s.ID)),
		Observer:     watch,
		Settings:     settings,
	})
	if err := v.Mount(ctx); err != nil {
		return err
	}
	defer v.Unmount()

	if err := v.WaitLoaded(ctx); err != nil {
		return fmt.Errorf("batch: load %s: %w", s.ImageURL, err)
	}
	if watch.err != nil {
		return fmt.Errorf("batch: load %s: %w", s.ImageURL, watch.err)
	}
	if !v.Frame(time.Now()) {
		return errors.New("batch: nothing drawn")
	}
	img := v.Snapshot()
	if img == nil {
		return errors.New("batch: no snapshot")
	}

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	f, err := createFile(outPath)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("batch: close %s: %w", outPath, err)
	}
	return nil
}
