package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/batch"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/metrics"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/raster"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/tour"
)

var (
	outputDir       string
	workers         int
	onlyScenes      []string
	metricsTextfile string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a WebP preview still of every scene",
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	t, err := tour.Load(cfg.Tour.File)
	if err != nil {
		return err
	}
	logTourIssues(t)

	scenes := t.Scenes
	if len(onlyScenes) > 0 {
		scenes = filterScenes(scenes, onlyScenes)
	}
	if len(scenes) == 0 {
		fmt.Println("No scenes to render.")
		return nil
	}

	collector := metrics.New()
	batchCfg := batch.Config{
		Scenes:      scenes,
		OutputDir:   cfg.Render.OutputDir,
		Backend:     raster.Software{},
		Images:      imageSource(),
		Viewer:      cfg.Viewer.Settings(),
		Width:       cfg.Render.Width,
		Height:      cfg.Render.Height,
		Supersample: cfg.Render.Supersample,
		Workers:     cfg.Render.Workers,
		Log:         logger,
		Observer:    collector,
	}

	fmt.Printf("Wairimu tour stills -> WebP\n")
	fmt.Printf("Scenes: %d, Workers: %d, Size: %dx%d (x%d)\n",
		len(scenes), batchCfg.Workers, batchCfg.Width, batchCfg.Height, batchCfg.Supersample)
	fmt.Printf("Output: %s\n", batchCfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(cmd.Context(), batchCfg)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %s\n", since(start))

	var failed []batch.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed {
			fmt.Printf("  %s (%s): %s\n", r.Scene, r.Name, r.Error)
		}
	}

	manifestPath := filepath.Join(batchCfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, batchCfg, results); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Printf("Manifest: %s\n", manifestPath)

	if metricsTextfile != "" {
		if err := prometheus.WriteToTextfile(metricsTextfile, collector.Registry()); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d stills failed", len(failed), len(results))
	}
	return nil
}

func filterScenes(scenes []scene.Scene, ids []string) []scene.Scene {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []scene.Scene
	for _, s := range scenes {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out
}
