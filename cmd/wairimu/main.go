// Command wairimu serves the Wairimu Station virtual tour and renders its
// preview stills.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/config"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/logging"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/texture"
)

const defaultConfigFile = "config.yaml"

var (
	// Global flags
	configFile string
	baseDir    string
	tourFile   string
	logLevel   string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "wairimu",
	Short:         "Wairimu Station virtual tour",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		cfg.Resolve(config.Flags{
			BaseDir:   baseDir,
			TourFile:  tourFile,
			Port:      port,
			OutputDir: outputDir,
			Workers:   workers,
			LogLevel:  logLevel,
		})

		logger, err = logging.New(logging.Options{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			Verbose: verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads --config, or config.yaml in the working directory when
// present, over the built-in defaults.
func loadConfig() (config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	c, err := config.Load(defaultConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return c, err
}

// imageSource builds the panorama loader shared by every session.
func imageSource() *texture.Cache {
	idx := texture.BuildIndex(cfg.Tour.ImageDir)
	logger.Info("panorama images indexed",
		zap.String("dir", cfg.Tour.ImageDir),
		zap.Int("files", idx.Len()))
	return texture.NewCache(&texture.Loader{
		Client:   &http.Client{Timeout: cfg.Viewer.LoadTimeout},
		Index:    idx,
		BaseDir:  cfg.Tour.ImageDir,
		MaxWidth: cfg.Tour.MaxImageWidth,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Directory relative paths resolve against")
	rootCmd.PersistentFlags().StringVar(&tourFile, "tour", "", "Path to the tour YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")

	renderCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for stills")
	renderCmd.Flags().IntVar(&workers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	renderCmd.Flags().StringSliceVar(&onlyScenes, "scene", nil, "Render only these scene ids")
	renderCmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "Write render metrics in Prometheus text format to this file")

	validateCmd.Flags().BoolVar(&checkImages, "check-images", false, "Also check that local panorama images exist")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func since(start time.Time) string {
	return fmt.Sprintf("%.1fs", time.Since(start).Seconds())
}
