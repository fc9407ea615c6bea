package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/inquiry"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/panorama"
	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/viewer"
)

// Config holds all service settings.
type Config struct {
	// BaseDir anchors relative paths; it defaults to the directory of the
	// config file.
	BaseDir string `yaml:"base_dir"`

	Server  ServerConfig  `yaml:"server"`
	Tour    TourConfig    `yaml:"tour"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Inquiry InquiryConfig `yaml:"inquiry"`
	Log     LogConfig     `yaml:"log"`
	Render  RenderConfig  `yaml:"render"`
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	InquiryRate    float64       `yaml:"inquiry_rate"` // requests per minute per IP
	InquiryBurst   int           `yaml:"inquiry_burst"`
	MaxSessions    int           `yaml:"max_sessions"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TourConfig struct {
	File     string `yaml:"file"`
	Watch    bool   `yaml:"watch"`
	ImageDir string `yaml:"image_dir"`
	// MaxImageWidth scales larger panoramas down on load.
	MaxImageWidth int `yaml:"max_image_width"`
}

type ViewerConfig struct {
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	FOV             float64       `yaml:"fov"`
	Sensitivity     float64       `yaml:"sensitivity"`
	Smoothing       float64       `yaml:"smoothing"`
	SphereRadius    float64       `yaml:"sphere_radius"`
	MarkerRadius    float64       `yaml:"marker_radius"`
	ClickSlop       float64       `yaml:"click_slop"`
	FrameRate       int           `yaml:"frame_rate"`
	NavigationDelay time.Duration `yaml:"navigation_delay"`
	LoadTimeout     time.Duration `yaml:"load_timeout"`
	AllowFullscreen bool          `yaml:"allow_fullscreen"`
}

// Settings converts the section into viewer settings.
func (v ViewerConfig) Settings() viewer.Settings {
	return viewer.Settings{
		Width:  v.Width,
		Height: v.Height,
		FOV:    v.FOV,
		Engine: panorama.Settings{
			Sensitivity:  v.Sensitivity,
			Smoothing:    v.Smoothing,
			SphereRadius: v.SphereRadius,
			ClickSlop:    v.ClickSlop,
		},
		MarkerRadius:    v.MarkerRadius,
		NavigationDelay: v.NavigationDelay,
		LoadTimeout:     v.LoadTimeout,
		FrameRate:       v.FrameRate,
	}
}

type InquiryConfig struct {
	Database     string `yaml:"database"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
}

// SMTP returns the mail server settings; ok is false when no host is set.
func (i InquiryConfig) SMTP() (inquiry.SMTPConfig, bool) {
	return inquiry.SMTPConfig{
		Host:     i.SMTPHost,
		Port:     i.SMTPPort,
		Username: i.SMTPUser,
		Password: i.SMTPPassword,
		From:     i.From,
		To:       i.To,
	}, i.SMTPHost != ""
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RenderConfig struct {
	OutputDir   string `yaml:"output_dir"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Supersample int    `yaml:"supersample"`
	Workers     int    `yaml:"workers"`
}

// Default returns the settings used when no file overrides them.
func Default() Config {
	vs := viewer.DefaultSettings()
	return Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			InquiryRate:   5,
			InquiryBurst:  3,
			MaxSessions:   32,
			ShutdownGrace: 10 * time.Second,
		},
		Tour: TourConfig{
			File:          "tour.yaml",
			Watch:         true,
			ImageDir:      "images",
			MaxImageWidth: 4096,
		},
		Viewer: ViewerConfig{
			Width:           vs.Width,
			Height:          vs.Height,
			FOV:             vs.FOV,
			Sensitivity:     vs.Engine.Sensitivity,
			Smoothing:       vs.Engine.Smoothing,
			SphereRadius:    vs.Engine.SphereRadius,
			MarkerRadius:    vs.MarkerRadius,
			ClickSlop:       vs.Engine.ClickSlop,
			FrameRate:       vs.FrameRate,
			NavigationDelay: vs.NavigationDelay,
			LoadTimeout:     vs.LoadTimeout,
			AllowFullscreen: true,
		},
		Inquiry: InquiryConfig{
			Database: "data/inquiries.db",
			SMTPPort: 587,
			From:     "tour@wairimu.example.nz",
			To:       "sales@wairimu.example.nz",
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Render: RenderConfig{
			OutputDir:   "stills",
			Width:       1280,
			Height:      720,
			Supersample: 2,
		},
	}
}

// Load reads a YAML config file over the defaults. Fields not set in the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	BaseDir   string
	TourFile  string
	Port      int
	OutputDir string
	Workers   int
	LogLevel  string
}

// Resolve applies CLI overrides, makes paths absolute against BaseDir and
// fills remaining defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.BaseDir != "" {
		c.BaseDir = flags.BaseDir
	}
	if flags.TourFile != "" {
		c.Tour.File = flags.TourFile
	}
	if flags.Port > 0 {
		c.Server.Port = flags.Port
	}
	if flags.OutputDir != "" {
		c.Render.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Render.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}
	c.Tour.File = c.resolvePath(c.Tour.File)
	c.Tour.ImageDir = c.resolvePath(c.Tour.ImageDir)
	c.Render.OutputDir = c.resolvePath(c.Render.OutputDir)
	if c.Inquiry.Database != ":memory:" {
		c.Inquiry.Database = c.resolvePath(c.Inquiry.Database)
	}

	// Defaults for render settings
	if c.Render.Supersample <= 0 {
		c.Render.Supersample = 1
	}
	if c.Render.Workers <= 0 {
		c.Render.Workers = runtime.NumCPU()
	}
}

func (c *Config) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
