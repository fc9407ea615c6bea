package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
viewer:
  click_slop: 4
  navigation_delay: 2s
inquiry:
  smtp_host: smtp.example.nz
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 75.0, cfg.Viewer.FOV)
	assert.Equal(t, 2*time.Second, cfg.Viewer.NavigationDelay)
	assert.Equal(t, dir, cfg.BaseDir)

	s := cfg.Viewer.Settings()
	assert.Equal(t, 4.0, s.Engine.ClickSlop)
	assert.Equal(t, 0.1, s.Engine.Sensitivity)

	smtp, ok := cfg.Inquiry.SMTP()
	assert.True(t, ok)
	assert.Equal(t, 587, smtp.Port)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	cfg := Default()
	cfg.BaseDir = "/srv/wairimu"
	cfg.Render.Supersample = 0
	cfg.Resolve(Flags{Port: 7000, TourFile: "/etc/tour.yaml", Workers: 3})

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/etc/tour.yaml", cfg.Tour.File)
	assert.Equal(t, filepath.Join("/srv/wairimu", "images"), cfg.Tour.ImageDir)
	assert.Equal(t, filepath.Join("/srv/wairimu", "data", "inquiries.db"), cfg.Inquiry.Database)
	assert.Equal(t, 3, cfg.Render.Workers)
	assert.Equal(t, 1, cfg.Render.Supersample)
	assert.Equal(t, "0.0.0.0:7000", cfg.Server.Addr())

	_, ok := cfg.Inquiry.SMTP()
	assert.False(t, ok)
}
