package tour

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/scene"
)

const twoScenes = `
initial_scene: b
scenes:
  - id: a
    name: A
    image: a.jpg
    hotspots:
      - id: go-b
        type: navigation
        target_scene: b
        position: {theta: 10, phi: 90}
      - id: plain
        position: {theta: 20, phi: 90}
  - id: b
    name: B
    image: b.jpg
    initial_view: {lon: 15, lat: -5}
`

func TestParse(t *testing.T) {
	tr, err := Parse([]byte(twoScenes))
	require.NoError(t, err)
	assert.Equal(t, "b", tr.InitialScene)
	require.Len(t, tr.Scenes, 2)
	assert.Equal(t, "a.jpg", tr.Scenes[0].ImageURL)
	assert.Equal(t, scene.KindNavigation, tr.Scenes[0].Hotspots[0].Kind)
	assert.Equal(t, scene.KindInfo, tr.Scenes[0].Hotspots[1].Kind)
	require.NotNil(t, tr.Scenes[1].InitialView)
	assert.Equal(t, 15.0, tr.Scenes[1].InitialView.Lon)
	assert.Empty(t, tr.Issues)
	assert.NoError(t, tr.Strict())
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("scenes:\n  - id: a\n    imgae: a.jpg\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("initial_scene: a\n"))
	assert.ErrorIs(t, err, ErrNoScenes)
}

func TestParseCollectsIssues(t *testing.T) {
	tr, err := Parse([]byte(`
scenes:
  - id: a
    image: a.jpg
    hotspots:
      - id: gone
        type: navigation
        target_scene: removed
`))
	require.NoError(t, err)
	require.Len(t, tr.Issues, 1)
	assert.Contains(t, tr.Strict().Error(), "removed")
}

func TestShippedTourIsValid(t *testing.T) {
	tr, err := Load(filepath.Join("..", "..", "tour.yaml"))
	require.NoError(t, err)
	assert.NoError(t, tr.Strict())
	assert.Len(t, tr.Scenes, 4)
	assert.Equal(t, "homestead", tr.InitialScene)
}

func TestWatcherReloadsAndKeepsLastGoodTour(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("rename semantics differ")
	}
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "tour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoScenes), 0o644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	changed := make(chan *Tour, 4)
	w.OnChange(func(tr *Tour) { changed <- tr })
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("scenes:\n  - id: only\n    image: only.jpg\n"), 0o644))
	select {
	case tr := <-changed:
		require.Len(t, tr.Scenes, 1)
		assert.Equal(t, "only", tr.Scenes[0].ID)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
	assert.Equal(t, "only", w.Current().Scenes[0].ID)
	reloads := w.Reloads()

	require.NoError(t, os.WriteFile(path, []byte("scenes: [broken"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, "only", w.Current().Scenes[0].ID)
	assert.Equal(t, reloads, w.Reloads())
}
