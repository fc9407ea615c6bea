package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScenes() []Scene {
	return []Scene{
		{ID: "a", Name: "Homestead", ImageURL: "a.jpg", Hotspots: []Hotspot{
			{ID: "h1", Kind: KindInfo, Title: "Verandah"},
			{ID: "go-b", Kind: KindNavigation, TargetScene: "b"},
		}},
		{ID: "b", Name: "Woolshed", ImageURL: "b.jpg"},
	}
}

func TestNewGraphEmpty(t *testing.T) {
	g, err := NewGraph(nil, "")
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNewGraphInitialScene(t *testing.T) {
	g, err := NewGraph(testScenes(), "")
	require.NoError(t, err)
	assert.Equal(t, "a", g.ActiveID())

	g, err = NewGraph(testScenes(), "b")
	require.NoError(t, err)
	assert.Equal(t, "b", g.ActiveID())

	g, err = NewGraph(testScenes(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "a", g.ActiveID(), "unknown initial scene falls back to the first")
}

func TestSwitchUnknownIsNoop(t *testing.T) {
	g, err := NewGraph(testScenes(), "")
	require.NoError(t, err)
	before := g.Active()

	err = g.Switch("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownScene))
	assert.Equal(t, before.ID, g.ActiveID())
	assert.Len(t, g.Active().Hotspots, len(before.Hotspots))

	require.NoError(t, g.Switch("b"))
	assert.Equal(t, "Woolshed", g.Active().Name)
}

func TestGraphCopiesInput(t *testing.T) {
	in := testScenes()
	g, err := NewGraph(in, "")
	require.NoError(t, err)
	in[0].Name = "changed"
	assert.Equal(t, "Homestead", g.Active().Name)

	out := g.Scenes()
	out[1].Name = "changed"
	s, ok := g.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, "Woolshed", s.Name)
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(testScenes()))

	bad := []Scene{
		{ID: "a", ImageURL: "a.jpg", Hotspots: []Hotspot{
			{ID: "x", Kind: KindNavigation},
			{ID: "x", Kind: KindInfo},
			{ID: "y", Kind: "teleport"},
			{ID: "z", Kind: KindNavigation, TargetScene: "gone"},
		}},
		{ID: "a"},
	}
	issues := Validate(bad)
	var problems []string
	for _, i := range issues {
		problems = append(problems, i.String())
	}
	assert.Contains(t, problems, `scene "a": duplicate scene id`)
	assert.Contains(t, problems, `scene "a" hotspot "x": navigation hotspot without target scene`)
	assert.Contains(t, problems, `scene "a" hotspot "x": duplicate hotspot id`)
	assert.Contains(t, problems, `scene "a" hotspot "y": unknown type "teleport"`)
	assert.Contains(t, problems, `scene "a" hotspot "z": target scene "gone" does not exist`)
	assert.Contains(t, problems, `scene "a": missing image`)
}

func TestHotspotNavigates(t *testing.T) {
	assert.True(t, Hotspot{Kind: KindNavigation, TargetScene: "b"}.Navigates())
	assert.False(t, Hotspot{Kind: KindNavigation}.Navigates())
	assert.False(t, Hotspot{Kind: KindInfo, TargetScene: "b"}.Navigates())
}
