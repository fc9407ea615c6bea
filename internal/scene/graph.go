package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownScene is returned when switching to an id absent from the graph.
	ErrUnknownScene = errors.New("scene: unknown scene")
	// ErrEmpty is returned when a graph is built from no scenes.
	ErrEmpty = errors.New("scene: no scenes")
)

// Graph owns an immutable scene list and tracks which scene is active.
type Graph struct {
	scenes []Scene
	index  map[string]int
	active int
}

// NewGraph builds a graph whose active scene is initial, or the first scene
// when initial is empty or unknown.
func NewGraph(scenes []Scene, initial string) (*Graph, error) {
	if len(scenes) == 0 {
		return nil, ErrEmpty
	}
	g := &Graph{
		scenes: append([]Scene(nil), scenes...),
		index:  make(map[string]int, len(scenes)),
	}
	for i, s := range g.scenes {
		// First occurrence wins for duplicated ids.
		if _, dup := g.index[s.ID]; !dup {
			g.index[s.ID] = i
		}
	}
	if i, ok := g.index[initial]; ok {
		g.active = i
	}
	return g, nil
}

// Active returns the active scene.
func (g *Graph) Active() Scene {
	return g.scenes[g.active]
}

// ActiveID returns the id of the active scene.
func (g *Graph) ActiveID() string {
	return g.scenes[g.active].ID
}

// Has reports whether a scene with the id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Lookup returns the scene with the id.
func (g *Graph) Lookup(id string) (Scene, bool) {
	i, ok := g.index[id]
	if !ok {
		return Scene{}, false
	}
	return g.scenes[i], true
}

// Switch makes id the active scene. Unknown ids leave the graph unchanged.
func (g *Graph) Switch(id string) error {
	i, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	g.active = i
	return nil
}

// Scenes returns a copy of the scene list in input order.
func (g *Graph) Scenes() []Scene {
	return append([]Scene(nil), g.scenes...)
}

func (g *Graph) Len() int {
	return len(g.scenes)
}
