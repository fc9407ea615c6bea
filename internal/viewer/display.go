package viewer

import (
	"errors"
	"sync"
)

// ErrFullscreenRefused is returned by a Surface that does not allow
// fullscreen.
var ErrFullscreenRefused = errors.New("viewer: fullscreen refused")

// Surface is the Display of a headless session, such as a websocket
// client. Refuse makes every request to enter fullscreen fail.
type Surface struct {
	Refuse bool

	mu         sync.Mutex
	fullscreen bool
}

func (s *Surface) SetFullscreen(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on && s.Refuse {
		return ErrFullscreenRefused
	}
	s.fullscreen = on
	return nil
}

// Fullscreen reports the current mode.
func (s *Surface) Fullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen
}
