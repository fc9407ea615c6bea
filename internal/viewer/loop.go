package viewer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type op struct {
	fn   func(*Viewer)
	done chan struct{}
}

// Loop owns a mounted viewer and drives it from one goroutine: frames on a
// ticker at the configured frame rate, input as closures passed to Do.
type Loop struct {
	v        *Viewer
	interval time.Duration
	onFrame  func(v *Viewer, drew bool)

	ops   chan op
	stop  chan struct{}
	done  chan struct{}
	ticks atomic.Int64

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

// NewLoop wraps v. onFrame, if set, runs on the loop goroutine after every
// tick.
func NewLoop(v *Viewer, onFrame func(v *Viewer, drew bool)) *Loop {
	return &Loop{
		v:        v,
		interval: time.Second / time.Duration(v.settings.FrameRate),
		onFrame:  onFrame,
		ops:      make(chan op),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the loop goroutine. It runs until ctx ends or Stop is
// called, then unmounts the viewer.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	go l.run(ctx)
}

func (l *Loop) run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer close(l.done)
	defer l.v.Unmount()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case o := <-l.ops:
			o.fn(l.v)
			close(o.done)
		case now := <-ticker.C:
			// Stop may race with the ticker; never draw after it.
			select {
			case <-l.stop:
				return
			default:
			}
			drew := l.v.Frame(now)
			l.ticks.Add(1)
			if l.onFrame != nil {
				l.onFrame(l.v, drew)
			}
		}
	}
}

// Do runs fn on the loop goroutine and waits for it. It returns false if
// the loop has already stopped.
func (l *Loop) Do(fn func(*Viewer)) bool {
	o := op{fn: fn, done: make(chan struct{})}
	select {
	case l.ops <- o:
	case <-l.done:
		return false
	}
	<-o.done
	return true
}

// Stop ends the loop and waits until the viewer is unmounted. No frame is
// drawn once Stop returns.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	l.mu.Lock()
	started := l.started
	l.started = true
	l.mu.Unlock()
	if !started {
		l.v.Unmount()
		close(l.done)
		return
	}
	<-l.done
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Ticks returns how many frame ticks the loop has run.
func (l *Loop) Ticks() int64 { return l.ticks.Load() }
