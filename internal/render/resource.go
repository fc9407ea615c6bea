package render

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
)

// ResourceKind names the class of backend resource a handle owns.
type ResourceKind int

const (
	KindGeometry ResourceKind = iota
	KindMaterial
	KindTexture
)

func (k ResourceKind) String() string {
	switch k {
	case KindGeometry:
		return "geometry"
	case KindMaterial:
		return "material"
	case KindTexture:
		return "texture"
	}
	return "unknown"
}

// Pool tracks every live resource allocated through a rendering context.
// Backends do not garbage-collect: each allocation must be paired with Dispose.
type Pool struct {
	mu        sync.Mutex
	next      uint64
	live      map[uint64]ResourceKind
	allocated int
	released  int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{live: make(map[uint64]ResourceKind)}
}

func (p *Pool) acquire(kind ResourceKind) handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.live[p.next] = kind
	p.allocated++
	return handle{pool: p, id: p.next, kind: kind}
}

func (p *Pool) release(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.live[id]; ok {
		delete(p.live, id)
		p.released++
	}
}

// Live returns the number of resources not yet disposed.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// LiveKind returns the number of live resources of one kind.
func (p *Pool) LiveKind(kind ResourceKind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, k := range p.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Counts returns lifetime allocation and release totals.
func (p *Pool) Counts() (allocated, released int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated, p.released
}

// handle is the disposal half shared by every resource type.
type handle struct {
	pool *Pool
	id   uint64
	kind ResourceKind
}

type disposer struct {
	handle
	once     sync.Once
	disposed atomic.Bool
}

// Dispose releases the resource. Calling it more than once is harmless.
func (d *disposer) Dispose() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		d.disposed.Store(true)
		d.pool.release(d.id)
	})
}

// Disposed reports whether Dispose has run.
func (d *disposer) Disposed() bool {
	return d != nil && d.disposed.Load()
}

// Shape is the primitive a geometry describes.
type Shape int

const (
	ShapeSphere Shape = iota
	ShapeRing
	ShapeCircle
)

// Geometry is a vertex buffer in backend terms; the software backend keeps
// only the analytic description.
type Geometry struct {
	disposer
	Shape    Shape
	Radius   float64 // sphere or circle radius, ring outer radius
	Inner    float64 // ring inner radius
	Segments int
}

// Material is a flat colour with opacity.
type Material struct {
	disposer
	Color   color.NRGBA
	Opacity float64
}

// Texture is an image uploaded to the backend.
type Texture struct {
	disposer
	Image *image.NRGBA
}

// NewSphere allocates sphere geometry viewed from the inside.
func (p *Pool) NewSphere(radius float64, segments int) *Geometry {
	return &Geometry{disposer: disposer{handle: p.acquire(KindGeometry)}, Shape: ShapeSphere, Radius: radius, Segments: segments}
}

// NewRing allocates a flat annulus.
func (p *Pool) NewRing(inner, outer float64, segments int) *Geometry {
	return &Geometry{disposer: disposer{handle: p.acquire(KindGeometry)}, Shape: ShapeRing, Radius: outer, Inner: inner, Segments: segments}
}

// NewCircle allocates a flat disc.
func (p *Pool) NewCircle(radius float64, segments int) *Geometry {
	return &Geometry{disposer: disposer{handle: p.acquire(KindGeometry)}, Shape: ShapeCircle, Radius: radius, Segments: segments}
}

// NewMaterial allocates a material.
func (p *Pool) NewMaterial(c color.NRGBA, opacity float64) *Material {
	return &Material{disposer: disposer{handle: p.acquire(KindMaterial)}, Color: c, Opacity: opacity}
}

// NewTexture uploads img.
func (p *Pool) NewTexture(img *image.NRGBA) *Texture {
	return &Texture{disposer: disposer{handle: p.acquire(KindTexture)}, Image: img}
}
