package system

import (
	"image"
	"sync"
)

// imagePool reuses *image.RGBA scratch buffers between frame renders
// to keep GC pressure down. Pools are keyed by rectangle so frames of
// the one sequence being rendered all hit the same pool.
type imagePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &imagePool{
	pools: make(map[string]*sync.Pool),
}

// GetImage returns an *image.RGBA for the rectangle, reused if one is
// available. The pixel content is undefined; callers overwrite it.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.get(rect)
}

// PutImage returns a buffer to the pool for reuse.
func PutImage(img *image.RGBA) {
	globalPool.put(img)
}

func (p *imagePool) get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *imagePool) put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
