package text

import "github.com/gourcego/gfx/internal/lru"

// DefaultLineCacheSize is the number of shaped lines a LineCache keeps
// when NewLineCache is given a non-positive limit.
const DefaultLineCacheSize = 1024

type lineKey struct {
	s    string
	size float32
}

// LineCache memoizes Shaper.Shape for labels that are drawn every frame.
// It is safe for concurrent use.
type LineCache struct {
	shaper *Shaper
	lines  *lru.Cache[lineKey, Line]
}

// NewLineCache returns a cache over sh holding up to limit lines.
func NewLineCache(sh *Shaper, limit int) *LineCache {
	if limit <= 0 {
		limit = DefaultLineCacheSize
	}
	return &LineCache{shaper: sh, lines: lru.New[lineKey, Line](limit)}
}

// Shaper returns the underlying shaper.
func (c *LineCache) Shaper() *Shaper { return c.shaper }

// Line returns s shaped at size, shaping it on first use. The returned
// Line shares its glyph slice with the cache and must not be modified.
func (c *LineCache) Line(s string, size float32) Line {
	return c.lines.GetOrCreate(lineKey{s, size}, func() Line {
		return c.shaper.Shape(s, size)
	})
}

// Len returns the number of cached lines.
func (c *LineCache) Len() int { return c.lines.Len() }

// HitRate returns the fraction of Line calls served from the cache.
func (c *LineCache) HitRate() float64 { return c.lines.Stats().HitRate() }
