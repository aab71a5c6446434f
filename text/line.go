package text

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx"
)

// AddTo appends one quad per glyph to qb with the line's baseline starting
// at origin. Glyphs missing from atlas are skipped.
func (l Line) AddTo(qb *gfx.QuadBuffer, atlas Atlas, origin mgl32.Vec2, color mgl32.Vec4) {
	for _, pg := range l.Glyphs {
		g, ok := atlas.Glyph(pg.ID)
		if !ok {
			continue
		}
		pos := origin.Add(mgl32.Vec2{pg.X, pg.Y}).Add(g.Bearing)
		qb.AddUV(g.Texture, pos, g.Size, color, g.UV)
	}
}
