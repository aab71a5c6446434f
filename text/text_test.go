package text

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-text/typesetting/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/gpucore"
	"github.com/gourcego/gfx/recording"
)

func newTestShaper(t *testing.T) *Shaper {
	t.Helper()
	sh, err := NewShaper(goregular.TTF)
	require.NoError(t, err)
	return sh
}

func TestNewShaperErrors(t *testing.T) {
	_, err := NewShaper(nil)
	assert.True(t, errors.Is(err, ErrEmptyFont), "NewShaper(nil) = %v", err)

	_, err = NewShaper([]byte("not a font"))
	assert.Error(t, err)
}

func TestShape(t *testing.T) {
	sh := newTestShaper(t)
	line := sh.Shape("Hello", 16)

	require.Len(t, line.Glyphs, 5)
	assert.Equal(t, float32(16), line.Size)
	assert.Greater(t, line.Ascent, float32(0))
	assert.GreaterOrEqual(t, line.Descent, float32(0))

	var sum float32
	for i, g := range line.Glyphs {
		assert.Equal(t, i, g.Cluster, "glyph %d cluster", i)
		assert.Greater(t, g.Advance, float32(0), "glyph %d advance", i)
		if i > 0 {
			assert.Greater(t, g.X, line.Glyphs[i-1].X, "glyph %d pen", i)
		}
		sum += g.Advance
	}
	assert.InDelta(t, sum, line.Width, 1e-3)
	assert.Equal(t, line.Glyphs[2].ID, line.Glyphs[3].ID, "both l glyphs share an id")
	assert.Len(t, line.GlyphIDs(), 4)

	lo, hi := line.Bounds()
	assert.Equal(t, mgl32.Vec2{0, -line.Ascent}, lo)
	assert.Equal(t, mgl32.Vec2{line.Width, line.Descent}, hi)
}

func TestShapeScales(t *testing.T) {
	sh := newTestShaper(t)
	small := sh.Shape("gfx", 10)
	large := sh.Shape("gfx", 20)
	assert.InDelta(t, 2*small.Width, large.Width, 1)
}

func TestShapeEmpty(t *testing.T) {
	sh := newTestShaper(t)
	assert.Empty(t, sh.Shape("", 16).Glyphs)
	assert.Empty(t, sh.Shape("abc", 0).Glyphs)
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		in   string
		want di.Direction
	}{
		{"main.go", di.DirectionLTR},
		{"\u05e9\u05dc\u05d5\u05dd", di.DirectionRTL},
		{"docs \u05e9\u05dc\u05d5\u05dd", di.DirectionLTR},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectDirection(tt.in), "detectDirection(%q)", tt.in)
	}
}

func TestFontAtlas(t *testing.T) {
	sh := newTestShaper(t)
	line := sh.Shape("a b", 24)
	require.Len(t, line.Glyphs, 3)

	atlas, err := NewFontAtlas(sh.FontData(), 24, line.GlyphIDs())
	require.NoError(t, err)
	assert.Equal(t, 2, atlas.Len(), "space has no outline")

	_, ok := atlas.Glyph(line.Glyphs[1].ID)
	assert.False(t, ok, "space glyph present")

	img := atlas.Image()
	for _, i := range []int{0, 2} {
		g, ok := atlas.Glyph(line.Glyphs[i].ID)
		require.True(t, ok, "glyph %d missing", i)
		assert.Greater(t, g.Size.X(), float32(0))
		assert.Greater(t, g.Size.Y(), float32(0))
		assert.Less(t, g.Bearing.Y(), float32(0), "glyph %d should sit above the baseline", i)
		for _, v := range g.UV {
			assert.True(t, v >= 0 && v <= 1, "uv %v out of range", g.UV)
		}
		assert.Less(t, g.UV[0], g.UV[2])
		assert.Less(t, g.UV[1], g.UV[3])

		// Some pixel inside the glyph rectangle must carry coverage.
		x0 := int(g.UV[0] * float32(img.Bounds().Dx()))
		y0 := int(g.UV[1] * float32(img.Bounds().Dy()))
		covered := false
		for y := y0; y < y0+int(g.Size.Y()) && !covered; y++ {
			for x := x0; x < x0+int(g.Size.X()); x++ {
				if img.NRGBAAt(x, y).A > 0 {
					covered = true
					break
				}
			}
		}
		assert.True(t, covered, "glyph %d has no coverage", i)
	}

	assert.Equal(t, gpucore.TextureID(0), atlas.Texture())
	atlas.SetTexture(9)
	g, _ := atlas.Glyph(line.Glyphs[0].ID)
	assert.Equal(t, gpucore.TextureID(9), g.Texture)
}

func TestFontAtlasEmpty(t *testing.T) {
	atlas, err := NewFontAtlas(goregular.TTF, 16, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, atlas.Len())
	assert.Equal(t, 1, atlas.Image().Bounds().Dx())

	_, err = NewFontAtlas(nil, 16, []GlyphID{1})
	assert.True(t, errors.Is(err, ErrEmptyFont))
}

func TestPackNoOverlap(t *testing.T) {
	sh := newTestShaper(t)
	line := sh.Shape("The quick brown fox jumps over the lazy dog 0123456789", 32)
	atlas, err := NewFontAtlas(sh.FontData(), 32, line.GlyphIDs())
	require.NoError(t, err)

	w := float32(atlas.Image().Bounds().Dx())
	h := float32(atlas.Image().Bounds().Dy())
	type rect struct{ x0, y0, x1, y1 float32 }
	var rects []rect
	for _, id := range line.GlyphIDs() {
		g, ok := atlas.Glyph(id)
		if !ok {
			continue
		}
		rects = append(rects, rect{g.UV[0] * w, g.UV[1] * h, g.UV[2] * w, g.UV[3] * h})
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			overlap := a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
			assert.False(t, overlap, "glyph rects %d and %d overlap", i, j)
		}
	}
}

// mapAtlas serves a fixed set of glyphs.
type mapAtlas map[GlyphID]Glyph

func (m mapAtlas) Glyph(id GlyphID) (Glyph, bool) {
	g, ok := m[id]
	return g, ok
}

func TestLineAddTo(t *testing.T) {
	dev := recording.NewDevice()
	r, err := gfx.NewRenderer(dev)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	qb := gfx.NewQuadBuffer(r, 8)

	line := Line{Glyphs: []PositionedGlyph{
		{ID: 1, X: 0, Advance: 10},
		{ID: 2, X: 10, Advance: 10},
		{ID: 3, X: 20, Y: 2, Advance: 10},
	}}
	atlas := mapAtlas{
		1: {Texture: 5, UV: mgl32.Vec4{0, 0, 0.5, 0.5}, Size: mgl32.Vec2{8, 12}, Bearing: mgl32.Vec2{1, -12}},
		3: {Texture: 5, UV: mgl32.Vec4{0.5, 0, 1, 0.5}, Size: mgl32.Vec2{6, 6}, Bearing: mgl32.Vec2{0, -6}},
	}
	color := mgl32.Vec4{1, 0, 0, 1}
	line.AddTo(qb, atlas, mgl32.Vec2{100, 50}, color)

	require.Equal(t, 8, qb.Vertices(), "glyph 2 is not in the atlas")
	assert.Equal(t, 1, qb.TextureChanges())

	v := qb.Data()
	assert.Equal(t, mgl32.Vec2{101, 38}, v[0].Position)
	assert.Equal(t, mgl32.Vec2{109, 50}, v[2].Position)
	assert.Equal(t, mgl32.Vec2{0.5, 0.5}, v[2].TexCoord)
	assert.Equal(t, mgl32.Vec2{120, 46}, v[4].Position)
	assert.Equal(t, mgl32.Vec2{0.5, 0}, v[4].TexCoord)
	assert.Equal(t, color, v[7].Color)
}

func TestLineAddToDraws(t *testing.T) {
	sh := newTestShaper(t)
	line := sh.Shape("gfx demo", 14)
	atlas, err := NewFontAtlas(sh.FontData(), 14, line.GlyphIDs())
	require.NoError(t, err)
	atlas.SetTexture(3)

	dev := recording.NewDevice()
	txt := recording.NewShader(dev, "text")
	r, err := gfx.NewRenderer(dev, gfx.WithShaders(gfx.ShaderSet{Text: txt}))
	require.NoError(t, err)
	t.Cleanup(r.Release)
	r.Mode2D(320, 240)

	qb := gfx.NewQuadBuffer(r, 0)
	line.AddTo(qb, atlas, mgl32.Vec2{10, 20}, mgl32.Vec4{1, 1, 1, 1})
	assert.Equal(t, 4*7, qb.Vertices(), "seven visible glyphs")
	qb.Update()
	qb.DrawWithShader(r.Shaders().Text)

	draws := dev.DrawCalls()
	require.Len(t, draws, 1)
	assert.Equal(t, gpucore.TextureID(3), draws[0].State.Texture)
	assert.Equal(t, 7*6, draws[0].Count)
	assert.Equal(t, "text", draws[0].State.Shader)
}

func TestLineCache(t *testing.T) {
	sh := newTestShaper(t)
	c := NewLineCache(sh, 2)
	assert.Same(t, sh, c.Shaper())

	a := c.Line("main.go", 12)
	b := c.Line("main.go", 12)
	require.NotEmpty(t, a.Glyphs)
	assert.Same(t, &a.Glyphs[0], &b.Glyphs[0], "second lookup should reuse the shaped line")
	assert.InDelta(t, 0.5, c.HitRate(), 1e-9)

	big := c.Line("main.go", 24)
	assert.Greater(t, big.Width, a.Width, "size is part of the key")

	c.Line("README.md", 12)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, DefaultLineCacheSize, NewLineCache(sh, 0).lines.Limit())
}
