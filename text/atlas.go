package text

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gourcego/gfx/gpucore"
)

// Glyph is an atlas entry.
type Glyph struct {
	Texture gpucore.TextureID
	// UV is the texture rectangle (u0, v0, u1, v1).
	UV mgl32.Vec4
	// Size is the quad size in pixels.
	Size mgl32.Vec2
	// Bearing is the offset from the pen position to the quad's top-left
	// corner, Y growing downwards.
	Bearing mgl32.Vec2
}

// Atlas looks up rasterized glyphs.
type Atlas interface {
	Glyph(id GlyphID) (Glyph, bool)
}

const (
	atlasPadding  = 1
	atlasMinWidth = 64
	atlasMaxWidth = 2048
)

// FontAtlas is an Atlas built by rasterizing glyph outlines into a single
// white image whose alpha channel holds coverage.
//
// The image must be uploaded by the caller and the resulting texture handed
// to SetTexture before the atlas is used for drawing.
type FontAtlas struct {
	img    *image.NRGBA
	glyphs map[GlyphID]Glyph
	tex    gpucore.TextureID
}

// Compile-time interface check.
var _ Atlas = (*FontAtlas)(nil)

type rasterGlyph struct {
	id      GlyphID
	mask    *image.Alpha
	bearing image.Point
	x, y    int
}

// NewFontAtlas rasterizes ids from fontData at size pixels per em.
// Glyphs without an outline, such as spaces, and color glyphs are left out.
func NewFontAtlas(fontData []byte, size float32, ids []GlyphID) (*FontAtlas, error) {
	if len(fontData) == 0 {
		return nil, ErrEmptyFont
	}
	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}

	var buf sfnt.Buffer
	ppem := floatToFixed(size)
	rasters := make([]*rasterGlyph, 0, len(ids))
	seen := make(map[GlyphID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		segs, err := f.LoadGlyph(&buf, sfnt.GlyphIndex(id), ppem, nil)
		if errors.Is(err, sfnt.ErrColoredGlyph) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("text: load glyph %d: %w", id, err)
		}
		if g := rasterize(id, segs); g != nil {
			rasters = append(rasters, g)
		}
	}

	a := &FontAtlas{glyphs: make(map[GlyphID]Glyph, len(rasters))}
	w, h := pack(rasters)
	a.img = image.NewNRGBA(image.Rect(0, 0, w, h))
	for _, g := range rasters {
		a.blit(g)
		b := g.mask.Bounds()
		a.glyphs[g.id] = Glyph{
			UV: mgl32.Vec4{
				float32(g.x) / float32(w),
				float32(g.y) / float32(h),
				float32(g.x+b.Dx()) / float32(w),
				float32(g.y+b.Dy()) / float32(h),
			},
			Size:    mgl32.Vec2{float32(b.Dx()), float32(b.Dy())},
			Bearing: mgl32.Vec2{float32(g.bearing.X), float32(g.bearing.Y)},
		}
	}
	return a, nil
}

// Image returns the atlas image.
func (a *FontAtlas) Image() *image.NRGBA { return a.img }

// Len returns the number of glyphs in the atlas.
func (a *FontAtlas) Len() int { return len(a.glyphs) }

// Texture returns the texture set with SetTexture.
func (a *FontAtlas) Texture() gpucore.TextureID { return a.tex }

// SetTexture sets the texture the atlas image was uploaded to.
func (a *FontAtlas) SetTexture(tex gpucore.TextureID) { a.tex = tex }

// Glyph implements Atlas.
func (a *FontAtlas) Glyph(id GlyphID) (Glyph, bool) {
	g, ok := a.glyphs[id]
	if !ok {
		return Glyph{}, false
	}
	g.Texture = a.tex
	return g, true
}

func (a *FontAtlas) blit(g *rasterGlyph) {
	b := g.mask.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			cov := g.mask.AlphaAt(x, y).A
			if cov == 0 {
				continue
			}
			a.img.SetNRGBA(g.x+x, g.y+y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: cov})
		}
	}
}

// rasterize fills the outline into an alpha mask sized to its pixel
// bounds. It returns nil for an empty outline.
func rasterize(id GlyphID, segs sfnt.Segments) *rasterGlyph {
	if len(segs) == 0 {
		return nil
	}
	bounds := segs.Bounds()
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	w, h := bounds.Max.X.Ceil()-minX, bounds.Max.Y.Ceil()-minY
	if w <= 0 || h <= 0 {
		return nil
	}

	ox, oy := float32(minX), float32(minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fixedToFloat(p.X) - ox, fixedToFloat(p.Y) - oy
	}
	r := vector.NewRasterizer(w, h)
	for i, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				r.ClosePath()
			}
			r.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			dx, dy := pt(s.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return &rasterGlyph{id: id, mask: mask, bearing: image.Pt(minX, minY)}
}

// pack places glyphs on shelves, tallest first, and returns the atlas size.
// The width is the smallest power of two that roughly squares the atlas.
func pack(glyphs []*rasterGlyph) (int, int) {
	if len(glyphs) == 0 {
		return 1, 1
	}
	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].mask.Bounds().Dy() > glyphs[j].mask.Bounds().Dy()
	})

	area, widest := 0, 0
	for _, g := range glyphs {
		b := g.mask.Bounds()
		area += (b.Dx() + atlasPadding) * (b.Dy() + atlasPadding)
		widest = max(widest, b.Dx()+2*atlasPadding)
	}
	width := atlasMinWidth
	for width*width < area && width < atlasMaxWidth {
		width *= 2
	}
	for width < widest {
		width *= 2
	}

	x, y, shelf := atlasPadding, atlasPadding, 0
	for _, g := range glyphs {
		b := g.mask.Bounds()
		if x+b.Dx()+atlasPadding > width {
			x = atlasPadding
			y += shelf + atlasPadding
			shelf = 0
		}
		g.x, g.y = x, y
		x += b.Dx() + atlasPadding
		shelf = max(shelf, b.Dy())
	}
	return width, y + shelf + atlasPadding
}
