package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/backend"
	"github.com/gourcego/gfx/gpucore"
	"github.com/gourcego/gfx/text"
)

const (
	labelSize = 13
	iconSize  = 10
	glowScale = 3
)

// fileKinds are the icon shapes, one texture each.
var fileKinds = []struct {
	ext   string
	color mgl32.Vec4
	shape func(x, y, r float32) bool
}{
	{".go", mgl32.Vec4{0.35, 0.8, 1, 1}, func(x, y, r float32) bool { return x*x+y*y <= r*r }},
	{".md", mgl32.Vec4{1, 0.85, 0.35, 1}, func(x, y, r float32) bool { return math32.Abs(x) <= r && math32.Abs(y) <= r }},
	{".toml", mgl32.Vec4{0.6, 1, 0.5, 1}, func(x, y, r float32) bool { return math32.Abs(x)+math32.Abs(y) <= r }},
}

var dirNames = []string{"cmd", "internal", "docs", "backend", "text", "recording"}

type file struct {
	kind  int
	index int
}

type dir struct {
	name  string
	files []file
	color mgl32.Vec4
}

// scene is a small animated source tree: directories orbit the root, files
// orbit their directory. It draws edges in immediate mode, directory glows
// through a BloomBuffer, file icons and labels through QuadBuffers.
type scene struct {
	r *gfx.Renderer

	icons  []gpucore.TextureID
	lines  *text.LineCache
	atlas  *text.FontAtlas
	dirs   []dir
	files  *gfx.QuadBuffer
	labels *gfx.QuadBuffer
	glow   *gfx.BloomBuffer
}

func newScene(b backend.Backend, r *gfx.Renderer, filesPerDir int) (*scene, error) {
	s := &scene{
		r:      r,
		files:  gfx.NewQuadBuffer(r, 0),
		labels: gfx.NewQuadBuffer(r, 0),
		glow:   gfx.NewBloomBuffer(r, 0),
	}

	for _, k := range fileKinds {
		tex, err := b.CreateTexture(iconImage(k.shape))
		if err != nil {
			return nil, fmt.Errorf("icon %s: %w", k.ext, err)
		}
		s.icons = append(s.icons, tex)
	}

	shaper, err := text.NewShaper(goregular.TTF)
	if err != nil {
		return nil, err
	}
	s.lines = text.NewLineCache(shaper, 0)
	var glyphs []text.GlyphID
	for i, name := range dirNames {
		d := dir{
			name:  name,
			color: hue(float32(i) / float32(len(dirNames))),
		}
		for j := 0; j < filesPerDir; j++ {
			d.files = append(d.files, file{kind: (i + j) % len(fileKinds), index: j})
		}
		glyphs = append(glyphs, s.lines.Line(name, labelSize).GlyphIDs()...)
		s.dirs = append(s.dirs, d)
	}
	s.atlas, err = text.NewFontAtlas(shaper.FontData(), labelSize, glyphs)
	if err != nil {
		return nil, err
	}
	tex, err := b.CreateTexture(s.atlas.Image())
	if err != nil {
		return nil, fmt.Errorf("label atlas: %w", err)
	}
	s.atlas.SetTexture(tex)
	return s, nil
}

func (s *scene) release() {
	s.files.Release()
	s.labels.Release()
	s.glow.Release()
}

func (s *scene) dirPos(i int, t float32, center mgl32.Vec2, radius float32) mgl32.Vec2 {
	a := 2*math32.Pi*float32(i)/float32(len(s.dirs)) + 0.15*t
	return center.Add(mgl32.Vec2{math32.Cos(a), math32.Sin(a)}.Mul(radius))
}

func filePos(d *dir, f file, t float32, at mgl32.Vec2) mgl32.Vec2 {
	a := 2*math32.Pi*float32(f.index)/float32(len(d.files)) + 0.6*t
	r := float32(36 + 8*(f.index%3))
	return at.Add(mgl32.Vec2{math32.Cos(a), math32.Sin(a)}.Mul(r))
}

// draw renders the tree at time t seconds for a width x height viewport.
func (s *scene) draw(t float32, width, height int) {
	r := s.r
	r.Mode2D(width, height)
	center := mgl32.Vec2{float32(width) / 2, float32(height) / 2}
	radius := 0.3 * float32(min(width, height))

	dirAt := make([]mgl32.Vec2, len(s.dirs))
	for i := range s.dirs {
		dirAt[i] = s.dirPos(i, t, center, radius)
	}

	r.Begin(gpucore.PrimitiveLines)
	for i := range s.dirs {
		d := &s.dirs[i]
		r.ColorV(mgl32.Vec4{1, 1, 1, 0.25})
		r.Vertex2(center)
		r.Vertex2(dirAt[i])
		r.ColorV(d.color.Mul(0.6))
		for _, f := range d.files {
			r.Vertex2(dirAt[i])
			r.Vertex2(filePos(d, f, t, dirAt[i]))
		}
	}
	r.End()

	s.glow.Reset()
	for i := range s.dirs {
		gr := float32(12+2*len(s.dirs[i].files)) * glowScale
		at := dirAt[i]
		c := s.dirs[i].color
		c[3] = 0.5 + 0.25*math32.Sin(t+float32(i))
		s.glow.Add(0, at.Sub(mgl32.Vec2{gr, gr}), mgl32.Vec2{2 * gr, 2 * gr}, c,
			mgl32.Vec4{gr, at[0], at[1], 0})
	}
	s.glow.Update()
	s.glow.Draw()

	// Files are queued kind by kind so each icon texture is one run.
	s.files.Reset()
	half := mgl32.Vec2{iconSize / 2, iconSize / 2}
	for k := range fileKinds {
		for i := range s.dirs {
			d := &s.dirs[i]
			for _, f := range d.files {
				if f.kind != k {
					continue
				}
				p := filePos(d, f, t, dirAt[i]).Sub(half)
				s.files.Add(s.icons[k], p, mgl32.Vec2{iconSize, iconSize}, fileKinds[k].color)
			}
		}
	}
	s.files.Update()
	s.files.Draw(true)

	s.labels.Reset()
	for i := range s.dirs {
		l := s.lines.Line(s.dirs[i].name, labelSize)
		origin := dirAt[i].Add(mgl32.Vec2{-l.Width / 2, -iconSize - 4})
		l.AddTo(s.labels, s.atlas, origin, mgl32.Vec4{1, 1, 1, 0.9})
	}
	s.labels.Update()
	s.labels.DrawWithShader(r.Shaders().Text)

	r.DrawQuad(center[0]-6, center[1]-6, 12, 12, mgl32.Vec4{1, 1, 1, 1})
}

// iconImage draws a white 32x32 icon whose alpha follows shape.
func iconImage(shape func(x, y, r float32) bool) image.Image {
	const n = 32
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			fx, fy := float32(x)-n/2+0.5, float32(y)-n/2+0.5
			if shape(fx, fy, n/2-2) {
				img.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
			}
		}
	}
	return img
}

// hue returns a saturated color for h in [0, 1).
func hue(h float32) mgl32.Vec4 {
	f := func(n float32) float32 {
		k := math32.Mod(n+h*6, 6)
		return 1 - math32.Max(0, math32.Min(1, math32.Min(k, 4-k)))
	}
	return mgl32.Vec4{f(5), f(3), f(1), 1}
}
