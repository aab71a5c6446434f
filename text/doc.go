// Package text lays out labels as glyph quads for a gfx.QuadBuffer.
//
// A [Shaper] shapes a string with go-text/typesetting into a [Line] of
// positioned glyphs. A [FontAtlas] rasterizes the glyphs a set of lines
// needs into one image; once that image is uploaded and the texture set,
// [Line.AddTo] emits a quad per glyph:
//
//	sh, _ := text.NewShaper(goregular.TTF)
//	line := sh.Shape("main.go", 14)
//	atlas, _ := text.NewFontAtlas(sh.FontData(), 14, line.GlyphIDs())
//	tex, _ := dev.CreateTexture(atlas.Image())
//	atlas.SetTexture(tex)
//
//	line.AddTo(qb, atlas, mgl32.Vec2{x, y}, color)
//	qb.Update()
//	textShader.Bind()
//	qb.Draw(false)
//
// The atlas image is white with coverage in alpha, which suits both the
// basic textured shader and the text shaders of the backends.
package text
