package text

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// ErrEmptyFont is returned by NewShaper for empty font data.
var ErrEmptyFont = errors.New("text: empty font data")

// GlyphID is a glyph index in the font.
type GlyphID uint16

// PositionedGlyph is a shaped glyph placed on a line. X and Y are the pen
// position of the glyph origin relative to the line origin, with Y growing
// downwards.
type PositionedGlyph struct {
	ID      GlyphID
	X, Y    float32
	Advance float32
	// Cluster is the rune index in the shaped string.
	Cluster int
}

// Line is the result of shaping a single run of text.
type Line struct {
	Glyphs []PositionedGlyph
	// Width is the sum of the glyph advances.
	Width float32
	// Ascent and Descent are the font extents at the shaped size, both
	// positive.
	Ascent, Descent float32
	Size            float32
}

// Shaper shapes strings with a single font face using HarfBuzz.
// It is safe for concurrent use.
type Shaper struct {
	// font is shared; a font.Face is created per Shape call because faces
	// cache glyph data without locking.
	font *font.Font
	data []byte

	// HarfbuzzShaper keeps internal buffers and is not safe for concurrent
	// use, so each Shape call takes one from the pool.
	pool sync.Pool
}

// NewShaper parses fontData (TrueType or OpenType) and returns a Shaper
// for it.
func NewShaper(fontData []byte) (*Shaper, error) {
	if len(fontData) == 0 {
		return nil, ErrEmptyFont
	}
	face, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	s := &Shaper{font: face.Font, data: fontData}
	s.pool.New = func() any { return &shaping.HarfbuzzShaper{} }
	return s, nil
}

// FontData returns the bytes the Shaper was created from.
func (s *Shaper) FontData() []byte { return s.data }

// Shape lays out str on a single line at size pixels per em.
// An empty string or a non-positive size yields an empty Line.
//
// Text whose runs are all right-to-left is shaped right-to-left; glyphs are
// still returned in visual order. Mixed-direction text is not reordered.
func (s *Shaper) Shape(str string, size float32) Line {
	line := Line{Size: size}
	if str == "" || size <= 0 {
		return line
	}
	runes := []rune(str)

	hb, _ := s.pool.Get().(*shaping.HarfbuzzShaper)
	defer s.pool.Put(hb)

	out := hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: detectDirection(str),
		Face:      font.NewFace(s.font),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})

	line.Ascent = fixedToFloat(out.LineBounds.Ascent)
	line.Descent = -fixedToFloat(out.LineBounds.Descent)
	line.Glyphs = make([]PositionedGlyph, 0, len(out.Glyphs))

	var penX, penY float32
	for i := range out.Glyphs {
		g := &out.Glyphs[i]
		adv := fixedToFloat(g.Advance)
		line.Glyphs = append(line.Glyphs, PositionedGlyph{
			ID:      GlyphID(g.GlyphID), //nolint:gosec // glyph ids fit 16 bits
			X:       penX + fixedToFloat(g.XOffset),
			Y:       penY - fixedToFloat(g.YOffset),
			Advance: adv,
			Cluster: g.TextIndex(),
		})
		penX += adv
	}
	line.Width = penX
	return line
}

// GlyphIDs returns the distinct glyph ids on the line in first-use order.
func (l Line) GlyphIDs() []GlyphID {
	seen := make(map[GlyphID]struct{}, len(l.Glyphs))
	ids := make([]GlyphID, 0, len(l.Glyphs))
	for _, g := range l.Glyphs {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	return ids
}

// Bounds returns the line box relative to origin: top-left at the ascent
// above the baseline, bottom-right at the descent below it.
func (l Line) Bounds() (min, max mgl32.Vec2) {
	return mgl32.Vec2{0, -l.Ascent}, mgl32.Vec2{l.Width, l.Descent}
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// detectDirection reports DirectionRTL when every bidi run in str is
// right-to-left.
func detectDirection(str string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(str, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		if run.Direction() != bidi.RightToLeft {
			return di.DirectionLTR
		}
	}
	return di.DirectionRTL
}

func floatToFixed(v float32) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }
