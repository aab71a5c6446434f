package gl

import (
	"errors"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"

	"github.com/gourcego/gfx/gpucore"
)

// ErrEmptyImage is returned by CreateTexture for a zero-sized image.
var ErrEmptyImage = errors.New("gl: empty image")

// CreateTexture uploads img as an RGBA8 texture with linear filtering and
// edge clamping. The returned handle is the GL texture name.
func (d *Device) CreateTexture(img image.Image) (gpucore.TextureID, error) {
	b := img.Bounds()
	if b.Empty() {
		return 0, ErrEmptyImage
	}
	rgba := toRGBA(img)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(b.Dx()), int32(b.Dy()), 0, //nolint:gosec // image bounds
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))
	gl.BindTexture(gl.TEXTURE_2D, uint32(d.textureBind))
	return gpucore.TextureID(tex), nil
}

// DestroyTexture releases a texture created by CreateTexture.
func (d *Device) DestroyTexture(tex gpucore.TextureID) {
	if tex == 0 {
		return
	}
	name := uint32(tex)
	gl.DeleteTextures(1, &name)
	if d.textureBind == tex {
		d.textureBind = 0
	}
}

// toRGBA returns img as a tightly packed RGBA image with origin (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*b.Dx() && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
