package recording

import (
	"image"

	"github.com/gourcego/gfx/gpucore"
)

// Compile-time interface check.
var _ gpucore.TextureDevice = (*Device)(nil)

// CreateTexture stores img and returns a new texture handle. Handles are
// assigned sequentially from 1 and never reused.
func (d *Device) CreateTexture(img image.Image) (gpucore.TextureID, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, ErrEmptyImage
	}
	d.textures = append(d.textures, img)
	tex := gpucore.TextureID(len(d.textures)) //nolint:gosec // texture count fits 32 bits
	b := img.Bounds()
	d.record(CreateTextureCommand{Texture: tex, Width: b.Dx(), Height: b.Dy()})
	return tex, nil
}

// DestroyTexture releases a texture. Unknown handles are ignored.
func (d *Device) DestroyTexture(tex gpucore.TextureID) {
	if d.Texture(tex) == nil {
		return
	}
	d.textures[tex-1] = nil
	if d.state.Texture == tex {
		d.state.Texture = 0
	}
	d.record(DestroyTextureCommand{Texture: tex})
}

// Texture returns the image behind a live texture, or nil.
func (d *Device) Texture(tex gpucore.TextureID) image.Image {
	if tex == 0 || int(tex) > len(d.textures) {
		return nil
	}
	return d.textures[tex-1]
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int {
	n := 0
	for _, img := range d.textures {
		if img != nil {
			n++
		}
	}
	return n
}
