package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	"github.com/gourcego/gfx/gpucore"
)

// texture is an RGBA8 texture with its view and group 1 bind group.
type texture struct {
	tex           hal.Texture
	view          hal.TextureView
	group         hal.BindGroup
	width, height int
}

func (t *texture) destroy(dev hal.Device) {
	if t.group != nil {
		dev.DestroyBindGroup(t.group)
	}
	if t.view != nil {
		dev.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		dev.DestroyTexture(t.tex)
	}
}

// CreateTexture uploads img as an RGBA8 texture and returns its handle.
// Images of any color model are converted first.
func (d *Device) CreateTexture(img image.Image) (gpucore.TextureID, error) {
	b := img.Bounds()
	if b.Empty() {
		return 0, ErrEmptyImage
	}
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	d.nextTexture++
	id := d.nextTexture
	t, err := d.uploadTexture(fmt.Sprintf("gfx-texture-%d", id), b.Dx(), b.Dy(), rgba.Pix)
	if err != nil {
		return 0, fmt.Errorf("wgpu: create texture: %w", err)
	}
	d.textures[id] = t
	return id, nil
}

// TextureSize returns the size of a texture created by CreateTexture.
func (d *Device) TextureSize(id gpucore.TextureID) (width, height int, ok bool) {
	t, ok := d.textures[id]
	if !ok {
		return 0, 0, false
	}
	return t.width, t.height, true
}

// DestroyTexture releases a texture. Unknown handles are ignored.
func (d *Device) DestroyTexture(id gpucore.TextureID) {
	t, ok := d.textures[id]
	if !ok {
		return
	}
	delete(d.textures, id)
	if d.state.texture == id {
		d.state.texture = 0
	}
	d.retire(func() { t.destroy(d.device) })
}

// textureGroup returns the bind group for a texture handle. Zero and
// unknown handles get a 1x1 white texture so every program has a valid
// group 1.
func (d *Device) textureGroup(id gpucore.TextureID) hal.BindGroup {
	if t, ok := d.textures[id]; ok {
		return t.group
	}
	if id != 0 {
		d.logger.Debug("wgpu: unknown texture", "texture", id)
	}
	return d.white.group
}

func (d *Device) uploadTexture(label string, width, height int, pix []byte) (*texture, error) {
	size := hal.Extent3D{
		Width:              uint32(width),  //nolint:gosec // image bounds
		Height:             uint32(height), //nolint:gosec // image bounds
		DepthOrArrayLayers: 1,
	}
	t := &texture{width: width, height: height}
	var err error
	t.tex, err = d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	t.view, err = d.device.CreateTextureView(t.tex, &hal.TextureViewDescriptor{
		Label:         label,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy(d.device)
		return nil, err
	}
	t.group, err = d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: d.bind.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: d.bind.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		t.destroy(d.device)
		return nil, err
	}
	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(4 * width), RowsPerImage: uint32(height)}, //nolint:gosec // image bounds
		&size,
	)
	if err != nil {
		t.destroy(d.device)
		return nil, err
	}
	return t, nil
}
