package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// frame is the render target and the open pass between BeginFrame and
// EndFrame.
type frame struct {
	view          hal.TextureView
	width, height uint32

	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder

	// submitted holds the command buffers of flushed passes.
	submitted []submission
}

type submission struct {
	encoder hal.CommandEncoder
	cmd     hal.CommandBuffer
}

// BeginFrame opens a render pass that clears view to the clear color.
// Draws issued outside BeginFrame/EndFrame are skipped.
func (d *Device) BeginFrame(view hal.TextureView, width, height uint32) error {
	if d.frame != nil {
		return ErrFrameInProgress
	}
	if view == nil {
		return fmt.Errorf("wgpu: begin frame: nil view")
	}
	d.frame = &frame{view: view, width: width, height: height}
	if err := d.openPass(gputypes.LoadOpClear); err != nil {
		d.frame = nil
		return fmt.Errorf("wgpu: begin frame: %w", err)
	}
	d.stats.Frames++
	return nil
}

// EndFrame submits the open pass and waits for the frame's work to finish
// so retired buffers can be released.
func (d *Device) EndFrame() error {
	if d.frame == nil {
		return ErrNoFrame
	}
	err := d.closePass()
	if werr := d.device.WaitIdle(); werr != nil {
		err = errors.Join(err, fmt.Errorf("wgpu: wait idle: %w", werr))
	}
	d.releaseSubmissions()
	d.frame = nil
	d.runRetired()
	if err != nil {
		return fmt.Errorf("wgpu: end frame: %w", err)
	}
	return nil
}

// InFrame reports whether a frame is open.
func (d *Device) InFrame() bool { return d.frame != nil }

// openPass starts a new encoder and render pass on the frame view.
func (d *Device) openPass(load gputypes.LoadOp) error {
	f := d.frame
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gfx-frame"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gfx-frame"); err != nil {
		encoder.Destroy()
		return fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gfx-pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       f.view,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: d.opts.clear,
		}},
	})
	if f.width > 0 && f.height > 0 {
		pass.SetViewport(0, 0, float32(f.width), float32(f.height), 0, 1)
	}
	f.encoder, f.pass = encoder, pass
	d.serial++
	d.uniforms.next = 0
	d.stats.Passes++
	return nil
}

// closePass ends and submits the open pass.
func (d *Device) closePass() error {
	f := d.frame
	if f.pass == nil {
		return nil
	}
	f.pass.End()
	f.pass = nil
	cmd, err := f.encoder.EndEncoding()
	if err != nil {
		f.encoder.Destroy()
		f.encoder = nil
		return fmt.Errorf("end encoding: %w", err)
	}
	f.submitted = append(f.submitted, submission{encoder: f.encoder, cmd: cmd})
	f.encoder = nil
	if _, err := d.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// flush submits the open pass and continues the frame in a new pass that
// keeps the target contents.
func (d *Device) flush() {
	if err := d.closePass(); err != nil {
		d.logger.Warn("wgpu: flush failed", "err", err)
	}
	if err := d.openPass(gputypes.LoadOpLoad); err != nil {
		d.logger.Warn("wgpu: reopen pass failed", "err", err)
		return
	}
	d.stats.Flushes++
}

// abandonFrame drops the open frame without submitting its last pass.
func (d *Device) abandonFrame() {
	f := d.frame
	if f.pass != nil {
		f.pass.End()
		f.pass = nil
	}
	if f.encoder != nil {
		f.encoder.DiscardEncoding()
		f.encoder.Destroy()
		f.encoder = nil
	}
	if err := d.device.WaitIdle(); err != nil {
		d.logger.Warn("wgpu: wait idle", "err", err)
	}
	d.releaseSubmissions()
	d.frame = nil
	d.runRetired()
}

func (d *Device) releaseSubmissions() {
	for _, s := range d.frame.submitted {
		d.device.FreeCommandBuffer(s.cmd)
		s.encoder.Destroy()
	}
	d.frame.submitted = nil
}
