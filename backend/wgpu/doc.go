// Package wgpu implements gpucore.Device on top of the gogpu/wgpu HAL.
//
// Buffers map one to one onto hal buffers and are written with
// Queue.WriteBuffer. Draws are recorded into a single render pass per frame
// that targets the view passed to [Device.BeginFrame]. The pass is
// submitted by [Device.EndFrame].
//
// # Pass splitting
//
// Queue writes execute before any command buffer submitted after them, so a
// buffer rewrite while the open pass still references that buffer would be
// visible to draws recorded earlier in the frame. The device detects this
// and flushes: it ends the pass, submits it, and reopens a new pass that
// loads the existing contents. The uniform ring flushes the same way when it
// runs out of slots.
//
// # Shaders
//
// Programs are written in WGSL and embedded into the binary. [NewShader]
// validates the source with naga before creating the shader module, so a
// broken program fails at setup instead of at the first draw. Uniform
// names follow gpucore (u_mvp, u_texture, u_use_texture). All programs share
// one pipeline layout: group 0 is the uniform block at a dynamic offset,
// group 1 is the texture on unit 0 with a linear clamp sampler.
//
// # Usage
//
//	dev, err := wgpu.New(halDevice, halQueue, wgpu.WithFormat(format))
//	if err != nil {
//		return err
//	}
//	defer dev.Destroy()
//
//	basic, _ := dev.NewShader(wgpu.ShaderBasic)
//	bloom, _ := dev.NewShader(wgpu.ShaderBloom)
//	r, _ := gfx.NewRenderer(dev, gfx.WithShaders(gfx.ShaderSet{Basic: basic, Bloom: bloom}))
//
//	dev.BeginFrame(view, width, height)
//	// draw through r
//	dev.EndFrame()
//
// A Device is not safe for concurrent use.
package wgpu
