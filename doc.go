// Package gfx batches textured quads for a buffer-oriented GPU backend.
//
// # Overview
//
// gfx sits between drawing call sites (avatars, file icons, glow effects,
// UI chrome) and a [gpucore.Device]. The device has no quad primitive and
// no fixed-function matrix stack; gfx emulates both and keeps the number of
// draw calls per frame small.
//
// Three entry points cover the call sites:
//
//   - [Renderer]: transform stacks plus an immediate-mode facade
//     (Begin/Vertex/Color/TexCoord/End) that draws one vertex stream per call.
//   - [QuadBuffer]: many independently textured quads per frame, drawn with
//     one call per run of consecutive quads sharing a texture.
//   - [BloomBuffer]: glow quads carrying (radius, center) parameters, drawn
//     in a single call.
//
// # Quick Start
//
//	dev := recording.NewDevice()
//	basic := recording.NewShader(dev, "basic")
//
//	r, err := gfx.NewRenderer(dev, gfx.WithShaders(gfx.ShaderSet{Basic: basic}))
//	if err != nil {
//	    return err
//	}
//	defer r.Release()
//
//	r.Push2D(1280, 720)
//	defer r.Pop2D()
//
//	qb := gfx.NewQuadBuffer(r, 0)
//	qb.Add(iconTex, mgl32.Vec2{10, 10}, mgl32.Vec2{16, 16}, mgl32.Vec4{1, 1, 1, 1})
//	qb.Update()
//	qb.Draw(true)
//
// # Batch lifecycle
//
// Both batch buffers follow Empty, Accumulating (Add), Staged (Update),
// Drawn (Draw, repeatable) and back to Empty on Reset. Draw never uploads;
// call Update after the last Add of a frame.
//
// # Coordinate System
//
// Mode2D and Push2D set up pixel coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// Transform methods post-multiply the model-view, so nested
// PushModelView/TranslateMV sequences compose like parent and child nodes.
//
// # Threading
//
// Nothing in gfx is safe for concurrent use. All calls must come from the
// goroutine that owns the graphics context.
//
// # Debugging
//
// Misuse such as popping an empty stack or drawing before Update is logged
// at debug level. Build with -tags gfxdebug to panic instead.
package gfx
