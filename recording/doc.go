// Package recording provides a gpucore.Device that captures backend calls as
// typed commands instead of talking to a GPU.
//
// The recording device keeps buffer contents in memory and tracks bind state
// exactly like a real backend would, so it can stand in for one in headless
// runs and tests. Every call is appended to a command log that can be
// inspected afterwards.
//
// Design follows the command pattern: each backend call is a typed struct
// (BufferData, BindTexture, Draw, ...) that implements [Command]. Draw
// commands carry a snapshot of the bind state they were issued with, so a
// test can check which texture and shader every draw used without replaying
// the log.
//
// # Example
//
//	dev := recording.NewDevice()
//	basic := recording.NewShader(dev, "basic")
//	r, _ := gfx.NewRenderer(dev, gfx.WithShaders(gfx.ShaderSet{Basic: basic}))
//
//	qb := gfx.NewQuadBuffer(r, 64)
//	qb.Add(1, pos, size, color)
//	qb.Update()
//	qb.Draw(true)
//
//	for _, d := range dev.DrawCalls() {
//	    fmt.Println(d.State.Texture, d.First, d.Count)
//	}
package recording
