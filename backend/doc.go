// Package backend provides a registry of graphics backends for gfx.
//
// A backend bundles a gpucore.Device with the shader set a gfx.Renderer
// needs, texture upload and frame bracketing, so a program can pick its
// device by name at runtime.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The recording backend is automatically registered on import; the OpenGL
// backend registers itself when its package is imported:
//
//	import _ "github.com/gourcego/gfx/backend/gl"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name. Open does either and initializes the result:
//
//	b, err := backend.Open("") // gl if imported, else recording
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	r, err := gfx.NewRenderer(b.Device(), gfx.WithShaders(b.Shaders()))
//
// # Frames
//
//	b.BeginFrame(w, h, clear)
//	// ... QuadBuffer, BloomBuffer and immediate-mode draws ...
//	b.EndFrame()
//
// # Available Backends
//
//   - "gl": OpenGL 4.1 core through go-gl (needs a current context at Init)
//   - "recording": headless command capture, always available
//
// The wgpu device in backend/wgpu is not registered: it is built from a
// hal device supplied by the host application.
package backend
