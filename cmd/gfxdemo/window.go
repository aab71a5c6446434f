package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/backend"
)

var clearColor = mgl32.Vec4{0.02, 0.02, 0.05, 1}

// window runs the scene in a GL window until it is closed or d.frames
// frames were shown.
func (d demo) window() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("gfxdemo: glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(d.width, d.height, "gfxdemo", nil, nil)
	if err != nil {
		return fmt.Errorf("gfxdemo: create window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	b, err := backend.Open(backend.NameGL)
	if err != nil {
		return err
	}
	defer b.Close()

	r, err := gfx.NewRenderer(b.Device(), append(d.opts, gfx.WithShaders(b.Shaders()))...)
	if err != nil {
		return err
	}
	defer r.Release()
	sc, err := newScene(b, r, d.filesPerDir)
	if err != nil {
		return err
	}
	defer sc.release()

	start := time.Now()
	for n := 0; !win.ShouldClose() && (d.frames <= 0 || n < d.frames); n++ {
		fw, fh := win.GetFramebufferSize()
		ww, wh := win.GetSize()
		if err := b.BeginFrame(fw, fh, clearColor); err != nil {
			return err
		}
		sc.draw(float32(time.Since(start).Seconds()), ww, wh)
		if err := b.EndFrame(); err != nil {
			slog.Warn("gfxdemo: frame", "frame", n, "err", err)
		}
		win.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}
