package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gourcego/gfx"
	"github.com/gourcego/gfx/backend"
)

// headless renders d.frames frames at 60 fps scene time on the recording
// backend and writes the statistics of the last frame to w.
func (d demo) headless(w io.Writer) error {
	b, err := backend.Open(backend.NameRecording)
	if err != nil {
		return err
	}
	defer b.Close()
	rec, ok := b.(*backend.RecordingBackend)
	if !ok {
		return fmt.Errorf("gfxdemo: %s is not a recording backend", b.Name())
	}

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

	for i := 0; i < d.frames; i++ {
		if err := b.BeginFrame(d.width, d.height, mgl32.Vec4{0, 0, 0, 1}); err != nil {
			return err
		}
		sc.draw(float32(i)/60, d.width, d.height)
		if err := b.EndFrame(); err != nil {
			return errors.Join(fmt.Errorf("gfxdemo: frame %d", i), err)
		}
	}

	st := rec.Recorder().Stats()
	_, err = fmt.Fprintf(w, "frames=%d draws=%d indexed=%d uploads=%d bytes=%d texture_binds=%d\n",
		rec.Frames(), st.DrawCalls, st.Indexed, st.Uploads, st.BytesWritten, st.TextureBinds)
	return err
}
