// Command gfxdemo draws an animated source tree with the gfx batching layer.
//
// By default it opens an OpenGL 4.1 window. With -headless it renders a
// fixed number of frames on the recording backend and prints the draw
// statistics of the last frame.
package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime"

	"github.com/gourcego/gfx"
	_ "github.com/gourcego/gfx/backend/gl"
)

func init() {
	// GL calls must stay on the thread that created the context.
	runtime.LockOSThread()
}

func main() {
	var (
		width    = flag.Int("width", 1024, "window width")
		height   = flag.Int("height", 768, "window height")
		headless = flag.Bool("headless", false, "render on the recording backend and print statistics")
		frames   = flag.Int("frames", 0, "frames to render (0 runs the window until closed; headless defaults to 60)")
		files    = flag.Int("files", 12, "files per directory")
		config   = flag.String("config", "", "renderer config file (.toml, .yaml)")
	)
	flag.Parse()

	cfg := gfx.DefaultConfig()
	if *config != "" {
		var err error
		if cfg, err = gfx.LoadConfig(*config); err != nil {
			slog.Error("gfxdemo: config", "err", err)
			os.Exit(1)
		}
	}
	level, err := cfg.Level()
	if err != nil {
		slog.Error("gfxdemo: config", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gfx.SetLogger(logger)

	run := demo{
		width:       *width,
		height:      *height,
		frames:      *frames,
		filesPerDir: *files,
		opts:        cfg.Options(),
	}
	if *headless {
		if run.frames <= 0 {
			run.frames = 60
		}
		err = run.headless(os.Stdout)
	} else {
		err = run.window()
	}
	if err != nil {
		slog.Error("gfxdemo", "err", err)
		os.Exit(1)
	}
}

// demo holds the run parameters shared by both modes.
type demo struct {
	width, height int
	frames        int
	filesPerDir   int
	opts          []gfx.Option
}
