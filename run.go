package scanline

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Scale   int  // window size multiplier, default 2
	TPS     int  // frames per second, default 60
	ShowFPS bool // draw an FPS/TPS counter in the top-left corner
}

// host adapts an Engine to ebiten.Game. Every tick polls input, runs the
// caller's update and renders one full frame into an RGBA buffer that Draw
// uploads to the window.
type host struct {
	e      *Engine
	update func(in *Input) error
	input  Input
	buf    []byte
	img    *ebiten.Image
	tps    int
	ticks  int
	fps    *fpsOverlay
}

// Run opens a window showing e and drives its frame loop until the window
// is closed, InputQuit is pressed or update returns an error. Frame times
// passed to the engine are milliseconds derived from the tick count, so
// animations are independent of wall-clock jitter.
func Run(e *Engine, cfg RunConfig, update func(in *Input) error) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	h := &host{
		e:      e,
		update: update,
		buf:    make([]byte, e.width*e.height*4),
		tps:    cfg.TPS,
	}
	if cfg.ShowFPS {
		h.fps = &fpsOverlay{}
	}
	if err := e.SetRenderTarget(h.buf, e.width*4); err != nil {
		return err
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(e.width*cfg.Scale, e.height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(h)
}

func (h *host) Update() error {
	h.input.poll()
	if h.input.Pressed(InputQuit) {
		return ebiten.Termination
	}
	if h.update != nil {
		if err := h.update(&h.input); err != nil {
			return err
		}
	}
	if h.fps != nil {
		h.fps.update(1 / float64(h.tps))
	}
	t := h.ticks * 1000 / h.tps
	h.ticks++
	return h.e.UpdateFrame(t)
}

func (h *host) Draw(screen *ebiten.Image) {
	if h.img == nil {
		h.img = ebiten.NewImage(h.e.width, h.e.height)
	}
	h.img.WritePixels(h.buf)
	screen.DrawImage(h.img, nil)
	if h.fps != nil {
		h.fps.draw(screen)
	}
}

func (h *host) Layout(_, _ int) (int, int) {
	return h.e.width, h.e.height
}
