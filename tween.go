package scanline

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of engine state simultaneously.
// Create one via the convenience constructors (TweenLayerPosition,
// TweenSpritePosition, TweenLayerScaling, TweenPaletteMix) and call
// Update(dt) each frame, before rendering. If the target layer or sprite is
// disabled, or a palette is deleted, the group stops immediately.
//
// There is no global tween manager; callers own their groups.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	vals   [4]float32
	apply  func(vals [4]float32) error
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// engine. Done is set once every tween has finished or the target is gone.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.vals[i] = val
		if !finished {
			allDone = false
		}
	}
	if err := g.apply(g.vals); err != nil {
		g.Done = true
		return
	}
	g.Done = allDone
}

// TweenLayerPosition scrolls layer n from its current position to (toX, toY)
// over duration seconds.
func (e *Engine) TweenLayerPosition(n, toX, toY int, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	x, y, err := e.LayerPosition(n)
	if err != nil {
		return nil, err
	}
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(x), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(y), float32(toY), duration, fn)
	g.apply = func(v [4]float32) error {
		if !e.LayerEnabled(n) {
			return e.fail("TweenLayerPosition", ErrUnsupported)
		}
		return e.SetLayerPosition(n, roundInt(v[0]), roundInt(v[1]))
	}
	return g, nil
}

// TweenSpritePosition moves sprite n from its current position to (toX, toY)
// over duration seconds.
func (e *Engine) TweenSpritePosition(n, toX, toY int, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	x, y, err := e.SpritePosition(n)
	if err != nil {
		return nil, err
	}
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(x), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(y), float32(toY), duration, fn)
	g.apply = func(v [4]float32) error {
		if !e.SpriteEnabled(n) {
			return e.fail("TweenSpritePosition", ErrUnsupported)
		}
		return e.SetSpritePosition(n, roundInt(v[0]), roundInt(v[1]))
	}
	return g, nil
}

// TweenLayerScaling zooms layer n from (fromX, fromY) to (toX, toY) over
// duration seconds.
func (e *Engine) TweenLayerScaling(n int, fromX, fromY, toX, toY float64, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	if err := e.SetLayerScaling(n, fromX, fromY); err != nil {
		return nil, err
	}
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(fromX), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(fromY), float32(toY), duration, fn)
	g.apply = func(v [4]float32) error {
		if !e.LayerEnabled(n) {
			return e.fail("TweenLayerScaling", ErrUnsupported)
		}
		return e.SetLayerScaling(n, float64(v[0]), float64(v[1]))
	}
	return g, nil
}

// TweenPaletteMix crossfades dst from src1 to src2 over duration seconds by
// driving the MixPalettes factor from 0 to 255.
func (e *Engine) TweenPaletteMix(src1, src2, dst Palette, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	if err := e.MixPalettes(src1, src2, dst, 0); err != nil {
		return nil, err
	}
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(0, 255, duration, fn)
	g.apply = func(v [4]float32) error {
		return e.MixPalettes(src1, src2, dst, uint8(clampInt(roundInt(v[0]), 0, 255)))
	}
	return g, nil
}

func roundInt(v float32) int {
	return int(math.Round(float64(v)))
}
