package scanline

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenLayerPosition(t *testing.T) {
	e, _, ts, _ := layerScene(t, 1)
	must(t, e.SetLayer(0, ts, filledTilemap(t, e, 2, 4, Tile{Index: 1})))
	g, err := e.TweenLayerPosition(0, 8, 4, 1, ease.Linear)
	must(t, err)

	g.Update(0.5)
	if x, y, _ := e.LayerPosition(0); x != 4 || y != 2 {
		t.Errorf("position at half time = (%d, %d), want (4, 2)", x, y)
	}
	if g.Done {
		t.Error("Done at half time")
	}
	g.Update(0.5)
	if x, y, _ := e.LayerPosition(0); x != 8 || y != 4 {
		t.Errorf("final position = (%d, %d), want (8, 4)", x, y)
	}
	if !g.Done {
		t.Error("not Done after full duration")
	}
}

func TestTweenSpritePosition(t *testing.T) {
	e, _, _, ss := spriteScene(t)
	must(t, e.ConfigSprite(0, ss, 0))
	g, err := e.TweenSpritePosition(0, 10, -20, 2, ease.Linear)
	must(t, err)
	g.Update(1)
	if x, y, _ := e.SpritePosition(0); x != 5 || y != -10 {
		t.Errorf("position = (%d, %d), want (5, -10)", x, y)
	}
	g.Update(1)
	if x, y, _ := e.SpritePosition(0); x != 10 || y != -20 {
		t.Errorf("final position = (%d, %d), want (10, -20)", x, y)
	}
}

func TestTweenLayerScaling(t *testing.T) {
	e, buf, ts, _ := layerScene(t, 1)
	must(t, e.SetLayer(0, ts, columnsTilemap(t, e, 1, 2, 1, 2)))
	g, err := e.TweenLayerScaling(0, 1, 1, 2, 2, 1, ease.Linear)
	must(t, err)
	render(t, e, 0)
	assertPixel(t, e, buf, 6, 0, green)

	g.Update(1)
	render(t, e, 16)
	assertPixel(t, e, buf, 6, 0, red)
	if !g.Done {
		t.Error("not Done after full duration")
	}
}

func TestTweenPaletteMix(t *testing.T) {
	e, _ := newTestEngine(t, Config{Width: 4, Height: 2, Layers: 1})
	from := testPalette(t, e, ColorBlack)
	to := testPalette(t, e, white)
	dst, _ := e.CreatePalette(1)
	g, err := e.TweenPaletteMix(from, to, dst, 1, ease.Linear)
	must(t, err)
	if c := colorAt(t, e, dst, 0); c != ColorBlack {
		t.Errorf("start color = %v, want black", c)
	}
	g.Update(0.5)
	if c := colorAt(t, e, dst, 0); c != (Color{128, 128, 128}) {
		t.Errorf("half color = %v, want {128 128 128}", c)
	}
	g.Update(0.5)
	if c := colorAt(t, e, dst, 0); c != white {
		t.Errorf("end color = %v, want white", c)
	}
}

func TestTweenStopsOnDisabledTarget(t *testing.T) {
	e, _, ts, _ := layerScene(t, 1)
	must(t, e.SetLayer(0, ts, filledTilemap(t, e, 2, 4, Tile{Index: 1})))
	g, err := e.TweenLayerPosition(0, 8, 0, 1, ease.Linear)
	must(t, err)
	must(t, e.DisableLayer(0))
	g.Update(0.25)
	if !g.Done {
		t.Error("tween still running after its layer was disabled")
	}
}

func TestTweenInvalidTarget(t *testing.T) {
	e, _, _, _ := layerScene(t, 1)
	if _, err := e.TweenLayerPosition(5, 0, 0, 1, ease.Linear); err == nil {
		t.Error("TweenLayerPosition on a missing layer: want error")
	}
	_, err := e.TweenPaletteMix(0, 0, 0, 1, ease.Linear)
	wantKind(t, "TweenPaletteMix", err, ErrRefPalette)
}
