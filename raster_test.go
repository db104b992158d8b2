package scanline

import (
	"bytes"
	"testing"
)

func TestBeginFrameWithoutTarget(t *testing.T) {
	e, err := NewEngine(Config{Width: 8, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	wantKind(t, "BeginFrame", e.BeginFrame(0), ErrNullPointer)
	wantKind(t, "UpdateFrame", e.UpdateFrame(0), ErrNullPointer)
}

func TestDrawNextScanlineStates(t *testing.T) {
	e, _ := newTestEngine(t, Config{Width: 8, Height: 3, Layers: 1})
	_, err := e.DrawNextScanline()
	wantKind(t, "before BeginFrame", err, ErrUnsupported)

	must(t, e.BeginFrame(0))
	for i := 0; i < 3; i++ {
		if e.Scanline() != i {
			t.Errorf("Scanline = %d, want %d", e.Scanline(), i)
		}
		more, err := e.DrawNextScanline()
		must(t, err)
		if want := i < 2; more != want {
			t.Errorf("line %d: more = %v, want %v", i, more, want)
		}
	}
	_, err = e.DrawNextScanline()
	wantKind(t, "after last line", err, ErrUnsupported)
	if e.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", e.Frame())
	}
}

func TestRasterCallbackOrder(t *testing.T) {
	e, _ := newTestEngine(t, Config{Width: 4, Height: 5, Layers: 1})
	var lines []int
	e.SetRasterCallback(func(line int) { lines = append(lines, line) })
	render(t, e, 0)
	render(t, e, 16)
	want := []int{0, 1, 2, 3, 4, 0, 1, 2, 3, 4}
	if len(lines) != len(want) {
		t.Fatalf("callback lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("callback lines = %v, want %v", lines, want)
		}
	}
}

func TestRasterCallbackChangesState(t *testing.T) {
	e, buf, ts, _ := layerScene(t, 1)
	must(t, e.SetLayer(0, ts, columnsTilemap(t, e, 1, 2, 1, 2)))
	e.SetRasterCallback(func(line int) {
		e.SetBGColor(uint8(line), 0, 0)
		// Split screen: the bottom half scrolls by one tile.
		if line == 4 {
			_ = e.SetLayerPosition(0, 4, 0)
		}
		if line == 0 {
			_ = e.SetLayerPosition(0, 0, 0)
		}
	})
	must(t, e.DisableLayer(0))
	render(t, e, 0)
	for y := 0; y < 8; y++ {
		assertPixel(t, e, buf, 0, y, Color{uint8(y), 0, 0})
	}

	must(t, e.SetLayer(0, ts, columnsTilemap(t, e, 1, 2, 1, 2)))
	render(t, e, 0)
	assertPixel(t, e, buf, 0, 3, red)
	assertPixel(t, e, buf, 0, 4, green)
}

func TestFrameCallback(t *testing.T) {
	e, _ := newTestEngine(t, Config{Width: 4, Height: 2, Layers: 1})
	var times []int
	e.SetFrameCallback(func(time int) { times = append(times, time) })
	render(t, e, 10)
	render(t, e, 26)
	if len(times) != 2 || times[0] != 10 || times[1] != 26 {
		t.Errorf("frame callback times = %v, want [10 26]", times)
	}
}

func TestPitchPaddingUntouched(t *testing.T) {
	e, err := NewEngine(Config{Width: 4, Height: 3, Layers: 1})
	if err != nil {
		t.Fatal(err)
	}
	const pitch = 4*4 + 8
	buf := bytes.Repeat([]byte{0xAB}, pitch*3)
	must(t, e.SetRenderTarget(buf, pitch))
	e.SetBGColor(1, 2, 3)
	render(t, e, 0)
	for y := 0; y < 3; y++ {
		row := buf[y*pitch : (y+1)*pitch]
		if !bytes.Equal(row[:4], []byte{1, 2, 3, 0xff}) {
			t.Errorf("row %d pixel 0 = %v", y, row[:4])
		}
		for i, b := range row[16:] {
			if b != 0xAB {
				t.Errorf("row %d padding byte %d = %#x, want 0xab", y, i, b)
			}
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	frame := func() []byte {
		e, buf := newTestEngine(t, Config{Width: 400, Height: 240, Layers: 2, Sprites: 8})
		pal := testPalette(t, e, ColorBlack, red, green, blue, white)
		ts := solidTileset(t, e, pal, 8, 1, 2, 3, 4)
		tiles := make([]Tile, 32*64)
		for i := range tiles {
			tiles[i] = Tile{Index: uint16(i%5), Flags: TileFlags(i%4) << 14}
		}
		front, _ := e.CreateTilemap(32, 64, tiles)

		backPal := testPalette(t, e, ColorBlack, gray, white)
		backTiles, err := e.CreateTileset(2, 16, 16, backPal)
		must(t, err)
		checker := make([]uint8, 16*16)
		for i := range checker {
			checker[i] = uint8(1 + (i/16+i%16)%2)
		}
		must(t, e.SetTilesetPixels(backTiles, 1, checker, 16))
		back := filledTilemap(t, e, 16, 32, Tile{Index: 1})

		must(t, e.SetLayer(0, ts, front))
		must(t, e.SetLayer(1, backTiles, back))
		must(t, e.SetLayerPosition(0, 37, 11))
		must(t, e.SetLayerBlendMode(0, BlendMix50, 0))
		render(t, e, 0)
		return buf
	}
	a, b := frame(), frame()
	if !bytes.Equal(a, b) {
		t.Error("identical scenes rendered different frames")
	}
}

func TestEndFrameEmitsEvents(t *testing.T) {
	e, _ := newTestEngine(t, Config{Width: 4, Height: 2, Layers: 1})
	rec := &eventRecorder{}
	e.SetEventSink(rec)
	render(t, e, 0)
	render(t, e, 5)
	if len(rec.events) != 0 {
		t.Errorf("events without collisions or animations = %v", rec.events)
	}
	if e.Frame() != 2 {
		t.Errorf("Frame = %d, want 2", e.Frame())
	}
}
