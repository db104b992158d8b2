package scanline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

var sheetPalette = color.Palette{
	color.RGBA{0, 0, 0, 255},
	color.RGBA{255, 0, 0, 255},
	color.RGBA{0, 255, 0, 255},
}

// indexedSheet returns a w×h paletted image whose left half uses index 1
// and right half index 2.
func indexedSheet(w, h int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, w, h), sheetPalette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetColorIndex(x, y, 1)
			if x >= w/2 {
				img.SetColorIndex(x, y, 2)
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newLoadEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Config{Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// --- Images ---

func TestLoadTileset(t *testing.T) {
	e := newLoadEngine(t)
	ts, err := e.LoadTileset(bytes.NewReader(encodePNG(t, indexedSheet(8, 4))), 4, 4)
	must(t, err)

	info, err := e.TilesetInfo(ts)
	must(t, err)
	if info.NumTiles != 2 || info.TileWidth != 4 || info.TileHeight != 4 {
		t.Errorf("TilesetInfo = %+v, want 2 tiles of 4x4", info)
	}
	for entry, want := range map[int]uint8{1: 1, 2: 2} {
		pix, err := e.TilesetPixels(ts, entry)
		must(t, err)
		for i, p := range pix {
			if p != want {
				t.Fatalf("tile %d pixel %d = %d, want %d", entry, i, p, want)
			}
		}
	}
	if c, _ := e.PaletteColor(info.Palette, 1); c != red {
		t.Errorf("palette entry 1 = %v, want red", c)
	}

	must(t, e.DeleteTileset(ts))
	if rc := e.ResourceCounts(); rc.Palettes != 0 || rc.Tilesets != 0 {
		t.Errorf("after delete: %+v, want owned palette freed", rc)
	}
}

func TestLoadedPaletteFollowsClones(t *testing.T) {
	e := newLoadEngine(t)
	ts, err := e.LoadTileset(bytes.NewReader(encodePNG(t, indexedSheet(8, 4))), 4, 4)
	must(t, err)
	clone, err := e.CloneTileset(ts)
	must(t, err)
	bm, err := e.LoadBitmap(bytes.NewReader(encodePNG(t, indexedSheet(4, 2))))
	must(t, err)
	bmClone, err := e.CloneBitmap(bm)
	must(t, err)

	must(t, e.DeleteTileset(ts))
	must(t, e.DeleteBitmap(bm))
	if rc := e.ResourceCounts(); rc.Palettes != 2 {
		t.Fatalf("palettes after deleting the sources = %d, want 2", rc.Palettes)
	}
	if c, _ := e.PaletteColor(e.TilesetPalette(clone), 1); c != red {
		t.Errorf("clone palette entry 1 = %v, want red", c)
	}

	must(t, e.DeleteTileset(clone))
	must(t, e.DeleteBitmap(bmClone))
	if rc := e.ResourceCounts(); rc.Palettes != 0 {
		t.Errorf("palettes after deleting every copy = %d, want 0", rc.Palettes)
	}
}

func TestLoadTilesetErrors(t *testing.T) {
	e := newLoadEngine(t)
	rgba := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	tests := []struct {
		name string
		data []byte
		w, h int
		kind ErrorKind
	}{
		{"not a grid", encodePNG(t, indexedSheet(8, 4)), 3, 4, ErrWrongSize},
		{"smaller than a tile", encodePNG(t, indexedSheet(8, 4)), 16, 4, ErrWrongSize},
		{"zero tile size", encodePNG(t, indexedSheet(8, 4)), 0, 4, ErrWrongSize},
		{"true color", encodePNG(t, rgba), 4, 4, ErrWrongFormat},
		{"garbage", []byte("not an image"), 4, 4, ErrWrongFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := e.LoadTileset(bytes.NewReader(tt.data), tt.w, tt.h)
			if ts != 0 {
				t.Errorf("handle = %d, want 0", ts)
			}
			wantKind(t, "LoadTileset", err, tt.kind)
		})
	}
	if rc := e.ResourceCounts(); rc.Palettes != 0 {
		t.Errorf("failed loads left %d palettes", rc.Palettes)
	}
}

func TestLoadBitmapIndexed(t *testing.T) {
	e := newLoadEngine(t)
	b, err := e.LoadBitmap(bytes.NewReader(encodePNG(t, indexedSheet(6, 2))))
	must(t, err)
	info, err := e.BitmapInfo(b)
	must(t, err)
	if info.Width != 6 || info.Height != 2 || info.Depth != 8 || info.Palette == 0 {
		t.Errorf("BitmapInfo = %+v", info)
	}
	pix, _ := e.BitmapPixels(b)
	if pix[0] != 1 || pix[5] != 2 {
		t.Errorf("pixels = %v", pix)
	}
	must(t, e.DeleteBitmap(b))
	if rc := e.ResourceCounts(); rc.Palettes != 0 {
		t.Errorf("owned palette not freed: %+v", rc)
	}
}

func TestLoadBitmapTrueColor(t *testing.T) {
	e := newLoadEngine(t)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})
	b, err := e.LoadBitmap(bytes.NewReader(encodePNG(t, img)))
	must(t, err)
	info, _ := e.BitmapInfo(b)
	if info.Depth != 32 || info.Pitch != 8 || info.Palette != 0 {
		t.Errorf("BitmapInfo = %+v", info)
	}
	pix, _ := e.BitmapPixels(b)
	if !bytes.Equal(pix[:4], []byte{10, 20, 30, 255}) {
		t.Errorf("pixel 0 = %v", pix[:4])
	}
	if pix[7] != 0 {
		t.Errorf("pixel 1 alpha = %d, want 0", pix[7])
	}
}

func TestLoadBitmapBMP(t *testing.T) {
	e := newLoadEngine(t)
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, indexedSheet(4, 2)); err != nil {
		t.Fatal(err)
	}
	b, err := e.LoadBitmap(&buf)
	must(t, err)
	info, _ := e.BitmapInfo(b)
	if info.Width != 4 || info.Height != 2 || info.Depth != 8 {
		t.Errorf("BitmapInfo = %+v", info)
	}
	if c, _ := e.PaletteColor(info.Palette, 2); c != green {
		t.Errorf("palette entry 2 = %v, want green", c)
	}
}

func TestLoadPalette(t *testing.T) {
	e := newLoadEngine(t)
	p, err := e.LoadPalette(bytes.NewReader(encodePNG(t, indexedSheet(2, 2))))
	must(t, err)
	if n := e.PaletteEntries(p); n != len(sheetPalette) {
		t.Errorf("PaletteEntries = %d, want %d", n, len(sheetPalette))
	}
	if c, _ := e.PaletteColor(p, 2); c != green {
		t.Errorf("entry 2 = %v, want green", c)
	}
	_, err = e.LoadPalette(nil)
	wantKind(t, "nil reader", err, ErrNullPointer)
}

// --- Spritesets ---

const hashSheet = `{
	"frames": {
		"walk_1": {"frame": {"x": 2, "y": 0, "w": 2, "h": 2}},
		"walk_0": {"frame": {"x": 0, "y": 0, "w": 2, "h": 2}}
	},
	"meta": {"image": "hero.png"}
}`

const arraySheet = `{
	"textures": [{
		"image": "hero.png",
		"frames": {
			"walk_1": {"frame": {"x": 2, "y": 0, "w": 2, "h": 2}},
			"walk_0": {"frame": {"x": 0, "y": 0, "w": 2, "h": 2}}
		}
	}]
}`

func TestLoadSpriteset(t *testing.T) {
	for name, doc := range map[string]string{"hash": hashSheet, "array": arraySheet} {
		t.Run(name, func(t *testing.T) {
			e := newLoadEngine(t)
			ss, err := e.LoadSpriteset([]byte(doc), bytes.NewReader(encodePNG(t, indexedSheet(4, 2))))
			must(t, err)
			if n := e.SpritesetLen(ss); n != 2 {
				t.Fatalf("SpritesetLen = %d, want 2", n)
			}
			idx, err := e.FindSpritesetSprite(ss, "walk_1")
			must(t, err)
			if idx != 1 {
				t.Errorf("walk_1 index = %d, want 1", idx)
			}
			se, _ := e.SpriteInfo(ss, 1)
			if se.X != 2 || se.W != 2 || se.H != 2 {
				t.Errorf("SpriteInfo = %+v", se)
			}
			if e.SpritesetPalette(ss) == 0 {
				t.Error("spriteset has no palette")
			}
		})
	}
}

func TestLoadSpritesetErrors(t *testing.T) {
	e := newLoadEngine(t)
	sheet := encodePNG(t, indexedSheet(4, 2))
	tests := []struct {
		name string
		doc  string
		kind ErrorKind
	}{
		{"bad json", `{"frames":`, ErrWrongFormat},
		{"no frames key", `{"meta": {}}`, ErrWrongFormat},
		{"empty textures", `{"textures": []}`, ErrWrongFormat},
		{"frame outside sheet", `{"frames": {"a": {"frame": {"x": 3, "y": 0, "w": 2, "h": 2}}}}`, ErrWrongSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.LoadSpriteset([]byte(tt.doc), bytes.NewReader(sheet))
			wantKind(t, "LoadSpriteset", err, tt.kind)
		})
	}
	if rc := e.ResourceCounts(); rc.Palettes != 0 || rc.Spritesets != 0 {
		t.Errorf("failed loads leaked resources: %+v", rc)
	}
}

// --- Tilemaps ---

func TestLoadTilemapCSV(t *testing.T) {
	e := newLoadEngine(t)
	tm, err := e.LoadTilemapCSV(strings.NewReader("1,2,\n2147483652,0\n"), 1)
	must(t, err)
	rows, cols, _ := e.TilemapSize(tm)
	if rows != 2 || cols != 2 {
		t.Fatalf("TilemapSize = %d, %d, want 2, 2", rows, cols)
	}
	tests := []struct {
		row, col int
		want     Tile
	}{
		{0, 0, Tile{Index: 1}},
		{0, 1, Tile{Index: 2}},
		{1, 0, Tile{Index: 4, Flags: FlagFlipX}},
		{1, 1, Tile{}},
	}
	for _, tt := range tests {
		got, err := e.TilemapTile(tm, tt.row, tt.col)
		must(t, err)
		if got != tt.want {
			t.Errorf("tile (%d, %d) = %+v, want %+v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestLoadTilemapCSVErrors(t *testing.T) {
	e := newLoadEngine(t)
	tests := []struct {
		name string
		csv  string
		kind ErrorKind
	}{
		{"ragged", "1,2,\n3\n", ErrWrongSize},
		{"not a number", "1,x\n", ErrWrongFormat},
		{"empty", "", ErrWrongSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.LoadTilemapCSV(strings.NewReader(tt.csv), 1)
			wantKind(t, "LoadTilemapCSV", err, tt.kind)
		})
	}
	_, err := e.LoadTilemapCSV(nil, 1)
	wantKind(t, "nil reader", err, ErrNullPointer)
}

// --- Files ---

func TestLoadFiles(t *testing.T) {
	e := newLoadEngine(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "tiles.png")
	if err := os.WriteFile(path, encodePNG(t, indexedSheet(8, 8)), 0o644); err != nil {
		t.Fatal(err)
	}

	ts, err := e.LoadTilesetFile(path, 4, 4)
	must(t, err)
	if info, _ := e.TilesetInfo(ts); info.NumTiles != 4 {
		t.Errorf("NumTiles = %d, want 4", info.NumTiles)
	}
	b, err := e.LoadBitmapFile(path)
	must(t, err)
	if info, _ := e.BitmapInfo(b); info.Width != 8 {
		t.Errorf("bitmap width = %d, want 8", info.Width)
	}

	missing := filepath.Join(dir, "missing.png")
	_, err = e.LoadTilesetFile(missing, 4, 4)
	wantKind(t, "LoadTilesetFile", err, ErrFileNotFound)
	_, err = e.LoadBitmapFile(missing)
	wantKind(t, "LoadBitmapFile", err, ErrFileNotFound)
	_, err = e.LoadSequencePackFile(missing)
	wantKind(t, "LoadSequencePackFile", err, ErrFileNotFound)
}
