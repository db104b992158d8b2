package scanline

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
)

// Loaders turn encoded assets into store resources. A failed load returns the
// null handle and an *Error whose Kind is ErrWrongFormat, ErrWrongSize or
// ErrFileNotFound. Images may be PNG, GIF or BMP; tilesets, spritesets and
// palettes require an indexed (paletted) image.

func (e *Engine) decodeImage(op string, r io.Reader) (image.Image, error) {
	if r == nil {
		return nil, e.fail(op, ErrNullPointer)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, e.failErr(op, ErrWrongFormat, fmt.Errorf("decode image: %w", err))
	}
	return img, nil
}

func (e *Engine) decodeIndexed(op string, r io.Reader) (*image.Paletted, error) {
	img, err := e.decodeImage(op, r)
	if err != nil {
		return nil, err
	}
	p, ok := img.(*image.Paletted)
	if !ok {
		return nil, e.failErr(op, ErrWrongFormat, fmt.Errorf("image is %T, want indexed color", img))
	}
	return p, nil
}

func paletteColors(p color.Palette) []Color {
	colors := make([]Color, len(p))
	for i, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		colors[i] = Color{n.R, n.G, n.B}
	}
	return colors
}

// indexedRows copies the pixels of p into a tightly packed buffer.
func indexedRows(p *image.Paletted) []uint8 {
	b := p.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		off := p.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*w:(y+1)*w], p.Pix[off:off+w])
	}
	return out
}

// LoadPalette creates a palette from the color table of an indexed image.
func (e *Engine) LoadPalette(r io.Reader) (Palette, error) {
	const op = "LoadPalette"
	p, err := e.decodeIndexed(op, r)
	if err != nil {
		return 0, err
	}
	if len(p.Palette) == 0 {
		return 0, e.fail(op, ErrWrongFormat)
	}
	return e.addPalette(op, paletteColors(p.Palette))
}

// LoadBitmap creates a bitmap from an image. Indexed images become 8 bpp
// bitmaps owning a palette built from the image; others become 32 bpp.
func (e *Engine) LoadBitmap(r io.Reader) (Bitmap, error) {
	const op = "LoadBitmap"
	img, err := e.decodeImage(op, r)
	if err != nil {
		return 0, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0, e.fail(op, ErrWrongSize)
	}

	if p, ok := img.(*image.Paletted); ok {
		pal, err := e.addPalette(op, paletteColors(p.Palette))
		if err != nil {
			return 0, err
		}
		bd := &bitmapData{w: w, h: h, bpp: 8, pitch: w, pix: indexedRows(p), palette: pal, ownPalette: true}
		bm, err := e.addBitmap(op, bd)
		if err != nil {
			e.palettes.remove(uint32(pal))
		}
		return bm, err
	}

	bd := &bitmapData{w: w, h: h, bpp: 32, pitch: w * 4, pix: make([]uint8, w*h*4)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			o := y*bd.pitch + x*4
			bd.pix[o], bd.pix[o+1], bd.pix[o+2], bd.pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return e.addBitmap(op, bd)
}

// LoadTileset slices an indexed image into tileW×tileH tiles, row by row.
// The tile at grid position i becomes entry i+1. The tileset owns a palette
// built from the image.
func (e *Engine) LoadTileset(r io.Reader, tileW, tileH int) (Tileset, error) {
	const op = "LoadTileset"
	if tileW <= 0 || tileH <= 0 {
		return 0, e.fail(op, ErrWrongSize)
	}
	p, err := e.decodeIndexed(op, r)
	if err != nil {
		return 0, err
	}
	b := p.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < tileW || h < tileH || w%tileW != 0 || h%tileH != 0 {
		return 0, e.failErr(op, ErrWrongSize, fmt.Errorf("image %dx%d is not a grid of %dx%d tiles", w, h, tileW, tileH))
	}
	pal, err := e.addPalette(op, paletteColors(p.Palette))
	if err != nil {
		return 0, err
	}

	cols := w / tileW
	num := cols * (h / tileH)
	td := &tilesetData{
		tileW:      tileW,
		tileH:      tileH,
		numTiles:   num,
		pix:        newPixelBlock((num + 1) * tileW * tileH),
		palette:    pal,
		ownPalette: true,
	}
	rows := indexedRows(p)
	for i := 0; i < num; i++ {
		x0, y0 := (i%cols)*tileW, (i/cols)*tileH
		base := (i + 1) * td.tileSize()
		for y := 0; y < tileH; y++ {
			src := rows[(y0+y)*w+x0:]
			copy(td.pix.pix[base+y*tileW:base+(y+1)*tileW], src[:tileW])
		}
	}
	ts, err := e.addTileset(op, td)
	if err != nil {
		e.palettes.remove(uint32(pal))
	}
	return ts, err
}

// --- Spriteset JSON ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame jsonRect `json:"frame"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseSpriteFrames reads TexturePacker JSON in either the hash format
// ({"frames": {...}}) or the array format ({"textures": [{"frames": {...}}]},
// first page only). Entries are ordered by name.
func parseSpriteFrames(jsonData []byte) ([]SpriteEntry, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("parse spriteset JSON: %w", err)
	}

	var frames map[string]jsonFrame
	switch {
	case probe.Textures != nil:
		var pages []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &pages); err != nil {
			return nil, fmt.Errorf("parse spriteset textures array: %w", err)
		}
		if len(pages) == 0 {
			return nil, fmt.Errorf("spriteset JSON has an empty \"textures\" array")
		}
		frames = pages[0].Frames
	case probe.Frames != nil:
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("parse spriteset frames: %w", err)
		}
	default:
		return nil, fmt.Errorf("spriteset JSON has neither \"frames\" nor \"textures\" key")
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("spriteset JSON has no frames")
	}

	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]SpriteEntry, len(names))
	for i, name := range names {
		f := frames[name].Frame
		entries[i] = SpriteEntry{Name: name, X: f.X, Y: f.Y, W: f.W, H: f.H}
	}
	return entries, nil
}

// LoadSpriteset builds a spriteset from TexturePacker JSON and the indexed
// sheet image it describes. The spriteset owns a palette built from the image.
func (e *Engine) LoadSpriteset(jsonData []byte, r io.Reader) (Spriteset, error) {
	const op = "LoadSpriteset"
	entries, err := parseSpriteFrames(jsonData)
	if err != nil {
		return 0, e.failErr(op, ErrWrongFormat, err)
	}
	p, err := e.decodeIndexed(op, r)
	if err != nil {
		return 0, err
	}
	b := p.Bounds()
	pal, err := e.addPalette(op, paletteColors(p.Palette))
	if err != nil {
		return 0, err
	}
	ss, err := e.CreateSpriteset(entries, indexedRows(p), b.Dx(), b.Dy(), b.Dx(), pal)
	if err != nil {
		kind := e.lastErr
		e.palettes.remove(uint32(pal))
		return 0, &Error{Op: op, Kind: kind}
	}
	sd := e.spritesets.get(uint32(ss))
	sd.ownPalette = true
	return ss, nil
}

// LoadTilemapCSV reads a Tiled CSV layer export: one row of comma-separated
// global tile IDs per line, flip bits included.
func (e *Engine) LoadTilemapCSV(r io.Reader, firstGID uint32) (Tilemap, error) {
	const op = "LoadTilemapCSV"
	if r == nil {
		return 0, e.fail(op, ErrNullPointer)
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return 0, e.failErr(op, ErrWrongFormat, fmt.Errorf("read CSV: %w", err))
	}

	var gids []uint32
	cols := 0
	rows := 0
	for _, rec := range records {
		// Tiled ends every row but the last with a comma.
		if n := len(rec); n > 0 && strings.TrimSpace(rec[n-1]) == "" {
			rec = rec[:n-1]
		}
		if len(rec) == 0 {
			continue
		}
		if cols == 0 {
			cols = len(rec)
		} else if len(rec) != cols {
			return 0, e.fail(op, ErrWrongSize)
		}
		for _, field := range rec {
			v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
			if err != nil {
				return 0, e.failErr(op, ErrWrongFormat, fmt.Errorf("parse GID %q: %w", field, err))
			}
			gids = append(gids, uint32(v))
		}
		rows++
	}
	if rows == 0 {
		return 0, e.fail(op, ErrWrongSize)
	}
	tm, err := e.CreateTilemapFromGIDs(rows, cols, gids, firstGID)
	if err != nil {
		return 0, &Error{Op: op, Kind: e.lastErr}
	}
	return tm, nil
}

// --- Sequence pack JSON ---

type jsonSequence struct {
	Name   string      `json:"name"`
	Target int         `json:"target,omitempty"`
	Delay  int         `json:"delay,omitempty"`
	Frames []int       `json:"frames,omitempty"`
	Strips []jsonStrip `json:"strips,omitempty"`
	Timed  []jsonTimed `json:"timed,omitempty"`
}

type jsonTimed struct {
	Index int `json:"index"`
	Delay int `json:"delay"`
}

type jsonStrip struct {
	First   int  `json:"first"`
	Count   int  `json:"count"`
	Delay   int  `json:"delay"`
	Reverse bool `json:"reverse,omitempty"`
}

// LoadSequencePack reads a JSON sequence pack:
//
//	{"sequences": [
//	  {"name": "water", "target": 5, "delay": 8, "frames": [5, 6, 7]},
//	  {"name": "coin", "timed": [{"index": 0, "delay": 10}, {"index": 1, "delay": 4}]},
//	  {"name": "sea", "strips": [{"first": 16, "count": 8, "delay": 6}]}
//	]}
//
// The sequences belong to the pack and are deleted with it.
func (e *Engine) LoadSequencePack(r io.Reader) (SequencePack, error) {
	const op = "LoadSequencePack"
	if r == nil {
		return 0, e.fail(op, ErrNullPointer)
	}
	var doc struct {
		Sequences []jsonSequence `json:"sequences"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, e.failErr(op, ErrWrongFormat, fmt.Errorf("parse sequence pack: %w", err))
	}

	sp, err := e.CreateSequencePack()
	if err != nil {
		return 0, &Error{Op: op, Kind: e.lastErr}
	}
	for i, js := range doc.Sequences {
		seq, err := e.sequenceFromJSON(js)
		if err == nil {
			err = e.addToPack(op, sp, seq, true)
		}
		if err != nil {
			kind := e.lastErr
			_ = e.DeleteSequencePack(sp)
			e.lastErr = kind
			return 0, &Error{Op: op, Kind: kind, Err: fmt.Errorf("sequence %d (%q): %w", i, js.Name, err)}
		}
	}
	return sp, e.ok()
}

func (e *Engine) sequenceFromJSON(js jsonSequence) (Sequence, error) {
	switch {
	case len(js.Strips) > 0:
		strips := make([]ColorStrip, len(js.Strips))
		for i, s := range js.Strips {
			strips[i] = ColorStrip{First: s.First, Count: s.Count, Delay: s.Delay, Reverse: s.Reverse}
		}
		return e.CreateCycle(js.Name, strips)
	case len(js.Timed) > 0:
		frames := make([]SequenceFrame, len(js.Timed))
		for i, f := range js.Timed {
			frames[i] = SequenceFrame{Index: f.Index, Delay: f.Delay}
		}
		return e.CreateSequence(js.Name, js.Target, frames)
	default:
		frames := make([]SequenceFrame, len(js.Frames))
		for i, idx := range js.Frames {
			frames[i] = SequenceFrame{Index: idx, Delay: js.Delay}
		}
		return e.CreateSequence(js.Name, js.Target, frames)
	}
}

// --- File helpers ---

func (e *Engine) openAsset(op, path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, e.failErr(op, ErrFileNotFound, err)
		}
		return nil, e.failErr(op, ErrWrongFormat, err)
	}
	return f, nil
}

// LoadBitmapFile is LoadBitmap reading from path.
func (e *Engine) LoadBitmapFile(path string) (Bitmap, error) {
	f, err := e.openAsset("LoadBitmapFile", path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return e.LoadBitmap(f)
}

// LoadTilesetFile is LoadTileset reading from path.
func (e *Engine) LoadTilesetFile(path string, tileW, tileH int) (Tileset, error) {
	f, err := e.openAsset("LoadTilesetFile", path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return e.LoadTileset(f, tileW, tileH)
}

// LoadSequencePackFile is LoadSequencePack reading from path.
func (e *Engine) LoadSequencePackFile(path string) (SequencePack, error) {
	f, err := e.openAsset("LoadSequencePackFile", path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return e.LoadSequencePack(f)
}
