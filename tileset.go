package scanline

// tilesetData stores numTiles+1 tiles back to back; entry 0 is the reserved
// empty tile and is never drawn.
type tilesetData struct {
	tileW, tileH int
	numTiles     int
	pix          *pixelBlock
	palette      Palette
	ownPalette   bool
}

func (t *tilesetData) tileSize() int { return t.tileW * t.tileH }

// CreateTileset allocates numTiles blank tiles of w×h pixels, addressed
// 1..numTiles. pal is the default palette for layers using the tileset and
// may be 0.
func (e *Engine) CreateTileset(numTiles, w, h int, pal Palette) (Tileset, error) {
	const op = "CreateTileset"
	if numTiles <= 0 || w <= 0 || h <= 0 {
		return 0, e.fail(op, ErrWrongSize)
	}
	if pal != 0 {
		if _, err := e.palette(op, pal); err != nil {
			return 0, err
		}
	}
	td := &tilesetData{
		tileW:    w,
		tileH:    h,
		numTiles: numTiles,
		pix:      newPixelBlock((numTiles + 1) * w * h),
		palette:  pal,
	}
	return e.addTileset(op, td)
}

func (e *Engine) addTileset(op string, td *tilesetData) (Tileset, error) {
	h := e.tilesets.add(td)
	if h == 0 {
		return 0, e.fail(op, ErrOutOfMemory)
	}
	e.palettes.retain(uint32(td.palette))
	return Tileset(h), e.ok()
}

func (e *Engine) tileset(op string, ts Tileset) (*tilesetData, error) {
	td := e.tilesets.get(uint32(ts))
	if td == nil {
		return nil, e.fail(op, ErrRefTileset)
	}
	return td, nil
}

// SetTilesetPixels copies one tile image from src, whose rows are pitch bytes
// apart, into entry (1..numTiles).
func (e *Engine) SetTilesetPixels(ts Tileset, entry int, src []uint8, pitch int) error {
	const op = "SetTilesetPixels"
	td, err := e.tileset(op, ts)
	if err != nil {
		return err
	}
	if entry < 1 || entry > td.numTiles {
		return e.fail(op, ErrIdxPicture)
	}
	if src == nil {
		return e.fail(op, ErrNullPointer)
	}
	if pitch < td.tileW || len(src) < (td.tileH-1)*pitch+td.tileW {
		return e.fail(op, ErrWrongSize)
	}
	td.pix = td.pix.writable()
	base := entry * td.tileSize()
	for y := 0; y < td.tileH; y++ {
		copy(td.pix.pix[base+y*td.tileW:base+(y+1)*td.tileW], src[y*pitch:y*pitch+td.tileW])
	}
	return e.ok()
}

// TilesetPixels returns a copy of one tile image.
func (e *Engine) TilesetPixels(ts Tileset, entry int) ([]uint8, error) {
	const op = "TilesetPixels"
	td, err := e.tileset(op, ts)
	if err != nil {
		return nil, err
	}
	if entry < 0 || entry > td.numTiles {
		return nil, e.fail(op, ErrIdxPicture)
	}
	base := entry * td.tileSize()
	return append([]uint8(nil), td.pix.pix[base:base+td.tileSize()]...), e.ok()
}

// CopyTile overwrites entry dst with the image of entry src.
func (e *Engine) CopyTile(ts Tileset, src, dst int) error {
	const op = "CopyTile"
	td, err := e.tileset(op, ts)
	if err != nil {
		return err
	}
	if src < 1 || src > td.numTiles || dst < 1 || dst > td.numTiles {
		return e.fail(op, ErrIdxPicture)
	}
	td.pix = td.pix.writable()
	n := td.tileSize()
	copy(td.pix.pix[dst*n:(dst+1)*n], td.pix.pix[src*n:(src+1)*n])
	return e.ok()
}

// TilesetInfo describes a tileset.
type TilesetInfo struct {
	TileWidth, TileHeight int
	NumTiles              int
	Palette               Palette
}

// TilesetInfo returns the dimensions and default palette of ts.
func (e *Engine) TilesetInfo(ts Tileset) (TilesetInfo, error) {
	td, err := e.tileset("TilesetInfo", ts)
	if err != nil {
		return TilesetInfo{}, err
	}
	return TilesetInfo{
		TileWidth:  td.tileW,
		TileHeight: td.tileH,
		NumTiles:   td.numTiles,
		Palette:    td.palette,
	}, e.ok()
}

// TilesetPalette returns the default palette of ts.
func (e *Engine) TilesetPalette(ts Tileset) Palette {
	td, err := e.tileset("TilesetPalette", ts)
	if err != nil {
		return 0
	}
	e.ok()
	return td.palette
}

// CloneTileset copies ts. Pixel data is shared until either copy is written.
// A palette owned by the source is co-owned by the copy and freed with the
// last of them.
func (e *Engine) CloneTileset(ts Tileset) (Tileset, error) {
	const op = "CloneTileset"
	td, err := e.tileset(op, ts)
	if err != nil {
		return 0, err
	}
	c := *td
	c.pix = td.pix.share()
	h, err := e.addTileset(op, &c)
	if err != nil {
		td.pix.drop()
	}
	return h, err
}

// DeleteTileset frees ts. It fails with ErrResourceInUse while a layer still
// uses it.
func (e *Engine) DeleteTileset(ts Tileset) error {
	const op = "DeleteTileset"
	td, err := e.tileset(op, ts)
	if err != nil {
		return err
	}
	if e.tilesets.refs(uint32(ts)) > 0 {
		return e.fail(op, ErrResourceInUse)
	}
	td.pix.drop()
	e.tilesets.remove(uint32(ts))
	e.releaseOwnedPalette(td.palette, td.ownPalette)
	return e.ok()
}
