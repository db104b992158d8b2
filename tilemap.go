package scanline

// GID flag bits used by Tiled exports.
const (
	gidFlipH    uint32 = 1 << 31
	gidFlipV    uint32 = 1 << 30
	gidFlipD    uint32 = 1 << 29
	gidFlagMask uint32 = gidFlipH | gidFlipV | gidFlipD
)

// Tile is one tilemap cell. Index 0 is empty; index k draws tileset entry k.
type Tile struct {
	Index uint16
	Flags TileFlags
}

type tilemapData struct {
	rows, cols int
	tiles      []Tile
}

// CreateTilemap allocates a rows×cols grid. tiles is copied when non-nil and
// must hold rows*cols cells in row-major order.
func (e *Engine) CreateTilemap(rows, cols int, tiles []Tile) (Tilemap, error) {
	const op = "CreateTilemap"
	if rows <= 0 || cols <= 0 {
		return 0, e.fail(op, ErrWrongSize)
	}
	data := make([]Tile, rows*cols)
	if tiles != nil {
		if len(tiles) != rows*cols {
			return 0, e.fail(op, ErrWrongSize)
		}
		copy(data, tiles)
	}
	return e.addTilemap(op, &tilemapData{rows: rows, cols: cols, tiles: data})
}

// CreateTilemapFromGIDs builds a tilemap from Tiled global tile IDs. firstGID
// is the tileset's first GID; a GID of 0 is an empty cell.
func (e *Engine) CreateTilemapFromGIDs(rows, cols int, gids []uint32, firstGID uint32) (Tilemap, error) {
	const op = "CreateTilemapFromGIDs"
	if rows <= 0 || cols <= 0 || len(gids) != rows*cols {
		return 0, e.fail(op, ErrWrongSize)
	}
	tiles := make([]Tile, len(gids))
	for i, g := range gids {
		t, ok := tileFromGID(g, firstGID)
		if !ok {
			return 0, e.fail(op, ErrWrongFormat)
		}
		tiles[i] = t
	}
	return e.addTilemap(op, &tilemapData{rows: rows, cols: cols, tiles: tiles})
}

func tileFromGID(gid, firstGID uint32) (Tile, bool) {
	id := gid &^ gidFlagMask
	if id == 0 {
		return Tile{}, true
	}
	if firstGID == 0 {
		firstGID = 1
	}
	if id < firstGID || id-firstGID+1 > 0xFFFF {
		return Tile{}, false
	}
	t := Tile{Index: uint16(id - firstGID + 1)}
	if gid&gidFlipH != 0 {
		t.Flags |= FlagFlipX
	}
	if gid&gidFlipV != 0 {
		t.Flags |= FlagFlipY
	}
	if gid&gidFlipD != 0 {
		t.Flags |= FlagRotate
	}
	return t, true
}

func (e *Engine) addTilemap(op string, md *tilemapData) (Tilemap, error) {
	h := e.tilemaps.add(md)
	if h == 0 {
		return 0, e.fail(op, ErrOutOfMemory)
	}
	return Tilemap(h), e.ok()
}

func (e *Engine) tilemap(op string, tm Tilemap) (*tilemapData, error) {
	md := e.tilemaps.get(uint32(tm))
	if md == nil {
		return nil, e.fail(op, ErrRefTilemap)
	}
	return md, nil
}

// TilemapSize returns the number of rows and columns of tm.
func (e *Engine) TilemapSize(tm Tilemap) (rows, cols int, err error) {
	md, err := e.tilemap("TilemapSize", tm)
	if err != nil {
		return 0, 0, err
	}
	return md.rows, md.cols, e.ok()
}

// TilemapTile returns the cell at (row, col).
func (e *Engine) TilemapTile(tm Tilemap, row, col int) (Tile, error) {
	const op = "TilemapTile"
	md, err := e.tilemap(op, tm)
	if err != nil {
		return Tile{}, err
	}
	if row < 0 || row >= md.rows || col < 0 || col >= md.cols {
		return Tile{}, e.fail(op, ErrIdxPicture)
	}
	return md.tiles[row*md.cols+col], e.ok()
}

// SetTilemapTile replaces the cell at (row, col).
func (e *Engine) SetTilemapTile(tm Tilemap, row, col int, t Tile) error {
	const op = "SetTilemapTile"
	md, err := e.tilemap(op, tm)
	if err != nil {
		return err
	}
	if row < 0 || row >= md.rows || col < 0 || col >= md.cols {
		return e.fail(op, ErrIdxPicture)
	}
	md.tiles[row*md.cols+col] = t
	return e.ok()
}

// CopyTiles copies a rows×cols block of cells from src at (srcRow, srcCol)
// into dst at (dstRow, dstCol). src and dst may be the same tilemap.
func (e *Engine) CopyTiles(src Tilemap, srcRow, srcCol, rows, cols int, dst Tilemap, dstRow, dstCol int) error {
	const op = "CopyTiles"
	sm, err := e.tilemap(op, src)
	if err != nil {
		return err
	}
	dm, err := e.tilemap(op, dst)
	if err != nil {
		return err
	}
	if rows < 0 || cols < 0 ||
		srcRow < 0 || srcCol < 0 || srcRow+rows > sm.rows || srcCol+cols > sm.cols ||
		dstRow < 0 || dstCol < 0 || dstRow+rows > dm.rows || dstCol+cols > dm.cols {
		return e.fail(op, ErrIdxPicture)
	}
	block := make([]Tile, 0, rows*cols)
	for r := 0; r < rows; r++ {
		off := (srcRow+r)*sm.cols + srcCol
		block = append(block, sm.tiles[off:off+cols]...)
	}
	for r := 0; r < rows; r++ {
		off := (dstRow+r)*dm.cols + dstCol
		copy(dm.tiles[off:off+cols], block[r*cols:(r+1)*cols])
	}
	return e.ok()
}

// CloneTilemap returns an independent copy of tm.
func (e *Engine) CloneTilemap(tm Tilemap) (Tilemap, error) {
	md, err := e.tilemap("CloneTilemap", tm)
	if err != nil {
		return 0, err
	}
	return e.addTilemap("CloneTilemap", &tilemapData{
		rows:  md.rows,
		cols:  md.cols,
		tiles: append([]Tile(nil), md.tiles...),
	})
}

// DeleteTilemap frees tm. It fails with ErrResourceInUse while a layer still
// uses it.
func (e *Engine) DeleteTilemap(tm Tilemap) error {
	const op = "DeleteTilemap"
	if _, err := e.tilemap(op, tm); err != nil {
		return err
	}
	if e.tilemaps.refs(uint32(tm)) > 0 {
		return e.fail(op, ErrResourceInUse)
	}
	e.tilemaps.remove(uint32(tm))
	return e.ok()
}
