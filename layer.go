package scanline

type layerMode uint8

const (
	modeNormal layerMode = iota
	modeScaling
	modeAffine
)

// layer is one background plane. It holds references on everything it binds.
type layer struct {
	tileset Tileset
	tilemap Tilemap
	bitmap  Bitmap
	palette Palette // override; 0 uses the tileset or bitmap palette
	enabled bool

	hstart, vstart int
	columns        []int

	mode   layerMode
	sx, sy float64
	affine Affine

	blend  BlendMode
	factor uint8

	clip             Rect
	mosaicW, mosaicH int
	priority         bool

	// alias remaps tile indices for tileset and tilemap animations.
	alias    []uint16
	reported bool
}

func (l *layer) reset(w, h int) {
	*l = layer{clip: Rect{0, 0, w, h}, sx: 1, sy: 1}
}

func (e *Engine) layerAt(op string, n int) (*layer, error) {
	if n < 0 || n >= len(e.layers) {
		return nil, e.fail(op, ErrIdxLayer)
	}
	return &e.layers[n], nil
}

func (e *Engine) releaseLayer(l *layer) {
	e.tilesets.release(uint32(l.tileset))
	e.tilemaps.release(uint32(l.tilemap))
	e.bitmaps.release(uint32(l.bitmap))
	e.palettes.release(uint32(l.palette))
	l.tileset, l.tilemap, l.bitmap, l.palette = 0, 0, 0, 0
}

// SetLayer binds a tileset and tilemap to layer n and enables it. Any bitmap
// or palette override previously bound is released.
func (e *Engine) SetLayer(n int, ts Tileset, tm Tilemap) error {
	const op = "SetLayer"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if _, err := e.tileset(op, ts); err != nil {
		return err
	}
	if _, err := e.tilemap(op, tm); err != nil {
		return err
	}
	e.tilesets.retain(uint32(ts))
	e.tilemaps.retain(uint32(tm))
	e.releaseLayer(l)
	l.tileset, l.tilemap = ts, tm
	l.alias = nil
	l.enabled, l.reported = true, false
	return e.ok()
}

// SetLayerTileset replaces the tileset of layer n and enables it.
func (e *Engine) SetLayerTileset(n int, ts Tileset) error {
	const op = "SetLayerTileset"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if _, err := e.tileset(op, ts); err != nil {
		return err
	}
	e.tilesets.retain(uint32(ts))
	e.tilesets.release(uint32(l.tileset))
	e.bitmaps.release(uint32(l.bitmap))
	l.tileset, l.bitmap = ts, 0
	l.alias = nil
	l.enabled, l.reported = true, false
	return e.ok()
}

// SetLayerTilemap replaces the tilemap of layer n and enables it.
func (e *Engine) SetLayerTilemap(n int, tm Tilemap) error {
	const op = "SetLayerTilemap"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if _, err := e.tilemap(op, tm); err != nil {
		return err
	}
	e.tilemaps.retain(uint32(tm))
	e.tilemaps.release(uint32(l.tilemap))
	e.bitmaps.release(uint32(l.bitmap))
	l.tilemap, l.bitmap = tm, 0
	l.enabled, l.reported = true, false
	return e.ok()
}

// SetLayerBitmap binds a bitmap to layer n instead of a tileset and tilemap.
func (e *Engine) SetLayerBitmap(n int, b Bitmap) error {
	const op = "SetLayerBitmap"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if _, err := e.bitmap(op, b); err != nil {
		return err
	}
	e.bitmaps.retain(uint32(b))
	e.releaseLayer(l)
	l.bitmap = b
	l.alias = nil
	l.enabled, l.reported = true, false
	return e.ok()
}

// SetLayerPalette overrides the palette of layer n. A zero handle restores
// the palette of the bound tileset or bitmap.
func (e *Engine) SetLayerPalette(n int, p Palette) error {
	const op = "SetLayerPalette"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if p != 0 {
		if _, err := e.palette(op, p); err != nil {
			return err
		}
		e.palettes.retain(uint32(p))
	}
	e.palettes.release(uint32(l.palette))
	l.palette = p
	return e.ok()
}

// LayerPalette returns the palette layer n draws with.
func (e *Engine) LayerPalette(n int) Palette {
	l, err := e.layerAt("LayerPalette", n)
	if err != nil {
		return 0
	}
	e.ok()
	return e.effectiveLayerPalette(l)
}

func (e *Engine) effectiveLayerPalette(l *layer) Palette {
	if l.palette != 0 {
		return l.palette
	}
	if bd := e.bitmaps.get(uint32(l.bitmap)); bd != nil {
		return bd.palette
	}
	if td := e.tilesets.get(uint32(l.tileset)); td != nil {
		return td.palette
	}
	return 0
}

// layerSize returns the layer's extent in pixels, or false if it has no
// tilemap or bitmap that determines one.
func (e *Engine) layerSize(l *layer) (w, h int, ok bool) {
	if bd := e.bitmaps.get(uint32(l.bitmap)); bd != nil {
		return bd.w, bd.h, true
	}
	md := e.tilemaps.get(uint32(l.tilemap))
	td := e.tilesets.get(uint32(l.tileset))
	if md == nil || td == nil {
		return 0, 0, false
	}
	return md.cols * td.tileW, md.rows * td.tileH, true
}

// LayerSize returns the size in pixels of the content bound to layer n.
func (e *Engine) LayerSize(n int) (w, h int, err error) {
	const op = "LayerSize"
	l, err := e.layerAt(op, n)
	if err != nil {
		return 0, 0, err
	}
	w, h, ok := e.layerSize(l)
	if !ok {
		return 0, 0, e.fail(op, ErrRefTilemap)
	}
	return w, h, e.ok()
}

// SetLayerPosition sets the scroll origin of layer n. The position wraps
// around the layer size.
func (e *Engine) SetLayerPosition(n, hstart, vstart int) error {
	const op = "SetLayerPosition"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	w, h, ok := e.layerSize(l)
	if !ok {
		return e.fail(op, ErrRefTilemap)
	}
	l.hstart = wrap(hstart, w)
	l.vstart = wrap(vstart, h)
	return e.ok()
}

// LayerPosition returns the scroll origin of layer n.
func (e *Engine) LayerPosition(n int) (hstart, vstart int, err error) {
	l, err := e.layerAt("LayerPosition", n)
	if err != nil {
		return 0, 0, err
	}
	return l.hstart, l.vstart, e.ok()
}

// SetLayerScaling scales layer n independently on each axis. It clears any
// affine transform.
func (e *Engine) SetLayerScaling(n int, sx, sy float64) error {
	const op = "SetLayerScaling"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if sx <= 0 || sy <= 0 {
		return e.fail(op, ErrWrongSize)
	}
	l.mode = modeScaling
	l.sx, l.sy = sx, sy
	l.affine = Affine{}
	return e.ok()
}

// SetLayerTransform rotates layer n by angle degrees around the point
// (dx, dy) relative to its scroll origin, then scales it. It clears any
// independent scaling.
func (e *Engine) SetLayerTransform(n int, angle, dx, dy, sx, sy float64) error {
	return e.setAffine("SetLayerTransform", n, Affine{Angle: angle, Dx: dx, Dy: dy, Sx: sx, Sy: sy})
}

// SetLayerAffineTransform is SetLayerTransform taking an Affine value.
func (e *Engine) SetLayerAffineTransform(n int, a Affine) error {
	return e.setAffine("SetLayerAffineTransform", n, a)
}

func (e *Engine) setAffine(op string, n int, a Affine) error {
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if a.Sx == 0 || a.Sy == 0 {
		return e.fail(op, ErrWrongSize)
	}
	l.mode = modeAffine
	l.affine = a
	l.sx, l.sy = 1, 1
	return e.ok()
}

// ResetLayerMode removes scaling and affine transforms from layer n.
func (e *Engine) ResetLayerMode(n int) error {
	l, err := e.layerAt("ResetLayerMode", n)
	if err != nil {
		return err
	}
	l.mode = modeNormal
	l.sx, l.sy = 1, 1
	l.affine = Affine{}
	return e.ok()
}

// SetLayerBlendMode sets how layer n combines with what is beneath it.
// factor is used by BlendMix only.
func (e *Engine) SetLayerBlendMode(n int, mode BlendMode, factor uint8) error {
	const op = "SetLayerBlendMode"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if mode >= blendModeCount {
		return e.fail(op, ErrUnsupported)
	}
	l.blend, l.factor = mode, factor
	return e.ok()
}

// SetLayerColumnOffset sets per-column vertical offsets for layer n: output
// column x samples offsets[x] rows further down. The slice is retained, so
// later writes to it take effect on the next scanline. nil disables offsets.
// Offsets do not apply to affine layers.
func (e *Engine) SetLayerColumnOffset(n int, offsets []int) error {
	const op = "SetLayerColumnOffset"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if offsets != nil && len(offsets) < e.width {
		return e.fail(op, ErrWrongSize)
	}
	l.columns = offsets
	return e.ok()
}

// SetLayerClip restricts layer n to the rectangle [x1,x2)×[y1,y2), clamped
// to the viewport.
func (e *Engine) SetLayerClip(n, x1, y1, x2, y2 int) error {
	const op = "SetLayerClip"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	l.clip = Rect{
		X1: clampInt(x1, 0, e.width),
		Y1: clampInt(y1, 0, e.height),
		X2: clampInt(x2, 0, e.width),
		Y2: clampInt(y2, 0, e.height),
	}
	return e.ok()
}

// DisableLayerClip restores the full-viewport clip on layer n.
func (e *Engine) DisableLayerClip(n int) error {
	l, err := e.layerAt("DisableLayerClip", n)
	if err != nil {
		return err
	}
	l.clip = Rect{0, 0, e.width, e.height}
	return e.ok()
}

// SetLayerMosaic pixelates layer n into w×h blocks.
func (e *Engine) SetLayerMosaic(n, w, h int) error {
	const op = "SetLayerMosaic"
	l, err := e.layerAt(op, n)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return e.fail(op, ErrWrongSize)
	}
	l.mosaicW, l.mosaicH = w, h
	return e.ok()
}

// DisableLayerMosaic turns pixelation off on layer n.
func (e *Engine) DisableLayerMosaic(n int) error {
	l, err := e.layerAt("DisableLayerMosaic", n)
	if err != nil {
		return err
	}
	l.mosaicW, l.mosaicH = 0, 0
	return e.ok()
}

// SetLayerPriority draws the whole of layer n in front of regular sprites.
func (e *Engine) SetLayerPriority(n int, enabled bool) error {
	l, err := e.layerAt("SetLayerPriority", n)
	if err != nil {
		return err
	}
	l.priority = enabled
	return e.ok()
}

// DisableLayer stops drawing layer n and releases everything bound to it.
func (e *Engine) DisableLayer(n int) error {
	l, err := e.layerAt("DisableLayer", n)
	if err != nil {
		return err
	}
	e.releaseLayer(l)
	l.reset(e.width, e.height)
	return e.ok()
}

// LayerEnabled reports whether layer n is drawn.
func (e *Engine) LayerEnabled(n int) bool {
	l, err := e.layerAt("LayerEnabled", n)
	if err != nil {
		return false
	}
	e.ok()
	return l.enabled
}

// LayerTileInfo describes the tilemap cell under a viewport point.
type LayerTileInfo struct {
	Tile
	Row, Col int
	XOffset  int // pixel offset inside the tile
	YOffset  int
}

// LayerTile returns the cell of layer n under viewport point (x, y), taking
// the scroll position into account. Scaling and affine transforms are ignored.
func (e *Engine) LayerTile(n, x, y int) (LayerTileInfo, error) {
	const op = "LayerTile"
	l, err := e.layerAt(op, n)
	if err != nil {
		return LayerTileInfo{}, err
	}
	md := e.tilemaps.get(uint32(l.tilemap))
	td := e.tilesets.get(uint32(l.tileset))
	if md == nil {
		return LayerTileInfo{}, e.fail(op, ErrRefTilemap)
	}
	if td == nil {
		return LayerTileInfo{}, e.fail(op, ErrRefTileset)
	}
	xs := wrap(l.hstart+x, md.cols*td.tileW)
	ys := wrap(l.vstart+y, md.rows*td.tileH)
	info := LayerTileInfo{
		Row:     ys / td.tileH,
		Col:     xs / td.tileW,
		XOffset: xs % td.tileW,
		YOffset: ys % td.tileH,
	}
	info.Tile = md.tiles[info.Row*md.cols+info.Col]
	return info, e.ok()
}

// setAlias makes cells holding index from draw the image of entry to.
func (l *layer) setAlias(from, to int, numTiles int) {
	if from <= 0 || from > numTiles {
		return
	}
	if len(l.alias) != numTiles+1 {
		l.alias = make([]uint16, numTiles+1)
		for i := range l.alias {
			l.alias[i] = uint16(i)
		}
	}
	l.alias[from] = uint16(to)
}

func wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
