package scanline

type bitmapData struct {
	w, h, bpp  int
	pitch      int
	pix        []uint8
	palette    Palette
	ownPalette bool
}

// CreateBitmap allocates a zeroed w×h bitmap of 8 (indexed) or 32 (RGBA)
// bits per pixel. Indexed bitmaps need a palette before they can be drawn.
func (e *Engine) CreateBitmap(w, h, bpp int) (Bitmap, error) {
	const op = "CreateBitmap"
	if w <= 0 || h <= 0 {
		return 0, e.fail(op, ErrWrongSize)
	}
	if bpp != 8 && bpp != 32 {
		return 0, e.fail(op, ErrUnsupported)
	}
	pitch := w * bpp / 8
	return e.addBitmap(op, &bitmapData{w: w, h: h, bpp: bpp, pitch: pitch, pix: make([]uint8, pitch*h)})
}

func (e *Engine) addBitmap(op string, bd *bitmapData) (Bitmap, error) {
	h := e.bitmaps.add(bd)
	if h == 0 {
		return 0, e.fail(op, ErrOutOfMemory)
	}
	e.palettes.retain(uint32(bd.palette))
	return Bitmap(h), e.ok()
}

func (e *Engine) bitmap(op string, b Bitmap) (*bitmapData, error) {
	bd := e.bitmaps.get(uint32(b))
	if bd == nil {
		return nil, e.fail(op, ErrRefBitmap)
	}
	return bd, nil
}

// BitmapPixels returns the bitmap's backing buffer for direct writes. Rows
// are BitmapInfo.Pitch bytes apart.
func (e *Engine) BitmapPixels(b Bitmap) ([]uint8, error) {
	bd, err := e.bitmap("BitmapPixels", b)
	if err != nil {
		return nil, err
	}
	return bd.pix, e.ok()
}

// BitmapInfo describes a bitmap.
type BitmapInfo struct {
	Width, Height int
	Depth         int
	Pitch         int
	Palette       Palette
}

// BitmapInfo returns the dimensions, depth and palette of b.
func (e *Engine) BitmapInfo(b Bitmap) (BitmapInfo, error) {
	bd, err := e.bitmap("BitmapInfo", b)
	if err != nil {
		return BitmapInfo{}, err
	}
	return BitmapInfo{Width: bd.w, Height: bd.h, Depth: bd.bpp, Pitch: bd.pitch, Palette: bd.palette}, e.ok()
}

// SetBitmapPalette attaches pal to b, replacing the previous palette.
func (e *Engine) SetBitmapPalette(b Bitmap, pal Palette) error {
	const op = "SetBitmapPalette"
	bd, err := e.bitmap(op, b)
	if err != nil {
		return err
	}
	if _, err := e.palette(op, pal); err != nil {
		return err
	}
	e.palettes.retain(uint32(pal))
	e.releaseOwnedPalette(bd.palette, bd.ownPalette)
	bd.palette = pal
	bd.ownPalette = false
	return e.ok()
}

// CloneBitmap returns an independent copy of b. The palette is shared.
// A palette owned by the source is co-owned by the copy and freed with the
// last of them.
func (e *Engine) CloneBitmap(b Bitmap) (Bitmap, error) {
	bd, err := e.bitmap("CloneBitmap", b)
	if err != nil {
		return 0, err
	}
	c := *bd
	c.pix = append([]uint8(nil), bd.pix...)
	return e.addBitmap("CloneBitmap", &c)
}

// DeleteBitmap frees b. It fails with ErrResourceInUse while it is bound to
// a layer or the background.
func (e *Engine) DeleteBitmap(b Bitmap) error {
	const op = "DeleteBitmap"
	bd, err := e.bitmap(op, b)
	if err != nil {
		return err
	}
	if e.bitmaps.refs(uint32(b)) > 0 {
		return e.fail(op, ErrResourceInUse)
	}
	e.bitmaps.remove(uint32(b))
	e.releaseOwnedPalette(bd.palette, bd.ownPalette)
	return e.ok()
}
