package scanline

type paletteData struct {
	colors []Color
}

// CreatePalette allocates a palette of n black entries.
func (e *Engine) CreatePalette(n int) (Palette, error) {
	if n <= 0 {
		return 0, e.fail("CreatePalette", ErrWrongSize)
	}
	return e.addPalette("CreatePalette", make([]Color, n))
}

func (e *Engine) addPalette(op string, colors []Color) (Palette, error) {
	h := e.palettes.add(&paletteData{colors: colors})
	if h == 0 {
		return 0, e.fail(op, ErrOutOfMemory)
	}
	return Palette(h), e.ok()
}

func (e *Engine) palette(op string, p Palette) (*paletteData, error) {
	pd := e.palettes.get(uint32(p))
	if pd == nil {
		return nil, e.fail(op, ErrRefPalette)
	}
	return pd, nil
}

// ClonePalette returns an independent copy of p.
func (e *Engine) ClonePalette(p Palette) (Palette, error) {
	pd, err := e.palette("ClonePalette", p)
	if err != nil {
		return 0, err
	}
	return e.addPalette("ClonePalette", append([]Color(nil), pd.colors...))
}

// DeletePalette frees p. It fails with ErrResourceInUse while any layer,
// sprite, animation, background or resource still references it.
func (e *Engine) DeletePalette(p Palette) error {
	if _, err := e.palette("DeletePalette", p); err != nil {
		return err
	}
	if e.palettes.refs(uint32(p)) > 0 {
		return e.fail("DeletePalette", ErrResourceInUse)
	}
	e.palettes.remove(uint32(p))
	return e.ok()
}

// PaletteEntries returns the number of colors in p, or 0 for an invalid handle.
func (e *Engine) PaletteEntries(p Palette) int {
	pd, err := e.palette("PaletteEntries", p)
	if err != nil {
		return 0
	}
	e.ok()
	return len(pd.colors)
}

// PaletteColor returns color index of p.
func (e *Engine) PaletteColor(p Palette, index int) (Color, error) {
	pd, err := e.palette("PaletteColor", p)
	if err != nil {
		return Color{}, err
	}
	if index < 0 || index >= len(pd.colors) {
		return Color{}, e.fail("PaletteColor", ErrIdxPicture)
	}
	return pd.colors[index], e.ok()
}

// SetPaletteColor changes one entry in place. The change is visible to every
// layer and sprite sharing the palette.
func (e *Engine) SetPaletteColor(p Palette, index int, r, g, b uint8) error {
	pd, err := e.palette("SetPaletteColor", p)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(pd.colors) {
		return e.fail("SetPaletteColor", ErrIdxPicture)
	}
	pd.colors[index] = Color{r, g, b}
	return e.ok()
}

// MixPalettes writes into dst the per-component interpolation between src1
// (factor 0) and src2 (factor 255). The three handles may alias. Entries that
// exist in only one source are copied from that source.
func (e *Engine) MixPalettes(src1, src2, dst Palette, factor uint8) error {
	p1, err := e.palette("MixPalettes", src1)
	if err != nil {
		return err
	}
	p2, err := e.palette("MixPalettes", src2)
	if err != nil {
		return err
	}
	pd, err := e.palette("MixPalettes", dst)
	if err != nil {
		return err
	}
	mixColors(pd.colors, p1.colors, p2.colors, factor)
	return e.ok()
}

func mixColors(dst, a, b []Color, factor uint8) {
	inv := 255 - factor
	for i := range dst {
		switch {
		case i < len(a) && i < len(b):
			ca, cb := a[i], b[i]
			dst[i] = Color{
				R: mod255(cb.R, factor) + mod255(ca.R, inv),
				G: mod255(cb.G, factor) + mod255(ca.G, inv),
				B: mod255(cb.B, factor) + mod255(ca.B, inv),
			}
		case i < len(a):
			dst[i] = a[i]
		case i < len(b):
			dst[i] = b[i]
		}
	}
}

func mod255(a, b uint8) uint8 {
	return uint8(int(a) * int(b) / 255)
}

// AddPaletteColor adds (r, g, b) with saturation to num entries starting at start.
func (e *Engine) AddPaletteColor(p Palette, r, g, b uint8, start, num int) error {
	return e.editPalette("AddPaletteColor", p, BlendAdd, Color{r, g, b}, start, num)
}

// SubPaletteColor subtracts (r, g, b) with saturation from num entries starting at start.
func (e *Engine) SubPaletteColor(p Palette, r, g, b uint8, start, num int) error {
	return e.editPalette("SubPaletteColor", p, BlendSub, Color{r, g, b}, start, num)
}

// ModPaletteColor multiplies num entries starting at start by (r, g, b)/255.
func (e *Engine) ModPaletteColor(p Palette, r, g, b uint8, start, num int) error {
	return e.editPalette("ModPaletteColor", p, BlendMod, Color{r, g, b}, start, num)
}

func (e *Engine) editPalette(op string, p Palette, mode BlendMode, c Color, start, num int) error {
	pd, err := e.palette(op, p)
	if err != nil {
		return err
	}
	if start < 0 || num < 0 || start+num > len(pd.colors) {
		return e.fail(op, ErrIdxPicture)
	}
	t := blendTables[mode]
	for i := start; i < start+num; i++ {
		pc := &pd.colors[i]
		pc.R = t[int(pc.R)<<8|int(c.R)]
		pc.G = t[int(pc.G)<<8|int(c.G)]
		pc.B = t[int(pc.B)<<8|int(c.B)]
	}
	return e.ok()
}
