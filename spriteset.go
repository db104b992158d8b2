package scanline

// SpriteEntry locates one sprite image inside a spriteset's pixel blob.
type SpriteEntry struct {
	Name       string
	X, Y, W, H int
}

type spritesetData struct {
	entries    []SpriteEntry
	names      map[string]int
	pix        *pixelBlock
	pitch      int
	palette    Palette
	ownPalette bool
}

func (s *spritesetData) at(entry, x, y int) uint8 {
	se := &s.entries[entry]
	return s.pix.pix[(se.Y+y)*s.pitch+se.X+x]
}

// CreateSpriteset builds a spriteset over an indexed pixel blob of w×h pixels
// with rows pitch bytes apart. The blob is copied. Every entry must lie inside
// the blob.
func (e *Engine) CreateSpriteset(entries []SpriteEntry, data []uint8, w, h, pitch int, pal Palette) (Spriteset, error) {
	const op = "CreateSpriteset"
	if data == nil || len(entries) == 0 {
		return 0, e.fail(op, ErrNullPointer)
	}
	if w <= 0 || h <= 0 || pitch < w || len(data) < (h-1)*pitch+w {
		return 0, e.fail(op, ErrWrongSize)
	}
	for _, se := range entries {
		if se.W <= 0 || se.H <= 0 || se.X < 0 || se.Y < 0 || se.X+se.W > w || se.Y+se.H > h {
			return 0, e.fail(op, ErrWrongSize)
		}
	}
	if pal != 0 {
		if _, err := e.palette(op, pal); err != nil {
			return 0, err
		}
	}
	blob := newPixelBlock(h * pitch)
	copy(blob.pix, data)
	sd := &spritesetData{
		entries: append([]SpriteEntry(nil), entries...),
		pix:     blob,
		pitch:   pitch,
		palette: pal,
	}
	sd.index()
	return e.addSpriteset(op, sd)
}

func (s *spritesetData) index() {
	s.names = make(map[string]int, len(s.entries))
	for i, se := range s.entries {
		if se.Name == "" {
			continue
		}
		if _, dup := s.names[se.Name]; !dup {
			s.names[se.Name] = i
		}
	}
}

func (e *Engine) addSpriteset(op string, sd *spritesetData) (Spriteset, error) {
	h := e.spritesets.add(sd)
	if h == 0 {
		return 0, e.fail(op, ErrOutOfMemory)
	}
	e.palettes.retain(uint32(sd.palette))
	return Spriteset(h), e.ok()
}

func (e *Engine) spriteset(op string, ss Spriteset) (*spritesetData, error) {
	sd := e.spritesets.get(uint32(ss))
	if sd == nil {
		return nil, e.fail(op, ErrRefSpriteset)
	}
	return sd, nil
}

// SpriteInfo returns the entry of ss at index.
func (e *Engine) SpriteInfo(ss Spriteset, index int) (SpriteEntry, error) {
	const op = "SpriteInfo"
	sd, err := e.spriteset(op, ss)
	if err != nil {
		return SpriteEntry{}, err
	}
	if index < 0 || index >= len(sd.entries) {
		return SpriteEntry{}, e.fail(op, ErrIdxPicture)
	}
	return sd.entries[index], e.ok()
}

// SpritesetLen returns the number of entries in ss.
func (e *Engine) SpritesetLen(ss Spriteset) int {
	sd, err := e.spriteset("SpritesetLen", ss)
	if err != nil {
		return 0
	}
	e.ok()
	return len(sd.entries)
}

// FindSpritesetSprite returns the index of the entry called name.
func (e *Engine) FindSpritesetSprite(ss Spriteset, name string) (int, error) {
	const op = "FindSpritesetSprite"
	sd, err := e.spriteset(op, ss)
	if err != nil {
		return -1, err
	}
	i, ok := sd.names[name]
	if !ok {
		return -1, e.fail(op, ErrFileNotFound)
	}
	return i, e.ok()
}

// SpritesetPalette returns the default palette of ss.
func (e *Engine) SpritesetPalette(ss Spriteset) Palette {
	sd, err := e.spriteset("SpritesetPalette", ss)
	if err != nil {
		return 0
	}
	e.ok()
	return sd.palette
}

// CloneSpriteset copies ss, sharing its pixel blob.
// A palette owned by the source is co-owned by the copy and freed with the
// last of them.
func (e *Engine) CloneSpriteset(ss Spriteset) (Spriteset, error) {
	const op = "CloneSpriteset"
	sd, err := e.spriteset(op, ss)
	if err != nil {
		return 0, err
	}
	c := &spritesetData{
		entries:    append([]SpriteEntry(nil), sd.entries...),
		pix:        sd.pix.share(),
		pitch:      sd.pitch,
		palette:    sd.palette,
		ownPalette: sd.ownPalette,
	}
	c.index()
	h, err := e.addSpriteset(op, c)
	if err != nil {
		sd.pix.drop()
	}
	return h, err
}

// DeleteSpriteset frees ss. It fails with ErrResourceInUse while a sprite
// still uses it.
func (e *Engine) DeleteSpriteset(ss Spriteset) error {
	const op = "DeleteSpriteset"
	sd, err := e.spriteset(op, ss)
	if err != nil {
		return err
	}
	if e.spritesets.refs(uint32(ss)) > 0 {
		return e.fail(op, ErrResourceInUse)
	}
	sd.pix.drop()
	e.spritesets.remove(uint32(ss))
	e.releaseOwnedPalette(sd.palette, sd.ownPalette)
	return e.ok()
}
